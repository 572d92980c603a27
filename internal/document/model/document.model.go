package model

import "time"

type Document struct {
	DocumentID   string     `json:"documentID"`
	FileURL      string     `json:"fileUrl"`
	FileToken    string     `json:"fileToken"`
	DisplayName  string     `json:"displayName"`
	Filename     string     `json:"filename"`
	FileType     string     `json:"fileType"`
	DocumentType string     `json:"documentType"`
	Description  string     `json:"description"`
	Size         int64      `json:"size"`
	AssignedTo   []string   `json:"assignedTo"`
	CreatedBy    string     `json:"createdBy"`
	CreatedAt    time.Time  `json:"createdAt"`
	DeletedAt    *time.Time `json:"deletedAt"`
}
