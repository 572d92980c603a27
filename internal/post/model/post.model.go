package model

import "time"

type Post struct {
	PostID    string     `json:"postID"`
	Author    string     `json:"author"`
	Body      string     `json:"body"`
	CreatedAt time.Time  `json:"createdAt"`
	DeletedAt *time.Time `json:"deletedAt"`
}

type NewPostRequest struct {
	Author string `json:"author"`
	Body   string `json:"body"`
}
