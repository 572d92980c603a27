package service

import (
	"bytes"
	"context"

	"github.com/google/uuid"

	"heirloom/internal/document/model"
	"heirloom/internal/document/repository"
	"heirloom/internal/objstore"
	"heirloom/pkg/apperr"
	"heirloom/pkg/logger"
	"heirloom/pkg/validate"
)

// UserDirectory answers whether a user exists. Satisfied by the user
// repository.
type UserDirectory interface {
	Exists(userKey string) (bool, error)
}

// Associations assigns a document to a user on both sides of the relation.
type Associations interface {
	Add(userKey, documentKey string) error
}

type DocumentService struct {
	Repo    *repository.DocumentRepository
	Objects objstore.ObjectStore
	Users   UserDirectory
	Assoc   Associations
}

func NewDocumentService(repo *repository.DocumentRepository, objects objstore.ObjectStore, users UserDirectory, assoc Associations) *DocumentService {
	return &DocumentService{Repo: repo, Objects: objects, Users: users, Assoc: assoc}
}

// Upload stores the binary content, persists the document record and assigns
// it to the target user. The assignee's existence is verified before
// anything is written, so a bad assignTo costs nothing and the record never
// references a missing user.
func (s *DocumentService) Upload(ctx context.Context, creatorID string, up *model.Upload) (*model.Document, error) {
	if validate.IsBlank(up.AssignTo) {
		return nil, apperr.Validationf("Document could not be uploaded",
			map[string]string{"assignTo": "A user must be provided to assign the document to"})
	}

	exists, err := s.Users.Exists(up.AssignTo)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, apperr.NotFoundf("User %s not found", up.AssignTo)
	}

	if s.Objects == nil {
		return nil, apperr.Storef(nil, "Document could not be uploaded")
	}
	fileURL, err := s.Objects.Put(ctx, up.Filename, up.FileType, up.FileToken, bytes.NewReader(up.Content))
	if err != nil {
		return nil, err
	}

	doc := &model.Document{
		DocumentID:   uuid.NewString(),
		FileURL:      fileURL,
		FileToken:    up.FileToken,
		DisplayName:  up.DisplayName,
		Filename:     up.Filename,
		FileType:     up.FileType,
		DocumentType: up.DocumentType,
		Description:  up.Description,
		Size:         up.Size,
		AssignedTo:   []string{},
		CreatedBy:    creatorID,
	}
	if err := s.Repo.Create(doc); err != nil {
		return nil, err
	}

	if err := s.Assoc.Add(up.AssignTo, doc.DocumentID); err != nil {
		logger.Sugar.Errorf("Document %s created but not assigned to %s: %v", doc.DocumentID, up.AssignTo, err)
		return nil, err
	}

	// Re-read so the response reflects the persisted assignment.
	return s.Repo.GetByID(doc.DocumentID)
}

// GetDocument returns the document even when soft-deleted; direct lookups
// stay addressable for audit.
func (s *DocumentService) GetDocument(documentID string) (*model.Document, error) {
	return s.Repo.GetByID(documentID)
}

func (s *DocumentService) GetAllDocuments() ([]model.Document, error) {
	return s.Repo.ListAll()
}

func (s *DocumentService) DeleteDocument(documentID string) error {
	return s.Repo.MarkDeleted(documentID)
}

// FindByKeys resolves document keys for list views.
func (s *DocumentService) FindByKeys(keys []string) ([]model.Document, error) {
	return s.Repo.FindByKeys(keys)
}
