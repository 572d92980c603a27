package repository

import (
	"encoding/json"

	"heirloom/internal/docstore"
	"heirloom/internal/document/model"
	"heirloom/internal/relation"
	"heirloom/pkg/apperr"
	"heirloom/pkg/logger"
)

const Collection = "documents"

type DocumentRepository struct {
	Store *docstore.Store
}

func NewDocumentRepository(store *docstore.Store) *DocumentRepository {
	return &DocumentRepository{Store: store}
}

func (r *DocumentRepository) Create(doc *model.Document) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return apperr.Storef(err, "Document could not be created")
	}
	return r.Store.Create(Collection, doc.DocumentID, data)
}

// GetByID returns the document regardless of deletion state.
func (r *DocumentRepository) GetByID(documentID string) (*model.Document, error) {
	rec, err := r.Store.GetByKey(Collection, documentID)
	if err != nil {
		return nil, err
	}
	return fromRecord(rec)
}

// ListAll returns live documents, newest first.
func (r *DocumentRepository) ListAll() ([]model.Document, error) {
	records, err := r.Store.ListAll(Collection)
	if err != nil {
		return nil, err
	}

	docs := make([]model.Document, 0, len(records))
	for _, rec := range records {
		doc, err := fromRecord(&rec)
		if err != nil {
			logger.Sugar.Errorf("Skipping malformed document record %s: %v", rec.Key, err)
			continue
		}
		docs = append(docs, *doc)
	}
	return docs, nil
}

// FindByKeys resolves keys to live documents. Missing or deleted keys are
// skipped rather than failing the whole list.
func (r *DocumentRepository) FindByKeys(keys []string) ([]model.Document, error) {
	docs := make([]model.Document, 0, len(keys))
	for _, key := range keys {
		doc, err := r.GetByID(key)
		if err != nil {
			if apperr.IsKind(err, apperr.NotFound) {
				logger.Sugar.Warnf("Assigned document %s no longer exists", key)
				continue
			}
			return nil, err
		}
		if doc.DeletedAt != nil {
			continue
		}
		docs = append(docs, *doc)
	}
	return docs, nil
}

func (r *DocumentRepository) MarkDeleted(documentID string) error {
	return r.Store.MarkDeleted(Collection, documentID)
}

// Exists reports whether a live document record is present.
func (r *DocumentRepository) Exists(documentID string) (bool, error) {
	return r.Store.Exists(Collection, documentID)
}

// AppendAssignedUserKey adds userKey to the document's assignment list with
// set semantics. One read, one conditional write: the persisted list derives
// from the record read in this call, so a concurrent assignment to the same
// record is never clobbered.
func (r *DocumentRepository) AppendAssignedUserKey(documentID, userKey string) error {
	doc, err := r.GetByID(documentID)
	if err != nil {
		return err
	}
	keys, changed := relation.AppendKey(doc.AssignedTo, userKey)
	if !changed {
		return nil
	}
	doc.AssignedTo = keys
	return r.update(doc)
}

// RemoveAssignedUserKey strips userKey from the document's assignment list.
// Removing an absent key skips the write.
func (r *DocumentRepository) RemoveAssignedUserKey(documentID, userKey string) error {
	doc, err := r.GetByID(documentID)
	if err != nil {
		return err
	}
	keys, changed := relation.RemoveKey(doc.AssignedTo, userKey)
	if !changed {
		return nil
	}
	doc.AssignedTo = keys
	return r.update(doc)
}

func (r *DocumentRepository) update(doc *model.Document) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return apperr.Storef(err, "Document could not be updated")
	}
	return r.Store.Update(Collection, doc.DocumentID, data)
}

func fromRecord(rec *docstore.Record) (*model.Document, error) {
	var doc model.Document
	if err := json.Unmarshal(rec.Data, &doc); err != nil {
		return nil, apperr.Storef(err, "Could not read Document record")
	}
	doc.DocumentID = rec.Key
	doc.CreatedAt = rec.CreatedAt
	doc.DeletedAt = rec.DeletedAt
	if doc.AssignedTo == nil {
		doc.AssignedTo = []string{}
	}
	return &doc, nil
}
