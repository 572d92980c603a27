package repository

import (
	"encoding/json"

	"heirloom/internal/docstore"
	"heirloom/internal/post/model"
	"heirloom/pkg/apperr"
	"heirloom/pkg/logger"
)

const Collection = "posts"

// payload is the slice of a post that lives in the record body. Timestamps
// belong to the record store.
type payload struct {
	Author string `json:"author"`
	Body   string `json:"body"`
}

type PostRepository struct {
	Store *docstore.Store
}

func NewPostRepository(store *docstore.Store) *PostRepository {
	return &PostRepository{Store: store}
}

func (r *PostRepository) Create(post *model.Post) error {
	data, err := json.Marshal(payload{Author: post.Author, Body: post.Body})
	if err != nil {
		return apperr.Storef(err, "Post could not be created")
	}
	return r.Store.Create(Collection, post.PostID, data)
}

// GetByID returns the post regardless of deletion state.
func (r *PostRepository) GetByID(postID string) (*model.Post, error) {
	rec, err := r.Store.GetByKey(Collection, postID)
	if err != nil {
		return nil, err
	}
	return fromRecord(rec)
}

// ListAll returns live posts, newest first.
func (r *PostRepository) ListAll() ([]model.Post, error) {
	records, err := r.Store.ListAll(Collection)
	if err != nil {
		return nil, err
	}

	posts := make([]model.Post, 0, len(records))
	for _, rec := range records {
		post, err := fromRecord(&rec)
		if err != nil {
			logger.Sugar.Errorf("Skipping malformed post record %s: %v", rec.Key, err)
			continue
		}
		posts = append(posts, *post)
	}
	return posts, nil
}

func (r *PostRepository) MarkDeleted(postID string) error {
	return r.Store.MarkDeleted(Collection, postID)
}

func fromRecord(rec *docstore.Record) (*model.Post, error) {
	var p payload
	if err := json.Unmarshal(rec.Data, &p); err != nil {
		return nil, apperr.Storef(err, "Could not read Post record")
	}
	return &model.Post{
		PostID:    rec.Key,
		Author:    p.Author,
		Body:      p.Body,
		CreatedAt: rec.CreatedAt,
		DeletedAt: rec.DeletedAt,
	}, nil
}
