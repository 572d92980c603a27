package service

import (
	"github.com/google/uuid"

	"heirloom/internal/post/model"
	"heirloom/internal/post/repository"
	"heirloom/pkg/apperr"
	"heirloom/pkg/validate"
)

type PostService struct {
	Repo *repository.PostRepository
}

func NewPostService(repo *repository.PostRepository) *PostService {
	return &PostService{Repo: repo}
}

func (s *PostService) NewPost(req model.NewPostRequest) error {
	errors := map[string]string{}
	if validate.IsBlank(req.Body) {
		errors["body"] = "A message body must be provided for post"
	} else if validate.IsBlank(req.Author) {
		errors["author"] = "User ID must be provided for author of post"
	}
	if len(errors) > 0 {
		return apperr.Validationf("Post could not be created", errors)
	}

	post := &model.Post{
		PostID: uuid.NewString(),
		Author: req.Author,
		Body:   req.Body,
	}
	return s.Repo.Create(post)
}

func (s *PostService) GetAllPosts() ([]model.Post, error) {
	return s.Repo.ListAll()
}

// GetPost returns the post even when soft-deleted; direct lookups stay
// addressable for audit.
func (s *PostService) GetPost(postID string) (*model.Post, error) {
	return s.Repo.GetByID(postID)
}

func (s *PostService) DeletePost(postID string) error {
	return s.Repo.MarkDeleted(postID)
}
