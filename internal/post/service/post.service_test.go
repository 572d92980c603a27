package service

import (
	"net/http"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"heirloom/internal/docstore"
	"heirloom/internal/post/model"
	"heirloom/internal/post/repository"
	"heirloom/pkg/apperr"
	"heirloom/pkg/logger"
)

func TestMain(m *testing.M) {
	logger.Init()
	m.Run()
}

func newService(t *testing.T) (*PostService, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	repo := repository.NewPostRepository(docstore.NewStore(db))
	return NewPostService(repo), mock
}

func TestNewPostValidation(t *testing.T) {
	svc, mock := newService(t)

	err := svc.NewPost(model.NewPostRequest{Author: "u1", Body: "   "})
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, apperr.Status(err))

	var e *apperr.Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, "A message body must be provided for post", e.Fields["body"])

	// Validation short-circuits before any persistence attempt.
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNewPost(t *testing.T) {
	svc, mock := newService(t)

	mock.ExpectExec(`INSERT INTO records`).
		WithArgs("posts", sqlmock.AnyArg(), []byte(`{"author":"u1","body":"In memory"}`)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, svc.NewPost(model.NewPostRequest{Author: "u1", Body: "In memory"}))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeletePostTwiceIsIdempotent(t *testing.T) {
	svc, mock := newService(t)

	mock.ExpectExec(`UPDATE records SET deleted_at = NOW\(\)`).
		WithArgs("posts", "p1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE records SET deleted_at = NOW\(\)`).
		WithArgs("posts", "p1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, svc.DeletePost("p1"))
	assert.NoError(t, svc.DeletePost("p1"))
}

func TestGetAllPosts(t *testing.T) {
	svc, mock := newService(t)

	mock.ExpectQuery(`SELECT key, data, created_at FROM records`).
		WithArgs("posts").
		WillReturnRows(sqlmock.NewRows([]string{"key", "data", "created_at"}).
			AddRow("p1", []byte(`{"author":"u1","body":"hello"}`), time.Now()))

	posts, err := svc.GetAllPosts()
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, "p1", posts[0].PostID)
	assert.Equal(t, "hello", posts[0].Body)
	assert.Nil(t, posts[0].DeletedAt)
}

func TestGetPostReturnsDeleted(t *testing.T) {
	svc, mock := newService(t)

	deleted := time.Now()
	mock.ExpectQuery(`SELECT data, created_at, deleted_at FROM records`).
		WithArgs("posts", "p1").
		WillReturnRows(sqlmock.NewRows([]string{"data", "created_at", "deleted_at"}).
			AddRow([]byte(`{"author":"u1","body":"gone"}`), time.Now(), deleted))

	post, err := svc.GetPost("p1")
	require.NoError(t, err)
	require.NotNil(t, post.DeletedAt)
}
