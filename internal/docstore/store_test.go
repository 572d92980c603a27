package docstore

import (
	"net/http"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"heirloom/pkg/apperr"
	"heirloom/pkg/logger"
)

func TestMain(m *testing.M) {
	logger.Init()
	m.Run()
}

func newStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewStore(db), mock
}

func TestCreate(t *testing.T) {
	store, mock := newStore(t)

	mock.ExpectExec(`INSERT INTO records`).
		WithArgs("posts", "p1", []byte(`{"body":"hi"}`)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := store.Create("posts", "p1", []byte(`{"body":"hi"}`))
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByKeyReturnsDeletedRecords(t *testing.T) {
	store, mock := newStore(t)

	created := time.Now().Add(-time.Hour)
	deleted := time.Now()
	mock.ExpectQuery(`SELECT data, created_at, deleted_at FROM records`).
		WithArgs("posts", "p1").
		WillReturnRows(sqlmock.NewRows([]string{"data", "created_at", "deleted_at"}).
			AddRow([]byte(`{"body":"hi"}`), created, deleted))

	rec, err := store.GetByKey("posts", "p1")
	require.NoError(t, err)
	assert.True(t, rec.Deleted())
	assert.JSONEq(t, `{"body":"hi"}`, string(rec.Data))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByKeyNotFound(t *testing.T) {
	store, mock := newStore(t)

	mock.ExpectQuery(`SELECT data, created_at, deleted_at FROM records`).
		WithArgs("users", "missing").
		WillReturnRows(sqlmock.NewRows([]string{"data", "created_at", "deleted_at"}))

	_, err := store.GetByKey("users", "missing")
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, apperr.Status(err))
	assert.Contains(t, err.Error(), "User missing not found")
}

func TestMarkDeletedIdempotent(t *testing.T) {
	store, mock := newStore(t)

	// Both calls stamp deleted_at; the second re-stamps and still succeeds.
	mock.ExpectExec(`UPDATE records SET deleted_at = NOW\(\)`).
		WithArgs("posts", "p1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE records SET deleted_at = NOW\(\)`).
		WithArgs("posts", "p1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, store.MarkDeleted("posts", "p1"))
	assert.NoError(t, store.MarkDeleted("posts", "p1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMarkDeletedNotFound(t *testing.T) {
	store, mock := newStore(t)

	mock.ExpectExec(`UPDATE records SET deleted_at = NOW\(\)`).
		WithArgs("documents", "missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := store.MarkDeleted("documents", "missing")
	assert.Equal(t, http.StatusNotFound, apperr.Status(err))
}

func TestListAllFiltersDeleted(t *testing.T) {
	store, mock := newStore(t)

	// The query itself excludes deleted rows; assert the filter is in the SQL.
	mock.ExpectQuery(`WHERE collection = \$1 AND deleted_at IS NULL\s+ORDER BY created_at DESC`).
		WithArgs("posts").
		WillReturnRows(sqlmock.NewRows([]string{"key", "data", "created_at"}).
			AddRow("p2", []byte(`{"body":"newer"}`), time.Now()).
			AddRow("p1", []byte(`{"body":"older"}`), time.Now().Add(-time.Hour)))

	records, err := store.ListAll("posts")
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "p2", records[0].Key)
	assert.False(t, records[0].Deleted())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateNotFound(t *testing.T) {
	store, mock := newStore(t)

	mock.ExpectExec(`UPDATE records SET data = \$3`).
		WithArgs("users", "missing", []byte(`{}`)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := store.Update("users", "missing", []byte(`{}`))
	assert.Equal(t, http.StatusNotFound, apperr.Status(err))
}

func TestExists(t *testing.T) {
	store, mock := newStore(t)

	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs("users", "u1").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	ok, err := store.Exists("users", "u1")
	require.NoError(t, err)
	assert.True(t, ok)
}
