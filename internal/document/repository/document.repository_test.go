package repository

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"heirloom/internal/docstore"
	"heirloom/internal/document/model"
	"heirloom/pkg/logger"
)

func TestMain(m *testing.M) {
	logger.Init()
	m.Run()
}

func newRepo(t *testing.T) (*DocumentRepository, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewDocumentRepository(docstore.NewStore(db)), mock
}

func TestAppendAssignedUserKeyKeepsConcurrentAssignments(t *testing.T) {
	repo, mock := newRepo(t)

	// uX was assigned by another writer. The written list must derive from
	// this read, so uX survives the append.
	now := time.Now()
	mock.ExpectQuery(`SELECT data, created_at, deleted_at FROM records`).
		WithArgs("documents", "d1").
		WillReturnRows(sqlmock.NewRows([]string{"data", "created_at", "deleted_at"}).
			AddRow([]byte(`{"displayName":"Certificate","assignedTo":["uX"]}`), now, nil))

	payload, err := json.Marshal(&model.Document{
		DocumentID:  "d1",
		DisplayName: "Certificate",
		AssignedTo:  []string{"uX", "u1"},
		CreatedAt:   now,
	})
	require.NoError(t, err)

	mock.ExpectExec(`UPDATE records SET data = \$3`).
		WithArgs("documents", "d1", payload).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.AppendAssignedUserKey("d1", "u1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAppendAssignedUserKeyAlreadyPresentSkipsWrite(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectQuery(`SELECT data, created_at, deleted_at FROM records`).
		WithArgs("documents", "d1").
		WillReturnRows(sqlmock.NewRows([]string{"data", "created_at", "deleted_at"}).
			AddRow([]byte(`{"displayName":"Certificate","assignedTo":["u1"]}`), time.Now(), nil))

	require.NoError(t, repo.AppendAssignedUserKey("d1", "u1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRemoveAssignedUserKeyKeepsOtherEntries(t *testing.T) {
	repo, mock := newRepo(t)

	now := time.Now()
	mock.ExpectQuery(`SELECT data, created_at, deleted_at FROM records`).
		WithArgs("documents", "d1").
		WillReturnRows(sqlmock.NewRows([]string{"data", "created_at", "deleted_at"}).
			AddRow([]byte(`{"displayName":"Certificate","assignedTo":["uX","u1"]}`), now, nil))

	payload, err := json.Marshal(&model.Document{
		DocumentID:  "d1",
		DisplayName: "Certificate",
		AssignedTo:  []string{"uX"},
		CreatedAt:   now,
	})
	require.NoError(t, err)

	mock.ExpectExec(`UPDATE records SET data = \$3`).
		WithArgs("documents", "d1", payload).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.RemoveAssignedUserKey("d1", "u1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
