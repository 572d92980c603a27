// Package docstore is the keyed-collection record store backing every
// entity. Records are never physically deleted: MarkDeleted stamps
// deleted_at and list scans filter stamped rows out, while direct key
// lookups keep returning them for audit.
package docstore

import (
	"database/sql"
	"encoding/json"
	"time"

	"heirloom/pkg/apperr"
	"heirloom/pkg/logger"
)

type Record struct {
	Collection string
	Key        string
	Data       json.RawMessage
	CreatedAt  time.Time
	DeletedAt  *time.Time
}

// Deleted reports whether the record carries a deletion stamp.
func (r Record) Deleted() bool { return r.DeletedAt != nil }

type Store struct {
	DB *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{DB: db}
}

// EnsureSchema creates the records table. Run once at startup.
func (s *Store) EnsureSchema() error {
	_, err := s.DB.Exec(`CREATE TABLE IF NOT EXISTS records (
		collection TEXT NOT NULL,
		key TEXT NOT NULL,
		data JSONB NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		deleted_at TIMESTAMPTZ,
		PRIMARY KEY (collection, key)
	)`)
	if err != nil {
		logger.Sugar.Errorf("Failed to ensure records schema: %v", err)
	}
	return err
}

// Create persists a new record with a fresh creation timestamp and no
// deletion stamp. Never retried: re-running a create would duplicate the
// record.
func (s *Store) Create(collection, key string, data []byte) error {
	_, err := s.DB.Exec(
		`INSERT INTO records (collection, key, data, created_at) VALUES ($1, $2, $3, NOW())`,
		collection, key, data)
	if err != nil {
		logger.Sugar.Errorf("Failed to create %s record %s: %v", collection, key, err)
		return apperr.Storef(err, "Could not create %s record", collection)
	}
	return nil
}

// GetByKey returns the record regardless of deletion state.
func (s *Store) GetByKey(collection, key string) (*Record, error) {
	rec := Record{Collection: collection, Key: key}
	err := s.DB.QueryRow(
		`SELECT data, created_at, deleted_at FROM records WHERE collection = $1 AND key = $2`,
		collection, key).Scan(&rec.Data, &rec.CreatedAt, &rec.DeletedAt)
	if err == sql.ErrNoRows {
		return nil, apperr.NotFoundf("%s %s not found", entityName(collection), key)
	}
	if err != nil {
		logger.Sugar.Errorf("Failed to get %s record %s: %v", collection, key, err)
		return nil, apperr.Storef(err, "Could not read %s record", collection)
	}
	return &rec, nil
}

// Update replaces the record's data. Creation and deletion stamps are owned
// by Create and MarkDeleted and never touched here.
func (s *Store) Update(collection, key string, data []byte) error {
	res, err := s.DB.Exec(
		`UPDATE records SET data = $3 WHERE collection = $1 AND key = $2`,
		collection, key, data)
	if err != nil {
		logger.Sugar.Errorf("Failed to update %s record %s: %v", collection, key, err)
		return apperr.Storef(err, "Could not update %s record", collection)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.NotFoundf("%s %s not found", entityName(collection), key)
	}
	return nil
}

// MarkDeleted stamps the record's deleted_at. Stamping an already-deleted
// record refreshes the stamp; it never un-deletes.
func (s *Store) MarkDeleted(collection, key string) error {
	res, err := s.DB.Exec(
		`UPDATE records SET deleted_at = NOW() WHERE collection = $1 AND key = $2`,
		collection, key)
	if err != nil {
		logger.Sugar.Errorf("Failed to mark %s record %s deleted: %v", collection, key, err)
		return apperr.Storef(err, "Could not delete %s record", collection)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.NotFoundf("%s %s not found", entityName(collection), key)
	}
	return nil
}

// ListAll scans a collection newest-first, excluding deleted records.
func (s *Store) ListAll(collection string) ([]Record, error) {
	rows, err := s.DB.Query(
		`SELECT key, data, created_at FROM records
		 WHERE collection = $1 AND deleted_at IS NULL
		 ORDER BY created_at DESC`,
		collection)
	if err != nil {
		logger.Sugar.Errorf("Failed to list %s records: %v", collection, err)
		return nil, apperr.Storef(err, "Could not list %s records", collection)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		rec := Record{Collection: collection}
		if err := rows.Scan(&rec.Key, &rec.Data, &rec.CreatedAt); err != nil {
			logger.Sugar.Errorf("Failed to scan %s record: %v", collection, err)
			continue
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Exists reports whether a live (non-deleted) record is present at key.
func (s *Store) Exists(collection, key string) (bool, error) {
	var exists bool
	err := s.DB.QueryRow(
		`SELECT EXISTS(SELECT 1 FROM records WHERE collection = $1 AND key = $2 AND deleted_at IS NULL)`,
		collection, key).Scan(&exists)
	if err != nil {
		logger.Sugar.Errorf("Failed to check %s record %s: %v", collection, key, err)
		return false, apperr.Storef(err, "Could not check %s record", collection)
	}
	return exists, nil
}

// entityName maps a collection to the singular name used in error bodies,
// e.g. "users" -> "User".
func entityName(collection string) string {
	switch collection {
	case "users":
		return "User"
	case "documents":
		return "Document"
	case "posts":
		return "Post"
	default:
		return collection
	}
}
