// Package relation keeps the bidirectional user<->document assignment
// consistent: every key in a user's documents list must appear in that
// document's assignedTo list and vice versa.
//
// There is no transaction spanning the two records. The per-record update is
// the unit of consistency: each side is a single read-modify-write in one
// store call, so the written list always derives from the record just read
// and a concurrent append to the same record is never clobbered. Both
// operations validate existence of both sides before the first write to keep
// the partial-state window as small as possible. A failure between the two
// writes is surfaced and logged, never silently rolled back.
package relation

import (
	"heirloom/pkg/apperr"
	"heirloom/pkg/logger"
)

// UserStore is the user-side slice of the engine's world. Append and Remove
// carry set semantics and must perform the whole read-modify-write inside
// one call.
type UserStore interface {
	Exists(userKey string) (bool, error)
	AppendDocumentKey(userKey, documentKey string) error
	RemoveDocumentKey(userKey, documentKey string) error
}

// DocumentStore is the document-side slice.
type DocumentStore interface {
	Exists(documentKey string) (bool, error)
	AppendAssignedUserKey(documentKey, userKey string) error
	RemoveAssignedUserKey(documentKey, userKey string) error
}

type Engine struct {
	Users     UserStore
	Documents DocumentStore
}

func NewEngine(users UserStore, documents DocumentStore) *Engine {
	return &Engine{Users: users, Documents: documents}
}

// Add assigns the document to the user on both sides. Set semantics: adding
// an already-present association leaves state unchanged.
func (e *Engine) Add(userKey, documentKey string) error {
	// Validate existence of BOTH sides before persisting EITHER side.
	if err := e.checkBothExist(userKey, documentKey); err != nil {
		return err
	}

	if err := e.Users.AppendDocumentKey(userKey, documentKey); err != nil {
		return err
	}

	if err := e.Documents.AppendAssignedUserKey(documentKey, userKey); err != nil {
		// The user side already points at the document. Operators rely on
		// this log to repair the association, not on a rollback.
		logger.Sugar.Errorf(
			"Association user=%s doc=%s persisted on user side only: %v",
			userKey, documentKey, err)
		return err
	}
	return nil
}

// Remove drops the assignment from both sides, document side first.
// Removing an absent membership is a no-op for the list itself.
func (e *Engine) Remove(userKey, documentKey string) error {
	if err := e.Documents.RemoveAssignedUserKey(documentKey, userKey); err != nil {
		return err
	}

	if err := e.Users.RemoveDocumentKey(userKey, documentKey); err != nil {
		logger.Sugar.Errorf(
			"Association user=%s doc=%s removed on document side only: %v",
			userKey, documentKey, err)
		return err
	}
	return nil
}

func (e *Engine) checkBothExist(userKey, documentKey string) error {
	ok, err := e.Users.Exists(userKey)
	if err != nil {
		return err
	}
	if !ok {
		return apperr.NotFoundf("User %s not found", userKey)
	}

	ok, err = e.Documents.Exists(documentKey)
	if err != nil {
		return err
	}
	if !ok {
		return apperr.NotFoundf("Document %s not found", documentKey)
	}
	return nil
}

// AppendKey adds key to keys with set semantics. The second result reports
// whether the list changed.
func AppendKey(keys []string, key string) ([]string, bool) {
	for _, k := range keys {
		if k == key {
			return keys, false
		}
	}
	return append(keys, key), true
}

// RemoveKey strips key from keys with set semantics. The input slice is
// never mutated.
func RemoveKey(keys []string, key string) ([]string, bool) {
	out := make([]string, 0, len(keys))
	changed := false
	for _, k := range keys {
		if k == key {
			changed = true
			continue
		}
		out = append(out, k)
	}
	return out, changed
}
