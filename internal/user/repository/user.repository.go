package repository

import (
	"encoding/json"

	"heirloom/internal/docstore"
	"heirloom/internal/relation"
	"heirloom/internal/user/model"
	"heirloom/pkg/apperr"
	"heirloom/pkg/logger"
)

const Collection = "users"

type UserRepository struct {
	Store *docstore.Store
}

func NewUserRepository(store *docstore.Store) *UserRepository {
	return &UserRepository{Store: store}
}

func (r *UserRepository) Create(user *model.User) error {
	data, err := json.Marshal(user)
	if err != nil {
		return apperr.Storef(err, "User could not be created")
	}
	return r.Store.Create(Collection, user.UserID, data)
}

// GetByID returns the user regardless of deactivation state.
func (r *UserRepository) GetByID(userID string) (*model.User, error) {
	rec, err := r.Store.GetByKey(Collection, userID)
	if err != nil {
		return nil, err
	}
	return fromRecord(rec)
}

// ListAll returns active users, newest first.
func (r *UserRepository) ListAll() ([]model.User, error) {
	records, err := r.Store.ListAll(Collection)
	if err != nil {
		return nil, err
	}

	users := make([]model.User, 0, len(records))
	for _, rec := range records {
		user, err := fromRecord(&rec)
		if err != nil {
			logger.Sugar.Errorf("Skipping malformed user record %s: %v", rec.Key, err)
			continue
		}
		users = append(users, *user)
	}
	return users, nil
}

func (r *UserRepository) Update(user *model.User) error {
	data, err := json.Marshal(user)
	if err != nil {
		return apperr.Storef(err, "User could not be updated")
	}
	return r.Store.Update(Collection, user.UserID, data)
}

// Deactivate soft-deletes the user record.
func (r *UserRepository) Deactivate(userID string) error {
	return r.Store.MarkDeleted(Collection, userID)
}

// Exists reports whether an active user record is present.
func (r *UserRepository) Exists(userID string) (bool, error) {
	return r.Store.Exists(Collection, userID)
}

// DocumentKeys returns the user's assigned document keys.
func (r *UserRepository) DocumentKeys(userID string) ([]string, error) {
	user, err := r.GetByID(userID)
	if err != nil {
		return nil, err
	}
	return user.Documents, nil
}

// AppendDocumentKey adds documentKey to the user's documents list with set
// semantics. One read, one conditional write: the persisted list derives
// from the record read in this call, so a concurrent append to the same
// record is never clobbered.
func (r *UserRepository) AppendDocumentKey(userID, documentKey string) error {
	user, err := r.GetByID(userID)
	if err != nil {
		return err
	}
	keys, changed := relation.AppendKey(user.Documents, documentKey)
	if !changed {
		return nil
	}
	user.Documents = keys
	return r.Update(user)
}

// RemoveDocumentKey strips documentKey from the user's documents list.
// Removing an absent key skips the write.
func (r *UserRepository) RemoveDocumentKey(userID, documentKey string) error {
	user, err := r.GetByID(userID)
	if err != nil {
		return err
	}
	keys, changed := relation.RemoveKey(user.Documents, documentKey)
	if !changed {
		return nil
	}
	user.Documents = keys
	return r.Update(user)
}

func fromRecord(rec *docstore.Record) (*model.User, error) {
	var user model.User
	if err := json.Unmarshal(rec.Data, &user); err != nil {
		return nil, apperr.Storef(err, "Could not read User record")
	}
	user.UserID = rec.Key
	user.CreatedAt = rec.CreatedAt
	user.DeactivatedAt = rec.DeletedAt
	user.IsDeactivated = rec.DeletedAt != nil
	if user.Documents == nil {
		user.Documents = []string{}
	}
	return &user, nil
}
