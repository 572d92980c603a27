package service

import (
	"fmt"

	"heirloom/internal/identity"
	"heirloom/internal/user/model"
	"heirloom/internal/user/repository"
	"heirloom/pkg/apperr"
	"heirloom/pkg/logger"
	"heirloom/pkg/validate"
)

type UserService struct {
	Repo     *repository.UserRepository
	Identity identity.Provider
}

func NewUserService(repo *repository.UserRepository, provider identity.Provider) *UserService {
	return &UserService{Repo: repo, Identity: provider}
}

// NewUser validates the signup payload, registers the credential with the
// identity provider and persists the user record keyed by the new subject
// id. Returns the bearer token for the fresh identity.
func (s *UserService) NewUser(req model.NewUserRequest) (string, error) {
	errors := map[string]string{}

	if validate.IsBlank(req.Name) {
		errors["name"] = "Name must be provided"
	}
	if validate.IsBlank(req.Email) {
		errors["email"] = "Email address cannot be empty"
	} else if !validate.IsValidEmail(req.Email) {
		errors["email"] = fmt.Sprintf("%s is not a valid email address", req.Email)
	}
	if validate.IsBlank(req.Password) {
		errors["password"] = "Password must be provided"
	} else if req.Password != req.ConfirmPassword {
		errors["password"] = "User could not be created, password does not match"
	}
	if validate.IsBlank(req.Gender) {
		errors["gender"] = "Gender must be provided"
	}

	if len(errors) > 0 {
		return "", apperr.Validationf("User could not be created", errors)
	}

	subjectID, token, err := s.Identity.CreateIdentity(req.Email, req.Password)
	if err != nil {
		return "", err
	}

	user := &model.User{
		UserID:      subjectID,
		Name:        req.Name,
		Gender:      req.Gender,
		DateOfBirth: req.DateOfBirth,
		Email:       req.Email,
		Documents:   []string{},
		IsUser:      true,
	}
	if err := s.Repo.Create(user); err != nil {
		// The identity already exists; the record create is never retried.
		logger.Sugar.Errorf("Identity %s created but user record was not: %v", subjectID, err)
		return "", err
	}
	return token, nil
}

func (s *UserService) Login(req model.LoginRequest) (string, error) {
	if validate.IsBlank(req.Email) || validate.IsBlank(req.Password) {
		return "", apperr.Validationf("User could not be authenticated",
			map[string]string{"credentials": "Invalid credentials provided"})
	}
	return s.Identity.Authenticate(req.Email, req.Password)
}

// GetUser returns the user even when deactivated; direct lookups stay
// addressable for audit.
func (s *UserService) GetUser(userID string) (*model.User, error) {
	return s.Repo.GetByID(userID)
}

func (s *UserService) GetAllUsers() ([]model.User, error) {
	return s.Repo.ListAll()
}

// updatableFields are the fields a partial update may touch. Keys, document
// lists and admin flags are owned elsewhere.
var updatableFields = map[string]bool{
	"name": true, "photoURL": true, "gender": true, "dateOfBirth": true,
	"dateOfDeath": true, "address": true, "facebook": true, "instagram": true,
	"email": true, "phone": true, "mother": true, "father": true,
	"description": true,
}

// UpdateUser applies a partial update. Absent fields are stripped first so
// untouched fields are never overwritten with empty values.
func (s *UserService) UpdateUser(userID string, body map[string]any) (*model.User, error) {
	fields := validate.StripAbsentFields(body)

	errors := map[string]string{}
	for name := range fields {
		if !updatableFields[name] {
			errors[name] = fmt.Sprintf("%s cannot be updated", name)
		}
	}
	if email, ok := fields["email"].(string); ok && !validate.IsValidEmail(email) {
		errors["email"] = fmt.Sprintf("%s is not a valid email address", email)
	}
	if len(errors) > 0 {
		return nil, apperr.Validationf("User could not be updated", errors)
	}

	user, err := s.Repo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	applyFields(user, fields)

	if err := s.Repo.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}

// Deactivate soft-deletes the target user. Destructive, so the acting
// identity must be an admin.
func (s *UserService) Deactivate(actorID, targetID string) error {
	actor, err := s.Repo.GetByID(actorID)
	if err != nil {
		return err
	}
	if !actor.IsAdmin {
		return apperr.Forbiddenf("Admin privileges required")
	}
	return s.Repo.Deactivate(targetID)
}

// DocumentKeys returns the keys of the documents assigned to the user.
func (s *UserService) DocumentKeys(userID string) ([]string, error) {
	return s.Repo.DocumentKeys(userID)
}

func applyFields(user *model.User, fields map[string]any) {
	setStr := func(dst *string, name string) {
		if v, ok := fields[name].(string); ok {
			*dst = v
		}
	}
	setPtr := func(dst **string, name string) {
		if v, ok := fields[name].(string); ok {
			*dst = &v
		}
	}

	setStr(&user.Name, "name")
	setStr(&user.Gender, "gender")
	setStr(&user.DateOfBirth, "dateOfBirth")
	setStr(&user.Email, "email")
	setStr(&user.Description, "description")
	setPtr(&user.PhotoURL, "photoURL")
	setPtr(&user.DateOfDeath, "dateOfDeath")
	setPtr(&user.Address, "address")
	setPtr(&user.Facebook, "facebook")
	setPtr(&user.Instagram, "instagram")
	setPtr(&user.Phone, "phone")
	setPtr(&user.Mother, "mother")
	setPtr(&user.Father, "father")
}
