package handler

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	docmodel "heirloom/internal/document/model"
	"heirloom/internal/user/model"
	"heirloom/internal/user/service"
	"heirloom/middleware"
	"heirloom/pkg/apperr"
	"heirloom/pkg/httpjson"
	"heirloom/pkg/logger"
)

// Associations maintains the user<->document assignment on both sides.
type Associations interface {
	Add(userKey, documentKey string) error
	Remove(userKey, documentKey string) error
}

// DocumentFinder resolves document keys to documents for list views.
type DocumentFinder interface {
	FindByKeys(keys []string) ([]docmodel.Document, error)
}

type UserHandler struct {
	Service *service.UserService
	Assoc   Associations
	Docs    DocumentFinder
}

func NewUserHandler(service *service.UserService, assoc Associations, docs DocumentFinder) *UserHandler {
	return &UserHandler{Service: service, Assoc: assoc, Docs: docs}
}

func (h *UserHandler) NewUser(w http.ResponseWriter, r *http.Request) {
	var req model.NewUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpjson.Error(w, apperr.Validationf("User could not be created",
			map[string]string{"body": "Invalid request body"}))
		return
	}

	token, err := h.Service.NewUser(req)
	if err != nil {
		httpjson.Error(w, err)
		return
	}
	httpjson.Write(w, http.StatusCreated, map[string]string{"token": token})
}

func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req model.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpjson.Error(w, apperr.Validationf("User could not be authenticated",
			map[string]string{"credentials": "Invalid credentials provided"}))
		return
	}

	token, err := h.Service.Login(req)
	if err != nil {
		httpjson.Error(w, err)
		return
	}
	httpjson.Write(w, http.StatusOK, map[string]string{"token": token})
}

func (h *UserHandler) GetAllUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.Service.GetAllUsers()
	if err != nil {
		logger.Sugar.Errorf("Error fetching users: %v", err)
		httpjson.Error(w, err)
		return
	}
	httpjson.Write(w, http.StatusOK, users)
}

func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userID"]

	user, err := h.Service.GetUser(userID)
	if err != nil {
		httpjson.Error(w, err)
		return
	}
	httpjson.Write(w, http.StatusOK, user)
}

func (h *UserHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userID"]

	var body map[string]any
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		httpjson.Error(w, apperr.Validationf("User could not be updated",
			map[string]string{"body": "Invalid request body"}))
		return
	}

	user, err := h.Service.UpdateUser(userID, body)
	if err != nil {
		logger.Sugar.Errorf("Handler: Failed to update user %s: %v", userID, err)
		httpjson.Error(w, err)
		return
	}
	httpjson.Write(w, http.StatusOK, user)
}

// DeactivateUser requires admin privileges on the acting identity.
func (h *UserHandler) DeactivateUser(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userID"]
	actor := middleware.IdentityFrom(r.Context())

	if err := h.Service.Deactivate(actor.Subject, userID); err != nil {
		logger.Sugar.Errorf("Handler: Failed to deactivate user %s: %v", userID, err)
		httpjson.Error(w, err)
		return
	}
	httpjson.Message(w, http.StatusOK, fmt.Sprintf("User %s successfully deactivated", userID))
}

func (h *UserHandler) GetUserDocuments(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userID"]

	keys, err := h.Service.DocumentKeys(userID)
	if err != nil {
		httpjson.Error(w, err)
		return
	}

	docs, err := h.Docs.FindByKeys(keys)
	if err != nil {
		logger.Sugar.Errorf("Error resolving documents for user %s: %v", userID, err)
		httpjson.Error(w, err)
		return
	}
	httpjson.Write(w, http.StatusOK, docs)
}

func (h *UserHandler) AddDocument(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	userID, documentID := vars["userID"], vars["documentID"]

	if err := h.Assoc.Add(userID, documentID); err != nil {
		logger.Sugar.Errorf("Handler: Failed to assign document %s to user %s: %v", documentID, userID, err)
		httpjson.Error(w, err)
		return
	}
	httpjson.Message(w, http.StatusOK,
		fmt.Sprintf("Document %s successfully added to user %s", documentID, userID))
}

func (h *UserHandler) RemoveDocument(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	userID, documentID := vars["userID"], vars["documentID"]

	if err := h.Assoc.Remove(userID, documentID); err != nil {
		logger.Sugar.Errorf("Handler: Failed to remove document %s from user %s: %v", documentID, userID, err)
		httpjson.Error(w, err)
		return
	}
	httpjson.Message(w, http.StatusOK,
		fmt.Sprintf("Document %s successfully removed from user %s", documentID, userID))
}
