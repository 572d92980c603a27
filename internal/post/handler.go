package handler

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"heirloom/internal/post/model"
	"heirloom/internal/post/service"
	"heirloom/pkg/apperr"
	"heirloom/pkg/httpjson"
	"heirloom/pkg/logger"
)

type PostHandler struct {
	Service *service.PostService
}

func NewPostHandler(service *service.PostService) *PostHandler {
	return &PostHandler{Service: service}
}

func (h *PostHandler) NewPost(w http.ResponseWriter, r *http.Request) {
	var req model.NewPostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpjson.Error(w, apperr.Validationf("Post could not be created",
			map[string]string{"body": "Invalid request body"}))
		return
	}

	if err := h.Service.NewPost(req); err != nil {
		logger.Sugar.Errorf("Handler: Failed to create post: %v", err)
		httpjson.Error(w, err)
		return
	}
	httpjson.Message(w, http.StatusOK, "Post created successfully")
}

func (h *PostHandler) GetAllPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := h.Service.GetAllPosts()
	if err != nil {
		logger.Sugar.Errorf("Error fetching posts: %v", err)
		httpjson.Error(w, err)
		return
	}
	httpjson.Write(w, http.StatusOK, posts)
}

func (h *PostHandler) GetPost(w http.ResponseWriter, r *http.Request) {
	postID := mux.Vars(r)["postID"]

	post, err := h.Service.GetPost(postID)
	if err != nil {
		httpjson.Error(w, err)
		return
	}
	httpjson.Write(w, http.StatusOK, post)
}

func (h *PostHandler) DeletePost(w http.ResponseWriter, r *http.Request) {
	postID := mux.Vars(r)["postID"]

	if err := h.Service.DeletePost(postID); err != nil {
		logger.Sugar.Errorf("Handler: Failed to delete post %s: %v", postID, err)
		httpjson.Error(w, err)
		return
	}
	httpjson.Message(w, http.StatusOK, fmt.Sprintf("Post %s successfully deleted", postID))
}
