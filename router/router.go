package router

import (
	"database/sql"
	"net/http"

	"github.com/gorilla/mux"

	"heirloom/internal/docstore"
	dochandler "heirloom/internal/document"
	docrepository "heirloom/internal/document/repository"
	docservice "heirloom/internal/document/service"
	"heirloom/internal/identity"
	"heirloom/internal/objstore"
	posthandler "heirloom/internal/post"
	postrepository "heirloom/internal/post/repository"
	postservice "heirloom/internal/post/service"
	"heirloom/internal/relation"
	userhandler "heirloom/internal/user"
	userrepository "heirloom/internal/user/repository"
	userservice "heirloom/internal/user/service"
	"heirloom/middleware"
)

// Setup wires repositories, services and handlers onto the route table.
func Setup(db *sql.DB, provider identity.Provider, objects objstore.ObjectStore) http.Handler {
	store := docstore.NewStore(db)

	userRepo := userrepository.NewUserRepository(store)
	docRepo := docrepository.NewDocumentRepository(store)
	postRepo := postrepository.NewPostRepository(store)

	engine := relation.NewEngine(userRepo, docRepo)

	userService := userservice.NewUserService(userRepo, provider)
	docService := docservice.NewDocumentService(docRepo, objects, userRepo, engine)
	postService := postservice.NewPostService(postRepo)

	users := userhandler.NewUserHandler(userService, engine, docService)
	docs := dochandler.NewDocumentHandler(docService)
	posts := posthandler.NewPostHandler(postService)

	auth := middleware.Auth(provider)
	protect := func(h http.HandlerFunc) http.Handler { return auth(h) }

	r := mux.NewRouter()
	api := r.PathPrefix("/api/v1").Subrouter()

	// Posts
	api.HandleFunc("/posts", posts.GetAllPosts).Methods(http.MethodGet)
	api.Handle("/posts", protect(posts.NewPost)).Methods(http.MethodPost)
	api.HandleFunc("/posts/{postID}", posts.GetPost).Methods(http.MethodGet)
	api.Handle("/posts/{postID}", protect(posts.DeletePost)).Methods(http.MethodDelete)

	// Users
	api.HandleFunc("/users", users.GetAllUsers).Methods(http.MethodGet)
	api.HandleFunc("/users", users.NewUser).Methods(http.MethodPost)
	api.HandleFunc("/users/{userID}", users.GetUser).Methods(http.MethodGet)
	api.Handle("/users/{userID}", protect(users.UpdateUser)).Methods(http.MethodPut)
	api.Handle("/users/{userID}", protect(users.DeactivateUser)).Methods(http.MethodDelete)

	// User<->document assignments
	api.HandleFunc("/users/{userID}/documents", users.GetUserDocuments).Methods(http.MethodGet)
	api.Handle("/users/{userID}/documents/{documentID}", protect(users.AddDocument)).Methods(http.MethodPost)
	api.Handle("/users/{userID}/documents/{documentID}", protect(users.RemoveDocument)).Methods(http.MethodDelete)

	// Documents
	api.HandleFunc("/documents", docs.GetAllDocuments).Methods(http.MethodGet)
	api.Handle("/documents", protect(docs.UploadDocument)).Methods(http.MethodPost)
	api.HandleFunc("/documents/{documentID}", docs.GetDocument).Methods(http.MethodGet)
	api.Handle("/documents/{documentID}", protect(docs.DeleteDocument)).Methods(http.MethodDelete)

	// Login lives outside the API prefix.
	r.HandleFunc("/login", users.Login).Methods(http.MethodPost)

	r.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"healthy"}`))
	}).Methods(http.MethodGet)

	return middleware.CORS(r)
}
