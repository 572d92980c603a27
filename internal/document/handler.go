package handler

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gorilla/mux"

	"heirloom/internal/document/model"
	"heirloom/internal/document/service"
	"heirloom/middleware"
	"heirloom/pkg/apperr"
	"heirloom/pkg/httpjson"
	"heirloom/pkg/logger"
)

// Uploads larger than this are rejected before buffering.
const maxUploadBytes = 32 << 20

type DocumentHandler struct {
	Service *service.DocumentService
}

func NewDocumentHandler(service *service.DocumentService) *DocumentHandler {
	return &DocumentHandler{Service: service}
}

// UploadDocument streams the multipart body through an UploadBuilder: one
// File event, any number of Field events, then Finalize once the stream
// ends.
func (h *DocumentHandler) UploadDocument(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)

	reader, err := r.MultipartReader()
	if err != nil {
		httpjson.Error(w, apperr.Validationf("Document could not be uploaded",
			map[string]string{"body": "A multipart form body must be provided"}))
		return
	}

	builder := model.NewUploadBuilder()
	for {
		part, err := reader.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			httpjson.Error(w, readErr(err))
			return
		}

		if part.FileName() != "" {
			err = builder.File(part.FileName(), part.Header.Get("Content-Type"), part)
		} else {
			var value []byte
			value, err = io.ReadAll(part)
			if err == nil {
				builder.Field(part.FormName(), string(value))
			}
		}
		part.Close()
		if err != nil {
			httpjson.Error(w, readErr(err))
			return
		}
	}

	upload, err := builder.Finalize()
	if err != nil {
		httpjson.Error(w, err)
		return
	}

	actor := middleware.IdentityFrom(r.Context())
	doc, err := h.Service.Upload(r.Context(), actor.Subject, upload)
	if err != nil {
		logger.Sugar.Errorf("Handler: Failed to upload document: %v", err)
		httpjson.Error(w, err)
		return
	}
	httpjson.Write(w, http.StatusOK, doc)
}

// readErr classifies a failure while draining the multipart stream. A body
// that blew the size cap is the client's fault, not a store failure.
func readErr(err error) error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return apperr.Validationf("Document could not be uploaded",
			map[string]string{"file": "File exceeds the maximum upload size"})
	}
	var classified *apperr.Error
	if errors.As(err, &classified) {
		return err
	}
	return apperr.Validationf("Document could not be uploaded",
		map[string]string{"body": "Malformed multipart form body"})
}

func (h *DocumentHandler) GetAllDocuments(w http.ResponseWriter, r *http.Request) {
	docs, err := h.Service.GetAllDocuments()
	if err != nil {
		logger.Sugar.Errorf("Error fetching documents: %v", err)
		httpjson.Error(w, err)
		return
	}
	httpjson.Write(w, http.StatusOK, docs)
}

func (h *DocumentHandler) GetDocument(w http.ResponseWriter, r *http.Request) {
	documentID := mux.Vars(r)["documentID"]

	doc, err := h.Service.GetDocument(documentID)
	if err != nil {
		httpjson.Error(w, err)
		return
	}
	httpjson.Write(w, http.StatusOK, doc)
}

func (h *DocumentHandler) DeleteDocument(w http.ResponseWriter, r *http.Request) {
	documentID := mux.Vars(r)["documentID"]

	if err := h.Service.DeleteDocument(documentID); err != nil {
		logger.Sugar.Errorf("Handler: Failed to delete document %s: %v", documentID, err)
		httpjson.Error(w, err)
		return
	}
	httpjson.Message(w, http.StatusOK, fmt.Sprintf("Document %s successfully deleted", documentID))
}
