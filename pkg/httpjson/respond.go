// Package httpjson shapes every response body the API emits.
//
// Success responses carry the resource itself or a {message} envelope.
// Failures carry {message, errors} (validation / 500), {errors} (401 / 403)
// or {error} (404).
package httpjson

import (
	"encoding/json"
	"errors"
	"net/http"

	"heirloom/pkg/apperr"
	"heirloom/pkg/logger"
)

// Write encodes v as the JSON response body with the given status.
func Write(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Sugar.Errorf("Failed to encode response body: %v", err)
	}
}

// Message writes a {message} envelope.
func Message(w http.ResponseWriter, status int, msg string) {
	Write(w, status, map[string]string{"message": msg})
}

// Error maps err through the apperr taxonomy and writes the matching
// envelope. Unknown errors become a generic 500.
func Error(w http.ResponseWriter, err error) {
	status := apperr.Status(err)

	var e *apperr.Error
	if !errors.As(err, &e) {
		logger.Sugar.Errorf("Unclassified error: %v", err)
		Write(w, status, map[string]any{
			"message": "Something went wrong",
			"errors":  err.Error(),
		})
		return
	}

	switch e.Kind {
	case apperr.Validation:
		Write(w, status, map[string]any{"message": e.Message, "errors": e.Fields})
	case apperr.Unauthorized:
		Write(w, status, map[string]any{"errors": e.Message})
	case apperr.Forbidden:
		if e.Fields != nil {
			Write(w, status, map[string]any{"errors": e.Fields})
			return
		}
		Write(w, status, map[string]any{"errors": e.Message})
	case apperr.NotFound:
		Write(w, status, map[string]any{"error": e.Message})
	default:
		// Operators rely on logs for store failures; the body stays terse.
		logger.Sugar.Errorf("Store error: %v", e)
		Write(w, status, map[string]any{"message": e.Message, "errors": e.Error()})
	}
}
