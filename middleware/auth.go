package middleware

import (
	"context"
	"net/http"
	"strings"

	"heirloom/internal/identity"
	"heirloom/pkg/apperr"
	"heirloom/pkg/httpjson"
	"heirloom/pkg/logger"
)

type contextKey string

const identityKey contextKey = "identity"

// IdentityFrom returns the verified identity attached by Auth, or nil when
// the request never passed through the gate.
func IdentityFrom(ctx context.Context) *identity.Identity {
	id, _ := ctx.Value(identityKey).(*identity.Identity)
	return id
}

// Auth is the authentication gate: it extracts the bearer credential from
// the Authorization header, verifies it against the identity provider and
// attaches the decoded identity to the request context. It establishes
// identity only; role checks happen downstream.
func Auth(provider identity.Provider) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				httpjson.Error(w, apperr.Unauthorizedf("Unauthorized"))
				return
			}
			tokenString := strings.TrimPrefix(header, "Bearer ")

			id, err := provider.Verify(tokenString)
			if err != nil {
				logger.Sugar.Infof("Token verification failed: %v", err)
				httpjson.Error(w, err)
				return
			}

			ctx := context.WithValue(r.Context(), identityKey, id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
