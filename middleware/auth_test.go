package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"heirloom/internal/identity"
	"heirloom/pkg/apperr"
	"heirloom/pkg/logger"
)

func TestMain(m *testing.M) {
	logger.Init()
	m.Run()
}

type fakeProvider struct {
	identity *identity.Identity
	err      error
}

func (f *fakeProvider) CreateIdentity(email, password string) (string, string, error) {
	return "", "", nil
}
func (f *fakeProvider) Authenticate(email, password string) (string, error) { return "", nil }
func (f *fakeProvider) Verify(token string) (*identity.Identity, error) {
	return f.identity, f.err
}

func TestAuthMissingHeader(t *testing.T) {
	gate := Auth(&fakeProvider{})
	handler := gate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not run without a credential")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/posts", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"errors":"Unauthorized"}`, rec.Body.String())
}

func TestAuthMalformedHeader(t *testing.T) {
	gate := Auth(&fakeProvider{})
	handler := gate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not run with a malformed credential")
	}))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/posts", nil)
	req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthInvalidToken(t *testing.T) {
	gate := Auth(&fakeProvider{err: apperr.Unauthorizedf("Invalid or expired token")})
	handler := gate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not run with a rejected credential")
	}))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/posts", nil)
	req.Header.Set("Authorization", "Bearer bad-token")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthAttachesIdentity(t *testing.T) {
	want := &identity.Identity{Subject: "sub-1", Email: "a@b.com"}
	gate := Auth(&fakeProvider{identity: want})

	var got *identity.Identity
	handler := gate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = IdentityFrom(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/posts", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, want, got)
}

func TestIdentityFromWithoutGate(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Nil(t, IdentityFrom(req.Context()))
}
