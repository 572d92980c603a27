package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatus(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{Validationf("bad input", nil), http.StatusBadRequest},
		{Unauthorizedf("Unauthorized"), http.StatusUnauthorized},
		{Forbiddenf("Invalid credentials provided"), http.StatusForbidden},
		{NotFoundf("User %s not found", "u1"), http.StatusNotFound},
		{Storef(errors.New("conn refused"), "query failed"), http.StatusInternalServerError},
		{errors.New("plain error"), http.StatusInternalServerError},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, Status(c.err))
	}
}

func TestStatusWrapped(t *testing.T) {
	err := fmt.Errorf("outer: %w", NotFoundf("Document d1 not found"))
	assert.Equal(t, http.StatusNotFound, Status(err))
	assert.True(t, IsKind(err, NotFound))
	assert.False(t, IsKind(err, Validation))
}

func TestStoreUnwrap(t *testing.T) {
	cause := errors.New("pq: connection reset")
	err := Storef(cause, "could not persist record")
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "could not persist record")
	assert.Contains(t, err.Error(), "connection reset")
}
