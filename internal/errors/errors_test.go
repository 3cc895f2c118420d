package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want int
	}{
		{"validation", ValidationError("bad"), http.StatusBadRequest},
		{"authentication", AuthenticationError("who"), http.StatusUnauthorized},
		{"authorization", AuthorizationError("no"), http.StatusForbidden},
		{"not found", NotFoundError("gone"), http.StatusNotFound},
		{"conflict", ConflictError("dup"), http.StatusConflict},
		{"rate limited", RateLimitedError("slow down"), http.StatusTooManyRequests},
		{"store", StoreError("db", errors.New("boom")), http.StatusInternalServerError},
		{"internal", InternalError("oops", nil), http.StatusInternalServerError},
		{"unknown", &Error{Type: "mystery"}, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.HTTPStatus())
		})
	}
}

func TestError_MessageAndUnwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := StoreError("failed to save feedback", cause)

	assert.Equal(t, "store: failed to save feedback: connection refused", err.Error())
	assert.ErrorIs(t, err, cause)

	assert.Equal(t, "not_found: feedback not found", NotFoundError("feedback not found").Error())
}

func TestAsStructuredError(t *testing.T) {
	assert.Nil(t, AsStructuredError(nil))

	original := AuthorizationError("admin access required")
	wrapped := fmt.Errorf("delete: %w", original)
	assert.Same(t, original, AsStructuredError(wrapped))

	plain := errors.New("unexpected")
	structured := AsStructuredError(plain)
	require.NotNil(t, structured)
	assert.Equal(t, TypeInternal, structured.Type)
	assert.ErrorIs(t, structured, plain)
}

func TestToResponse_HidesCause(t *testing.T) {
	err := StoreError("failed to load feedback", errors.New("socket closed")).WithContext("feedback_id", "abc")

	resp := err.ToResponse()
	assert.Equal(t, "failed to load feedback", resp.Error)
	assert.Equal(t, TypeStore, resp.Type)
	assert.Equal(t, "abc", resp.Context["feedback_id"])
}

func TestIsType(t *testing.T) {
	err := fmt.Errorf("wrap: %w", ValidationError("feedback text is required"))

	assert.True(t, IsType(err, TypeValidation))
	assert.False(t, IsType(err, TypeNotFound))
	assert.False(t, IsType(errors.New("plain"), TypeValidation))
}
