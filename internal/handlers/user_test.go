package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"feedsense-backend/internal/auth"
	"feedsense-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
)

func meRequest(p auth.Principal) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/user/me", nil)
	return req.WithContext(auth.WithPrincipal(req.Context(), p))
}

func TestMe(t *testing.T) {
	users := newMemUsers()
	user := &models.User{FullName: "Ana", Email: "ana@example.com", Role: models.RoleUser, PasswordHash: "x"}
	require.NoError(t, users.Create(context.Background(), user))
	h := NewUserHandler(users)

	rec := httptest.NewRecorder()
	h.Me(rec, meRequest(auth.Principal{UserID: user.ID.Hex(), Email: user.Email, Role: user.Role}))

	require.Equal(t, http.StatusOK, rec.Code)
	var got models.User
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, user.ID, got.ID)
	assert.Equal(t, "Ana", got.FullName)
	assert.NotContains(t, rec.Body.String(), "password")
}

func TestMe_Errors(t *testing.T) {
	h := NewUserHandler(newMemUsers())

	rec := httptest.NewRecorder()
	h.Me(rec, httptest.NewRequest(http.MethodGet, "/user/me", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = httptest.NewRecorder()
	h.Me(rec, meRequest(auth.Principal{UserID: bson.NewObjectID().Hex(), Role: models.RoleUser}))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
