package handlers

import (
	"context"
	"net/http"

	apperrors "feedsense-backend/internal/errors"
	"feedsense-backend/internal/middleware"
	"feedsense-backend/internal/models"

	"go.mongodb.org/mongo-driver/v2/bson"
)

type UserFinder interface {
	FindByID(ctx context.Context, id bson.ObjectID) (*models.User, error)
}

type UserHandler struct {
	users UserFinder
}

func NewUserHandler(users UserFinder) *UserHandler {
	return &UserHandler{
		users: users,
	}
}

// --- GET /user/me ---

func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	principal := middleware.GetPrincipal(r)
	if principal.IsZero() {
		apperrors.HandleError(w, r, apperrors.AuthenticationError("authentication required"))
		return
	}

	userID, err := bson.ObjectIDFromHex(principal.UserID)
	if err != nil {
		apperrors.HandleError(w, r, apperrors.AuthenticationError("invalid user identity"))
		return
	}

	user, err := h.users.FindByID(r.Context(), userID)
	if err != nil {
		apperrors.HandleError(w, r, apperrors.StoreError("failed to load user", err))
		return
	}
	if user == nil {
		apperrors.HandleError(w, r, apperrors.NotFoundError("user not found"))
		return
	}

	writeJSON(w, http.StatusOK, user)
}
