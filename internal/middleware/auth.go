package middleware

import (
	"errors"
	"net/http"
	"strings"

	"feedsense-backend/internal/auth"
	apperrors "feedsense-backend/internal/errors"
)

// TokenVerifier maps a bearer token to a principal. *auth.JWTService
// satisfies it.
type TokenVerifier interface {
	Verify(token string) (auth.Principal, error)
}

// JWTAuth validates the Bearer token and stores the caller's principal in the
// request context. Requests without a valid token never reach next.
func JWTAuth(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				apperrors.HandleError(w, r, apperrors.AuthenticationError("missing authorization header"))
				return
			}

			scheme, token, ok := strings.Cut(header, " ")
			if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
				apperrors.HandleError(w, r, apperrors.AuthenticationError("invalid authorization header format"))
				return
			}

			principal, err := verifier.Verify(strings.TrimSpace(token))
			if err != nil {
				msg := "invalid token"
				if errors.Is(err, auth.ErrExpiredToken) {
					msg = "token has expired"
				}
				apperrors.HandleError(w, r, apperrors.AuthenticationError(msg))
				return
			}

			next.ServeHTTP(w, r.WithContext(auth.WithPrincipal(r.Context(), principal)))
		})
	}
}

// GetPrincipal returns the authenticated caller, or the zero principal.
func GetPrincipal(r *http.Request) auth.Principal {
	p, _ := auth.FromContext(r.Context())
	return p
}

// GetUserID extracts the user ID from the request context.
func GetUserID(r *http.Request) string {
	return GetPrincipal(r).UserID
}
