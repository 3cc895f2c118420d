package handlers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"feedsense-backend/internal/auth"
	apperrors "feedsense-backend/internal/errors"
	"feedsense-backend/internal/mailer"
	"feedsense-backend/internal/models"
	"feedsense-backend/internal/repository"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// UserStore is the subset of *repository.UserRepo the handlers use.
type UserStore interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id bson.ObjectID) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	FindOrCreate(ctx context.Context, email string, role models.Role) (*models.User, error)
}

type LoginTokenStore interface {
	Create(ctx context.Context, token *models.LoginToken) error
	Consume(ctx context.Context, token string, now time.Time) (*models.LoginToken, error)
	CountRecentByEmail(ctx context.Context, email string, since time.Time) (int64, error)
}

type TokenIssuer interface {
	Issue(user *models.User) (string, time.Time, error)
}

type AuthConfig struct {
	BcryptCost            int
	AdminEmails           map[string]bool
	AppURL                string
	MagicLinkTTL          time.Duration
	MagicLinkMaxPerWindow int64
	MagicLinkWindow       time.Duration
}

type AuthHandler struct {
	users  UserStore
	tokens LoginTokenStore
	issuer TokenIssuer
	mailer mailer.Mailer
	clock  clockwork.Clock
	cfg    AuthConfig
}

func NewAuthHandler(users UserStore, tokens LoginTokenStore, issuer TokenIssuer, m mailer.Mailer, clock clockwork.Clock, cfg AuthConfig) *AuthHandler {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &AuthHandler{
		users:  users,
		tokens: tokens,
		issuer: issuer,
		mailer: m,
		clock:  clock,
		cfg:    cfg,
	}
}

// --- Request / Response types ---

type RegisterRequest struct {
	FullName string `json:"full_name" validate:"required,min=2,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RequestLoginRequest struct {
	Email string `json:"email" validate:"required,email"`
}

func (r *RegisterRequest) normalize() {
	r.FullName = strings.TrimSpace(r.FullName)
	r.Email = normalizeEmail(r.Email)
}

func (r *LoginRequest) normalize()        { r.Email = normalizeEmail(r.Email) }
func (r *RequestLoginRequest) normalize() { r.Email = normalizeEmail(r.Email) }

// validator's max counts runes; bcrypt limits bytes.
var passwordTooLongMessage = fmt.Sprintf("Must be at most %d bytes", auth.MaxPasswordBytes)

type AuthResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      *models.User `json:"user"`
}

// --- POST /auth/register ---

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := decodeJSON(w, r, &req); err != nil {
		apperrors.HandleError(w, r, err)
		return
	}

	hash, err := auth.HashPassword(req.Password, h.cfg.BcryptCost)
	if errors.Is(err, auth.ErrPasswordTooLong) {
		apperrors.HandleError(w, r, apperrors.ValidationError("request validation failed").
			WithContext("password", passwordTooLongMessage))
		return
	}
	if err != nil {
		apperrors.HandleError(w, r, apperrors.InternalError("failed to hash password", err))
		return
	}

	user := &models.User{
		FullName:     req.FullName,
		Email:        req.Email,
		PasswordHash: hash,
		Role:         h.roleFor(req.Email),
	}
	if err := h.users.Create(r.Context(), user); err != nil {
		if errors.Is(err, repository.ErrEmailTaken) {
			apperrors.HandleError(w, r, apperrors.ConflictError("email already registered"))
			return
		}
		apperrors.HandleError(w, r, apperrors.StoreError("failed to create user", err))
		return
	}

	h.respondWithToken(w, r, http.StatusCreated, user)
}

// --- POST /auth/login ---

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		apperrors.HandleError(w, r, err)
		return
	}

	user, err := h.users.FindByEmail(r.Context(), req.Email)
	if err != nil {
		apperrors.HandleError(w, r, apperrors.StoreError("failed to load user", err))
		return
	}
	if user == nil || !auth.CheckPassword(user.PasswordHash, req.Password) {
		apperrors.HandleError(w, r, apperrors.AuthenticationError("invalid email or password"))
		return
	}

	h.respondWithToken(w, r, http.StatusOK, user)
}

// --- POST /auth/request ---

func (h *AuthHandler) RequestLogin(w http.ResponseWriter, r *http.Request) {
	var req RequestLoginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		apperrors.HandleError(w, r, err)
		return
	}
	email := req.Email
	now := h.clock.Now().UTC()

	count, err := h.tokens.CountRecentByEmail(r.Context(), email, now.Add(-h.cfg.MagicLinkWindow))
	if err != nil {
		apperrors.HandleError(w, r, apperrors.StoreError("failed to check login requests", err))
		return
	}
	if count >= h.cfg.MagicLinkMaxPerWindow {
		apperrors.HandleError(w, r, apperrors.RateLimitedError("too many login requests, please try again later"))
		return
	}

	loginToken := &models.LoginToken{
		Email:     email,
		Token:     uuid.New().String(),
		ExpiresAt: now.Add(h.cfg.MagicLinkTTL),
		CreatedAt: now,
	}
	if err := h.tokens.Create(r.Context(), loginToken); err != nil {
		apperrors.HandleError(w, r, apperrors.StoreError("failed to create login token", err))
		return
	}

	link := fmt.Sprintf("%s/magic-login?token=%s", h.appURL(r), url.QueryEscape(loginToken.Token))
	if err := h.mailer.SendLoginLink(r.Context(), email, link, h.cfg.MagicLinkTTL); err != nil {
		// token is stored; delivery is best effort
		slog.ErrorContext(r.Context(), "Error sending login email", "email", email, "error", err)
		writeJSON(w, http.StatusOK, map[string]string{
			"message": "login link generated (email delivery may be delayed)",
			"note":    "check server logs if email was not received",
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"message": "login link sent to your email",
	})
}

// --- GET /auth/verify ---

func (h *AuthHandler) VerifyToken(w http.ResponseWriter, r *http.Request) {
	tokenValue := r.URL.Query().Get("token")
	if tokenValue == "" {
		apperrors.HandleError(w, r, apperrors.ValidationError("token is required"))
		return
	}

	loginToken, err := h.tokens.Consume(r.Context(), tokenValue, h.clock.Now().UTC())
	if err != nil {
		apperrors.HandleError(w, r, apperrors.StoreError("failed to verify login token", err))
		return
	}
	if loginToken == nil {
		apperrors.HandleError(w, r, apperrors.AuthenticationError("invalid, expired or already used token"))
		return
	}

	user, err := h.users.FindOrCreate(r.Context(), loginToken.Email, h.roleFor(loginToken.Email))
	if err != nil {
		apperrors.HandleError(w, r, apperrors.StoreError("failed to load user", err))
		return
	}

	h.respondWithToken(w, r, http.StatusOK, user)
}

// --- Helpers ---

func (h *AuthHandler) respondWithToken(w http.ResponseWriter, r *http.Request, status int, user *models.User) {
	token, expiresAt, err := h.issuer.Issue(user)
	if err != nil {
		apperrors.HandleError(w, r, apperrors.InternalError("failed to issue token", err))
		return
	}
	writeJSON(w, status, AuthResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		User:      user,
	})
}

func (h *AuthHandler) roleFor(email string) models.Role {
	if h.cfg.AdminEmails[email] {
		return models.RoleAdmin
	}
	return models.RoleUser
}

// appURL falls back to the request's own origin when APP_URL is unset.
func (h *AuthHandler) appURL(r *http.Request) string {
	if h.cfg.AppURL != "" {
		return strings.TrimRight(h.cfg.AppURL, "/")
	}
	scheme := "http"
	if r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https" {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s", scheme, r.Host)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
