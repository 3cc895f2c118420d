package auth

import (
	"errors"
	"time"

	"feedsense-backend/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
)

var (
	ErrInvalidToken  = errors.New("invalid token")
	ErrExpiredToken  = errors.New("token has expired")
	ErrInvalidClaims = errors.New("invalid token claims")
)

// Principal is a verified caller together with its role claim.
type Principal struct {
	UserID string
	Email  string
	Role   models.Role
}

func (p Principal) IsAdmin() bool {
	return p.Role == models.RoleAdmin
}

// IsZero reports whether p carries no identity.
func (p Principal) IsZero() bool {
	return p.UserID == ""
}

// Claims represents custom JWT claims
type Claims struct {
	jwt.RegisteredClaims
	UserID string      `json:"user_id"`
	Email  string      `json:"email"`
	Role   models.Role `json:"role"`
}

// JWTService issues and verifies HS256 access tokens. It holds no mutable
// state, so Verify is safe for concurrent use.
type JWTService struct {
	secret []byte
	ttl    time.Duration
	issuer string
	clock  clockwork.Clock
}

func NewJWTService(secret string, ttl time.Duration, issuer string, clock clockwork.Clock) *JWTService {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &JWTService{
		secret: []byte(secret),
		ttl:    ttl,
		issuer: issuer,
		clock:  clock,
	}
}

// Issue signs a token for user and returns it with its expiry.
func (s *JWTService) Issue(user *models.User) (string, time.Time, error) {
	now := s.clock.Now()
	expiresAt := now.Add(s.ttl)

	role := user.Role
	if role == "" {
		role = models.RoleUser
	}

	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Issuer:    s.issuer,
			Subject:   user.ID.Hex(),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			NotBefore: jwt.NewNumericDate(now),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		UserID: user.ID.Hex(),
		Email:  user.Email,
		Role:   role,
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return token, expiresAt, nil
}

// Verify maps a bearer token to its principal.
func (s *JWTService) Verify(tokenString string) (Principal, error) {
	if tokenString == "" {
		return Principal{}, ErrInvalidToken
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.issuer),
		jwt.WithTimeFunc(s.clock.Now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Principal{}, ErrExpiredToken
		}
		return Principal{}, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.UserID == "" {
		return Principal{}, ErrInvalidClaims
	}

	switch claims.Role {
	case models.RoleUser, models.RoleAdmin:
	default:
		return Principal{}, ErrInvalidClaims
	}

	return Principal{
		UserID: claims.UserID,
		Email:  claims.Email,
		Role:   claims.Role,
	}, nil
}
