package auth

import (
	"context"
	"testing"
	"time"

	"feedsense-backend/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
)

const testSecret = "test-secret-0123456789"

func newTestService(clock clockwork.Clock) *JWTService {
	return NewJWTService(testSecret, time.Hour, "feedsense", clock)
}

func testUser(role models.Role) *models.User {
	return &models.User{ID: bson.NewObjectID(), Email: "jane@example.com", Role: role}
}

func TestIssueAndVerify(t *testing.T) {
	clock := clockwork.NewFakeClock()
	svc := newTestService(clock)
	user := testUser(models.RoleAdmin)

	token, expiresAt, err := svc.Issue(user)
	require.NoError(t, err)
	assert.Equal(t, clock.Now().Add(time.Hour), expiresAt)

	p, err := svc.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID.Hex(), p.UserID)
	assert.Equal(t, "jane@example.com", p.Email)
	assert.Equal(t, models.RoleAdmin, p.Role)
	assert.True(t, p.IsAdmin())
}

func TestIssue_DefaultsRoleToUser(t *testing.T) {
	svc := newTestService(clockwork.NewFakeClock())

	token, _, err := svc.Issue(testUser(""))
	require.NoError(t, err)

	p, err := svc.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, models.RoleUser, p.Role)
	assert.False(t, p.IsAdmin())
}

func TestVerify_Expired(t *testing.T) {
	clock := clockwork.NewFakeClock()
	svc := newTestService(clock)

	token, _, err := svc.Issue(testUser(models.RoleUser))
	require.NoError(t, err)

	clock.Advance(time.Hour + time.Second)

	_, err = svc.Verify(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestVerify_WrongSecret(t *testing.T) {
	clock := clockwork.NewFakeClock()
	token, _, err := newTestService(clock).Issue(testUser(models.RoleUser))
	require.NoError(t, err)

	other := NewJWTService("another-secret-987654321", time.Hour, "feedsense", clock)
	_, err = other.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerify_WrongIssuer(t *testing.T) {
	clock := clockwork.NewFakeClock()
	token, _, err := NewJWTService(testSecret, time.Hour, "someone-else", clock).Issue(testUser(models.RoleUser))
	require.NoError(t, err)

	_, err = newTestService(clock).Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerify_Garbage(t *testing.T) {
	svc := newTestService(clockwork.NewFakeClock())

	for _, tok := range []string{"", "not-a-jwt", "a.b.c"} {
		_, err := svc.Verify(tok)
		assert.ErrorIs(t, err, ErrInvalidToken, tok)
	}
}

func TestVerify_RejectsNoneAlgorithm(t *testing.T) {
	clock := clockwork.NewFakeClock()
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "feedsense",
			ExpiresAt: jwt.NewNumericDate(clock.Now().Add(time.Hour)),
		},
		UserID: bson.NewObjectID().Hex(),
		Role:   models.RoleAdmin,
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = newTestService(clock).Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerify_UnknownRole(t *testing.T) {
	clock := clockwork.NewFakeClock()
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "feedsense",
			ExpiresAt: jwt.NewNumericDate(clock.Now().Add(time.Hour)),
		},
		UserID: bson.NewObjectID().Hex(),
		Role:   "superuser",
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = newTestService(clock).Verify(token)
	assert.ErrorIs(t, err, ErrInvalidClaims)
}

func TestPassword(t *testing.T) {
	hash, err := HashPassword("s3cret-pass", 4)
	require.NoError(t, err)

	assert.True(t, CheckPassword(hash, "s3cret-pass"))
	assert.False(t, CheckPassword(hash, "wrong"))
	assert.False(t, CheckPassword("", "s3cret-pass"))
}

func TestPrincipalContext(t *testing.T) {
	_, ok := FromContext(context.Background())
	assert.False(t, ok)

	ctx := WithPrincipal(context.Background(), Principal{UserID: "u1", Role: models.RoleUser})
	p, ok := FromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, "u1", p.UserID)

	_, ok = FromContext(WithPrincipal(context.Background(), Principal{}))
	assert.False(t, ok)
}
