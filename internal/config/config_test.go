package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("MONGODB_URI", "mongodb://localhost:27017")
	t.Setenv("JWT_SECRET", "0123456789abcdef0123")
}

func TestLoad_Defaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "feedsense", cfg.DBName)
	assert.Equal(t, 720*time.Hour, cfg.JWTTTL)
	assert.Equal(t, 15*time.Minute, cfg.MagicLinkTTL)
	assert.Equal(t, int64(5), cfg.MagicLinkMaxPerWindow)
	assert.Equal(t, 10, cfg.BcryptCost)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoad_MissingMongoURI(t *testing.T) {
	t.Setenv("MONGODB_URI", "")
	t.Setenv("JWT_SECRET", "0123456789abcdef0123")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MONGODB_URI")
}

func TestLoad_MissingJWTSecret(t *testing.T) {
	t.Setenv("MONGODB_URI", "mongodb://localhost:27017")
	t.Setenv("JWT_SECRET", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
}

func TestLoad_ShortJWTSecret(t *testing.T) {
	t.Setenv("MONGODB_URI", "mongodb://localhost:27017")
	t.Setenv("JWT_SECRET", "short")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least 16 bytes")
}

func TestLoad_BadBcryptCost(t *testing.T) {
	setRequired(t)
	t.Setenv("BCRYPT_COST", "2")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "BCRYPT_COST")
}

func TestAdminEmailSet(t *testing.T) {
	cfg := &Config{AdminEmails: " Admin@Example.com, ops@example.com ,,"}

	set := cfg.AdminEmailSet()
	assert.Len(t, set, 2)
	assert.True(t, set["admin@example.com"])
	assert.True(t, set["ops@example.com"])
}

func TestAllowedOrigins(t *testing.T) {
	assert.Equal(t, []string{"*"}, (&Config{}).AllowedOrigins())
	assert.Equal(t,
		[]string{"http://localhost:5173", "https://app.example.com"},
		(&Config{CORSAllowedOrigins: "http://localhost:5173, https://app.example.com"}).AllowedOrigins(),
	)
}
