package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go-simpler.org/env"
)

type Config struct {
	Port     string `env:"PORT" default:"8080"`
	MongoURI string `env:"MONGODB_URI"`
	DBName   string `env:"DB_NAME" default:"feedsense"`

	JWTSecret string        `env:"JWT_SECRET"`
	JWTTTL    time.Duration `env:"JWT_TTL" default:"720h"` // 30 days
	JWTIssuer string        `env:"JWT_ISSUER" default:"feedsense"`

	BcryptCost  int    `env:"BCRYPT_COST" default:"10"`
	AdminEmails string `env:"ADMIN_EMAILS"`

	AppURL       string `env:"APP_URL"`
	ResendAPIKey string `env:"RESEND_API_KEY"`
	FromEmail    string `env:"FROM_EMAIL" default:"FeedSense <onboarding@resend.dev>"`

	MagicLinkTTL          time.Duration `env:"MAGIC_LINK_TTL" default:"15m"`
	MagicLinkMaxPerWindow int64         `env:"MAGIC_LINK_MAX_PER_WINDOW" default:"5"`
	MagicLinkWindow       time.Duration `env:"MAGIC_LINK_WINDOW" default:"10m"`

	AuthRateLimit float64 `env:"AUTH_RATE_LIMIT" default:"1"`
	AuthRateBurst int     `env:"AUTH_RATE_BURST" default:"5"`

	CORSAllowedOrigins string `env:"CORS_ALLOWED_ORIGINS" default:"*"`
	TrustProxyHeaders  bool   `env:"TRUST_PROXY_HEADERS" default:"false"`

	LogLevel  string `env:"LOG_LEVEL" default:"info"`
	LogFormat string `env:"LOG_FORMAT" default:"text"`
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using environment variables")
	}

	var cfg Config
	if err := env.Load(&cfg, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func validate(cfg *Config) error {
	if cfg.MongoURI == "" {
		return errors.New("MONGODB_URI is required")
	}
	if cfg.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}
	if len(cfg.JWTSecret) < 16 {
		return fmt.Errorf("JWT_SECRET must be at least 16 bytes, got %d", len(cfg.JWTSecret))
	}
	if cfg.JWTTTL <= 0 {
		return errors.New("JWT_TTL must be positive")
	}
	if cfg.BcryptCost < 4 || cfg.BcryptCost > 31 {
		return fmt.Errorf("BCRYPT_COST must be between 4 and 31, got %d", cfg.BcryptCost)
	}
	if cfg.AuthRateLimit <= 0 || cfg.AuthRateBurst <= 0 {
		return errors.New("AUTH_RATE_LIMIT and AUTH_RATE_BURST must be positive")
	}
	return nil
}

// AdminEmailSet returns the lower-cased entries of ADMIN_EMAILS.
func (c *Config) AdminEmailSet() map[string]bool {
	return splitSet(c.AdminEmails)
}

// AllowedOrigins returns the CORS origins as a slice.
func (c *Config) AllowedOrigins() []string {
	var out []string
	for _, o := range strings.Split(c.CORSAllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}

func splitSet(list string) map[string]bool {
	set := make(map[string]bool)
	for _, item := range strings.Split(list, ",") {
		item = strings.ToLower(strings.TrimSpace(item))
		if item != "" {
			set[item] = true
		}
	}
	return set
}
