package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"feedsense-backend/internal/auth"
	"feedsense-backend/internal/config"
	"feedsense-backend/internal/database"
	"feedsense-backend/internal/handlers"
	"feedsense-backend/internal/logging"
	"feedsense-backend/internal/mailer"
	customMiddleware "feedsense-backend/internal/middleware"
	"feedsense-backend/internal/repository"
	"feedsense-backend/internal/sentiment"
	"feedsense-backend/internal/server"
	"feedsense-backend/internal/service"
	"feedsense-backend/internal/slack"

	"github.com/jonboulle/clockwork"
	"golang.org/x/time/rate"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}
	logging.InitLogger(cfg.LogLevel, cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Connect to MongoDB
	if err := database.Connect(ctx, cfg.MongoURI, cfg.DBName); err != nil {
		slog.Error("Failed to connect to MongoDB", "error", err)
		os.Exit(1)
	}

	// Initialize repositories
	userRepo := repository.NewUserRepo()
	tokenRepo := repository.NewLoginTokenRepo()
	feedbackRepo := repository.NewFeedbackRepo()

	ensureIndexes(ctx, map[string]func(context.Context) error{
		"users":        userRepo.EnsureIndexes,
		"login_tokens": tokenRepo.EnsureIndexes,
		"feedback":     feedbackRepo.EnsureIndexes,
	})

	clock := clockwork.NewRealClock()
	jwtService := auth.NewJWTService(cfg.JWTSecret, cfg.JWTTTL, cfg.JWTIssuer, clock)

	// Initialize Slack notifier (mock)
	notifier := slack.NewMockSlack()
	feedbackService := service.NewFeedbackService(feedbackRepo, sentiment.NewAnalyzer(nil), notifier, clock)

	authHandler := handlers.NewAuthHandler(userRepo, tokenRepo, jwtService,
		mailer.NewResendMailer(cfg.ResendAPIKey, cfg.FromEmail), clock,
		handlers.AuthConfig{
			BcryptCost:            cfg.BcryptCost,
			AdminEmails:           cfg.AdminEmailSet(),
			AppURL:                cfg.AppURL,
			MagicLinkTTL:          cfg.MagicLinkTTL,
			MagicLinkMaxPerWindow: cfg.MagicLinkMaxPerWindow,
			MagicLinkWindow:       cfg.MagicLinkWindow,
		})

	authLimiter := customMiddleware.NewRateLimiter(rate.Limit(cfg.AuthRateLimit), cfg.AuthRateBurst)
	go authLimiter.Run(ctx)

	router := server.NewRouter(server.Deps{
		Auth:              authHandler,
		Feedback:          handlers.NewFeedbackHandler(feedbackService),
		User:              handlers.NewUserHandler(userRepo),
		Verifier:          jwtService,
		AuthLimiter:       authLimiter,
		HealthCheckers:    map[string]customMiddleware.HealthChecker{"mongodb": database.HealthChecker{}},
		AllowedOrigins:    cfg.AllowedOrigins(),
		TrustProxyHeaders: cfg.TrustProxyHeaders,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("FeedSense backend starting", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case err := <-serverErr:
		slog.Error("Server failed", "error", err)
	case <-ctx.Done():
		slog.Info("Shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("Graceful shutdown failed", "error", err)
	}
	if err := database.Disconnect(shutdownCtx); err != nil {
		slog.Error("Failed to disconnect from MongoDB", "error", err)
	}
	slog.Info("Server stopped")
}

// ensureIndexes logs failures instead of aborting startup.
func ensureIndexes(ctx context.Context, ensure map[string]func(context.Context) error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	for name, fn := range ensure {
		if err := fn(ctx); err != nil {
			slog.Warn("Failed to create indexes", "collection", name, "error", err)
		}
	}
}
