// Package server assembles the HTTP router.
package server

import (
	"net/http"

	"feedsense-backend/internal/handlers"
	customMiddleware "feedsense-backend/internal/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const serviceName = "feedsense-backend"

type Deps struct {
	Auth     *handlers.AuthHandler
	Feedback *handlers.FeedbackHandler
	User     *handlers.UserHandler

	Verifier       customMiddleware.TokenVerifier
	AuthLimiter    *customMiddleware.RateLimiter
	HealthCheckers map[string]customMiddleware.HealthChecker
	AllowedOrigins []string

	// TrustProxyHeaders enables X-Forwarded-For/X-Real-IP; only set it behind a
	// proxy that overwrites those headers, since the /auth limiter keys on the result.
	TrustProxyHeaders bool
}

func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	if d.TrustProxyHeaders {
		r.Use(middleware.RealIP)
	}
	r.Use(customMiddleware.RequestLogger)
	r.Use(middleware.Recoverer)
	r.Use(customMiddleware.Metrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   d.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{"Retry-After"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/health", customMiddleware.HealthHandler(serviceName, d.HealthCheckers))
	r.Handle("/metrics", promhttp.Handler())

	// Public routes (no auth required)
	r.Route("/auth", func(r chi.Router) {
		if d.AuthLimiter != nil {
			r.Use(d.AuthLimiter.Middleware)
		}
		r.Post("/register", d.Auth.Register)
		r.Post("/login", d.Auth.Login)
		r.Post("/request", d.Auth.RequestLogin)
		r.Get("/verify", d.Auth.VerifyToken)
	})

	// Protected routes (JWT required)
	r.Group(func(r chi.Router) {
		r.Use(customMiddleware.JWTAuth(d.Verifier))

		r.Route("/feedback", func(r chi.Router) {
			r.Post("/", d.Feedback.Submit)
			r.Get("/", d.Feedback.All)
			r.Get("/mine", d.Feedback.Mine)
			r.Post("/preview", d.Feedback.Preview)
			r.Get("/stats", d.Feedback.Stats)
			r.Get("/stats/all", d.Feedback.StatsAll)
			r.Get("/trend", d.Feedback.Trend)
			r.Delete("/{id}", d.Feedback.Delete)
		})
		r.Get("/user/me", d.User.Me)
	})

	return r
}
