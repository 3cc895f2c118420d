package middleware

import (
	"context"
	"net/http"
	"time"

	apperrors "feedsense-backend/internal/errors"
)

const healthCheckTimeout = 3 * time.Second

// HealthChecker reports whether a dependency is usable.
type HealthChecker interface {
	Check(ctx context.Context) error
}

type healthResponse struct {
	Status  string            `json:"status"`
	Service string            `json:"service"`
	Checks  map[string]string `json:"checks,omitempty"`
}

// HealthHandler returns 200 when every checker passes and 503 otherwise.
func HealthHandler(service string, checkers map[string]HealthChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
		defer cancel()

		resp := healthResponse{Status: "healthy", Service: service, Checks: make(map[string]string, len(checkers))}
		status := http.StatusOK
		for name, checker := range checkers {
			if err := checker.Check(ctx); err != nil {
				resp.Checks[name] = "unavailable"
				resp.Status = "unhealthy"
				status = http.StatusServiceUnavailable
				continue
			}
			resp.Checks[name] = "ok"
		}

		apperrors.WriteJSON(w, status, resp)
	}
}
