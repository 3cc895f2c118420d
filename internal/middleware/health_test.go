package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type checkerFunc func(ctx context.Context) error

func (f checkerFunc) Check(ctx context.Context) error { return f(ctx) }

func TestHealthHandler(t *testing.T) {
	tests := []struct {
		name       string
		checkErr   error
		wantStatus int
		wantState  string
		wantCheck  string
	}{
		{"healthy", nil, http.StatusOK, "healthy", "ok"},
		{"mongo down", errors.New("no reachable servers"), http.StatusServiceUnavailable, "unhealthy", "unavailable"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := HealthHandler("feedsense-backend", map[string]HealthChecker{
				"mongodb": checkerFunc(func(context.Context) error { return tt.checkErr }),
			})

			rec := httptest.NewRecorder()
			h(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

			assert.Equal(t, tt.wantStatus, rec.Code)
			var body healthResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.wantState, body.Status)
			assert.Equal(t, "feedsense-backend", body.Service)
			assert.Equal(t, tt.wantCheck, body.Checks["mongodb"])
		})
	}
}
