package errors

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"feedsense-backend/internal/metrics"
)

// WriteJSON writes data as a JSON response with the given status.
func WriteJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("Failed to write JSON response", "error", err)
	}
}

// HandleError converts err to a structured error, records it, logs it and
// writes the JSON error response.
func HandleError(w http.ResponseWriter, r *http.Request, err error) {
	if err == nil {
		return
	}

	structuredErr := AsStructuredError(err)
	metrics.HTTPErrorsTotal.WithLabelValues(string(structuredErr.Type)).Inc()
	logError(r, structuredErr)
	WriteJSON(w, structuredErr.HTTPStatus(), structuredErr.ToResponse())
}

// logError logs an error with request context.
func logError(r *http.Request, err *Error) {
	attrs := []any{
		"error_type", err.Type,
		"message", err.Message,
		"path", r.URL.Path,
		"method", r.Method,
		"status", err.HTTPStatus(),
	}

	for k, v := range err.Context {
		attrs = append(attrs, k, v)
	}

	ctx := r.Context()
	switch err.Type {
	case TypeValidation, TypeNotFound, TypeAuthentication:
		slog.InfoContext(ctx, "Request rejected", attrs...)
	case TypeAuthorization, TypeConflict, TypeRateLimited:
		slog.WarnContext(ctx, "Request refused", attrs...)
	default:
		if err.Cause != nil {
			attrs = append(attrs, "cause", err.Cause)
		}
		slog.ErrorContext(ctx, "Internal error", attrs...)
	}
}
