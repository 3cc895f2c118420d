package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Feedback Metrics
var (
	// FeedbackSubmittedTotal tracks stored feedback records by sentiment
	FeedbackSubmittedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "feedback_submitted_total",
			Help: "Total stored feedback records by sentiment",
		},
		[]string{"sentiment"},
	)

	FeedbackDeletedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "feedback_deleted_total",
			Help: "Total deleted feedback records",
		},
	)

	FeedbackPreviewsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "feedback_previews_total",
			Help: "Total live sentiment previews served",
		},
	)
)

// HTTP Metrics
var (
	// HTTPErrorsTotal tracks HTTP errors by type
	HTTPErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_errors_total",
			Help: "Total HTTP errors by error type",
		},
		[]string{"type"},
	)

	// HTTPRequestDuration tracks request latency by route pattern
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5},
		},
		[]string{"method", "route", "status"},
	)
)
