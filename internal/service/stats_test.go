package service

import (
	"testing"
	"time"

	"feedsense-backend/internal/models"
	"feedsense-backend/internal/sentiment"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSentimentStats(t *testing.T) {
	stats := NewSentimentStats([]models.SentimentCount{
		{Sentiment: sentiment.Positive, Count: 2},
		{Sentiment: sentiment.Negative, Count: 1},
	})

	assert.Equal(t, int64(3), stats.Total)
	assert.Equal(t, 66.7, stats.PositivePercent)
	assert.Equal(t, 33.3, stats.NegativePercent)
	assert.Equal(t, 0.0, stats.NeutralPercent)
}

func TestNewSentimentStats_Empty(t *testing.T) {
	stats := NewSentimentStats(nil)

	assert.Equal(t, models.SentimentStats{}, *stats)
}

func TestBuildTrend_FillsGaps(t *testing.T) {
	since := time.Date(2026, 1, 30, 0, 0, 0, 0, time.UTC)
	counts := []models.DailySentimentCount{
		{Day: "2026-01-30", Sentiment: sentiment.Neutral, Count: 2},
		{Day: "2026-02-01", Sentiment: sentiment.Positive, Count: 4},
		{Day: "2026-02-01", Sentiment: sentiment.Negative, Count: 1},
		{Day: "2026-01-29", Sentiment: sentiment.Positive, Count: 9}, // before the window
	}

	points := BuildTrend(counts, since, 3)

	require.Len(t, points, 3)
	assert.Equal(t, models.TrendPoint{Date: "2026-01-30", Neutral: 2}, points[0])
	assert.Equal(t, models.TrendPoint{Date: "2026-01-31"}, points[1])
	assert.Equal(t, models.TrendPoint{Date: "2026-02-01", Positive: 4, Negative: 1}, points[2])
}

func TestClampDays(t *testing.T) {
	assert.Equal(t, DefaultTrendDays, clampDays(0))
	assert.Equal(t, DefaultTrendDays, clampDays(-3))
	assert.Equal(t, 30, clampDays(30))
	assert.Equal(t, MaxTrendDays, clampDays(400))
}
