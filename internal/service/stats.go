package service

import (
	"math"
	"time"

	"feedsense-backend/internal/models"
	"feedsense-backend/internal/sentiment"
)

const dayLayout = "2006-01-02"

// NewSentimentStats folds group-by counts into totals and percentages rounded
// to one decimal. Unknown labels count toward the total only.
func NewSentimentStats(counts []models.SentimentCount) *models.SentimentStats {
	stats := &models.SentimentStats{}
	for _, c := range counts {
		stats.Total += c.Count
		switch c.Sentiment {
		case sentiment.Positive:
			stats.Positive += c.Count
		case sentiment.Neutral:
			stats.Neutral += c.Count
		case sentiment.Negative:
			stats.Negative += c.Count
		}
	}

	stats.PositivePercent = percent(stats.Positive, stats.Total)
	stats.NeutralPercent = percent(stats.Neutral, stats.Total)
	stats.NegativePercent = percent(stats.Negative, stats.Total)
	return stats
}

func percent(part, total int64) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(part)/float64(total)*1000) / 10
}

// BuildTrend lays the bucketed counts onto one point per day starting at
// since. Days without records are zero; buckets outside the window are ignored.
func BuildTrend(counts []models.DailySentimentCount, since time.Time, days int) []models.TrendPoint {
	points := make([]models.TrendPoint, days)
	index := make(map[string]int, days)
	for i := range points {
		day := since.AddDate(0, 0, i).Format(dayLayout)
		points[i].Date = day
		index[day] = i
	}

	for _, c := range counts {
		i, ok := index[c.Day]
		if !ok {
			continue
		}
		switch c.Sentiment {
		case sentiment.Positive:
			points[i].Positive += c.Count
		case sentiment.Neutral:
			points[i].Neutral += c.Count
		case sentiment.Negative:
			points[i].Negative += c.Count
		}
	}
	return points
}
