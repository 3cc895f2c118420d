package models

import (
	"time"

	"feedsense-backend/internal/sentiment"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Feedback is written once at submission and never updated.
type Feedback struct {
	ID               bson.ObjectID   `bson:"_id,omitempty" json:"id"`
	UserID           bson.ObjectID   `bson:"user_id" json:"user_id"`
	Text             string          `bson:"text" json:"text"`
	Sentiment        sentiment.Label `bson:"sentiment" json:"sentiment"`
	ConfidenceScore  int             `bson:"confidence_score" json:"confidence_score"`
	DetectedKeywords []string        `bson:"detected_keywords" json:"detected_keywords"`
	IdempotencyKey   string          `bson:"idempotency_key,omitempty" json:"idempotency_key,omitempty"`
	CreatedAt        time.Time       `bson:"created_at" json:"created_at"`
}

// Owner is the display projection of a user joined onto admin listings.
type Owner struct {
	ID       bson.ObjectID `bson:"_id" json:"id"`
	FullName string        `bson:"full_name" json:"full_name"`
	Email    string        `bson:"email" json:"email"`
}

type FeedbackWithOwner struct {
	Feedback `bson:",inline"`
	Owner    *Owner `bson:"owner,omitempty" json:"owner"`
}

// SentimentCount is one row of a group-by-sentiment aggregation.
type SentimentCount struct {
	Sentiment sentiment.Label `bson:"_id"`
	Count     int64           `bson:"count"`
}

// DailySentimentCount is one (UTC day, sentiment) bucket.
type DailySentimentCount struct {
	Day       string          `bson:"day"`
	Sentiment sentiment.Label `bson:"sentiment"`
	Count     int64           `bson:"count"`
}

type SentimentStats struct {
	Total           int64   `json:"total"`
	Positive        int64   `json:"positive"`
	Neutral         int64   `json:"neutral"`
	Negative        int64   `json:"negative"`
	PositivePercent float64 `json:"positive_percent"`
	NeutralPercent  float64 `json:"neutral_percent"`
	NegativePercent float64 `json:"negative_percent"`
}

type TrendPoint struct {
	Date     string `json:"date"`
	Positive int64  `json:"positive"`
	Neutral  int64  `json:"neutral"`
	Negative int64  `json:"negative"`
}
