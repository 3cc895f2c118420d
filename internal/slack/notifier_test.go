package slack

import (
	"context"
	"strings"
	"testing"

	"feedsense-backend/internal/models"
	"feedsense-backend/internal/sentiment"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/v2/bson"
)

func TestFormatNegativeFeedback(t *testing.T) {
	fb := &models.Feedback{
		UserID:           bson.NewObjectID(),
		Text:             "terrible support, bad docs",
		Sentiment:        sentiment.Negative,
		ConfidenceScore:  88,
		DetectedKeywords: []string{"terrible", "bad"},
	}

	msg := FormatNegativeFeedback("jane@example.com", fb)

	assert.Contains(t, msg, "Negative Feedback Received")
	assert.Contains(t, msg, "User: `jane@example.com`")
	assert.Contains(t, msg, "Confidence: 88%")
	assert.Contains(t, msg, "Keywords: terrible, bad")
	assert.Contains(t, msg, "Feedback: terrible support, bad docs")
}

func TestFormatNegativeFeedback_FallbacksAndTruncation(t *testing.T) {
	fb := &models.Feedback{
		UserID: bson.NewObjectID(),
		Text:   strings.Repeat("x", 500),
	}

	msg := FormatNegativeFeedback("", fb)

	assert.Contains(t, msg, fb.UserID.Hex())
	assert.Contains(t, msg, "Keywords: none")
	assert.Contains(t, msg, strings.Repeat("x", maxQuoted)+"…")
	assert.NotContains(t, msg, strings.Repeat("x", maxQuoted+1))
}

func TestMockSlack_Publish(t *testing.T) {
	assert.NoError(t, NewMockSlack().Publish(context.Background(), "hello"))
}
