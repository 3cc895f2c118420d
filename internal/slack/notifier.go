package slack

import (
	"context"
	"fmt"
	"strings"

	"feedsense-backend/internal/models"
)

// Notifier publishes messages to a notification channel.
type Notifier interface {
	Publish(ctx context.Context, message string) error
}

const maxQuoted = 280

// FormatNegativeFeedback renders the alert posted when a Negative record is stored.
func FormatNegativeFeedback(ownerEmail string, feedback *models.Feedback) string {
	text := feedback.Text
	if r := []rune(text); len(r) > maxQuoted {
		text = string(r[:maxQuoted]) + "…"
	}

	owner := ownerEmail
	if owner == "" {
		owner = feedback.UserID.Hex()
	}

	keywords := "none"
	if len(feedback.DetectedKeywords) > 0 {
		keywords = strings.Join(feedback.DetectedKeywords, ", ")
	}

	return fmt.Sprintf("🚨 *Negative Feedback Received*\n"+
		"User: `%s`\n"+
		"Confidence: %d%%\n"+
		"Keywords: %s\n"+
		"Feedback: %s", owner, feedback.ConfidenceScore, keywords, text)
}
