package slack

import (
	"context"
	"log/slog"
)

// MockSlack implements the Notifier interface by logging messages.
// Replace this with a real Slack client for production use.
type MockSlack struct{}

func NewMockSlack() *MockSlack {
	return &MockSlack{}
}

func (m *MockSlack) Publish(ctx context.Context, message string) error {
	slog.InfoContext(ctx, "[MockSlack] Published to Slack channel", "message", message)
	return nil
}
