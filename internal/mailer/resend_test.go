package mailer

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResendMailer_DevModeLogsLink(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, nil)))
	t.Cleanup(func() { slog.SetDefault(prev) })

	m := NewResendMailer("", "FeedSense <noreply@example.com>")
	err := m.SendLoginLink(context.Background(), "ana@example.com", "http://localhost:3000/magic-login?token=abc", 15*time.Minute)

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "magic-login?token=abc")
	assert.Contains(t, buf.String(), "ana@example.com")
}

func TestLoginEmailHTML(t *testing.T) {
	body := loginEmailHTML("https://app.example.com/magic-login?token=a&b", 15*time.Minute)

	assert.Contains(t, body, "token=a&amp;b")
	assert.Contains(t, body, "15 minutes")
}

func TestFormatTTL(t *testing.T) {
	assert.Equal(t, "1 minute", formatTTL(time.Minute))
	assert.Equal(t, "90 minutes", formatTTL(90*time.Minute))
	assert.Equal(t, "1 hour", formatTTL(time.Hour))
	assert.Equal(t, "2 hours", formatTTL(2*time.Hour))
}
