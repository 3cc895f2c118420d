// Package mailer delivers magic-link login emails.
package mailer

import (
	"context"
	"fmt"
	"html"
	"log/slog"
	"time"

	"github.com/resend/resend-go/v2"
)

// Mailer sends a login link to an address.
type Mailer interface {
	SendLoginLink(ctx context.Context, to, link string, ttl time.Duration) error
}

// ResendMailer sends through the Resend API. Without an API key it only logs
// the link, which is how local development receives it.
type ResendMailer struct {
	client *resend.Client
	from   string
}

func NewResendMailer(apiKey, from string) *ResendMailer {
	m := &ResendMailer{from: from}
	if apiKey != "" {
		m.client = resend.NewClient(apiKey)
	}
	return m
}

func (m *ResendMailer) SendLoginLink(ctx context.Context, to, link string, ttl time.Duration) error {
	if m.client == nil {
		slog.WarnContext(ctx, "RESEND_API_KEY not set, skipping email send")
		slog.InfoContext(ctx, "[Dev Mode] Login link", "email", to, "link", link)
		return nil
	}

	params := &resend.SendEmailRequest{
		From:    m.from,
		To:      []string{to},
		Subject: "Your FeedSense login link",
		Html:    loginEmailHTML(link, ttl),
	}

	sent, err := m.client.Emails.Send(params)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	slog.InfoContext(ctx, "Login email sent", "email", to, "resend_id", sent.Id)
	return nil
}

func loginEmailHTML(link string, ttl time.Duration) string {
	return fmt.Sprintf(`
		<div style="font-family: sans-serif; max-width: 480px; margin: 0 auto; padding: 24px;">
			<h2 style="color: #333;">Sign in to FeedSense</h2>
			<p>Click the button below to log in to your account:</p>
			<a href="%s" style="display: inline-block; background: #0f766e; color: white; padding: 12px 24px; border-radius: 8px; text-decoration: none; font-weight: 600;">
				Log in
			</a>
			<p style="color: #888; font-size: 14px; margin-top: 16px;">
				This link expires in %s and can only be used once.
			</p>
			<p style="color: #aaa; font-size: 12px;">
				If you didn't request this, you can safely ignore this email.
			</p>
		</div>
	`, html.EscapeString(link), formatTTL(ttl))
}

func formatTTL(ttl time.Duration) string {
	if ttl%time.Hour == 0 && ttl >= time.Hour {
		h := int(ttl / time.Hour)
		if h == 1 {
			return "1 hour"
		}
		return fmt.Sprintf("%d hours", h)
	}
	m := int(ttl / time.Minute)
	if m == 1 {
		return "1 minute"
	}
	return fmt.Sprintf("%d minutes", m)
}
