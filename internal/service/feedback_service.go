// Package service holds the feedback use cases: scoring, persistence and the
// ownership and role rules that guard them.
package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"feedsense-backend/internal/auth"
	apperrors "feedsense-backend/internal/errors"
	"feedsense-backend/internal/metrics"
	"feedsense-backend/internal/models"
	"feedsense-backend/internal/repository"
	"feedsense-backend/internal/sentiment"
	"feedsense-backend/internal/slack"

	"github.com/jonboulle/clockwork"
	"go.mongodb.org/mongo-driver/v2/bson"
)

const (
	DefaultTrendDays = 7
	MaxTrendDays     = 365
	MaxListLimit     = 100

	alertTimeout = 5 * time.Second
)

// FeedbackStore is the persistence port. Find methods return (nil, nil) when
// nothing matches.
type FeedbackStore interface {
	Create(ctx context.Context, feedback *models.Feedback) error
	FindByID(ctx context.Context, id bson.ObjectID) (*models.Feedback, error)
	FindByIdempotencyKey(ctx context.Context, userID bson.ObjectID, key string) (*models.Feedback, error)
	FindByOwner(ctx context.Context, userID bson.ObjectID, limit int) ([]models.Feedback, error)
	FindAllWithOwner(ctx context.Context) ([]models.FeedbackWithOwner, error)
	Delete(ctx context.Context, id bson.ObjectID) (bool, error)
	CountBySentiment(ctx context.Context, userID *bson.ObjectID) ([]models.SentimentCount, error)
	DailyCounts(ctx context.Context, since time.Time) ([]models.DailySentimentCount, error)
}

// Scorer turns text into a sentiment result. *sentiment.Analyzer satisfies it.
type Scorer interface {
	Analyze(text string) sentiment.Result
}

type FeedbackService struct {
	store    FeedbackStore
	scorer   Scorer
	notifier slack.Notifier
	clock    clockwork.Clock
}

func NewFeedbackService(store FeedbackStore, scorer Scorer, notifier slack.Notifier, clock clockwork.Clock) *FeedbackService {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &FeedbackService{
		store:    store,
		scorer:   scorer,
		notifier: notifier,
		clock:    clock,
	}
}

// SubmitResult reports whether Submit created a record or replayed one
// stored earlier under the same idempotency key.
type SubmitResult struct {
	Feedback *models.Feedback
	Created  bool
}

// Submit scores text and stores the record. Blank text is rejected before
// anything is scored or written.
func (s *FeedbackService) Submit(ctx context.Context, p auth.Principal, text, idempotencyKey string) (*SubmitResult, error) {
	ownerID, err := ownerOf(p)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(text) == "" {
		return nil, apperrors.ValidationError("feedback text is required")
	}
	idempotencyKey = strings.TrimSpace(idempotencyKey)

	if idempotencyKey != "" {
		existing, err := s.store.FindByIdempotencyKey(ctx, ownerID, idempotencyKey)
		if err != nil {
			return nil, apperrors.StoreError("failed to check idempotency key", err)
		}
		if existing != nil {
			return &SubmitResult{Feedback: existing}, nil
		}
	}

	result := s.scorer.Analyze(text)
	feedback := &models.Feedback{
		UserID:           ownerID,
		Text:             text,
		Sentiment:        result.Sentiment,
		ConfidenceScore:  result.ConfidenceScore,
		DetectedKeywords: result.DetectedKeywords,
		IdempotencyKey:   idempotencyKey,
		// Mongo keeps milliseconds; truncating keeps the returned record
		// identical to what a later read decodes.
		CreatedAt: s.clock.Now().UTC().Truncate(time.Millisecond),
	}
	if feedback.DetectedKeywords == nil {
		feedback.DetectedKeywords = []string{}
	}

	if err := s.store.Create(ctx, feedback); err != nil {
		if errors.Is(err, repository.ErrDuplicateIdempotencyKey) {
			// a concurrent request with the same key won the insert
			return s.replay(ctx, ownerID, idempotencyKey)
		}
		return nil, apperrors.StoreError("failed to save feedback", err)
	}

	metrics.FeedbackSubmittedTotal.WithLabelValues(string(feedback.Sentiment)).Inc()
	slog.InfoContext(ctx, "Feedback submitted",
		"feedback_id", feedback.ID.Hex(),
		"user_id", p.UserID,
		"sentiment", feedback.Sentiment,
		"confidence", feedback.ConfidenceScore,
	)

	if feedback.Sentiment == sentiment.Negative && s.notifier != nil {
		s.alert(p, feedback)
	}

	return &SubmitResult{Feedback: feedback, Created: true}, nil
}

func (s *FeedbackService) replay(ctx context.Context, ownerID bson.ObjectID, key string) (*SubmitResult, error) {
	existing, err := s.store.FindByIdempotencyKey(ctx, ownerID, key)
	if err != nil {
		return nil, apperrors.StoreError("failed to check idempotency key", err)
	}
	if existing == nil {
		return nil, apperrors.ConflictError("feedback with this idempotency key is being submitted")
	}
	return &SubmitResult{Feedback: existing}, nil
}

// alert publishes in the background; failures are only logged.
func (s *FeedbackService) alert(p auth.Principal, feedback *models.Feedback) {
	message := slack.FormatNegativeFeedback(p.Email, feedback)
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), alertTimeout)
		defer cancel()
		if err := s.notifier.Publish(ctx, message); err != nil {
			slog.Error("Error publishing negative feedback alert", "feedback_id", feedback.ID.Hex(), "error", err)
		}
	}()
}

// ListOwn returns the caller's records newest first. limit <= 0 returns all.
func (s *FeedbackService) ListOwn(ctx context.Context, p auth.Principal, limit int) ([]models.Feedback, error) {
	ownerID, err := ownerOf(p)
	if err != nil {
		return nil, err
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}

	feedbacks, err := s.store.FindByOwner(ctx, ownerID, limit)
	if err != nil {
		return nil, apperrors.StoreError("failed to load feedback", err)
	}
	return feedbacks, nil
}

// ListAll returns every record newest first with owner details. Admin only.
func (s *FeedbackService) ListAll(ctx context.Context, p auth.Principal) ([]models.FeedbackWithOwner, error) {
	if err := requireAdmin(p); err != nil {
		return nil, err
	}

	feedbacks, err := s.store.FindAllWithOwner(ctx)
	if err != nil {
		return nil, apperrors.StoreError("failed to load feedback", err)
	}
	return feedbacks, nil
}

// Preview scores text without storing anything. Blank text yields a Neutral
// result with no keywords instead of an error.
func (s *FeedbackService) Preview(text string) sentiment.Result {
	metrics.FeedbackPreviewsTotal.Inc()
	return s.scorer.Analyze(text)
}

// Delete removes a record owned by the caller, or any record for an admin.
func (s *FeedbackService) Delete(ctx context.Context, p auth.Principal, id string) error {
	if p.IsZero() {
		return apperrors.AuthenticationError("authentication required")
	}

	recordID, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return apperrors.NotFoundError("feedback not found").WithContext("feedback_id", id)
	}

	feedback, err := s.store.FindByID(ctx, recordID)
	if err != nil {
		return apperrors.StoreError("failed to load feedback", err)
	}
	if feedback == nil {
		return apperrors.NotFoundError("feedback not found").WithContext("feedback_id", id)
	}

	if feedback.UserID.Hex() != p.UserID && !p.IsAdmin() {
		return apperrors.AuthorizationError("not allowed to delete this feedback")
	}

	deleted, err := s.store.Delete(ctx, recordID)
	if err != nil {
		return apperrors.StoreError("failed to delete feedback", err)
	}
	if !deleted {
		// removed concurrently between the lookup and the delete
		return apperrors.NotFoundError("feedback not found").WithContext("feedback_id", id)
	}

	metrics.FeedbackDeletedTotal.Inc()
	slog.InfoContext(ctx, "Feedback deleted", "feedback_id", id, "user_id", p.UserID, "admin", p.IsAdmin())
	return nil
}

// OwnStats summarises the caller's records by sentiment.
func (s *FeedbackService) OwnStats(ctx context.Context, p auth.Principal) (*models.SentimentStats, error) {
	ownerID, err := ownerOf(p)
	if err != nil {
		return nil, err
	}

	counts, err := s.store.CountBySentiment(ctx, &ownerID)
	if err != nil {
		return nil, apperrors.StoreError("failed to compute stats", err)
	}
	return NewSentimentStats(counts), nil
}

// GlobalStats summarises every record by sentiment. Admin only.
func (s *FeedbackService) GlobalStats(ctx context.Context, p auth.Principal) (*models.SentimentStats, error) {
	if err := requireAdmin(p); err != nil {
		return nil, err
	}

	counts, err := s.store.CountBySentiment(ctx, nil)
	if err != nil {
		return nil, apperrors.StoreError("failed to compute stats", err)
	}
	return NewSentimentStats(counts), nil
}

// Trend returns per-day sentiment counts for the last days UTC days,
// including today, oldest first. Admin only.
func (s *FeedbackService) Trend(ctx context.Context, p auth.Principal, days int) ([]models.TrendPoint, error) {
	if err := requireAdmin(p); err != nil {
		return nil, err
	}
	days = clampDays(days)

	today := truncateDay(s.clock.Now())
	since := today.AddDate(0, 0, -(days - 1))

	counts, err := s.store.DailyCounts(ctx, since)
	if err != nil {
		return nil, apperrors.StoreError("failed to compute trend", err)
	}
	return BuildTrend(counts, since, days), nil
}

func ownerOf(p auth.Principal) (bson.ObjectID, error) {
	if p.IsZero() {
		return bson.ObjectID{}, apperrors.AuthenticationError("authentication required")
	}
	id, err := bson.ObjectIDFromHex(p.UserID)
	if err != nil {
		return bson.ObjectID{}, apperrors.AuthenticationError("invalid user identity")
	}
	return id, nil
}

func requireAdmin(p auth.Principal) error {
	if p.IsZero() {
		return apperrors.AuthenticationError("authentication required")
	}
	if !p.IsAdmin() {
		return apperrors.AuthorizationError("admin access required")
	}
	return nil
}

func clampDays(days int) int {
	if days <= 0 {
		return DefaultTrendDays
	}
	if days > MaxTrendDays {
		return MaxTrendDays
	}
	return days
}

func truncateDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
