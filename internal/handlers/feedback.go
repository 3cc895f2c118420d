package handlers

import (
	"net/http"
	"strconv"

	apperrors "feedsense-backend/internal/errors"
	"feedsense-backend/internal/middleware"
	"feedsense-backend/internal/models"
	"feedsense-backend/internal/service"

	"github.com/go-chi/chi/v5"
)

type FeedbackHandler struct {
	service *service.FeedbackService
}

func NewFeedbackHandler(svc *service.FeedbackService) *FeedbackHandler {
	return &FeedbackHandler{
		service: svc,
	}
}

type SubmitFeedbackRequest struct {
	Text           string `json:"text"`
	IdempotencyKey string `json:"idempotency_key" validate:"max=128"`
}

type PreviewRequest struct {
	Text string `json:"text"`
}

// --- POST /feedback ---

func (h *FeedbackHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req SubmitFeedbackRequest
	if err := decodeJSON(w, r, &req); err != nil {
		apperrors.HandleError(w, r, err)
		return
	}

	result, err := h.service.Submit(r.Context(), middleware.GetPrincipal(r), req.Text, req.IdempotencyKey)
	if err != nil {
		apperrors.HandleError(w, r, err)
		return
	}

	status := http.StatusCreated
	if !result.Created {
		status = http.StatusOK
	}
	writeJSON(w, status, result.Feedback)
}

// --- GET /feedback/mine ---

func (h *FeedbackHandler) Mine(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit")
	if err != nil {
		apperrors.HandleError(w, r, err)
		return
	}
	if limit < 0 {
		apperrors.HandleError(w, r, apperrors.ValidationError("limit must not be negative"))
		return
	}

	feedbacks, err := h.service.ListOwn(r.Context(), middleware.GetPrincipal(r), limit)
	if err != nil {
		apperrors.HandleError(w, r, err)
		return
	}
	if feedbacks == nil {
		feedbacks = []models.Feedback{}
	}
	writeJSON(w, http.StatusOK, feedbacks)
}

// --- GET /feedback ---

func (h *FeedbackHandler) All(w http.ResponseWriter, r *http.Request) {
	feedbacks, err := h.service.ListAll(r.Context(), middleware.GetPrincipal(r))
	if err != nil {
		apperrors.HandleError(w, r, err)
		return
	}
	if feedbacks == nil {
		feedbacks = []models.FeedbackWithOwner{}
	}
	writeJSON(w, http.StatusOK, feedbacks)
}

// --- POST /feedback/preview ---

func (h *FeedbackHandler) Preview(w http.ResponseWriter, r *http.Request) {
	var req PreviewRequest
	if err := decodeJSON(w, r, &req); err != nil {
		apperrors.HandleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, h.service.Preview(req.Text))
}

// --- DELETE /feedback/{id} ---

func (h *FeedbackHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), middleware.GetPrincipal(r), chi.URLParam(r, "id")); err != nil {
		apperrors.HandleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "feedback removed"})
}

// --- GET /feedback/stats ---

func (h *FeedbackHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.OwnStats(r.Context(), middleware.GetPrincipal(r))
	if err != nil {
		apperrors.HandleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// --- GET /feedback/stats/all ---

func (h *FeedbackHandler) StatsAll(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.GlobalStats(r.Context(), middleware.GetPrincipal(r))
	if err != nil {
		apperrors.HandleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// --- GET /feedback/trend ---

func (h *FeedbackHandler) Trend(w http.ResponseWriter, r *http.Request) {
	days, err := queryInt(r, "days")
	if err != nil {
		apperrors.HandleError(w, r, err)
		return
	}

	points, err := h.service.Trend(r.Context(), middleware.GetPrincipal(r), days)
	if err != nil {
		apperrors.HandleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, points)
}

// queryInt returns 0 when the parameter is absent.
func queryInt(r *http.Request, name string) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperrors.ValidationError(name + " must be an integer").WithContext(name, raw)
	}
	return n, nil
}
