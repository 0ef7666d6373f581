// Shelfcast - Reading and Watching Tracker with Cross-Media Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfcast

package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/shelfcast/internal/library"
	"github.com/tomtom215/shelfcast/internal/logging"
	"github.com/tomtom215/shelfcast/internal/provider"
	"github.com/tomtom215/shelfcast/internal/recommend"
)

// RecommendRequest is the body of POST /api/v1/recommendations/{mode}.
type RecommendRequest struct {
	History    []recommend.HistoryEntry `json:"history" validate:"dive"`
	Candidates []recommend.Item         `json:"candidates" validate:"dive"`
	Limit      int                      `json:"limit"`
}

// Recommend handles POST /api/v1/recommendations/{mode}.
// It ranks the supplied candidates against the supplied history.
func (h *Handler) Recommend(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	mode, ok := parseMode(w, r)
	if !ok {
		return
	}

	var req RecommendRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}

	resp, err := h.recommender.Rank(r.Context(), recommend.Request{
		Mode:       mode,
		History:    req.History,
		Candidates: req.Candidates,
		Limit:      req.Limit,
		RequestID:  logging.RequestIDFromContext(r.Context()),
	})
	if err != nil {
		h.respondRecommendError(w, r, err)
		return
	}

	respondSuccess(w, r, http.StatusOK, resp, start)
}

// UserRecommendations handles GET /api/v1/users/{userID}/recommendations/{mode}.
// The pool is gathered from the catalog sources.
//
// Query Parameters:
//   - limit: Maximum results (default from engine configuration)
func (h *Handler) UserRecommendations(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	mode, ok := parseMode(w, r)
	if !ok {
		return
	}
	userID := chi.URLParam(r, "userID")
	ctx := logging.ContextWithUserID(r.Context(), userID)

	resp, err := h.recommender.ForUser(ctx, userID, mode, getIntParam(r, "limit", 0))
	if err != nil {
		h.respondRecommendError(w, r, err)
		return
	}

	respondSuccess(w, r, http.StatusOK, resp, start)
}

func (h *Handler) respondRecommendError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, library.ErrInvalidKey):
		respondError(w, r, http.StatusBadRequest, ErrCodeValidation, "Invalid user ID", nil)
	case errors.Is(err, provider.ErrUnavailable):
		respondError(w, r, http.StatusServiceUnavailable, ErrCodeProvider, "Catalog sources are unavailable", err)
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		respondError(w, r, http.StatusServiceUnavailable, ErrCodeInternal, "Request timed out", err)
	case errors.Is(err, library.ErrClosed):
		respondError(w, r, http.StatusServiceUnavailable, ErrCodeStore, "Library unavailable", err)
	default:
		respondError(w, r, http.StatusInternalServerError, ErrCodeStore, "Failed to generate recommendations", err)
	}
}

// parseMode reads the {mode} URL parameter.
func parseMode(w http.ResponseWriter, r *http.Request) (recommend.Mode, bool) {
	raw := chi.URLParam(r, "mode")
	mode, err := recommend.ParseMode(raw)
	if err != nil {
		respondAPIError(w, r, http.StatusBadRequest, &APIError{
			Code:    ErrCodeValidation,
			Message: "Unknown recommendation mode",
			Details: map[string]interface{}{
				"field":   "mode",
				"value":   sanitizeLogValue(raw),
				"allowed": modeNames(),
			},
		})
		return 0, false
	}
	return mode, true
}

func modeNames() []string {
	modes := recommend.Modes()
	names := make([]string, len(modes))
	for i, m := range modes {
		names[i] = m.String()
	}
	return names
}
