// Shelfcast - Reading and Watching Tracker with Cross-Media Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfcast

package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/tomtom215/shelfcast/internal/recommend/genre"
)

// GenreMap handles GET /api/v1/genres/map.
// Shows how a genre is translated into the other taxonomy.
//
// Query Parameters:
//   - genre: Genre label (required)
//   - direction: "tv-to-book" (default) or "book-to-tv"
func (h *Handler) GenreMap(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	q := r.URL.Query()

	label := strings.TrimSpace(q.Get("genre"))
	if label == "" {
		respondAPIError(w, r, http.StatusBadRequest, &APIError{
			Code:    ErrCodeValidation,
			Message: "genre is required",
			Details: map[string]interface{}{"field": "genre", "tag": "required"},
		})
		return
	}

	dir := genre.TelevisionToLiterary
	if raw := q.Get("direction"); raw != "" {
		parsed, err := genre.ParseDirection(raw)
		if err != nil {
			respondAPIError(w, r, http.StatusBadRequest, &APIError{
				Code:    ErrCodeValidation,
				Message: "direction must be tv-to-book or book-to-tv",
				Details: map[string]interface{}{"field": "direction", "value": sanitizeLogValue(raw)},
			})
			return
		}
		dir = parsed
	}

	mapper := h.mappers[dir]
	respondSuccess(w, r, http.StatusOK, GenreMapping{
		Genre:     label,
		Direction: dir.String(),
		Known:     mapper.Known(label),
		Mapped:    mapper.Map(label),
	}, start)
}
