// Shelfcast - Reading and Watching Tracker with Cross-Media Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfcast

package api

import (
	"errors"
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/shelfcast/internal/library"
	"github.com/tomtom215/shelfcast/internal/recommend"
)

// ListLibrary handles GET /api/v1/users/{userID}/library.
//
// Query Parameters:
//   - kind: "book" or "show" (optional, default both)
func (h *Handler) ListLibrary(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	userID := chi.URLParam(r, "userID")

	kind := recommend.MediaKind(r.URL.Query().Get("kind"))
	if kind != "" && !kind.Valid() {
		respondInvalidKind(w, r, string(kind))
		return
	}

	entries, err := h.library.List(r.Context(), userID, kind)
	if err != nil {
		respondLibraryError(w, r, err)
		return
	}

	respondSuccess(w, r, http.StatusOK, LibraryList{
		UserID:  userID,
		Kind:    string(kind),
		Count:   len(entries),
		Entries: entries,
	}, start)
}

// PutLibraryEntry handles PUT /api/v1/users/{userID}/library.
// The body is a library entry; its item must carry an id and a kind.
func (h *Handler) PutLibraryEntry(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	userID := chi.URLParam(r, "userID")

	var entry library.Entry
	if !decodeJSONBody(w, r, &entry) {
		return
	}
	if !entry.Item.Kind.Valid() {
		respondInvalidKind(w, r, string(entry.Item.Kind))
		return
	}

	stored, err := h.library.Put(r.Context(), userID, &entry)
	if err != nil {
		respondLibraryError(w, r, err)
		return
	}

	respondSuccess(w, r, http.StatusOK, stored, start)
}

// GetLibraryEntry handles GET /api/v1/users/{userID}/library/{kind}/{itemID}.
func (h *Handler) GetLibraryEntry(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	userID, kind, itemID, ok := entryParams(w, r)
	if !ok {
		return
	}

	entry, err := h.library.Get(r.Context(), userID, kind, itemID)
	if err != nil {
		respondLibraryError(w, r, err)
		return
	}

	respondSuccess(w, r, http.StatusOK, entry, start)
}

// DeleteLibraryEntry handles DELETE /api/v1/users/{userID}/library/{kind}/{itemID}.
func (h *Handler) DeleteLibraryEntry(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	userID, kind, itemID, ok := entryParams(w, r)
	if !ok {
		return
	}

	if err := h.library.Delete(r.Context(), userID, kind, itemID); err != nil {
		respondLibraryError(w, r, err)
		return
	}

	respondSuccess(w, r, http.StatusOK, map[string]interface{}{
		"user_id": userID,
		"kind":    kind,
		"item_id": itemID,
		"deleted": true,
	}, start)
}

func entryParams(w http.ResponseWriter, r *http.Request) (string, recommend.MediaKind, string, bool) {
	userID := chi.URLParam(r, "userID")

	kind := recommend.MediaKind(chi.URLParam(r, "kind"))
	if !kind.Valid() {
		respondInvalidKind(w, r, string(kind))
		return "", "", "", false
	}

	itemID, err := url.PathUnescape(chi.URLParam(r, "itemID"))
	if err != nil || itemID == "" {
		respondError(w, r, http.StatusBadRequest, ErrCodeValidation, "Invalid item ID", nil)
		return "", "", "", false
	}

	return userID, kind, itemID, true
}

func respondInvalidKind(w http.ResponseWriter, r *http.Request, kind string) {
	respondAPIError(w, r, http.StatusBadRequest, &APIError{
		Code:    ErrCodeValidation,
		Message: "kind must be book or show",
		Details: map[string]interface{}{"field": "kind", "value": sanitizeLogValue(kind)},
	})
}

func respondLibraryError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, library.ErrNotFound):
		respondError(w, r, http.StatusNotFound, ErrCodeNotFound, "Library entry not found", nil)
	case errors.Is(err, library.ErrInvalidKey):
		respondError(w, r, http.StatusBadRequest, ErrCodeValidation, "Invalid user or item ID", nil)
	case errors.Is(err, library.ErrClosed):
		respondError(w, r, http.StatusServiceUnavailable, ErrCodeStore, "Library unavailable", err)
	default:
		respondError(w, r, http.StatusInternalServerError, ErrCodeStore, "Library operation failed", err)
	}
}
