// Shelfcast - Reading and Watching Tracker with Cross-Media Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfcast

package api

import (
	"net/http"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"
)

// Health handles GET /health.
// The service is "degraded" when the library is unreachable or a catalog
// breaker is open; recommendations over supplied pools still work then.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	libraryHealthy := h.library != nil && h.library.Ping(r.Context()) == nil

	status := "healthy"
	if !libraryHealthy {
		status = "degraded"
	}

	providers := make(map[string]string, len(h.breakers))
	for _, b := range h.breakers {
		state := b.State()
		providers[b.Name()] = state.String()
		if state == gobreaker.StateOpen {
			status = "degraded"
		}
	}

	health := HealthStatus{
		Status:         status,
		Version:        Version,
		LibraryHealthy: libraryHealthy,
		Providers:      providers,
		Uptime:         time.Since(h.startTime).Seconds(),
	}
	if h.stats != nil {
		m := h.stats.GetMetrics()
		health.RequestsServed = m.RequestCount
		health.FallbacksServed = m.FallbackCount
	}

	respondSuccess(w, r, http.StatusOK, health, start)
}

// HealthLive handles GET /health/live.
// Returns 200 OK if the process is alive, regardless of dependencies.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	respondSuccess(w, r, http.StatusOK, map[string]interface{}{
		"alive":  true,
		"uptime": time.Since(h.startTime).Seconds(),
	}, time.Now())
}

// HealthReady handles GET /health/ready.
// Returns 503 until the library can serve requests.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	if h.library == nil {
		respondError(w, r, http.StatusServiceUnavailable, ErrCodeStore, "Library not configured", nil)
		return
	}
	if err := h.library.Ping(r.Context()); err != nil {
		respondError(w, r, http.StatusServiceUnavailable, ErrCodeStore, "Library not ready", err)
		return
	}

	respondSuccess(w, r, http.StatusOK, map[string]interface{}{
		"ready": true,
	}, time.Now())
}
