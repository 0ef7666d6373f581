// Shelfcast - Reading and Watching Tracker with Cross-Media Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfcast

package api

import (
	"time"

	"github.com/tomtom215/shelfcast/internal/library"
)

// APIResponse is the standard envelope for every JSON response.
//
// Fields:
//   - Status: "success" or "error"
//   - Data: Response payload (null on error)
//   - Metadata: Timing information
//   - Error: Error details (omitted on success)
type APIResponse struct {
	Status   string      `json:"status"`
	Data     interface{} `json:"data"`
	Metadata Metadata    `json:"metadata"`
	Error    *APIError   `json:"error,omitempty"`
}

// Metadata contains response metadata.
type Metadata struct {
	Timestamp   time.Time `json:"timestamp"`
	QueryTimeMS int64     `json:"query_time_ms,omitempty"`
	Cached      bool      `json:"cached,omitempty"`
}

// APIError is a structured error body.
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// Error codes for API responses
const (
	ErrCodeValidation       = "VALIDATION_ERROR"
	ErrCodeBadRequest       = "BAD_REQUEST"
	ErrCodeNotFound         = "NOT_FOUND"
	ErrCodeMethodNotAllowed = "METHOD_NOT_ALLOWED"
	ErrCodeProvider         = "PROVIDER_ERROR"
	ErrCodeStore            = "STORE_ERROR"
	ErrCodeInternal         = "INTERNAL_ERROR"
	ErrCodeTooManyRequests  = "TOO_MANY_REQUESTS"
)

// HealthStatus is the payload of GET /health.
type HealthStatus struct {
	Status          string            `json:"status"`
	Version         string            `json:"version"`
	LibraryHealthy  bool              `json:"library_healthy"`
	Providers       map[string]string `json:"providers"`
	Uptime          float64           `json:"uptime"`
	RequestsServed  int64             `json:"recommendations_served"`
	FallbacksServed int64             `json:"fallbacks_served"`
}

// GenreMapping is the payload of GET /api/v1/genres/map.
type GenreMapping struct {
	Genre     string   `json:"genre"`
	Direction string   `json:"direction"`
	Known     bool     `json:"known"`
	Mapped    []string `json:"mapped"`
}

// LibraryList is the payload of GET /api/v1/users/{userID}/library.
type LibraryList struct {
	UserID  string          `json:"user_id"`
	Kind    string          `json:"kind,omitempty"`
	Count   int             `json:"count"`
	Entries []library.Entry `json:"entries"`
}
