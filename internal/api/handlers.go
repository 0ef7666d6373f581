// Shelfcast - Reading and Watching Tracker with Cross-Media Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfcast

package api

import (
	"context"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/shelfcast/internal/library"
	"github.com/tomtom215/shelfcast/internal/recommend"
	"github.com/tomtom215/shelfcast/internal/recommend/genre"
)

// Version is reported by the health endpoint. Overridden at build time.
var Version = "dev"

// Recommender ranks pools. Implemented by discovery.Service.
type Recommender interface {
	Rank(ctx context.Context, req recommend.Request) (*recommend.Response, error)
	ForUser(ctx context.Context, userID string, mode recommend.Mode, limit int) (*recommend.Response, error)
}

// LibraryStore is the subset of library.Store the handlers use.
type LibraryStore interface {
	Ping(ctx context.Context) error
	Put(ctx context.Context, userID string, entry *library.Entry) (*library.Entry, error)
	Get(ctx context.Context, userID string, kind recommend.MediaKind, itemID string) (*library.Entry, error)
	Delete(ctx context.Context, userID string, kind recommend.MediaKind, itemID string) error
	List(ctx context.Context, userID string, kind recommend.MediaKind) ([]library.Entry, error)
}

// BreakerStatus reports a catalog source's circuit breaker state.
type BreakerStatus interface {
	Name() string
	State() gobreaker.State
}

// EngineStats exposes engine counters.
type EngineStats interface {
	GetMetrics() recommend.Metrics
}

// Handler contains dependencies for API handlers
//
// Handler methods are split across files:
//   - handlers.go: Handler struct and constructor (this file)
//   - handlers_recommend.go: Recommendation endpoints
//   - handlers_library.go: Library CRUD endpoints
//   - handlers_genre.go: Genre mapping lookup
//   - handlers_health.go: Health endpoints
type Handler struct {
	recommender Recommender
	library     LibraryStore
	stats       EngineStats
	breakers    []BreakerStatus
	mappers     map[genre.Direction]*genre.Mapper
	startTime   time.Time
}

// NewHandler creates the API handler.
//
// Example:
//
//	handler := api.NewHandler(service, store, engine, breakers)
//	router := api.NewRouter(handler, api.NewChiMiddleware(mwConfig), cfg.Server.RequestTimeout)
//	http.ListenAndServe(":8080", router.SetupChi())
func NewHandler(recommender Recommender, store LibraryStore, stats EngineStats, breakers []BreakerStatus) *Handler {
	return &Handler{
		recommender: recommender,
		library:     store,
		stats:       stats,
		breakers:    breakers,
		mappers: map[genre.Direction]*genre.Mapper{
			genre.TelevisionToLiterary: genre.NewMapper(genre.TelevisionToLiterary),
			genre.LiteraryToTelevision: genre.NewMapper(genre.LiteraryToTelevision),
		},
		startTime: time.Now(),
	}
}
