// Shelfcast - Reading and Watching Tracker with Cross-Media Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfcast

package provider

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"github.com/tomtom215/shelfcast/internal/cache"
	"github.com/tomtom215/shelfcast/internal/config"
	"github.com/tomtom215/shelfcast/internal/metrics"
	"github.com/tomtom215/shelfcast/internal/recommend"
	"github.com/tomtom215/shelfcast/internal/recommend/genre"
)

// Ensure Guarded implements Source
var _ Source = (*Guarded)(nil)

// Guarded wraps a Source with a result cache, a rate limiter and a circuit
// breaker.
//
// The breaker uses real time for its interval and timeout. Tests that need
// to observe recovery should use short breaker timeouts rather than mocking
// the clock.
type Guarded struct {
	source  Source
	limiter *rate.Limiter
	cb      *gobreaker.CircuitBreaker[[]recommend.Item]
	cache   *cache.Cache[[]recommend.Item]
	logger  zerolog.Logger
}

type searchKey struct {
	Query string `json:"q"`
	Limit int    `json:"limit"`
}

// NewGuarded wraps src using the shared provider settings.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewGuarded(src Source, cfg *config.ProvidersConfig, logger zerolog.Logger) *Guarded {
	name := src.Name()
	logger = logger.With().Str("component", "provider").Str("source", name).Logger()

	// Initialize circuit breaker state metrics
	metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(gobreaker.StateClosed))
	metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(name).Set(0)

	limit := rate.Limit(cfg.RatePerSecond)
	if cfg.RatePerSecond <= 0 {
		limit = rate.Inf
	}

	threshold := cfg.Breaker.FailureThreshold
	cb := gobreaker.NewCircuitBreaker[[]recommend.Item](gobreaker.Settings{
		Name:        name,
		MaxRequests: cfg.Breaker.MaxRequests,
		Interval:    cfg.Breaker.Interval,
		Timeout:     cfg.Breaker.Timeout,

		ReadyToTrip: func(counts gobreaker.Counts) bool {
			shouldTrip := counts.ConsecutiveFailures >= threshold
			if shouldTrip {
				logger.Warn().
					Uint32("consecutive_failures", counts.ConsecutiveFailures).
					Msg("[CIRCUIT BREAKER] Opening circuit")
			}
			return shouldTrip
		},

		// A caller giving up is not a source failure.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},

		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Info().
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("[CIRCUIT BREAKER] State transition")

			metrics.RecordCircuitBreakerTransition(name, from.String(), to.String(), stateToFloat(to))
			if to == gobreaker.StateClosed {
				metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(name).Set(0)
			}
		},
	})

	return &Guarded{
		source:  src,
		limiter: rate.NewLimiter(limit, cfg.Burst),
		cb:      cb,
		cache: cache.New[[]recommend.Item](cache.Options{
			Name:       name,
			TTL:        cfg.Cache.TTL,
			MaxEntries: cfg.Cache.MaxEntries,
		}),
		logger: logger,
	}
}

// Name implements Source.
func (g *Guarded) Name() string { return g.source.Name() }

// Kind implements Source.
func (g *Guarded) Kind() recommend.MediaKind { return g.source.Kind() }

// Cache exposes the result cache so its sweeper can be supervised.
func (g *Guarded) Cache() *cache.Cache[[]recommend.Item] { return g.cache }

// State returns the current circuit breaker state.
func (g *Guarded) State() gobreaker.State { return g.cb.State() }

// Search serves from the cache when possible and otherwise calls the source
// under the rate limiter and circuit breaker. Successful results, including
// empty ones, are cached.
func (g *Guarded) Search(ctx context.Context, query string, limit int) ([]recommend.Item, error) {
	name := g.source.Name()
	key := cache.GenerateKey(name, searchKey{Query: genre.Normalize(query), Limit: limit})

	if items, ok := g.cache.Get(key); ok {
		metrics.RecordProviderRequest(name, metrics.ResultCacheHit, 0, 0)
		return items, nil
	}

	if err := g.limiter.Wait(ctx); err != nil {
		metrics.RecordProviderRequest(name, metrics.ResultRejected, 0, 0)
		return nil, fmt.Errorf("%s rate limit wait: %w", name, err)
	}

	start := time.Now()
	items, err := g.cb.Execute(func() ([]recommend.Item, error) {
		return g.source.Search(ctx, query, limit)
	})
	duration := time.Since(start)

	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			metrics.RecordProviderRequest(name, metrics.ResultRejected, 0, 0)
			g.logger.Debug().Err(err).Str("query", query).Msg("[CIRCUIT BREAKER] Request rejected")
			return nil, fmt.Errorf("%w: %s: %w", ErrUnavailable, name, err)
		}

		metrics.RecordProviderRequest(name, metrics.ResultError, 0, duration)
		metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(name).Set(float64(g.cb.Counts().ConsecutiveFailures))
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("%w: %s: %w", ErrUnavailable, name, err)
	}

	metrics.RecordProviderRequest(name, metrics.ResultSuccess, len(items), duration)
	metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(name).Set(0)

	g.cache.Set(key, items)
	return items, nil
}

func stateToFloat(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return 0
	}
}
