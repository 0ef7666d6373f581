// Shelfcast - Reading and Watching Tracker with Cross-Media Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfcast

package recommend

import (
	"context"
	"fmt"
	"runtime"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/tomtom215/shelfcast/internal/recommend/genre"
)

// Note: This package depends only on its genre subpackage. Library storage,
// provider lookups and metrics live in the callers.

// Engine ranks candidate pools against a user's history. It holds no
// per-request state and is safe for concurrent use.
type Engine struct {
	config *Config
	logger zerolog.Logger

	tvToBook *genre.Mapper
	bookToTV *genre.Mapper

	requestCount  atomic.Int64
	fallbackCount atomic.Int64
	emptyCount    atomic.Int64
}

// NewEngine creates a new recommendation engine. A nil cfg uses DefaultConfig.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEngine(cfg *Config, logger zerolog.Logger) (*Engine, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Engine{
		config:   cfg.Clone(),
		logger:   logger.With().Str("component", "recommend").Logger(),
		tvToBook: genre.NewMapper(genre.TelevisionToLiterary),
		bookToTV: genre.NewMapper(genre.LiteraryToTelevision),
	}, nil
}

// RecommendBooks ranks a book pool against reading history.
func (e *Engine) RecommendBooks(history []HistoryEntry, pool []Item, limit int) []ScoredCandidate {
	return e.rank(ModeBooks, history, pool, limit).Items
}

// RecommendShows ranks a show pool against viewing history.
func (e *Engine) RecommendShows(history []HistoryEntry, pool []Item, limit int) []ScoredCandidate {
	return e.rank(ModeShows, history, pool, limit).Items
}

// RecommendBooksFromShows ranks a book pool against viewing history by
// translating show genres into literary genres.
func (e *Engine) RecommendBooksFromShows(history []HistoryEntry, pool []Item, limit int) []ScoredCandidate {
	return e.rank(ModeBooksFromShows, history, pool, limit).Items
}

// RecommendShowsFromBooks ranks a show pool against reading history by
// translating literary genres into show genres.
func (e *Engine) RecommendShowsFromBooks(history []HistoryEntry, pool []Item, limit int) []ScoredCandidate {
	return e.rank(ModeShowsFromBooks, history, pool, limit).Items
}

// Recommend runs the entry point selected by req.Mode and returns the result
// with diagnostic metadata.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) Recommend(ctx context.Context, req Request) (*Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	switch req.Mode {
	case ModeBooks, ModeShows, ModeBooksFromShows, ModeShowsFromBooks:
	default:
		return nil, fmt.Errorf("unknown recommendation mode %d", int(req.Mode))
	}

	if req.RequestID == "" {
		req.RequestID = uuid.NewString()
	}

	resp := e.rank(req.Mode, req.History, req.Candidates, req.Limit)
	resp.Metadata.RequestID = req.RequestID
	return resp, nil
}

// rank is the shared pipeline behind every entry point.
func (e *Engine) rank(mode Mode, history []HistoryEntry, pool []Item, limit int) *Response {
	start := time.Now()
	e.requestCount.Add(1)
	limit = e.resolveLimit(limit)

	var (
		items    []ScoredCandidate
		fallback bool
	)
	if mode.CrossDomain() {
		items, fallback = e.rankCrossDomain(mode, history, pool, limit)
	} else {
		items = e.rankSameDomain(mode, history, pool, limit)
	}

	if fallback {
		e.fallbackCount.Add(1)
	}
	if len(items) == 0 {
		e.emptyCount.Add(1)
	}

	resp := &Response{
		Items:           items,
		TotalCandidates: len(pool),
		FallbackUsed:    fallback,
		Metadata: ResponseMetadata{
			Mode:      mode.String(),
			Limit:     limit,
			LatencyMS: time.Since(start).Milliseconds(),
			Timestamp: time.Now(),
		},
	}

	e.logger.Debug().
		Str("mode", mode.String()).
		Int("history", len(history)).
		Int("candidates", len(pool)).
		Int("returned", len(items)).
		Bool("fallback", fallback).
		Int64("latency_ms", resp.Metadata.LatencyMS).
		Msg("recommendation complete")

	return resp
}

// resolveLimit applies the default for non-positive limits and the cap.
func (e *Engine) resolveLimit(limit int) int {
	if limit <= 0 {
		limit = e.config.Limits.DefaultLimit
	}
	if limit > e.config.Limits.MaxLimit {
		limit = e.config.Limits.MaxLimit
	}
	return limit
}

// rankSameDomain scores by exact genre and tag overlap. Candidates already
// in history are excluded.
func (e *Engine) rankSameDomain(mode Mode, history []HistoryEntry, pool []Item, limit int) []ScoredCandidate {
	refs := e.newReferences(history, nil)
	cands := e.newCandidates(pool, historyIDs(history))
	generic := genericReason(mode.Source())

	scored := e.scoreAll(cands, func(c *candidate) ScoredCandidate {
		return e.scoreSameDomain(refs, c, generic)
	})

	return truncate(sortByScore(positive(scored)), limit)
}

// rankCrossDomain scores through the genre mapping tables. An empty history
// yields nothing; a history with no overlap falls back to the pool.
func (e *Engine) rankCrossDomain(mode Mode, history []HistoryEntry, pool []Item, limit int) ([]ScoredCandidate, bool) {
	if len(history) == 0 {
		return []ScoredCandidate{}, false
	}

	refs := e.newReferences(history, e.mapperFor(mode))
	cands := e.newCandidates(pool, nil)
	prefix := domainPrefix(mode.Source())
	generic := genericReason(mode.Source())

	scored := positive(e.scoreAll(cands, func(c *candidate) ScoredCandidate {
		return e.scoreCrossDomain(refs, c, prefix, generic)
	}))

	if len(scored) == 0 {
		if !e.config.Fallback.Enabled || len(cands) == 0 {
			return []ScoredCandidate{}, false
		}
		return e.fallback(cands, generic, limit), true
	}

	return truncate(sortByScore(scored), limit), false
}

// fallback surfaces the first limit candidates in pool order with the
// nominal score and the generic reason.
func (e *Engine) fallback(cands []candidate, generic string, limit int) []ScoredCandidate {
	n := len(cands)
	if n > limit {
		n = limit
	}

	out := make([]ScoredCandidate, n)
	for i := 0; i < n; i++ {
		out[i] = ScoredCandidate{
			Item:    cands[i].item,
			Score:   e.config.Fallback.NominalScore,
			Reasons: []string{generic},
		}
	}
	return out
}

func (e *Engine) mapperFor(mode Mode) *genre.Mapper {
	if mode == ModeShowsFromBooks {
		return e.bookToTV
	}
	return e.tvToBook
}

// scoreAll applies score to every candidate. Large pools are split across
// workers; each result is written to its own index so output order matches
// input order either way.
func (e *Engine) scoreAll(cands []candidate, score func(*candidate) ScoredCandidate) []ScoredCandidate {
	results := make([]ScoredCandidate, len(cands))

	threshold := e.config.Limits.ParallelThreshold
	if threshold == 0 || len(cands) < threshold {
		for i := range cands {
			results[i] = score(&cands[i])
		}
		return results
	}

	workers := runtime.GOMAXPROCS(0)
	chunk := (len(cands) + workers - 1) / workers

	var wg sync.WaitGroup
	for lo := 0; lo < len(cands); lo += chunk {
		hi := lo + chunk
		if hi > len(cands) {
			hi = len(cands)
		}

		wg.Add(1)
		go func(lo, hi int) {
			defer wg.Done()
			for i := lo; i < hi; i++ {
				results[i] = score(&cands[i])
			}
		}(lo, hi)
	}
	wg.Wait()

	return results
}

// GetMetrics returns the current engine counters.
func (e *Engine) GetMetrics() Metrics {
	return Metrics{
		RequestCount:  e.requestCount.Load(),
		FallbackCount: e.fallbackCount.Load(),
		EmptyCount:    e.emptyCount.Load(),
	}
}

// GetConfig returns a copy of the current configuration.
func (e *Engine) GetConfig() *Config {
	return e.config.Clone()
}

// historyIDs collects the IDs a same-domain pass must not recommend.
func historyIDs(history []HistoryEntry) map[string]struct{} {
	ids := make(map[string]struct{}, len(history))
	for i := range history {
		ids[history[i].Item.ID] = struct{}{}
	}
	return ids
}

// positive drops candidates with no overlap, keeping order.
func positive(scored []ScoredCandidate) []ScoredCandidate {
	out := scored[:0]
	for i := range scored {
		if scored[i].Score > 0 {
			out = append(out, scored[i])
		}
	}
	return out
}

// sortByScore orders by score descending. Ties keep pool order.
func sortByScore(scored []ScoredCandidate) []ScoredCandidate {
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})
	return scored
}

func truncate(scored []ScoredCandidate, limit int) []ScoredCandidate {
	if len(scored) > limit {
		scored = scored[:limit]
	}
	return scored
}
