// Shelfcast - Reading and Watching Tracker with Cross-Media Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfcast

// Package discovery assembles candidate pools for a user and ranks them.
//
// For a library-backed request the service loads the user's history of the
// mode's source kind, derives search seeds from its most frequent genres
// (translated through the genre mapper for cross-domain modes), queries
// every catalog of the target kind and hands the merged pool to the engine.
// A user with no usable genres gets each catalog's default query instead.
package discovery

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/tomtom215/shelfcast/internal/config"
	"github.com/tomtom215/shelfcast/internal/logging"
	"github.com/tomtom215/shelfcast/internal/metrics"
	"github.com/tomtom215/shelfcast/internal/provider"
	"github.com/tomtom215/shelfcast/internal/recommend"
	"github.com/tomtom215/shelfcast/internal/recommend/genre"
)

// maxConcurrentSearches bounds outbound catalog calls per request.
const maxConcurrentSearches = 4

// HistoryStore supplies a user's history of one media kind.
type HistoryStore interface {
	History(ctx context.Context, userID string, kind recommend.MediaKind) ([]recommend.HistoryEntry, error)
}

// Catalog is a candidate source with the query used on cold start.
type Catalog struct {
	Source       provider.Source
	DefaultQuery string
}

// Service combines the library, the catalogs and the engine.
type Service struct {
	engine   *recommend.Engine
	library  HistoryStore
	catalogs map[recommend.MediaKind][]Catalog
	cfg      config.DiscoveryConfig
	tvToBook *genre.Mapper
	bookToTV *genre.Mapper
	logger   zerolog.Logger
}

// NewService creates a discovery service. Catalogs are grouped by the kind
// their source returns.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewService(engine *recommend.Engine, library HistoryStore, catalogs []Catalog, cfg *config.DiscoveryConfig, logger zerolog.Logger) *Service {
	byKind := make(map[recommend.MediaKind][]Catalog, 2)
	for _, c := range catalogs {
		kind := c.Source.Kind()
		byKind[kind] = append(byKind[kind], c)
	}

	return &Service{
		engine:   engine,
		library:  library,
		catalogs: byKind,
		cfg:      *cfg,
		tvToBook: genre.NewMapper(genre.TelevisionToLiterary),
		bookToTV: genre.NewMapper(genre.LiteraryToTelevision),
		logger:   logger.With().Str("component", "discovery").Logger(),
	}
}

// Rank runs the engine over a caller-supplied request and records metrics.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (s *Service) Rank(ctx context.Context, req recommend.Request) (*recommend.Response, error) {
	if req.RequestID == "" {
		req.RequestID = logging.RequestIDFromContext(ctx)
	}

	start := time.Now()
	resp, err := s.engine.Recommend(ctx, req)
	if err != nil {
		return nil, err
	}

	metrics.RecordRecommendation(req.Mode.String(), len(req.Candidates), len(resp.Items), resp.FallbackUsed, time.Since(start))
	return resp, nil
}

// ForUser recommends items for a stored library. It fails with
// provider.ErrUnavailable only when every catalog search failed.
func (s *Service) ForUser(ctx context.Context, userID string, mode recommend.Mode, limit int) (*recommend.Response, error) {
	history, err := s.library.History(ctx, userID, mode.Source())
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}

	pool, err := s.Candidates(ctx, history, mode)
	if err != nil {
		return nil, err
	}

	resp, err := s.Rank(ctx, recommend.Request{
		Mode:       mode,
		History:    history,
		Candidates: pool,
		Limit:      limit,
	})
	if err != nil {
		return nil, err
	}

	logging.Ctx(ctx).Debug().
		Str("user_id", userID).
		Str("mode", mode.String()).
		Int("history", len(history)).
		Int("pool", len(pool)).
		Int("returned", len(resp.Items)).
		Msg("user recommendations ranked")

	return resp, nil
}

// Candidates gathers the candidate pool for a history and mode.
func (s *Service) Candidates(ctx context.Context, history []recommend.HistoryEntry, mode recommend.Mode) ([]recommend.Item, error) {
	catalogs := s.catalogs[mode.Target()]
	if len(catalogs) == 0 {
		return []recommend.Item{}, nil
	}

	seeds := s.Seeds(history, mode)

	type query struct {
		catalog Catalog
		text    string
	}
	var queries []query
	for _, c := range catalogs {
		if len(seeds) == 0 {
			if c.DefaultQuery != "" {
				queries = append(queries, query{catalog: c, text: c.DefaultQuery})
			}
			continue
		}
		for _, seed := range seeds {
			queries = append(queries, query{catalog: c, text: seed})
		}
	}

	// Each search writes to its own slot so the merge order is stable.
	results := make([][]recommend.Item, len(queries))
	var (
		mu       sync.Mutex
		failures int
		lastErr  error
	)

	g := new(errgroup.Group)
	g.SetLimit(maxConcurrentSearches)
	for i, q := range queries {
		g.Go(func() error {
			items, err := q.catalog.Source.Search(ctx, q.text, s.cfg.PerSeedLimit)
			if err != nil {
				mu.Lock()
				failures++
				lastErr = err
				mu.Unlock()
				s.logger.Warn().Err(err).
					Str("source", q.catalog.Source.Name()).
					Str("query", q.text).
					Msg("Catalog search failed")
				return nil
			}
			results[i] = items
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(queries) > 0 && failures == len(queries) {
		if errors.Is(lastErr, provider.ErrUnavailable) {
			return nil, lastErr
		}
		return nil, fmt.Errorf("%w: %w", provider.ErrUnavailable, lastErr)
	}

	return mergePools(results, s.cfg.MaxCandidates), nil
}

// Seeds returns the search queries for a history: its genres ordered by
// frequency (ties by first appearance), mapped into the target taxonomy for
// cross-domain modes, capped at MaxSeeds.
func (s *Service) Seeds(history []recommend.HistoryEntry, mode recommend.Mode) []string {
	labels := topGenres(history)

	switch mode {
	case recommend.ModeBooksFromShows:
		labels = s.tvToBook.MapAll(labels)
	case recommend.ModeShowsFromBooks:
		labels = s.bookToTV.MapAll(labels)
	}

	if s.cfg.MaxSeeds > 0 && len(labels) > s.cfg.MaxSeeds {
		labels = labels[:s.cfg.MaxSeeds]
	}
	return labels
}

// topGenres orders distinct history genres by frequency.
func topGenres(history []recommend.HistoryEntry) []string {
	type counted struct {
		label string
		count int
	}

	byNorm := make(map[string]*counted)
	var order []*counted
	for i := range history {
		for _, g := range history[i].Item.Genres {
			n := genre.Normalize(g)
			if n == "" {
				continue
			}
			if c, ok := byNorm[n]; ok {
				c.count++
				continue
			}
			c := &counted{label: strings.TrimSpace(g), count: 1}
			byNorm[n] = c
			order = append(order, c)
		}
	}

	sort.SliceStable(order, func(i, j int) bool {
		return order[i].count > order[j].count
	})

	labels := make([]string, len(order))
	for i, c := range order {
		labels[i] = c.label
	}
	return labels
}

// mergePools concatenates results in query order, keeping the first item
// seen for each ID, up to max items when max is positive.
func mergePools(results [][]recommend.Item, max int) []recommend.Item {
	seen := make(map[string]struct{})
	pool := []recommend.Item{}

	for _, items := range results {
		for i := range items {
			if _, dup := seen[items[i].ID]; dup {
				continue
			}
			seen[items[i].ID] = struct{}{}
			pool = append(pool, items[i])
			if max > 0 && len(pool) == max {
				return pool
			}
		}
	}
	return pool
}
