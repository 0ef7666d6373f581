// Shelfcast - Reading and Watching Tracker with Cross-Media Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfcast

package provider

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/shelfcast/internal/recommend"
)

// fakeSource counts calls and returns a canned result.
type fakeSource struct {
	name  string
	calls atomic.Int32
	items []recommend.Item
	err   error
}

func (f *fakeSource) Name() string              { return f.name }
func (f *fakeSource) Kind() recommend.MediaKind { return recommend.KindBook }

func (f *fakeSource) Search(_ context.Context, _ string, _ int) ([]recommend.Item, error) {
	f.calls.Add(1)
	if f.err != nil {
		return nil, f.err
	}
	return f.items, nil
}

func TestGuarded_CachesResults(t *testing.T) {
	t.Parallel()

	src := &fakeSource{
		name:  "fake-cache",
		items: []recommend.Item{{ID: "b1", Kind: recommend.KindBook, Title: "Dune"}},
	}
	g := NewGuarded(src, testProvidersConfig(), zerolog.Nop())

	for i := 0; i < 3; i++ {
		items, err := g.Search(context.Background(), "Science Fiction", 10)
		if err != nil {
			t.Fatalf("Search() error = %v", err)
		}
		if len(items) != 1 || items[0].ID != "b1" {
			t.Fatalf("Search() = %+v", items)
		}
	}

	// Queries differing only in case and spacing share a cache entry.
	if _, err := g.Search(context.Background(), "  science fiction ", 10); err != nil {
		t.Fatalf("Search() error = %v", err)
	}

	if got := src.calls.Load(); got != 1 {
		t.Errorf("source calls = %d, want 1", got)
	}

	if _, err := g.Search(context.Background(), "science fiction", 20); err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if got := src.calls.Load(); got != 2 {
		t.Errorf("source calls after new limit = %d, want 2", got)
	}
}

func TestGuarded_BreakerOpensAfterFailures(t *testing.T) {
	t.Parallel()

	src := &fakeSource{name: "fake-breaker", err: errors.New("connection refused")}
	cfg := testProvidersConfig()
	g := NewGuarded(src, cfg, zerolog.Nop())

	for i := 0; i < int(cfg.Breaker.FailureThreshold); i++ {
		_, err := g.Search(context.Background(), "mystery", 10)
		if !errors.Is(err, ErrUnavailable) {
			t.Fatalf("attempt %d: error = %v, want ErrUnavailable", i, err)
		}
	}

	if g.State() != gobreaker.StateOpen {
		t.Fatalf("State() = %v, want open", g.State())
	}

	_, err := g.Search(context.Background(), "mystery", 10)
	if !errors.Is(err, ErrUnavailable) || !errors.Is(err, gobreaker.ErrOpenState) {
		t.Errorf("error = %v, want ErrUnavailable wrapping ErrOpenState", err)
	}
	if got := src.calls.Load(); got != int32(cfg.Breaker.FailureThreshold) {
		t.Errorf("source calls = %d, want %d", got, cfg.Breaker.FailureThreshold)
	}
}

func TestGuarded_FailuresAreNotCached(t *testing.T) {
	t.Parallel()

	src := &fakeSource{name: "fake-nocache", err: errors.New("timeout")}
	g := NewGuarded(src, testProvidersConfig(), zerolog.Nop())

	_, _ = g.Search(context.Background(), "horror", 10)
	src.err = nil
	src.items = []recommend.Item{{ID: "b2"}}

	items, err := g.Search(context.Background(), "horror", 10)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(items) != 1 {
		t.Errorf("len(items) = %d, want 1", len(items))
	}
	if g.Cache().Len() != 1 {
		t.Errorf("cache Len() = %d, want 1", g.Cache().Len())
	}
}

func TestGuarded_CanceledContext(t *testing.T) {
	t.Parallel()

	src := &fakeSource{name: "fake-cancel"}
	cfg := testProvidersConfig()
	cfg.RatePerSecond = 0.001
	cfg.Burst = 1
	g := NewGuarded(src, cfg, zerolog.Nop())

	// Drain the single token.
	if _, err := g.Search(context.Background(), "a", 1); err != nil {
		t.Fatalf("Search() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := g.Search(ctx, "b", 1); err == nil {
		t.Error("Search() with canceled context and empty bucket returned nil error")
	}
	if got := src.calls.Load(); got != 1 {
		t.Errorf("source calls = %d, want 1", got)
	}
}

func TestGuarded_Delegates(t *testing.T) {
	t.Parallel()

	src := &fakeSource{name: "fake-delegate"}
	g := NewGuarded(src, testProvidersConfig(), zerolog.Nop())

	if g.Name() != "fake-delegate" || g.Kind() != recommend.KindBook {
		t.Errorf("Name/Kind = %s/%s", g.Name(), g.Kind())
	}
	if g.State() != gobreaker.StateClosed {
		t.Errorf("State() = %v, want closed", g.State())
	}
}
