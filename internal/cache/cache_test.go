// Shelfcast - Reading and Watching Tracker with Cross-Media Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfcast

package cache

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"
)

// fakeClock lets tests move time without sleeping.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	f.now = f.now.Add(d)
	f.mu.Unlock()
}

func newTestCache(t *testing.T, opts Options) (*Cache[string], *fakeClock) {
	t.Helper()

	clock := &fakeClock{now: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	opts.Name = "test-" + t.Name()
	c := New[string](opts)
	c.now = clock.Now
	return c, clock
}

func TestCache_BasicOperations(t *testing.T) {
	t.Parallel()
	c, _ := newTestCache(t, Options{TTL: time.Minute})

	c.Set("key1", "value1")
	value, ok := c.Get("key1")
	if !ok || value != "value1" {
		t.Errorf("Get(key1) = %q, %v", value, ok)
	}

	if _, ok := c.Get("key2"); ok {
		t.Error("Get(key2) found a value that was never set")
	}

	c.Set("key1", "value2")
	if value, _ := c.Get("key1"); value != "value2" {
		t.Errorf("Get(key1) after overwrite = %q", value)
	}

	c.Delete("key1")
	if _, ok := c.Get("key1"); ok {
		t.Error("Get(key1) after Delete found a value")
	}
}

func TestCache_Expiration(t *testing.T) {
	t.Parallel()
	c, clock := newTestCache(t, Options{TTL: time.Minute})

	c.Set("short", "a")
	c.SetWithTTL("long", "b", time.Hour)

	clock.Advance(2 * time.Minute)

	if _, ok := c.Get("short"); ok {
		t.Error("short entry still present after TTL")
	}
	if _, ok := c.Get("long"); !ok {
		t.Error("long entry expired early")
	}
}

func TestCache_QuotaEvictsExpiredFirst(t *testing.T) {
	t.Parallel()
	c, clock := newTestCache(t, Options{TTL: time.Hour, MaxEntries: 3})

	c.SetWithTTL("expiring", "x", time.Minute)
	c.Set("a", "a")
	c.Set("b", "b")

	clock.Advance(5 * time.Minute)
	c.Set("c", "c")

	if c.Len() != 3 {
		t.Errorf("Len() = %d, want 3", c.Len())
	}
	for _, k := range []string{"a", "b", "c"} {
		if _, ok := c.Get(k); !ok {
			t.Errorf("%s evicted, want the expired entry evicted instead", k)
		}
	}
}

func TestCache_QuotaEvictsClosestToExpiry(t *testing.T) {
	t.Parallel()
	c, _ := newTestCache(t, Options{TTL: time.Hour, MaxEntries: 3})

	c.SetWithTTL("soon", "1", 10*time.Minute)
	c.SetWithTTL("later", "2", 30*time.Minute)
	c.SetWithTTL("latest", "3", 50*time.Minute)
	c.Set("new", "4")

	if _, ok := c.Get("soon"); ok {
		t.Error("soon survived, want it evicted as closest to expiry")
	}
	for _, k := range []string{"later", "latest", "new"} {
		if _, ok := c.Get(k); !ok {
			t.Errorf("%s evicted", k)
		}
	}

	if got := c.GetStats().Evictions; got != 1 {
		t.Errorf("Evictions = %d, want 1", got)
	}
}

func TestCache_OverwriteDoesNotEvict(t *testing.T) {
	t.Parallel()
	c, _ := newTestCache(t, Options{TTL: time.Hour, MaxEntries: 2})

	c.Set("a", "1")
	c.Set("b", "2")
	c.Set("a", "3")

	if c.Len() != 2 {
		t.Errorf("Len() = %d, want 2", c.Len())
	}
	if v, _ := c.Get("b"); v != "2" {
		t.Error("b evicted by overwrite of a")
	}
}

func TestCache_Purge(t *testing.T) {
	t.Parallel()
	c, clock := newTestCache(t, Options{TTL: time.Minute})

	for i := 0; i < 5; i++ {
		c.Set(fmt.Sprintf("k%d", i), "v")
	}
	c.SetWithTTL("keep", "v", time.Hour)

	clock.Advance(2 * time.Minute)
	if n := c.Purge(); n != 5 {
		t.Errorf("Purge() = %d, want 5", n)
	}
	if c.Len() != 1 {
		t.Errorf("Len() = %d, want 1", c.Len())
	}
}

func TestCache_StatsAndHitRate(t *testing.T) {
	t.Parallel()
	c, _ := newTestCache(t, Options{TTL: time.Minute})

	if c.HitRate() != 0 {
		t.Errorf("HitRate() on empty cache = %f", c.HitRate())
	}

	c.Set("k", "v")
	c.Get("k")
	c.Get("k")
	c.Get("k")
	c.Get("missing")

	s := c.GetStats()
	if s.Hits != 3 || s.Misses != 1 || s.TotalKeys != 1 {
		t.Errorf("GetStats() = %+v", s)
	}
	if c.HitRate() != 75 {
		t.Errorf("HitRate() = %f, want 75", c.HitRate())
	}

	c.Clear()
	if c.Len() != 0 {
		t.Errorf("Len() after Clear = %d", c.Len())
	}
}

func TestCache_Serve(t *testing.T) {
	t.Parallel()
	c := New[int](Options{Name: "test-serve", TTL: time.Millisecond, CleanupInterval: 5 * time.Millisecond})
	c.Set("k", 1)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- c.Serve(ctx) }()

	deadline := time.Now().Add(90 * time.Millisecond)
	for c.Len() != 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if c.Len() != 0 {
		t.Error("Serve did not sweep expired entry")
	}

	cancel()
	if err := <-done; err == nil {
		t.Error("Serve() returned nil after cancel, want context error")
	}
	if c.String() != "test-serve-cache" {
		t.Errorf("String() = %q", c.String())
	}
}

func TestCache_ConcurrentAccess(t *testing.T) {
	t.Parallel()
	c := New[int](Options{Name: "test-concurrent", TTL: time.Minute, MaxEntries: 50})

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				key := fmt.Sprintf("k%d", (g*200+i)%120)
				c.Set(key, i)
				c.Get(key)
			}
		}(g)
	}
	wg.Wait()

	if c.Len() > 50 {
		t.Errorf("Len() = %d, exceeds quota", c.Len())
	}
}

func TestGenerateKey(t *testing.T) {
	t.Parallel()

	type params struct {
		Query string `json:"q"`
		Limit int    `json:"limit"`
	}

	a := GenerateKey("openlibrary", params{"fantasy", 20})
	b := GenerateKey("openlibrary", params{"fantasy", 20})
	c := GenerateKey("openlibrary", params{"fantasy", 21})
	d := GenerateKey("tvmaze", params{"fantasy", 20})

	if a != b {
		t.Error("identical params produced different keys")
	}
	if a == c || a == d {
		t.Error("different params or prefixes produced the same key")
	}
}
