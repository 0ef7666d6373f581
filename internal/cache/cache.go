// Shelfcast - Reading and Watching Tracker with Cross-Media Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfcast

// Package cache provides a TTL cache with an entry quota, used to keep
// catalog search results between recommendation requests.
//
// When a new key would exceed MaxEntries, expired entries are dropped first
// and then the entry closest to expiry. Both come off the same expiry heap.
package cache

import (
	"context"
	"crypto/sha256"
	"fmt"
	"sync"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/shelfcast/internal/metrics"
)

// Options configures a Cache.
type Options struct {
	// Name labels the cache in metrics and supervisor logs.
	Name string

	// TTL is the default lifetime of an entry.
	TTL time.Duration

	// MaxEntries is the quota. Zero means unbounded.
	MaxEntries int

	// CleanupInterval is the Serve loop period. Default: 1 minute.
	CleanupInterval time.Duration
}

// Stats tracks cache performance.
type Stats struct {
	Hits        int64     `json:"hits"`
	Misses      int64     `json:"misses"`
	Evictions   int64     `json:"evictions"`
	TotalKeys   int64     `json:"total_keys"`
	LastCleanup time.Time `json:"last_cleanup"`
}

// Cache is a thread-safe TTL cache with quota eviction.
type Cache[V any] struct {
	mu      sync.Mutex
	opts    Options
	entries map[string]*entry[V]
	order   expiryHeap[V]
	stats   Stats
	now     func() time.Time
}

// New creates a cache. Expired entries are dropped lazily on Get and on
// quota pressure; run Serve to also sweep them periodically.
func New[V any](opts Options) *Cache[V] {
	if opts.CleanupInterval <= 0 {
		opts.CleanupInterval = time.Minute
	}
	if opts.Name == "" {
		opts.Name = "cache"
	}
	return &Cache[V]{
		opts:    opts,
		entries: make(map[string]*entry[V]),
		now:     time.Now,
	}
}

// Get returns the value for key if present and not expired.
func (c *Cache[V]) Get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if ok && !c.now().Before(e.expiresAt) {
		c.removeLocked(e)
		c.stats.Evictions++
		c.updateSizeLocked()
		ok = false
	}

	if !ok {
		c.stats.Misses++
		metrics.RecordCacheLookup(c.opts.Name, false)
		var zero V
		return zero, false
	}

	c.stats.Hits++
	metrics.RecordCacheLookup(c.opts.Name, true)
	return e.value, true
}

// Set stores value with the default TTL.
func (c *Cache[V]) Set(key string, value V) {
	c.SetWithTTL(key, value, c.opts.TTL)
}

// SetWithTTL stores value with a custom TTL, evicting to stay within quota.
func (c *Cache[V]) SetWithTTL(key string, value V, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	expiresAt := now.Add(ttl)

	if e, ok := c.entries[key]; ok {
		e.value = value
		e.expiresAt = expiresAt
		c.order.fix(e.index)
		return
	}

	if c.opts.MaxEntries > 0 {
		c.purgeLocked(now)
		for len(c.entries) >= c.opts.MaxEntries {
			c.removeLocked(c.order.peek())
			c.stats.Evictions++
			metrics.CacheEvictions.WithLabelValues(c.opts.Name).Inc()
		}
	}

	e := &entry[V]{key: key, value: value, expiresAt: expiresAt}
	c.entries[key] = e
	c.order.push(e)
	c.updateSizeLocked()
}

// Delete removes key if present.
func (c *Cache[V]) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[key]; ok {
		c.removeLocked(e)
		c.updateSizeLocked()
	}
}

// Clear removes every entry.
func (c *Cache[V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.stats.Evictions += int64(len(c.entries))
	c.entries = make(map[string]*entry[V])
	c.order = nil
	c.updateSizeLocked()
}

// Len returns the number of stored entries, expired or not.
func (c *Cache[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Purge drops all expired entries and returns how many were removed.
func (c *Cache[V]) Purge() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	n := c.purgeLocked(now)
	c.stats.LastCleanup = now
	c.updateSizeLocked()
	return n
}

// GetStats returns a snapshot of the counters.
func (c *Cache[V]) GetStats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := c.stats
	s.TotalKeys = int64(len(c.entries))
	return s
}

// HitRate returns the hit rate as a percentage.
func (c *Cache[V]) HitRate() float64 {
	s := c.GetStats()
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total) * 100
}

// Serve sweeps expired entries until ctx is done. It satisfies suture.Service.
func (c *Cache[V]) Serve(ctx context.Context) error {
	ticker := time.NewTicker(c.opts.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			c.Purge()
		}
	}
}

// String names the sweeper in supervisor logs.
func (c *Cache[V]) String() string {
	return c.opts.Name + "-cache"
}

func (c *Cache[V]) purgeLocked(now time.Time) int {
	n := 0
	for e := c.order.peek(); e != nil && !now.Before(e.expiresAt); e = c.order.peek() {
		c.removeLocked(e)
		n++
	}
	c.stats.Evictions += int64(n)
	return n
}

func (c *Cache[V]) removeLocked(e *entry[V]) {
	delete(c.entries, e.key)
	c.order.remove(e.index)
}

func (c *Cache[V]) updateSizeLocked() {
	metrics.CacheEntries.WithLabelValues(c.opts.Name).Set(float64(len(c.entries)))
}

// GenerateKey builds a compact key from a prefix and JSON-serializable params.
func GenerateKey(prefix string, params interface{}) string {
	data, err := json.Marshal(params)
	if err != nil {
		return fmt.Sprintf("%s:%v", prefix, params)
	}

	hash := sha256.Sum256(data)
	return fmt.Sprintf("%s:%x", prefix, hash[:16])
}
