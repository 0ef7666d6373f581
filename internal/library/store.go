// Shelfcast - Reading and Watching Tracker with Cross-Media Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfcast

package library

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/tomtom215/shelfcast/internal/config"
	"github.com/tomtom215/shelfcast/internal/metrics"
	"github.com/tomtom215/shelfcast/internal/recommend"
)

// gcDiscardRatio is the value log rewrite threshold passed to badger.
const gcDiscardRatio = 0.5

// Store is a BadgerDB-backed library. It is safe for concurrent use.
type Store struct {
	db         *badger.DB
	inMemory   bool
	gcInterval time.Duration
	logger     zerolog.Logger
	now        func() time.Time

	mu     sync.RWMutex
	closed bool
}

// Open opens (or creates) the library described by cfg.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func Open(cfg *config.LibraryConfig, logger zerolog.Logger) (*Store, error) {
	opts := badger.DefaultOptions(cfg.Path)
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	}

	// Reduce logging verbosity
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open BadgerDB: %w", err)
	}

	s := &Store{
		db:         db,
		inMemory:   cfg.InMemory,
		gcInterval: cfg.GCInterval,
		logger:     logger.With().Str("component", "library").Logger(),
		now:        time.Now,
	}

	s.logger.Info().
		Str("path", cfg.Path).
		Bool("in_memory", cfg.InMemory).
		Msg("Library opened")
	return s, nil
}

// Close closes the underlying database. Further calls return ErrClosed.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	return s.db.Close()
}

// Ping reports whether the store can serve requests.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.check(ctx); err != nil {
		return err
	}
	defer s.mu.RUnlock()

	if s.db.IsClosed() {
		return ErrClosed
	}
	return nil
}

// Put inserts or replaces an entry. AddedAt is preserved from an existing
// entry, or set to now unless the caller supplied one. UpdatedAt is always
// set to now. The stored entry is returned.
func (s *Store) Put(ctx context.Context, userID string, entry *Entry) (*Entry, error) {
	start := time.Now()
	stored, err := s.put(ctx, userID, entry)
	metrics.RecordLibraryOperation("put", time.Since(start), err)
	return stored, err
}

func (s *Store) put(ctx context.Context, userID string, entry *Entry) (*Entry, error) {
	if err := s.check(ctx); err != nil {
		return nil, err
	}
	defer s.mu.RUnlock()

	item := entry.Item
	if !validKeyPart(userID) || item.ID == "" || !item.Kind.Valid() {
		return nil, fmt.Errorf("%w: user %q, item %q, kind %q", ErrInvalidKey, userID, item.ID, item.Kind)
	}

	stored := *entry
	stored.UserID = userID
	stored.Item.Genres = nonNil(item.Genres)
	stored.Item.Tags = nonNil(item.Tags)

	now := s.now().UTC()
	key := entryKey(userID, item.Kind, item.ID)

	err := s.db.Update(func(txn *badger.Txn) error {
		existing, err := getEntry(txn, key)
		switch {
		case err == nil:
			stored.AddedAt = existing.AddedAt
		case errors.Is(err, ErrNotFound):
			if stored.AddedAt.IsZero() {
				stored.AddedAt = now
			}
		default:
			return err
		}
		stored.UpdatedAt = now

		data, err := json.Marshal(&stored)
		if err != nil {
			return fmt.Errorf("marshal entry: %w", err)
		}
		return txn.Set(key, data)
	})
	if err != nil {
		return nil, err
	}
	return &stored, nil
}

// Get returns one entry.
func (s *Store) Get(ctx context.Context, userID string, kind recommend.MediaKind, itemID string) (*Entry, error) {
	start := time.Now()
	entry, err := s.get(ctx, userID, kind, itemID)
	metrics.RecordLibraryOperation("get", time.Since(start), ignoreNotFound(err))
	return entry, err
}

func (s *Store) get(ctx context.Context, userID string, kind recommend.MediaKind, itemID string) (*Entry, error) {
	if err := s.check(ctx); err != nil {
		return nil, err
	}
	defer s.mu.RUnlock()

	if !validKeyPart(userID) || itemID == "" || !kind.Valid() {
		return nil, ErrNotFound
	}

	var entry *Entry
	err := s.db.View(func(txn *badger.Txn) error {
		var err error
		entry, err = getEntry(txn, entryKey(userID, kind, itemID))
		return err
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// Delete removes one entry. Deleting a missing entry returns ErrNotFound.
func (s *Store) Delete(ctx context.Context, userID string, kind recommend.MediaKind, itemID string) error {
	start := time.Now()
	err := s.delete(ctx, userID, kind, itemID)
	metrics.RecordLibraryOperation("delete", time.Since(start), ignoreNotFound(err))
	return err
}

func (s *Store) delete(ctx context.Context, userID string, kind recommend.MediaKind, itemID string) error {
	if err := s.check(ctx); err != nil {
		return err
	}
	defer s.mu.RUnlock()

	if !validKeyPart(userID) || itemID == "" || !kind.Valid() {
		return ErrNotFound
	}

	key := entryKey(userID, kind, itemID)
	return s.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(key); err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("get entry: %w", err)
		}
		if err := txn.Delete(key); err != nil {
			return fmt.Errorf("delete entry: %w", err)
		}
		return nil
	})
}

// List returns a user's entries of one kind, or of every kind when kind is
// empty, ordered by AddedAt then item ID.
func (s *Store) List(ctx context.Context, userID string, kind recommend.MediaKind) ([]Entry, error) {
	start := time.Now()
	entries, err := s.list(ctx, userID, kind)
	metrics.RecordLibraryOperation("list", time.Since(start), err)
	return entries, err
}

func (s *Store) list(ctx context.Context, userID string, kind recommend.MediaKind) ([]Entry, error) {
	if err := s.check(ctx); err != nil {
		return nil, err
	}
	defer s.mu.RUnlock()

	if !validKeyPart(userID) {
		return nil, fmt.Errorf("%w: user %q", ErrInvalidKey, userID)
	}

	prefix := userPrefix(userID)
	if kind != "" {
		prefix = kindPrefix(userID, kind)
	}

	entries := []Entry{}
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = true
		opts.Prefix = prefix
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}

			var entry Entry
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &entry)
			})
			if err != nil {
				s.logger.Warn().Err(err).Str("key", string(it.Item().Key())).Msg("Skipping unreadable library entry")
				continue
			}
			entries = append(entries, entry)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if !entries[i].AddedAt.Equal(entries[j].AddedAt) {
			return entries[i].AddedAt.Before(entries[j].AddedAt)
		}
		return entries[i].Item.ID < entries[j].Item.ID
	})
	return entries, nil
}

// History returns a user's entries of one kind as engine history, oldest
// first.
func (s *Store) History(ctx context.Context, userID string, kind recommend.MediaKind) ([]recommend.HistoryEntry, error) {
	entries, err := s.List(ctx, userID, kind)
	if err != nil {
		return nil, err
	}

	history := make([]recommend.HistoryEntry, len(entries))
	for i := range entries {
		history[i] = recommend.HistoryEntry{
			Item:    entries[i].Item,
			AddedAt: entries[i].AddedAt,
		}
	}
	return history, nil
}

// RunGC reclaims value log space until badger reports nothing to rewrite.
func (s *Store) RunGC() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return ErrClosed
	}
	if s.inMemory {
		return nil
	}

	start := time.Now()
	var err error
	for {
		err = s.db.RunValueLogGC(gcDiscardRatio)
		if errors.Is(err, badger.ErrNoRewrite) {
			err = nil
			break
		}
		if err != nil {
			err = fmt.Errorf("run GC: %w", err)
			break
		}
	}
	metrics.RecordLibraryOperation("gc", time.Since(start), err)
	return err
}

// Serve runs value log GC every GCInterval until ctx is done. It satisfies
// suture.Service. A zero interval only waits for shutdown.
func (s *Store) Serve(ctx context.Context) error {
	if s.gcInterval <= 0 || s.inMemory {
		<-ctx.Done()
		return ctx.Err()
	}

	ticker := time.NewTicker(s.gcInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := s.RunGC(); err != nil {
				if errors.Is(err, ErrClosed) {
					return err
				}
				s.logger.Warn().Err(err).Msg("Library GC failed")
			}
		}
	}
}

// String names the GC loop in supervisor logs.
func (s *Store) String() string {
	return "library-gc"
}

// check fails fast on a canceled context or a closed store. On success the
// read lock is held and the caller must release it.
func (s *Store) check(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.RLock()
	if s.closed {
		s.mu.RUnlock()
		return ErrClosed
	}
	return nil
}

func getEntry(txn *badger.Txn, key []byte) (*Entry, error) {
	item, err := txn.Get(key)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get entry: %w", err)
	}

	var entry Entry
	if err := item.Value(func(val []byte) error {
		return json.Unmarshal(val, &entry)
	}); err != nil {
		return nil, fmt.Errorf("unmarshal entry: %w", err)
	}
	return &entry, nil
}

func ignoreNotFound(err error) error {
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	return err
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
