// Shelfcast - Reading and Watching Tracker with Cross-Media Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfcast

package library

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/shelfcast/internal/config"
	"github.com/tomtom215/shelfcast/internal/recommend"
)

// newTestStore opens an in-memory library with a controllable clock.
func newTestStore(t *testing.T) (*Store, *time.Time) {
	t.Helper()

	store, err := Open(&config.LibraryConfig{InMemory: true}, zerolog.Nop())
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }
	return store, &now
}

func bookEntry(id, title string, genres ...string) *Entry {
	return &Entry{Item: recommend.Item{ID: id, Kind: recommend.KindBook, Title: title, Genres: genres}}
}

func showEntry(id, title string, genres ...string) *Entry {
	return &Entry{Item: recommend.Item{ID: id, Kind: recommend.KindShow, Title: title, Genres: genres}}
}

func TestStore_PutGet(t *testing.T) {
	t.Parallel()
	store, _ := newTestStore(t)
	ctx := context.Background()

	entry := bookEntry("ol:OL27448W", "The Lord of the Rings", "Fantasy")
	entry.Status = StatusCompleted
	entry.Rating = 5

	stored, err := store.Put(ctx, "alice", entry)
	if err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	if stored.UserID != "alice" || stored.AddedAt.IsZero() || stored.UpdatedAt.IsZero() {
		t.Errorf("Put() = %+v", stored)
	}
	if stored.Item.Tags == nil {
		t.Error("nil tags should be stored as an empty slice")
	}

	got, err := store.Get(ctx, "alice", recommend.KindBook, "ol:OL27448W")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Item.Title != "The Lord of the Rings" || got.Status != StatusCompleted || got.Rating != 5 {
		t.Errorf("Get() = %+v", got)
	}

	if _, err := store.Get(ctx, "bob", recommend.KindBook, "ol:OL27448W"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() for another user error = %v, want ErrNotFound", err)
	}
	if _, err := store.Get(ctx, "alice", recommend.KindShow, "ol:OL27448W"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() with other kind error = %v, want ErrNotFound", err)
	}
}

func TestStore_PutPreservesAddedAt(t *testing.T) {
	t.Parallel()
	store, now := newTestStore(t)
	ctx := context.Background()

	first, err := store.Put(ctx, "alice", bookEntry("b1", "Dune"))
	if err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	*now = now.Add(48 * time.Hour)
	update := bookEntry("b1", "Dune")
	update.Progress = 40
	second, err := store.Put(ctx, "alice", update)
	if err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	if !second.AddedAt.Equal(first.AddedAt) {
		t.Errorf("AddedAt changed from %v to %v", first.AddedAt, second.AddedAt)
	}
	if !second.UpdatedAt.After(first.UpdatedAt) {
		t.Errorf("UpdatedAt not advanced: %v", second.UpdatedAt)
	}
	if second.Progress != 40 {
		t.Errorf("Progress = %d, want 40", second.Progress)
	}
}

func TestStore_PutInvalid(t *testing.T) {
	t.Parallel()
	store, _ := newTestStore(t)
	ctx := context.Background()

	tests := []struct {
		name   string
		userID string
		entry  *Entry
	}{
		{"empty user", "", bookEntry("b1", "Dune")},
		{"user with separator", "a:b", bookEntry("b1", "Dune")},
		{"empty item id", "alice", bookEntry("", "Dune")},
		{"missing kind", "alice", &Entry{Item: recommend.Item{ID: "x"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := store.Put(ctx, tt.userID, tt.entry); !errors.Is(err, ErrInvalidKey) {
				t.Errorf("Put() error = %v, want ErrInvalidKey", err)
			}
		})
	}
}

func TestStore_Delete(t *testing.T) {
	t.Parallel()
	store, _ := newTestStore(t)
	ctx := context.Background()

	if _, err := store.Put(ctx, "alice", showEntry("tvmaze:82", "Game of Thrones")); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	if err := store.Delete(ctx, "alice", recommend.KindShow, "tvmaze:82"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if err := store.Delete(ctx, "alice", recommend.KindShow, "tvmaze:82"); !errors.Is(err, ErrNotFound) {
		t.Errorf("second Delete() error = %v, want ErrNotFound", err)
	}
	if _, err := store.Get(ctx, "alice", recommend.KindShow, "tvmaze:82"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() after Delete error = %v, want ErrNotFound", err)
	}
}

func TestStore_ListAndHistory(t *testing.T) {
	t.Parallel()
	store, now := newTestStore(t)
	ctx := context.Background()

	put := func(userID string, e *Entry) {
		t.Helper()
		if _, err := store.Put(ctx, userID, e); err != nil {
			t.Fatalf("Put() error = %v", err)
		}
		*now = now.Add(time.Minute)
	}

	put("alice", bookEntry("b-z", "Later book", "Mystery"))
	put("alice", showEntry("s1", "Sherlock", "Crime"))
	put("alice", bookEntry("b-a", "Even later book", "Fantasy"))
	put("bob", bookEntry("b-bob", "Bob's book"))

	books, err := store.List(ctx, "alice", recommend.KindBook)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(books) != 2 || books[0].Item.ID != "b-z" || books[1].Item.ID != "b-a" {
		t.Errorf("List(book) = %+v, want b-z then b-a", books)
	}

	all, err := store.List(ctx, "alice", "")
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(all) != 3 {
		t.Errorf("List(all) returned %d entries, want 3", len(all))
	}

	history, err := store.History(ctx, "alice", recommend.KindShow)
	if err != nil {
		t.Fatalf("History() error = %v", err)
	}
	if len(history) != 1 || history[0].Item.ID != "s1" || history[0].Item.Genres[0] != "Crime" {
		t.Errorf("History(show) = %+v", history)
	}

	empty, err := store.History(ctx, "carol", recommend.KindBook)
	if err != nil {
		t.Fatalf("History() error = %v", err)
	}
	if empty == nil || len(empty) != 0 {
		t.Errorf("History() for unknown user = %v, want empty non-nil", empty)
	}
}

func TestStore_Closed(t *testing.T) {
	t.Parallel()
	store, _ := newTestStore(t)
	ctx := context.Background()

	if err := store.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := store.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}

	if _, err := store.Put(ctx, "alice", bookEntry("b1", "Dune")); !errors.Is(err, ErrClosed) {
		t.Errorf("Put() after Close error = %v, want ErrClosed", err)
	}
	if _, err := store.List(ctx, "alice", ""); !errors.Is(err, ErrClosed) {
		t.Errorf("List() after Close error = %v, want ErrClosed", err)
	}
	if err := store.RunGC(); !errors.Is(err, ErrClosed) {
		t.Errorf("RunGC() after Close error = %v, want ErrClosed", err)
	}
}

func TestStore_CanceledContext(t *testing.T) {
	t.Parallel()
	store, _ := newTestStore(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := store.Put(ctx, "alice", bookEntry("b1", "Dune")); !errors.Is(err, context.Canceled) {
		t.Errorf("Put() error = %v, want context.Canceled", err)
	}
}

func TestStore_ServeStopsOnCancel(t *testing.T) {
	t.Parallel()
	store, _ := newTestStore(t)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- store.Serve(ctx) }()

	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Serve() error = %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Serve() did not return after cancel")
	}

	if store.String() != "library-gc" {
		t.Errorf("String() = %q", store.String())
	}
}

func TestStore_OnDisk(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	ctx := context.Background()

	store, err := Open(&config.LibraryConfig{Path: dir}, zerolog.Nop())
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if _, err := store.Put(ctx, "alice", bookEntry("b1", "Dune", "Science Fiction")); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	if err := store.RunGC(); err != nil {
		t.Errorf("RunGC() error = %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	reopened, err := Open(&config.LibraryConfig{Path: dir}, zerolog.Nop())
	if err != nil {
		t.Fatalf("reopen error = %v", err)
	}
	defer func() { _ = reopened.Close() }()

	got, err := reopened.Get(ctx, "alice", recommend.KindBook, "b1")
	if err != nil {
		t.Fatalf("Get() after reopen error = %v", err)
	}
	if got.Item.Genres[0] != "Science Fiction" {
		t.Errorf("Genres = %v", got.Item.Genres)
	}
}

func TestStore_Ping(t *testing.T) {
	t.Parallel()
	store, _ := newTestStore(t)

	if err := store.Ping(context.Background()); err != nil {
		t.Errorf("Ping() error = %v", err)
	}
	_ = store.Close()
	if err := store.Ping(context.Background()); !errors.Is(err, ErrClosed) {
		t.Errorf("Ping() after Close error = %v, want ErrClosed", err)
	}
}
