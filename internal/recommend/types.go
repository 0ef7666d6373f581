// Shelfcast - Reading and Watching Tracker with Cross-Media Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfcast

package recommend

import (
	"fmt"
	"strings"
	"time"
)

// MediaKind is the media type of a consumable item.
type MediaKind string

const (
	// KindBook is a literary item.
	KindBook MediaKind = "book"
	// KindShow is a televised item.
	KindShow MediaKind = "show"
)

// Valid reports whether k is a known media kind.
func (k MediaKind) Valid() bool {
	return k == KindBook || k == KindShow
}

// Label returns the user-facing plural used in reason strings.
func (k MediaKind) Label() string {
	switch k {
	case KindBook:
		return "books"
	case KindShow:
		return "TV shows"
	default:
		return "items"
	}
}

// Item is a consumable item (a book or a show) with descriptive metadata.
type Item struct {
	// ID is the stable identifier, unique within a candidate pool.
	ID string `json:"id" validate:"required"`

	// Kind is the media type.
	Kind MediaKind `json:"kind,omitempty" validate:"omitempty,mediakind"`

	// Title is the display title.
	Title string `json:"title"`

	// Genres are genre labels. Order is irrelevant; may be empty.
	Genres []string `json:"genres"`

	// Tags are free-text tags or themes. Order is irrelevant; may be empty.
	Tags []string `json:"tags"`
}

// HistoryEntry is an item the user has already added to a list.
type HistoryEntry struct {
	// Item is the wrapped item. Only its genres, tags and title are scored.
	Item Item `json:"item" validate:"required"`

	// AddedAt is when the user added the item.
	AddedAt time.Time `json:"added_at"`
}

// ScoredCandidate is one recommendation.
type ScoredCandidate struct {
	// Item is the recommended candidate.
	Item Item `json:"item"`

	// Score is the non-negative relevance score (higher is better).
	Score float64 `json:"score"`

	// Reasons are 1-3 deduplicated, human-readable explanations.
	Reasons []string `json:"reasons"`
}

// Mode selects one of the four recommendation entry points.
type Mode int

const (
	// ModeBooks recommends books from reading history.
	ModeBooks Mode = iota
	// ModeShows recommends shows from viewing history.
	ModeShows
	// ModeBooksFromShows recommends books from viewing history.
	ModeBooksFromShows
	// ModeShowsFromBooks recommends shows from reading history.
	ModeShowsFromBooks
)

// String returns the wire name of the mode.
func (m Mode) String() string {
	switch m {
	case ModeBooks:
		return "books"
	case ModeShows:
		return "shows"
	case ModeBooksFromShows:
		return "books-from-shows"
	case ModeShowsFromBooks:
		return "shows-from-books"
	default:
		return "unknown"
	}
}

// ParseMode parses a mode wire name.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "books":
		return ModeBooks, nil
	case "shows":
		return ModeShows, nil
	case "books-from-shows":
		return ModeBooksFromShows, nil
	case "shows-from-books":
		return ModeShowsFromBooks, nil
	default:
		return 0, fmt.Errorf("unknown recommendation mode %q", s)
	}
}

// MarshalText encodes the mode as its wire name.
func (m Mode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText decodes a mode wire name.
func (m *Mode) UnmarshalText(text []byte) error {
	parsed, err := ParseMode(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// Modes lists all modes in declaration order.
func Modes() []Mode {
	return []Mode{ModeBooks, ModeShows, ModeBooksFromShows, ModeShowsFromBooks}
}

// Source returns the media kind of the history the mode reads.
func (m Mode) Source() MediaKind {
	switch m {
	case ModeShows, ModeBooksFromShows:
		return KindShow
	default:
		return KindBook
	}
}

// Target returns the media kind the mode recommends.
func (m Mode) Target() MediaKind {
	switch m {
	case ModeShows, ModeShowsFromBooks:
		return KindShow
	default:
		return KindBook
	}
}

// CrossDomain reports whether the mode bridges the two taxonomies.
func (m Mode) CrossDomain() bool {
	return m == ModeBooksFromShows || m == ModeShowsFromBooks
}

// Request is a recommendation request over caller-supplied collections.
type Request struct {
	// Mode selects the entry point.
	Mode Mode `json:"mode"`

	// History is the user's existing list for the mode's source kind.
	History []HistoryEntry `json:"history"`

	// Candidates is the pool to rank.
	Candidates []Item `json:"candidates"`

	// Limit is the maximum number of results.
	// Defaults to Config.Limits.DefaultLimit when zero or negative.
	Limit int `json:"limit,omitempty"`

	// RequestID is a unique identifier for tracing.
	RequestID string `json:"request_id,omitempty"`
}

// Response is the ranked result of a Request.
type Response struct {
	// Items is the ordered list of recommendations.
	Items []ScoredCandidate `json:"items"`

	// TotalCandidates is the pool size before exclusion and filtering.
	TotalCandidates int `json:"total_candidates"`

	// FallbackUsed is true when no candidate overlapped and the pool was
	// surfaced with nominal scores instead.
	FallbackUsed bool `json:"fallback_used"`

	// Metadata contains timing and diagnostic information.
	Metadata ResponseMetadata `json:"metadata"`
}

// ResponseMetadata contains timing and diagnostic information.
type ResponseMetadata struct {
	RequestID string    `json:"request_id,omitempty"`
	Mode      string    `json:"mode"`
	Limit     int       `json:"limit"`
	LatencyMS int64     `json:"latency_ms"`
	Timestamp time.Time `json:"timestamp"`
}

// Metrics contains engine counters for observability.
type Metrics struct {
	// RequestCount is the total number of ranking passes.
	RequestCount int64 `json:"request_count"`

	// FallbackCount is the number of cross-domain passes that used the fallback.
	FallbackCount int64 `json:"fallback_count"`

	// EmptyCount is the number of passes that returned no items.
	EmptyCount int64 `json:"empty_count"`
}
