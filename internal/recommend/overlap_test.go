// Shelfcast - Reading and Watching Tracker with Cross-Media Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfcast

package recommend

import (
	"reflect"
	"testing"
)

func TestOverlap(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name                 string
		refGenres, refTags   []string
		candGenres, candTags []string
		wantGenres, wantTags int
	}{
		{
			name:       "case and whitespace insensitive",
			refGenres:  []string{"Science Fiction"},
			candGenres: []string{"  science fiction "},
			wantGenres: 1,
		},
		{
			name:       "duplicate candidate genres count individually",
			refGenres:  []string{"Horror"},
			candGenres: []string{"Horror", "HORROR", "Fantasy"},
			wantGenres: 2,
		},
		{
			name:      "tags counted separately",
			refGenres: []string{"Drama"},
			refTags:   []string{"family", "Politics"},
			candTags:  []string{"politics", "war"},
			wantTags:  1,
		},
		{
			name:       "empty reference",
			candGenres: []string{"Drama"},
			candTags:   []string{"family"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, tg := Overlap(tt.refGenres, tt.refTags, tt.candGenres, tt.candTags)
			if g != tt.wantGenres || tg != tt.wantTags {
				t.Errorf("Overlap() = (%d, %d), want (%d, %d)", g, tg, tt.wantGenres, tt.wantTags)
			}
		})
	}
}

func TestTitleSimilarity(t *testing.T) {
	t.Parallel()

	tests := []struct {
		a, b string
		want float64
	}{
		{"Dune", "Dune", 1},
		{"Dune", "Dune Messiah", 0.5},
		{"Dune Messiah", "Dune Messiah", 1},
		// short words are never matched but still count toward the denominator
		{"The Lord of the Rings", "The Rings of Power", 0.2},
		{"Game of Thrones", "A Game of Thrones", 0.5},
		{"The Lord of the Rings", "The Rings of Power Lord", 0.4},
		{"The Shining", "Shining", 0.5},
		{"It", "It", 0},
		{"", "Dune", 0},
		{"Foundation", "Severance", 0},
	}

	for _, tt := range tests {
		if got := TitleSimilarity(tt.a, tt.b, 4); got != tt.want {
			t.Errorf("TitleSimilarity(%q, %q) = %f, want %f", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestSharedLabels(t *testing.T) {
	t.Parallel()

	other := map[string]struct{}{"fantasy": {}, "horror": {}, "epic": {}, "gothic": {}}

	got := sharedLabels([]string{"Fantasy", "fantasy", "Romance", " Horror", "Epic", "Gothic"}, other, 3)
	want := []string{"Fantasy", " Horror", "Epic"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("sharedLabels() = %v, want %v", got, want)
	}

	if got := sharedLabels([]string{"Fantasy"}, nil, 3); got != nil {
		t.Errorf("sharedLabels(empty other) = %v, want nil", got)
	}
}

func TestDomainPrefixAndGenericReason(t *testing.T) {
	t.Parallel()

	if got := domainPrefix(KindShow); got != "From your TV shows: " {
		t.Errorf("domainPrefix(show) = %q", got)
	}
	if got := domainPrefix(KindBook); got != "From your books: " {
		t.Errorf("domainPrefix(book) = %q", got)
	}
	if got := genericReason(KindShow); got != ReasonViewingHistory {
		t.Errorf("genericReason(show) = %q", got)
	}
	if got := genericReason(KindBook); got != ReasonReadingHistory {
		t.Errorf("genericReason(book) = %q", got)
	}
}

func TestMode_RoundTrip(t *testing.T) {
	t.Parallel()

	for _, m := range Modes() {
		text, err := m.MarshalText()
		if err != nil {
			t.Fatalf("MarshalText(%v) error = %v", m, err)
		}
		var decoded Mode
		if err := decoded.UnmarshalText(text); err != nil {
			t.Fatalf("UnmarshalText(%s) error = %v", text, err)
		}
		if decoded != m {
			t.Errorf("round trip %v -> %v", m, decoded)
		}
	}

	if _, err := ParseMode("movies"); err == nil {
		t.Error("ParseMode(movies) error = nil")
	}
	if !ModeBooksFromShows.CrossDomain() || ModeBooks.CrossDomain() {
		t.Error("CrossDomain() misclassified")
	}
	if ModeShowsFromBooks.Source() != KindBook || ModeShowsFromBooks.Target() != KindShow {
		t.Error("ShowsFromBooks source/target wrong")
	}
}
