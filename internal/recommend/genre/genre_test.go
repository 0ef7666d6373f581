// Shelfcast - Reading and Watching Tracker with Cross-Media Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfcast

package genre

import (
	"reflect"
	"testing"
)

func TestNormalize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"Science Fiction", "science fiction"},
		{"  Drama\t", "drama"},
		{"CRIME", "crime"},
		{"", ""},
		{"   ", ""},
		{"Ça Va", "ça va"},
	}

	for _, tt := range tests {
		if got := Normalize(tt.in); got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNormalize_CaseVariantsCompareEqual(t *testing.T) {
	t.Parallel()

	variants := []string{"Science Fiction", "science fiction", " SCIENCE FICTION ", "Science fiction"}
	for _, v := range variants[1:] {
		if Normalize(v) != Normalize(variants[0]) {
			t.Errorf("Normalize(%q) != Normalize(%q)", v, variants[0])
		}
	}
}

func TestSet(t *testing.T) {
	t.Parallel()

	s := Set([]string{"Drama", "drama ", "Crime"})
	if len(s) != 2 {
		t.Fatalf("len(Set) = %d, want 2", len(s))
	}
	if _, ok := s["drama"]; !ok {
		t.Error("Set missing normalized 'drama'")
	}
}

func TestSignificantWords(t *testing.T) {
	t.Parallel()

	got := SignificantWords("The Lord of the Rings", 4)
	want := []string{"lord", "rings"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("SignificantWords() = %v, want %v", got, want)
	}

	if got := SignificantWords("", 4); len(got) != 0 {
		t.Errorf("SignificantWords(\"\") = %v, want empty", got)
	}
}

func TestMapper_Map(t *testing.T) {
	t.Parallel()

	tv := NewMapper(TelevisionToLiterary)
	books := NewMapper(LiteraryToTelevision)

	tests := []struct {
		name   string
		mapper *Mapper
		label  string
		want   []string
	}{
		{"crime to book subjects", tv, "Crime", []string{"Mystery", "Thriller", "Crime"}},
		{"drama to book subjects", tv, "Drama", []string{"Fiction", "Drama"}},
		{"case and padding insensitive", tv, "  cRiMe ", []string{"Mystery", "Thriller", "Crime"}},
		{"unknown tv genre falls back to Fiction", tv, "Telenovela", []string{"Fiction"}},
		{"book subject to tv genres", books, "Mystery", []string{"Mystery", "Crime", "Thriller"}},
		{"unknown book subject falls back to Drama", books, "Knitting", []string{"Drama"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.mapper.Map(tt.label); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Map(%q) = %v, want %v", tt.label, got, tt.want)
			}
		})
	}
}

func TestMapper_MapReturnsCopy(t *testing.T) {
	t.Parallel()

	m := NewMapper(TelevisionToLiterary)
	first := m.Map("Crime")
	first[0] = "Mutated"

	if got := m.Map("Crime"); got[0] != "Mystery" {
		t.Errorf("table was mutated through returned slice: %v", got)
	}
}

func TestMapper_MapAll(t *testing.T) {
	t.Parallel()

	m := NewMapper(TelevisionToLiterary)

	got := m.MapAll([]string{"Crime", "Drama", "Thriller"})
	want := []string{"Mystery", "Thriller", "Crime", "Fiction", "Drama", "Suspense"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("MapAll() = %v, want %v", got, want)
	}

	if got := m.MapAll(nil); len(got) != 0 {
		t.Errorf("MapAll(nil) = %v, want empty", got)
	}
}

func TestTablesRespectBucketSize(t *testing.T) {
	t.Parallel()

	for name, table := range map[string]map[string][]string{
		"tv-to-book": televisionToLiterary,
		"book-to-tv": literaryToTelevision,
	} {
		for key, targets := range table {
			if key != Normalize(key) {
				t.Errorf("%s: key %q is not normalized", name, key)
			}
			if len(targets) < 1 || len(targets) > 4 {
				t.Errorf("%s: %q maps to %d labels, want 1-4", name, key, len(targets))
			}
		}
	}
}

func TestParseDirection(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    Direction
		wantErr bool
	}{
		{"tv-to-book", TelevisionToLiterary, false},
		{"", TelevisionToLiterary, false},
		{"BOOK-TO-TV", LiteraryToTelevision, false},
		{"sideways", 0, true},
	}

	for _, tt := range tests {
		got, err := ParseDirection(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseDirection(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("ParseDirection(%q) = %v, want %v", tt.in, got, tt.want)
		}
		if !tt.wantErr && got.String() == "unknown" {
			t.Errorf("Direction(%d).String() = unknown", got)
		}
	}
}
