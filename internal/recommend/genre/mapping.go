// Shelfcast - Reading and Watching Tracker with Cross-Media Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfcast

package genre

import "fmt"

// Direction selects which taxonomy is translated into which.
type Direction int

const (
	// TelevisionToLiterary maps TV genres into book subjects.
	TelevisionToLiterary Direction = iota
	// LiteraryToTelevision maps book subjects into TV genres.
	LiteraryToTelevision
)

// String returns the wire name of the direction.
func (d Direction) String() string {
	switch d {
	case TelevisionToLiterary:
		return "tv-to-book"
	case LiteraryToTelevision:
		return "book-to-tv"
	default:
		return "unknown"
	}
}

// ParseDirection parses a direction wire name.
func ParseDirection(s string) (Direction, error) {
	switch Normalize(s) {
	case "tv-to-book", "":
		return TelevisionToLiterary, nil
	case "book-to-tv":
		return LiteraryToTelevision, nil
	default:
		return 0, fmt.Errorf("unknown genre mapping direction %q", s)
	}
}

// televisionToLiterary is keyed by normalized TVmaze-style genre.
var televisionToLiterary = map[string][]string{
	"action":          {"Adventure", "Thriller", "Action"},
	"adult":           {"Romance", "Fiction"},
	"adventure":       {"Adventure", "Fantasy"},
	"anime":           {"Fantasy", "Comics", "Graphic Novels"},
	"children":        {"Juvenile Fiction", "Children"},
	"comedy":          {"Humor", "Fiction"},
	"crime":           {"Mystery", "Thriller", "Crime"},
	"documentary":     {"History", "Biography", "Science"},
	"drama":           {"Fiction", "Drama"},
	"espionage":       {"Thriller", "Spy Stories", "Suspense"},
	"family":          {"Family", "Juvenile Fiction"},
	"fantasy":         {"Fantasy", "Fiction"},
	"food":            {"Cooking"},
	"history":         {"History", "Historical Fiction"},
	"horror":          {"Horror", "Fiction"},
	"legal":           {"Legal", "Thriller", "Crime"},
	"medical":         {"Medical", "Fiction"},
	"music":           {"Music"},
	"mystery":         {"Mystery", "Detective and Mystery Stories"},
	"nature":          {"Nature", "Science"},
	"romance":         {"Romance", "Love Stories"},
	"science-fiction": {"Science Fiction", "Fantasy"},
	"science fiction": {"Science Fiction", "Fantasy"},
	"sports":          {"Sports"},
	"supernatural":    {"Paranormal", "Fantasy", "Horror"},
	"thriller":        {"Thriller", "Suspense", "Mystery"},
	"travel":          {"Travel"},
	"war":             {"War", "Military", "History"},
	"western":         {"Western", "Fiction"},
}

// literaryToTelevision is keyed by normalized Open Library-style subject.
var literaryToTelevision = map[string][]string{
	"adventure":                     {"Adventure", "Action"},
	"biography":                     {"Documentary", "History"},
	"children":                      {"Children", "Family"},
	"comics":                        {"Anime", "Comedy"},
	"crime":                         {"Crime", "Thriller"},
	"detective and mystery stories": {"Mystery", "Crime"},
	"drama":                         {"Drama"},
	"fantasy":                       {"Fantasy", "Adventure", "Supernatural"},
	"fiction":                       {"Drama"},
	"graphic novels":                {"Anime", "Action"},
	"historical fiction":            {"History", "Drama"},
	"history":                       {"History", "Documentary", "War"},
	"horror":                        {"Horror", "Supernatural", "Thriller"},
	"humor":                         {"Comedy"},
	"juvenile fiction":              {"Children", "Family"},
	"legal":                         {"Legal", "Crime"},
	"love stories":                  {"Romance", "Drama"},
	"medical":                       {"Medical", "Drama"},
	"military":                      {"War", "Action"},
	"mystery":                       {"Mystery", "Crime", "Thriller"},
	"paranormal":                    {"Supernatural", "Horror"},
	"romance":                       {"Romance", "Drama"},
	"science":                       {"Documentary", "Science-Fiction"},
	"science fiction":               {"Science-Fiction", "Adventure"},
	"spy stories":                   {"Espionage", "Thriller"},
	"suspense":                      {"Thriller", "Mystery"},
	"thriller":                      {"Thriller", "Crime", "Mystery"},
	"war":                           {"War", "History", "Drama"},
	"western":                       {"Western"},
	"young adult":                   {"Drama", "Family"},
}

// Default buckets for labels the tables do not know.
var (
	defaultLiterary   = []string{"Fiction"}
	defaultTelevision = []string{"Drama"}
)

// Mapper translates genre labels between the TV and book taxonomies.
// It is immutable and safe for concurrent use.
type Mapper struct {
	table    map[string][]string
	fallback []string
	dir      Direction
}

// NewMapper returns the mapper for a direction.
func NewMapper(dir Direction) *Mapper {
	if dir == LiteraryToTelevision {
		return &Mapper{table: literaryToTelevision, fallback: defaultTelevision, dir: dir}
	}
	return &Mapper{table: televisionToLiterary, fallback: defaultLiterary, dir: TelevisionToLiterary}
}

// Direction returns the direction this mapper translates.
func (m *Mapper) Direction() Direction {
	return m.dir
}

// Map returns the target-taxonomy labels for one source label.
// Unknown labels get the direction's default bucket.
func (m *Mapper) Map(label string) []string {
	targets, ok := m.table[Normalize(label)]
	if !ok {
		targets = m.fallback
	}
	out := make([]string, len(targets))
	copy(out, targets)
	return out
}

// MapAll maps every label and returns the ordered union of the results,
// deduplicated by normalized form. An empty input yields an empty result.
func (m *Mapper) MapAll(labels []string) []string {
	seen := make(map[string]struct{}, len(labels)*2)
	out := make([]string, 0, len(labels)*2)
	for _, l := range labels {
		for _, t := range m.Map(l) {
			n := Normalize(t)
			if _, dup := seen[n]; dup {
				continue
			}
			seen[n] = struct{}{}
			out = append(out, t)
		}
	}
	return out
}

// Known reports whether the label has an explicit table entry.
func (m *Mapper) Known(label string) bool {
	_, ok := m.table[Normalize(label)]
	return ok
}
