// Shelfcast - Reading and Watching Tracker with Cross-Media Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfcast

package genre

import "strings"

// Normalize returns the comparison form of a genre or tag label:
// lower-cased with surrounding whitespace removed.
//
// All genre and tag equality checks go through Normalize so that
// "Science Fiction", " science fiction" and "SCIENCE FICTION" compare equal.
func Normalize(label string) string {
	return strings.ToLower(strings.TrimSpace(label))
}

// NormalizeAll normalizes every label, preserving order and duplicates.
func NormalizeAll(labels []string) []string {
	out := make([]string, len(labels))
	for i, l := range labels {
		out[i] = Normalize(l)
	}
	return out
}

// Set builds a lookup set of normalized labels.
func Set(labels []string) map[string]struct{} {
	set := make(map[string]struct{}, len(labels))
	for _, l := range labels {
		set[Normalize(l)] = struct{}{}
	}
	return set
}

// SignificantWords splits a label on whitespace and keeps the lower-cased
// words longer than minLen-1 characters, in order.
func SignificantWords(s string, minLen int) []string {
	fields := strings.Fields(strings.ToLower(s))
	words := make([]string, 0, len(fields))
	for _, w := range fields {
		if len([]rune(w)) >= minLen {
			words = append(words, w)
		}
	}
	return words
}
