// Shelfcast - Reading and Watching Tracker with Cross-Media Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfcast

package recommend

import (
	"strings"

	"github.com/tomtom215/shelfcast/internal/recommend/genre"
)

// genreMatch classifies how a candidate genre relates to a mapped genre set.
type genreMatch int

const (
	matchNone genreMatch = iota
	matchPartial
	matchExact
)

// matchMapped classifies one candidate genre against a reference's mapped
// genres. Exact wins over partial. Partial means some significant word of a
// mapped label occurs inside the normalized candidate genre.
func matchMapped(ref *reference, candidateGenre string) genreMatch {
	n := genre.Normalize(candidateGenre)
	if _, ok := ref.mappedSet[n]; ok {
		return matchExact
	}
	for _, w := range ref.mappedWords {
		if strings.Contains(n, w) {
			return matchPartial
		}
	}
	return matchNone
}

// scoreCrossDomain sums the cross-domain score of c against every reference.
// Reasons carry the domain prefix of the history they came from.
func (e *Engine) scoreCrossDomain(refs []reference, c *candidate, prefix, generic string) ScoredCandidate {
	w := e.config.Weights
	var score float64
	reasons := make([]string, 0, len(refs))

	for i := range refs {
		ref := &refs[i]

		matched := make([]string, 0, len(c.item.Genres))
		for _, g := range c.item.Genres {
			switch matchMapped(ref, g) {
			case matchExact:
				score += w.ExactGenreMatch
				matched = append(matched, g)
			case matchPartial:
				score += w.PartialGenreMatch
				matched = append(matched, g)
			}
		}

		score += float64(countMatches(ref.tags, c.item.Tags)) * w.Tag

		related := e.titlesRelated(ref.title, c.title)
		if related {
			score += w.AdaptationBonus()
		}

		reasons = append(reasons, e.explainCrossDomain(ref, c, matched, related, prefix)...)
	}

	return ScoredCandidate{
		Item:    c.item,
		Score:   score,
		Reasons: e.finalizeReasons(reasons, generic),
	}
}

// explainCrossDomain builds prefixed reasons for one reference.
func (e *Engine) explainCrossDomain(ref *reference, c *candidate, matched []string, related bool, prefix string) []string {
	rc := e.config.Reasons
	reasons := make([]string, 0, 3)

	if listed := distinctLabels(matched, rc.MaxGenresListed); len(listed) > 0 {
		reasons = append(reasons, prefix+ReasonSimilarGenres+strings.Join(listed, ", "))
	}
	if shared := sharedLabels(ref.item.Tags, c.tags, rc.MaxTagsListed); len(shared) > 0 {
		reasons = append(reasons, prefix+ReasonSimilarThemes+strings.Join(shared, ", "))
	}
	if related {
		reasons = append(reasons, prefix+ReasonRelatedTitle)
	}

	return reasons
}

// distinctLabels returns up to max labels, skipping normalized repeats.
func distinctLabels(labels []string, max int) []string {
	var out []string
	seen := make(map[string]struct{}, max)
	for _, l := range labels {
		n := genre.Normalize(l)
		if _, dup := seen[n]; dup {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, l)
		if len(out) == max {
			break
		}
	}
	return out
}
