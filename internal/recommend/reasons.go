// Shelfcast - Reading and Watching Tracker with Cross-Media Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfcast

package recommend

import (
	"strings"

	"github.com/tomtom215/shelfcast/internal/recommend/genre"
)

// explainSameDomain returns the reasons one reference gives for a candidate,
// in the order genres, themes, title.
func (e *Engine) explainSameDomain(ref *reference, c *candidate) []string {
	rc := e.config.Reasons
	reasons := make([]string, 0, 3)

	if shared := sharedLabels(ref.item.Genres, c.genres, rc.MaxGenresListed); len(shared) > 0 {
		reasons = append(reasons, ReasonSharesGenres+strings.Join(shared, ", "))
	}
	if shared := sharedLabels(ref.item.Tags, c.tags, rc.MaxTagsListed); len(shared) > 0 {
		reasons = append(reasons, ReasonSimilarThemes+strings.Join(shared, ", "))
	}
	if e.titlesRelated(ref.title, c.title) {
		reasons = append(reasons, ReasonRelatedTitle)
	}

	return reasons
}

// sharedLabels returns up to max labels from ordered (original casing) whose
// normalized form is in other. Labels that normalize equal are listed once.
func sharedLabels(ordered []string, other map[string]struct{}, max int) []string {
	if len(other) == 0 {
		return nil
	}

	var out []string
	seen := make(map[string]struct{}, max)
	for _, l := range ordered {
		n := genre.Normalize(l)
		if _, ok := other[n]; !ok {
			continue
		}
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

// titlesRelated applies the franchise heuristic to prepared titles.
func (e *Engine) titlesRelated(a, b titleWords) bool {
	return wordOverlapRatio(a, b) > e.config.Reasons.TitleSimilarityThreshold
}

// finalizeReasons deduplicates by exact string (first occurrence wins),
// truncates to MaxReasons and substitutes generic when nothing is left.
func (e *Engine) finalizeReasons(reasons []string, generic string) []string {
	max := e.config.Reasons.MaxReasons
	out := make([]string, 0, max)
	seen := make(map[string]struct{}, len(reasons))

	for _, r := range reasons {
		if _, dup := seen[r]; dup {
			continue
		}
		seen[r] = struct{}{}
		out = append(out, r)
		if len(out) == max {
			break
		}
	}

	if len(out) == 0 {
		out = append(out, generic)
	}
	return out
}

// genericReason is the fallback explanation for a history of the given kind.
func genericReason(history MediaKind) string {
	if history == KindShow {
		return ReasonViewingHistory
	}
	return ReasonReadingHistory
}

// domainPrefix attributes a cross-domain reason to the history it came from.
func domainPrefix(history MediaKind) string {
	return "From your " + history.Label() + ": "
}
