// Shelfcast - Reading and Watching Tracker with Cross-Media Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfcast

package recommend

import (
	"strings"

	"github.com/tomtom215/shelfcast/internal/recommend/genre"
)

// Overlap counts how many candidate genres and tags exactly match (after
// normalization) some reference genre or tag.
//
// Candidate entries are scanned individually, so a genre listed twice on the
// candidate counts twice when it matches.
func Overlap(refGenres, refTags, candGenres, candTags []string) (genreOverlap, tagOverlap int) {
	return countMatches(genre.Set(refGenres), candGenres), countMatches(genre.Set(refTags), candTags)
}

// countMatches counts candidate labels present in the normalized reference set.
func countMatches(ref map[string]struct{}, candidates []string) int {
	if len(ref) == 0 {
		return 0
	}
	n := 0
	for _, c := range candidates {
		if _, ok := ref[genre.Normalize(c)]; ok {
			n++
		}
	}
	return n
}

// TitleSimilarity returns the share of words two titles have in common:
// words of at least minWordLen characters from a that also appear in b,
// divided by the larger whitespace-split word count of the two titles. Short
// words never match but still count toward the denominator. Returns 0 when
// either title has no significant words.
//
// This is a coarse franchise signal ("Dune" the book vs "Dune" the show), not
// a general similarity metric. Long generic titles can produce false
// positives.
func TitleSimilarity(a, b string, minWordLen int) float64 {
	return wordOverlapRatio(newTitleWords(a, minWordLen), newTitleWords(b, minWordLen))
}

// titleWords is a title prepared for the franchise heuristic.
type titleWords struct {
	significant []string
	total       int
}

func newTitleWords(title string, minLen int) titleWords {
	return titleWords{
		significant: genre.SignificantWords(title, minLen),
		total:       len(strings.Fields(title)),
	}
}

func wordOverlapRatio(a, b titleWords) float64 {
	if len(a.significant) == 0 || len(b.significant) == 0 {
		return 0
	}

	inB := make(map[string]struct{}, len(b.significant))
	for _, w := range b.significant {
		inB[w] = struct{}{}
	}

	common := 0
	for _, w := range a.significant {
		if _, ok := inB[w]; ok {
			common++
		}
	}

	denom := a.total
	if b.total > denom {
		denom = b.total
	}
	return float64(common) / float64(denom)
}

// reference is a history item prepared once per ranking pass.
type reference struct {
	item   Item
	genres map[string]struct{}
	tags   map[string]struct{}
	title  titleWords

	// Cross-domain only: reference genres translated into the target taxonomy.
	mapped      []string
	mappedSet   map[string]struct{}
	mappedWords []string
}

// candidate is a pool item prepared once per ranking pass.
type candidate struct {
	item   Item
	genres map[string]struct{}
	tags   map[string]struct{}
	title  titleWords
}

// newReferences prepares history items for scoring. When mapper is non-nil
// the mapped genre set and its significant words are computed as well.
func (e *Engine) newReferences(history []HistoryEntry, mapper *genre.Mapper) []reference {
	minLen := e.config.Reasons.MinSignificantWordLength
	refs := make([]reference, len(history))

	for i := range history {
		item := history[i].Item
		ref := reference{
			item:   item,
			genres: genre.Set(item.Genres),
			tags:   genre.Set(item.Tags),
			title:  newTitleWords(item.Title, minLen),
		}

		if mapper != nil {
			ref.mapped = mapper.MapAll(item.Genres)
			ref.mappedSet = genre.Set(ref.mapped)
			ref.mappedWords = mappedWords(ref.mapped, minLen)
		}

		refs[i] = ref
	}

	return refs
}

// mappedWords returns the distinct significant words of the mapped labels.
func mappedWords(labels []string, minLen int) []string {
	seen := make(map[string]struct{})
	words := make([]string, 0, len(labels))
	for _, l := range labels {
		for _, w := range genre.SignificantWords(genre.Normalize(l), minLen) {
			if _, dup := seen[w]; dup {
				continue
			}
			seen[w] = struct{}{}
			words = append(words, w)
		}
	}
	return words
}

// newCandidates prepares pool items, skipping excluded IDs and repeated IDs
// (first occurrence wins). Pool order is preserved.
func (e *Engine) newCandidates(pool []Item, exclude map[string]struct{}) []candidate {
	minLen := e.config.Reasons.MinSignificantWordLength
	seen := make(map[string]struct{}, len(pool))
	cands := make([]candidate, 0, len(pool))

	for i := range pool {
		item := pool[i]
		if _, excluded := exclude[item.ID]; excluded {
			continue
		}
		if _, dup := seen[item.ID]; dup {
			continue
		}
		seen[item.ID] = struct{}{}

		cands = append(cands, candidate{
			item:   item,
			genres: genre.Set(item.Genres),
			tags:   genre.Set(item.Tags),
			title:  newTitleWords(item.Title, minLen),
		})
	}

	return cands
}

// scoreSameDomain sums the weighted overlap of c against every reference and
// gathers the reasons each overlapping reference produces.
func (e *Engine) scoreSameDomain(refs []reference, c *candidate, generic string) ScoredCandidate {
	var score float64
	reasons := make([]string, 0, len(refs))

	for i := range refs {
		ref := &refs[i]
		g := countMatches(ref.genres, c.item.Genres)
		t := countMatches(ref.tags, c.item.Tags)
		score += e.config.Weights.Score(g, t)

		reasons = append(reasons, e.explainSameDomain(ref, c)...)
	}

	return ScoredCandidate{
		Item:    c.item,
		Score:   score,
		Reasons: e.finalizeReasons(reasons, generic),
	}
}
