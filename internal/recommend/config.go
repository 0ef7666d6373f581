// Shelfcast - Reading and Watching Tracker with Cross-Media Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfcast

package recommend

import "fmt"

// Default scoring weights.
const (
	// DefaultGenreWeight is the score per exact genre match in same-domain ranking.
	DefaultGenreWeight = 10.0
	// DefaultTagWeight is the score per exact tag match.
	DefaultTagWeight = 3.0
	// DefaultExactGenreMatch is the score per exact mapped-genre match in cross-domain ranking.
	DefaultExactGenreMatch = 10.0
	// DefaultPartialGenreMatch is the score per partial mapped-genre match in cross-domain ranking.
	DefaultPartialGenreMatch = 5.0
	// DefaultPopularityBonus is the title-adaptation bonus unit. Cross-domain ranking adds twice this.
	DefaultPopularityBonus = 5.0
)

// Default reason and fallback strings.
const (
	ReasonSharesGenres   = "Shares genres: "
	ReasonSimilarGenres  = "Similar genres: "
	ReasonSimilarThemes  = "Similar themes: "
	ReasonRelatedTitle   = "Related series or adaptation"
	ReasonReadingHistory = "Based on your reading history"
	ReasonViewingHistory = "Based on your viewing history"
)

// Config contains all configuration for the recommendation engine.
// Values are read per call; the engine holds no other mutable state.
type Config struct {
	// Weights defines how overlaps translate into scores.
	Weights WeightsConfig `json:"weights"`

	// Reasons controls reason generation.
	Reasons ReasonsConfig `json:"reasons"`

	// Fallback controls the cross-domain fallback policy.
	Fallback FallbackConfig `json:"fallback"`

	// Limits contains operational limits.
	Limits LimitsConfig `json:"limits"`
}

// WeightsConfig defines the score contribution of each kind of overlap.
type WeightsConfig struct {
	// Genre is the score per exact genre match (same-domain).
	// Default: 10.
	Genre float64 `json:"genre"`

	// Tag is the score per exact tag match (both paths).
	// Default: 3.
	Tag float64 `json:"tag"`

	// ExactGenreMatch is the score per exact mapped-genre match (cross-domain).
	// Default: 10.
	ExactGenreMatch float64 `json:"exact_genre_match"`

	// PartialGenreMatch is the score per partial mapped-genre match (cross-domain).
	// Default: 5.
	PartialGenreMatch float64 `json:"partial_genre_match"`

	// PopularityBonus is the title-adaptation bonus unit.
	// Cross-domain ranking adds 2x this for related titles.
	// Default: 5.
	PopularityBonus float64 `json:"popularity_bonus"`
}

// Score returns the same-domain weighted score for one reference item.
func (w WeightsConfig) Score(genreOverlap, tagOverlap int) float64 {
	return float64(genreOverlap)*w.Genre + float64(tagOverlap)*w.Tag
}

// AdaptationBonus returns the cross-domain bonus for related titles.
func (w WeightsConfig) AdaptationBonus() float64 {
	return w.PopularityBonus * 2
}

// ReasonsConfig controls reason generation.
type ReasonsConfig struct {
	// MaxReasons is the maximum number of reasons per candidate.
	// Default: 3.
	MaxReasons int `json:"max_reasons"`

	// MaxGenresListed is how many genres a genre reason lists.
	// Default: 3.
	MaxGenresListed int `json:"max_genres_listed"`

	// MaxTagsListed is how many tags a theme reason lists.
	// Default: 2.
	MaxTagsListed int `json:"max_tags_listed"`

	// TitleSimilarityThreshold is the shared-word ratio above which two
	// titles are treated as the same franchise.
	// Default: 0.5.
	TitleSimilarityThreshold float64 `json:"title_similarity_threshold"`

	// MinSignificantWordLength is the minimum length of a title word (and of
	// a mapped-genre word for partial matching) to be considered.
	// Default: 4.
	MinSignificantWordLength int `json:"min_significant_word_length"`
}

// FallbackConfig controls the cross-domain fallback policy.
type FallbackConfig struct {
	// Enabled surfaces the candidate pool when no candidate overlaps.
	// Default: true.
	Enabled bool `json:"enabled"`

	// NominalScore is assigned to every fallback candidate.
	// Default: 0.1.
	NominalScore float64 `json:"nominal_score"`
}

// LimitsConfig contains operational limits.
type LimitsConfig struct {
	// DefaultLimit is used when a request limit is zero or negative.
	// Default: 20.
	DefaultLimit int `json:"default_limit"`

	// MaxLimit caps any requested limit.
	// Default: 100.
	MaxLimit int `json:"max_limit"`

	// ParallelThreshold is the pool size at which candidates are scored
	// concurrently. Zero disables concurrent scoring.
	// Default: 512.
	ParallelThreshold int `json:"parallel_threshold"`
}

// DefaultConfig returns a Config with the production defaults.
func DefaultConfig() *Config {
	return &Config{
		Weights: WeightsConfig{
			Genre:             DefaultGenreWeight,
			Tag:               DefaultTagWeight,
			ExactGenreMatch:   DefaultExactGenreMatch,
			PartialGenreMatch: DefaultPartialGenreMatch,
			PopularityBonus:   DefaultPopularityBonus,
		},
		Reasons: ReasonsConfig{
			MaxReasons:               3,
			MaxGenresListed:          3,
			MaxTagsListed:            2,
			TitleSimilarityThreshold: 0.5,
			MinSignificantWordLength: 4,
		},
		Fallback: FallbackConfig{
			Enabled:      true,
			NominalScore: 0.1,
		},
		Limits: LimitsConfig{
			DefaultLimit:      20,
			MaxLimit:          100,
			ParallelThreshold: 512,
		},
	}
}

// Validate checks the configuration for errors.
//
//nolint:gocyclo // validation needs to check many fields
func (c *Config) Validate() error {
	w := c.Weights
	if w.Genre < 0 {
		return fmt.Errorf("weights.genre must be non-negative, got %f", w.Genre)
	}
	if w.Tag < 0 {
		return fmt.Errorf("weights.tag must be non-negative, got %f", w.Tag)
	}
	if w.ExactGenreMatch < 0 {
		return fmt.Errorf("weights.exact_genre_match must be non-negative, got %f", w.ExactGenreMatch)
	}
	if w.PartialGenreMatch < 0 {
		return fmt.Errorf("weights.partial_genre_match must be non-negative, got %f", w.PartialGenreMatch)
	}
	if w.PopularityBonus < 0 {
		return fmt.Errorf("weights.popularity_bonus must be non-negative, got %f", w.PopularityBonus)
	}

	r := c.Reasons
	if r.MaxReasons < 1 {
		return fmt.Errorf("reasons.max_reasons must be positive, got %d", r.MaxReasons)
	}
	if r.MaxGenresListed < 1 {
		return fmt.Errorf("reasons.max_genres_listed must be positive, got %d", r.MaxGenresListed)
	}
	if r.MaxTagsListed < 1 {
		return fmt.Errorf("reasons.max_tags_listed must be positive, got %d", r.MaxTagsListed)
	}
	if r.TitleSimilarityThreshold < 0 || r.TitleSimilarityThreshold > 1 {
		return fmt.Errorf("reasons.title_similarity_threshold must be in [0, 1], got %f", r.TitleSimilarityThreshold)
	}
	if r.MinSignificantWordLength < 1 {
		return fmt.Errorf("reasons.min_significant_word_length must be positive, got %d", r.MinSignificantWordLength)
	}

	if c.Fallback.NominalScore <= 0 {
		return fmt.Errorf("fallback.nominal_score must be positive, got %f", c.Fallback.NominalScore)
	}

	if c.Limits.DefaultLimit < 1 {
		return fmt.Errorf("limits.default_limit must be positive, got %d", c.Limits.DefaultLimit)
	}
	if c.Limits.MaxLimit < c.Limits.DefaultLimit {
		return fmt.Errorf("limits.max_limit must be >= limits.default_limit, got %d < %d", c.Limits.MaxLimit, c.Limits.DefaultLimit)
	}
	if c.Limits.ParallelThreshold < 0 {
		return fmt.Errorf("limits.parallel_threshold must be non-negative, got %d", c.Limits.ParallelThreshold)
	}

	return nil
}

// Clone returns a deep copy of the configuration.
func (c *Config) Clone() *Config {
	// All nested structs contain only value types
	clone := *c
	return &clone
}
