// Shelfcast - Reading and Watching Tracker with Cross-Media Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfcast

// Package config loads Shelfcast configuration.
//
// Sources are layered with koanf, later layers overriding earlier ones:
//
//  1. Built-in defaults (defaultConfig)
//  2. Optional YAML file (CONFIG_PATH, ./config.yaml, /etc/shelfcast/config.yaml)
//  3. Environment variables listed in envMappings
//
// Unlisted environment variables are ignored.
package config

import (
	"time"

	"github.com/tomtom215/shelfcast/internal/logging"
	"github.com/tomtom215/shelfcast/internal/recommend"
)

// Config is the complete application configuration.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Logging   LoggingConfig   `koanf:"logging"`
	Security  SecurityConfig  `koanf:"security"`
	Library   LibraryConfig   `koanf:"library"`
	Providers ProvidersConfig `koanf:"providers"`
	Discovery DiscoveryConfig `koanf:"discovery"`
	Recommend RecommendConfig `koanf:"recommend"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	RequestTimeout  time.Duration `koanf:"request_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	Environment     string        `koanf:"environment"` // development or production
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: trace, debug, info, warn, error.
	// Default: info
	Level string `koanf:"level"`

	// Format is json or console.
	// Default: json
	Format string `koanf:"format"`

	// Caller includes file:line in every event.
	Caller bool `koanf:"caller"`
}

// ToLogging converts to the logging package configuration.
func (l LoggingConfig) ToLogging() logging.Config {
	cfg := logging.DefaultConfig()
	cfg.Level = l.Level
	cfg.Format = l.Format
	cfg.Caller = l.Caller
	return cfg
}

// SecurityConfig holds CORS and rate limit settings.
type SecurityConfig struct {
	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
}

// LibraryConfig holds settings for the badger-backed library store.
type LibraryConfig struct {
	// Path is the badger data directory. Ignored when InMemory is set.
	Path string `koanf:"path"`

	// InMemory keeps the library in RAM only. Useful for demos and tests.
	InMemory bool `koanf:"in_memory"`

	// GCInterval is how often the value log is garbage collected.
	// Zero disables periodic GC.
	GCInterval time.Duration `koanf:"gc_interval"`
}

// ProvidersConfig holds catalog source settings.
type ProvidersConfig struct {
	OpenLibrary SourceConfig `koanf:"openlibrary"`
	TVMaze      SourceConfig `koanf:"tvmaze"`

	// Timeout bounds each outbound HTTP request.
	Timeout time.Duration `koanf:"timeout"`

	// UserAgent is sent with every outbound request.
	UserAgent string `koanf:"user_agent"`

	// RatePerSecond and Burst configure the per-source token bucket.
	RatePerSecond float64 `koanf:"rate_per_second"`
	Burst         int     `koanf:"burst"`

	Breaker BreakerConfig `koanf:"breaker"`
	Cache   CacheConfig   `koanf:"cache"`
}

// SourceConfig configures one catalog source.
type SourceConfig struct {
	Enabled bool   `koanf:"enabled"`
	BaseURL string `koanf:"base_url"`

	// DefaultQuery seeds the pool when a user has no usable history.
	DefaultQuery string `koanf:"default_query"`
}

// BreakerConfig configures the per-source circuit breaker.
type BreakerConfig struct {
	// MaxRequests allowed through while half-open.
	MaxRequests uint32 `koanf:"max_requests"`

	// Interval is the closed-state counter reset period.
	Interval time.Duration `koanf:"interval"`

	// Timeout is how long the breaker stays open.
	Timeout time.Duration `koanf:"timeout"`

	// FailureThreshold is the consecutive failure count that trips the breaker.
	FailureThreshold uint32 `koanf:"failure_threshold"`
}

// CacheConfig configures the provider search cache.
type CacheConfig struct {
	TTL        time.Duration `koanf:"ttl"`
	MaxEntries int           `koanf:"max_entries"`
}

// DiscoveryConfig controls how candidate pools are assembled for a user.
type DiscoveryConfig struct {
	// MaxSeeds is the number of distinct genre queries issued per request.
	MaxSeeds int `koanf:"max_seeds"`

	// PerSeedLimit is the result limit passed to each source query.
	PerSeedLimit int `koanf:"per_seed_limit"`

	// MaxCandidates caps the merged pool handed to the engine.
	MaxCandidates int `koanf:"max_candidates"`
}

// RecommendConfig mirrors recommend.Config with flat, env-friendly keys.
type RecommendConfig struct {
	GenreWeight       float64 `koanf:"genre_weight"`
	TagWeight         float64 `koanf:"tag_weight"`
	ExactGenreMatch   float64 `koanf:"exact_genre_match"`
	PartialGenreMatch float64 `koanf:"partial_genre_match"`
	PopularityBonus   float64 `koanf:"popularity_bonus"`

	MaxReasons               int     `koanf:"max_reasons"`
	MaxGenresListed          int     `koanf:"max_genres_listed"`
	MaxTagsListed            int     `koanf:"max_tags_listed"`
	TitleSimilarityThreshold float64 `koanf:"title_similarity_threshold"`
	MinSignificantWordLength int     `koanf:"min_significant_word_length"`

	FallbackEnabled bool    `koanf:"fallback_enabled"`
	FallbackScore   float64 `koanf:"fallback_score"`

	DefaultLimit      int `koanf:"default_limit"`
	MaxLimit          int `koanf:"max_limit"`
	ParallelThreshold int `koanf:"parallel_threshold"`
}

// ToEngineConfig builds the engine configuration.
func (r RecommendConfig) ToEngineConfig() *recommend.Config {
	return &recommend.Config{
		Weights: recommend.WeightsConfig{
			Genre:             r.GenreWeight,
			Tag:               r.TagWeight,
			ExactGenreMatch:   r.ExactGenreMatch,
			PartialGenreMatch: r.PartialGenreMatch,
			PopularityBonus:   r.PopularityBonus,
		},
		Reasons: recommend.ReasonsConfig{
			MaxReasons:               r.MaxReasons,
			MaxGenresListed:          r.MaxGenresListed,
			MaxTagsListed:            r.MaxTagsListed,
			TitleSimilarityThreshold: r.TitleSimilarityThreshold,
			MinSignificantWordLength: r.MinSignificantWordLength,
		},
		Fallback: recommend.FallbackConfig{
			Enabled:      r.FallbackEnabled,
			NominalScore: r.FallbackScore,
		},
		Limits: recommend.LimitsConfig{
			DefaultLimit:      r.DefaultLimit,
			MaxLimit:          r.MaxLimit,
			ParallelThreshold: r.ParallelThreshold,
		},
	}
}

// recommendDefaults derives the flat defaults from the engine defaults so the
// two never drift apart.
func recommendDefaults() RecommendConfig {
	d := recommend.DefaultConfig()
	return RecommendConfig{
		GenreWeight:              d.Weights.Genre,
		TagWeight:                d.Weights.Tag,
		ExactGenreMatch:          d.Weights.ExactGenreMatch,
		PartialGenreMatch:        d.Weights.PartialGenreMatch,
		PopularityBonus:          d.Weights.PopularityBonus,
		MaxReasons:               d.Reasons.MaxReasons,
		MaxGenresListed:          d.Reasons.MaxGenresListed,
		MaxTagsListed:            d.Reasons.MaxTagsListed,
		TitleSimilarityThreshold: d.Reasons.TitleSimilarityThreshold,
		MinSignificantWordLength: d.Reasons.MinSignificantWordLength,
		FallbackEnabled:          d.Fallback.Enabled,
		FallbackScore:            d.Fallback.NominalScore,
		DefaultLimit:             d.Limits.DefaultLimit,
		MaxLimit:                 d.Limits.MaxLimit,
		ParallelThreshold:        d.Limits.ParallelThreshold,
	}
}

// IsProduction reports whether the server runs in production mode.
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}
