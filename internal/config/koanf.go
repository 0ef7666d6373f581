// Shelfcast - Reading and Watching Tracker with Cross-Media Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfcast

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths are searched in order; the first existing file wins.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/shelfcast/config.yaml",
	"/etc/shelfcast/config.yml",
}

// ConfigPathEnvVar overrides the config file search.
const ConfigPathEnvVar = "CONFIG_PATH"

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			RequestTimeout:  20 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			Environment:     "development",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Security: SecurityConfig{
			CORSOrigins:     []string{"*"},
			RateLimitReqs:   120,
			RateLimitWindow: time.Minute,
		},
		Library: LibraryConfig{
			Path:       "/data/library",
			GCInterval: 10 * time.Minute,
		},
		Providers: ProvidersConfig{
			OpenLibrary: SourceConfig{
				Enabled:      true,
				BaseURL:      "https://openlibrary.org",
				DefaultQuery: "fiction",
			},
			TVMaze: SourceConfig{
				Enabled:      true,
				BaseURL:      "https://api.tvmaze.com",
				DefaultQuery: "drama",
			},
			Timeout:       10 * time.Second,
			UserAgent:     "Shelfcast/1.0 (+https://github.com/tomtom215/shelfcast)",
			RatePerSecond: 2,
			Burst:         4,
			Breaker: BreakerConfig{
				MaxRequests:      1,
				Interval:         time.Minute,
				Timeout:          30 * time.Second,
				FailureThreshold: 5,
			},
			Cache: CacheConfig{
				TTL:        15 * time.Minute,
				MaxEntries: 1000,
			},
		},
		Discovery: DiscoveryConfig{
			MaxSeeds:      3,
			PerSeedLimit:  20,
			MaxCandidates: 200,
		},
		Recommend: recommendDefaults(),
	}
}

// Load reads configuration from defaults, an optional YAML file and the
// environment, then validates it.
func Load() (*Config, error) {
	return load(findConfigFile())
}

// LoadFile is Load with an explicit config file path. An empty path skips
// the file layer.
func LoadFile(path string) (*Config, error) {
	return load(path)
}

func load(configPath string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// HTTP_PORT -> server.port, OPENLIBRARY_URL -> providers.openlibrary.base_url
	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// sliceConfigPaths are split on commas when they arrive as strings (env vars).
var sliceConfigPaths = []string{
	"security.cors_origins",
}

func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}

		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if err := k.Set(path, trimmed); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

// envMappings maps lower-cased environment variable names to koanf paths.
var envMappings = map[string]string{
	// Server
	"http_host":        "server.host",
	"http_port":        "server.port",
	"read_timeout":     "server.read_timeout",
	"write_timeout":    "server.write_timeout",
	"request_timeout":  "server.request_timeout",
	"shutdown_timeout": "server.shutdown_timeout",
	"environment":      "server.environment",

	// Logging
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",

	// Security
	"cors_origins":        "security.cors_origins",
	"rate_limit_requests": "security.rate_limit_reqs",
	"rate_limit_window":   "security.rate_limit_window",
	"disable_rate_limit":  "security.rate_limit_disabled",

	// Library
	"library_path":        "library.path",
	"library_in_memory":   "library.in_memory",
	"library_gc_interval": "library.gc_interval",

	// Providers
	"openlibrary_enabled":        "providers.openlibrary.enabled",
	"openlibrary_url":            "providers.openlibrary.base_url",
	"openlibrary_default_query":  "providers.openlibrary.default_query",
	"tvmaze_enabled":             "providers.tvmaze.enabled",
	"tvmaze_url":                 "providers.tvmaze.base_url",
	"tvmaze_default_query":       "providers.tvmaze.default_query",
	"provider_timeout":           "providers.timeout",
	"provider_user_agent":        "providers.user_agent",
	"provider_rate_per_second":   "providers.rate_per_second",
	"provider_burst":             "providers.burst",
	"provider_breaker_timeout":   "providers.breaker.timeout",
	"provider_breaker_threshold": "providers.breaker.failure_threshold",
	"provider_cache_ttl":         "providers.cache.ttl",
	"provider_cache_max_entries": "providers.cache.max_entries",

	// Discovery
	"discovery_max_seeds":      "discovery.max_seeds",
	"discovery_per_seed_limit": "discovery.per_seed_limit",
	"discovery_max_candidates": "discovery.max_candidates",

	// Recommendation engine
	"recommend_genre_weight":        "recommend.genre_weight",
	"recommend_tag_weight":          "recommend.tag_weight",
	"recommend_exact_genre_match":   "recommend.exact_genre_match",
	"recommend_partial_genre_match": "recommend.partial_genre_match",
	"recommend_popularity_bonus":    "recommend.popularity_bonus",
	"recommend_max_reasons":         "recommend.max_reasons",
	"recommend_title_threshold":     "recommend.title_similarity_threshold",
	"recommend_fallback_enabled":    "recommend.fallback_enabled",
	"recommend_fallback_score":      "recommend.fallback_score",
	"recommend_default_limit":       "recommend.default_limit",
	"recommend_max_limit":           "recommend.max_limit",
	"recommend_parallel_threshold":  "recommend.parallel_threshold",
}

// envTransformFunc returns "" for unmapped variables so koanf skips them.
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}
