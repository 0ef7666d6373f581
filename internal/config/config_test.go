// Shelfcast - Reading and Watching Tracker with Cross-Media Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfcast

package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/tomtom215/shelfcast/internal/recommend"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := defaultConfig()

	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Providers.OpenLibrary.BaseURL != "https://openlibrary.org" {
		t.Errorf("OpenLibrary.BaseURL = %q", cfg.Providers.OpenLibrary.BaseURL)
	}
	if cfg.Providers.TVMaze.BaseURL != "https://api.tvmaze.com" {
		t.Errorf("TVMaze.BaseURL = %q", cfg.Providers.TVMaze.BaseURL)
	}
	if cfg.Providers.Cache.MaxEntries != 1000 {
		t.Errorf("Cache.MaxEntries = %d, want 1000", cfg.Providers.Cache.MaxEntries)
	}
	if len(cfg.Security.CORSOrigins) != 1 || cfg.Security.CORSOrigins[0] != "*" {
		t.Errorf("Security.CORSOrigins = %v, want [*]", cfg.Security.CORSOrigins)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults do not validate: %v", err)
	}
}

func TestRecommendConfig_ToEngineConfig(t *testing.T) {
	got := recommendDefaults().ToEngineConfig()
	if !reflect.DeepEqual(got, recommend.DefaultConfig()) {
		t.Errorf("ToEngineConfig() = %+v, want engine defaults", got)
	}
}

func TestEnvTransformFunc(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"HTTP_PORT", "server.port"},
		{"LOG_LEVEL", "logging.level"},
		{"CORS_ORIGINS", "security.cors_origins"},
		{"LIBRARY_IN_MEMORY", "library.in_memory"},
		{"OPENLIBRARY_URL", "providers.openlibrary.base_url"},
		{"TVMAZE_ENABLED", "providers.tvmaze.enabled"},
		{"PROVIDER_CACHE_TTL", "providers.cache.ttl"},
		{"RECOMMEND_FALLBACK_SCORE", "recommend.fallback_score"},
		{"PATH", ""},
		{"HOME", ""},
	}

	for _, tt := range tests {
		if got := envTransformFunc(tt.input); got != tt.expected {
			t.Errorf("envTransformFunc(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestLoadFile_YAMLOverridesDefaults(t *testing.T) {
	path := writeConfigFile(t, `
server:
  port: 9090
library:
  in_memory: true
providers:
  tvmaze:
    enabled: false
  cache:
    ttl: 5m
recommend:
  genre_weight: 12
  fallback_enabled: false
`)

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %d, want 9090", cfg.Server.Port)
	}
	if !cfg.Library.InMemory {
		t.Error("Library.InMemory = false, want true")
	}
	if cfg.Providers.TVMaze.Enabled {
		t.Error("TVMaze.Enabled = true, want false")
	}
	if cfg.Providers.TVMaze.BaseURL != "https://api.tvmaze.com" {
		t.Errorf("TVMaze.BaseURL = %q, default lost", cfg.Providers.TVMaze.BaseURL)
	}
	if cfg.Providers.Cache.TTL != 5*time.Minute {
		t.Errorf("Cache.TTL = %v, want 5m", cfg.Providers.Cache.TTL)
	}

	engine := cfg.Recommend.ToEngineConfig()
	if engine.Weights.Genre != 12 {
		t.Errorf("Weights.Genre = %f, want 12", engine.Weights.Genre)
	}
	if engine.Fallback.Enabled {
		t.Error("Fallback.Enabled = true, want false")
	}
	if engine.Weights.Tag != recommend.DefaultTagWeight {
		t.Errorf("Weights.Tag = %f, default lost", engine.Weights.Tag)
	}
}

func TestLoadFile_EnvOverridesFile(t *testing.T) {
	path := writeConfigFile(t, "server:\n  port: 9090\n")

	t.Setenv("HTTP_PORT", "7070")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("PROVIDER_TIMEOUT", "3s")
	t.Setenv("RECOMMEND_MAX_LIMIT", "50")

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}

	if cfg.Server.Port != 7070 {
		t.Errorf("Server.Port = %d, want 7070", cfg.Server.Port)
	}
	want := []string{"https://a.example", "https://b.example"}
	if !reflect.DeepEqual(cfg.Security.CORSOrigins, want) {
		t.Errorf("CORSOrigins = %v, want %v", cfg.Security.CORSOrigins, want)
	}
	if cfg.Providers.Timeout != 3*time.Second {
		t.Errorf("Providers.Timeout = %v, want 3s", cfg.Providers.Timeout)
	}
	if cfg.Recommend.MaxLimit != 50 {
		t.Errorf("Recommend.MaxLimit = %d, want 50", cfg.Recommend.MaxLimit)
	}
}

func TestLoadFile_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{"port out of range", "server:\n  port: 70000\n", "HTTP_PORT"},
		{"bad log level", "logging:\n  level: chatty\n", "LOG_LEVEL"},
		{"bad provider url", "providers:\n  openlibrary:\n    base_url: ftp://x\n", "OPENLIBRARY_URL"},
		{"negative weight", "recommend:\n  tag_weight: -1\n", "recommend"},
		{"wildcard cors in production", "server:\n  environment: production\n", "CORS_ORIGINS"},
		{"no library path", "library:\n  path: \"\"\n", "LIBRARY_PATH"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFile(writeConfigFile(t, tt.yaml))
			if err == nil {
				t.Fatal("LoadFile() error = nil, want validation error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %v, want mention of %s", err, tt.wantErr)
			}
		})
	}
}

func TestLoadFile_MissingFile(t *testing.T) {
	if _, err := LoadFile(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("LoadFile(absent) error = nil")
	}
}

func TestValidateHTTPURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		raw     string
		wantErr bool
	}{
		{"https://openlibrary.org", false},
		{"http://localhost:8080", false},
		{"openlibrary.org", true},
		{"https://", true},
		{"ftp://example.com", true},
	}

	for _, tt := range tests {
		if err := validateHTTPURL(tt.raw, "X"); (err != nil) != tt.wantErr {
			t.Errorf("validateHTTPURL(%q) error = %v, wantErr %v", tt.raw, err, tt.wantErr)
		}
	}
}
