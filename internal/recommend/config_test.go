// Shelfcast - Reading and Watching Tracker with Cross-Media Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfcast

package recommend

import (
	"testing"

	"github.com/goccy/go-json"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	t.Run("weights match documented defaults", func(t *testing.T) {
		w := cfg.Weights
		if w.Genre != 10 || w.Tag != 3 || w.ExactGenreMatch != 10 || w.PartialGenreMatch != 5 || w.PopularityBonus != 5 {
			t.Errorf("Weights = %+v, want 10/3/10/5/5", w)
		}
		if got := w.AdaptationBonus(); got != 10 {
			t.Errorf("AdaptationBonus() = %f, want 10", got)
		}
	})

	t.Run("reasons config has valid defaults", func(t *testing.T) {
		if cfg.Reasons.MaxReasons != 3 {
			t.Errorf("Reasons.MaxReasons = %d, want 3", cfg.Reasons.MaxReasons)
		}
		if cfg.Reasons.TitleSimilarityThreshold != 0.5 {
			t.Errorf("Reasons.TitleSimilarityThreshold = %f, want 0.5", cfg.Reasons.TitleSimilarityThreshold)
		}
	})

	t.Run("fallback enabled with nominal score", func(t *testing.T) {
		if !cfg.Fallback.Enabled {
			t.Error("Fallback.Enabled = false, want true")
		}
		if cfg.Fallback.NominalScore != 0.1 {
			t.Errorf("Fallback.NominalScore = %f, want 0.1", cfg.Fallback.NominalScore)
		}
	})

	t.Run("defaults validate", func(t *testing.T) {
		if err := cfg.Validate(); err != nil {
			t.Errorf("Validate() error = %v", err)
		}
	})
}

func TestWeightsConfig_Score(t *testing.T) {
	t.Parallel()

	w := DefaultConfig().Weights
	tests := []struct {
		genres, tags int
		want         float64
	}{
		{0, 0, 0},
		{1, 0, 10},
		{0, 1, 3},
		{2, 3, 29},
	}

	for _, tt := range tests {
		if got := w.Score(tt.genres, tt.tags); got != tt.want {
			t.Errorf("Score(%d, %d) = %f, want %f", tt.genres, tt.tags, got, tt.want)
		}
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name      string
		modify    func(*Config)
		wantError bool
	}{
		{name: "valid default config", modify: func(c *Config) {}},
		{name: "negative genre weight", modify: func(c *Config) { c.Weights.Genre = -1 }, wantError: true},
		{name: "negative tag weight", modify: func(c *Config) { c.Weights.Tag = -0.5 }, wantError: true},
		{name: "negative exact match", modify: func(c *Config) { c.Weights.ExactGenreMatch = -1 }, wantError: true},
		{name: "negative partial match", modify: func(c *Config) { c.Weights.PartialGenreMatch = -1 }, wantError: true},
		{name: "negative popularity bonus", modify: func(c *Config) { c.Weights.PopularityBonus = -1 }, wantError: true},
		{name: "zero weights allowed", modify: func(c *Config) { c.Weights = WeightsConfig{} }},
		{name: "zero max reasons", modify: func(c *Config) { c.Reasons.MaxReasons = 0 }, wantError: true},
		{name: "zero genres listed", modify: func(c *Config) { c.Reasons.MaxGenresListed = 0 }, wantError: true},
		{name: "zero tags listed", modify: func(c *Config) { c.Reasons.MaxTagsListed = 0 }, wantError: true},
		{name: "threshold above one", modify: func(c *Config) { c.Reasons.TitleSimilarityThreshold = 1.5 }, wantError: true},
		{name: "threshold below zero", modify: func(c *Config) { c.Reasons.TitleSimilarityThreshold = -0.1 }, wantError: true},
		{name: "zero word length", modify: func(c *Config) { c.Reasons.MinSignificantWordLength = 0 }, wantError: true},
		{name: "zero nominal score", modify: func(c *Config) { c.Fallback.NominalScore = 0 }, wantError: true},
		{name: "zero default limit", modify: func(c *Config) { c.Limits.DefaultLimit = 0 }, wantError: true},
		{name: "max below default", modify: func(c *Config) { c.Limits.MaxLimit = 5 }, wantError: true},
		{name: "negative parallel threshold", modify: func(c *Config) { c.Limits.ParallelThreshold = -1 }, wantError: true},
		{name: "parallel disabled", modify: func(c *Config) { c.Limits.ParallelThreshold = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)

			err := cfg.Validate()
			if (err != nil) != tt.wantError {
				t.Errorf("Validate() error = %v, wantError %v", err, tt.wantError)
			}
		})
	}
}

func TestConfig_Clone(t *testing.T) {
	original := DefaultConfig()
	clone := original.Clone()

	clone.Weights.Genre = 99
	clone.Fallback.Enabled = false

	if original.Weights.Genre != DefaultGenreWeight {
		t.Errorf("original.Weights.Genre = %f, modified through clone", original.Weights.Genre)
	}
	if !original.Fallback.Enabled {
		t.Error("original.Fallback.Enabled modified through clone")
	}
}

func TestConfig_JSONRoundTrip(t *testing.T) {
	original := DefaultConfig()
	original.Weights.Tag = 4.5

	data, err := json.Marshal(original)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	var decoded Config
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}

	if decoded != *original {
		t.Errorf("decoded = %+v, want %+v", decoded, *original)
	}
}
