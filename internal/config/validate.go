// Shelfcast - Reading and Watching Tracker with Cross-Media Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfcast

package config

import (
	"fmt"
	"net/url"
	"strings"
)

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	if err := c.validateSecurity(); err != nil {
		return err
	}
	if err := c.validateLibrary(); err != nil {
		return err
	}
	if err := c.validateProviders(); err != nil {
		return err
	}
	if err := c.validateDiscovery(); err != nil {
		return err
	}
	if err := c.Recommend.ToEngineConfig().Validate(); err != nil {
		return fmt.Errorf("recommend: %w", err)
	}
	return nil
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Server.RequestTimeout <= 0 {
		return fmt.Errorf("REQUEST_TIMEOUT must be positive, got %v", c.Server.RequestTimeout)
	}
	switch c.Server.Environment {
	case "development", "production":
	default:
		return fmt.Errorf("ENVIRONMENT must be development or production, got %q", c.Server.Environment)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch strings.ToLower(c.Logging.Level) {
	case "trace", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("LOG_LEVEL must be one of trace, debug, info, warn, error, got %q", c.Logging.Level)
	}
	switch strings.ToLower(c.Logging.Format) {
	case "json", "console":
	default:
		return fmt.Errorf("LOG_FORMAT must be json or console, got %q", c.Logging.Format)
	}
	return nil
}

func (c *Config) validateSecurity() error {
	if c.Security.RateLimitDisabled {
		return nil
	}
	if c.Security.RateLimitReqs < 1 {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must be positive, got %d", c.Security.RateLimitReqs)
	}
	if c.Security.RateLimitWindow <= 0 {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be positive, got %v", c.Security.RateLimitWindow)
	}
	if c.IsProduction() {
		for _, origin := range c.Security.CORSOrigins {
			if origin == "*" {
				return fmt.Errorf("CORS_ORIGINS must not contain * in production")
			}
		}
	}
	return nil
}

func (c *Config) validateLibrary() error {
	if !c.Library.InMemory && c.Library.Path == "" {
		return fmt.Errorf("LIBRARY_PATH is required unless LIBRARY_IN_MEMORY=true")
	}
	if c.Library.GCInterval < 0 {
		return fmt.Errorf("LIBRARY_GC_INTERVAL must not be negative, got %v", c.Library.GCInterval)
	}
	return nil
}

func (c *Config) validateProviders() error {
	p := c.Providers
	if p.OpenLibrary.Enabled {
		if err := validateHTTPURL(p.OpenLibrary.BaseURL, "OPENLIBRARY_URL"); err != nil {
			return err
		}
	}
	if p.TVMaze.Enabled {
		if err := validateHTTPURL(p.TVMaze.BaseURL, "TVMAZE_URL"); err != nil {
			return err
		}
	}
	if p.Timeout <= 0 {
		return fmt.Errorf("PROVIDER_TIMEOUT must be positive, got %v", p.Timeout)
	}
	if p.RatePerSecond <= 0 {
		return fmt.Errorf("PROVIDER_RATE_PER_SECOND must be positive, got %f", p.RatePerSecond)
	}
	if p.Burst < 1 {
		return fmt.Errorf("PROVIDER_BURST must be positive, got %d", p.Burst)
	}
	if p.Breaker.FailureThreshold < 1 {
		return fmt.Errorf("PROVIDER_BREAKER_THRESHOLD must be positive, got %d", p.Breaker.FailureThreshold)
	}
	if p.Breaker.Timeout <= 0 {
		return fmt.Errorf("PROVIDER_BREAKER_TIMEOUT must be positive, got %v", p.Breaker.Timeout)
	}
	if p.Cache.MaxEntries < 1 {
		return fmt.Errorf("PROVIDER_CACHE_MAX_ENTRIES must be positive, got %d", p.Cache.MaxEntries)
	}
	if p.Cache.TTL <= 0 {
		return fmt.Errorf("PROVIDER_CACHE_TTL must be positive, got %v", p.Cache.TTL)
	}
	return nil
}

func (c *Config) validateDiscovery() error {
	d := c.Discovery
	if d.MaxSeeds < 1 {
		return fmt.Errorf("DISCOVERY_MAX_SEEDS must be positive, got %d", d.MaxSeeds)
	}
	if d.PerSeedLimit < 1 {
		return fmt.Errorf("DISCOVERY_PER_SEED_LIMIT must be positive, got %d", d.PerSeedLimit)
	}
	if d.MaxCandidates < 1 {
		return fmt.Errorf("DISCOVERY_MAX_CANDIDATES must be positive, got %d", d.MaxCandidates)
	}
	return nil
}

// validateHTTPURL requires an absolute http or https URL with a host.
func validateHTTPURL(raw, name string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%s is invalid: %w", name, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%s must use http or https, got %q", name, raw)
	}
	if u.Host == "" {
		return fmt.Errorf("%s must include a host, got %q", name, raw)
	}
	return nil
}
