// Shelfcast - Reading and Watching Tracker with Cross-Media Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfcast

// Package main is the entry point for the Shelfcast server.
//
// Shelfcast keeps a per-user library of books and TV shows and recommends new
// titles from Open Library and TVmaze, either within a medium or across them
// (books for a show watcher, shows for a reader).
//
// # Startup
//
//  1. Configuration: defaults, optional config.yaml, environment (koanf v2)
//  2. Logging: zerolog, configured from the loaded settings
//  3. Library: badger v4 store, on disk or in memory
//  4. Engine: content-based and cross-domain ranking
//  5. Catalog sources: rate limited, circuit broken, cached
//  6. HTTP: chi router with CORS, rate limiting and Prometheus metrics
//  7. Supervisor tree: data-layer (cache sweepers, value-log GC), api-layer
//
// # Signal Handling
//
// SIGINT and SIGTERM cancel the supervisor tree. The HTTP server drains
// in-flight requests for SHUTDOWN_TIMEOUT before the library is closed.
//
// # Example Usage
//
//	export LIBRARY_PATH=/var/lib/shelfcast
//	export LOG_LEVEL=debug
//	./shelfcast
//
// In-memory demo with console logs:
//
//	LIBRARY_IN_MEMORY=true LOG_FORMAT=console ./shelfcast
package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/tomtom215/shelfcast/internal/api"
	"github.com/tomtom215/shelfcast/internal/config"
	"github.com/tomtom215/shelfcast/internal/discovery"
	"github.com/tomtom215/shelfcast/internal/library"
	"github.com/tomtom215/shelfcast/internal/logging"
	"github.com/tomtom215/shelfcast/internal/provider"
	"github.com/tomtom215/shelfcast/internal/recommend"
	"github.com/tomtom215/shelfcast/internal/supervisor"
	"github.com/tomtom215/shelfcast/internal/supervisor/services"
)

func main() {
	if err := run(); err != nil {
		logging.Fatal().Err(err).Msg("Shelfcast exited with error")
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	logging.Init(cfg.Logging.ToLogging())
	logging.Info().
		Str("environment", cfg.Server.Environment).
		Str("library_path", cfg.Library.Path).
		Bool("library_in_memory", cfg.Library.InMemory).
		Msg("Starting Shelfcast")

	store, err := library.Open(&cfg.Library, logging.WithComponent("library"))
	if err != nil {
		return fmt.Errorf("open library: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing library")
		}
	}()

	engine, err := recommend.NewEngine(cfg.Recommend.ToEngineConfig(), logging.Logger())
	if err != nil {
		return fmt.Errorf("create engine: %w", err)
	}

	sources := buildSources(cfg)
	catalogs := make([]discovery.Catalog, 0, len(sources))
	breakers := make([]api.BreakerStatus, 0, len(sources))
	for _, s := range sources {
		catalogs = append(catalogs, discovery.Catalog{Source: s.guarded, DefaultQuery: s.defaultQuery})
		breakers = append(breakers, s.guarded)
	}

	svc := discovery.NewService(engine, store, catalogs, &cfg.Discovery, logging.Logger())

	chiMW := api.NewChiMiddleware(&api.ChiMiddlewareConfig{
		CORSAllowedOrigins: cfg.Security.CORSOrigins,
		CORSAllowedMethods: api.DefaultChiMiddlewareConfig().CORSAllowedMethods,
		CORSAllowedHeaders: api.DefaultChiMiddlewareConfig().CORSAllowedHeaders,
		CORSMaxAge:         api.DefaultChiMiddlewareConfig().CORSMaxAge,
		RateLimitRequests:  cfg.Security.RateLimitReqs,
		RateLimitWindow:    cfg.Security.RateLimitWindow,
		RateLimitDisabled:  cfg.Security.RateLimitDisabled,
	})
	router := api.NewRouter(api.NewHandler(svc, store, engine, breakers), chiMW, cfg.Server.RequestTimeout)

	server := &http.Server{
		Addr:              net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port)),
		Handler:           router.SetupChi(),
		ReadTimeout:       cfg.Server.ReadTimeout,
		ReadHeaderTimeout: cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
	}

	tree := supervisor.NewSupervisorTree(logging.NewSlogLogger("supervisor"), supervisor.TreeConfig{
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})
	tree.AddDataService(store)
	for _, s := range sources {
		tree.AddDataService(s.guarded.Cache())
	}
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout, logging.Logger()))

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	logging.Info().
		Str("addr", server.Addr).
		Int("sources", len(sources)).
		Msg("Starting supervisor tree")

	if err := tree.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("supervisor tree: %w", err)
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, u := range unstopped {
		logging.Warn().Str("service", u.Name).Msg("Service failed to stop within timeout")
	}

	logging.Info().Msg("Shelfcast stopped gracefully")
	return nil
}

type configuredSource struct {
	guarded      *provider.Guarded
	defaultQuery string
}

// buildSources wraps every enabled catalog in rate limiting, a circuit
// breaker and a search cache.
func buildSources(cfg *config.Config) []configuredSource {
	var out []configuredSource

	if src := cfg.Providers.OpenLibrary; src.Enabled {
		out = append(out, configuredSource{
			guarded:      provider.NewGuarded(provider.NewOpenLibrary(&src, &cfg.Providers), &cfg.Providers, logging.Logger()),
			defaultQuery: src.DefaultQuery,
		})
	}
	if src := cfg.Providers.TVMaze; src.Enabled {
		out = append(out, configuredSource{
			guarded:      provider.NewGuarded(provider.NewTVMaze(&src, &cfg.Providers), &cfg.Providers, logging.Logger()),
			defaultQuery: src.DefaultQuery,
		})
	}

	if len(out) == 0 {
		logging.Warn().Msg("No catalog sources enabled; only stateless recommendations are available")
	}
	for _, s := range out {
		logging.Info().Str("source", s.guarded.Name()).Str("kind", string(s.guarded.Kind())).Msg("Catalog source enabled")
	}
	return out
}
