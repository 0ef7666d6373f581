// Shelfcast - Reading and Watching Tracker with Cross-Media Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfcast

/*
Package provider supplies candidate pools from public catalog APIs.

Two sources are implemented:

  - OpenLibrary: books from https://openlibrary.org/search.json
  - TVMaze: TV shows from https://api.tvmaze.com/search/shows

Both translate catalog records into recommend.Item values. Subjects and show
genres become Genres; Open Library places and time periods become Tags. IDs
are prefixed with the source ("ol:", "tvmaze:") so pools from different
sources never collide.

# Resilience

Sources are wrapped in a Guarded source before use:

	src := provider.NewOpenLibrary(&cfg.Providers.OpenLibrary, &cfg.Providers)
	guarded := provider.NewGuarded(src, &cfg.Providers, logger)
	items, err := guarded.Search(ctx, "fantasy", 20)

Guarded checks a TTL cache first, then waits on a token bucket
(golang.org/x/time/rate) and finally calls the source through a circuit
breaker (sony/gobreaker). Rejected or failed calls return an error wrapping
ErrUnavailable. Breaker state transitions are exported as metrics.

Results served from the cache are shared between callers and must be
treated as read-only.
*/
package provider
