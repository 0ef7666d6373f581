// Shelfcast - Reading and Watching Tracker with Cross-Media Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfcast

// Package recommend ranks books and shows against a user's history.
//
// # Modes
//
// Four entry points share one pipeline:
//
//   - RecommendBooks and RecommendShows score by exact genre and tag overlap
//     with items of the same kind. Items already in history are excluded.
//   - RecommendBooksFromShows and RecommendShowsFromBooks translate history
//     genres through the tables in package genre and score candidates of the
//     other kind by exact or partial mapped-genre matches. Titles that look
//     like the same franchise earn an adaptation bonus.
//
// Every returned candidate has a positive score and one to three reasons.
// Cross-domain ranking with a non-empty history never returns an empty list
// for a non-empty pool: when nothing overlaps, the pool is surfaced in its
// original order with a nominal score.
//
// # Determinism
//
// Output depends only on the inputs and the Config. Sorting is stable, so
// equal scores keep pool order. Large pools are scored concurrently with
// index-addressed results, which keeps the output identical to a sequential
// pass.
//
// # Usage
//
//	engine, err := recommend.NewEngine(recommend.DefaultConfig(), logger)
//	if err != nil {
//	    return err
//	}
//
//	recs := engine.RecommendBooksFromShows(viewingHistory, bookPool, 10)
//	for _, r := range recs {
//	    fmt.Println(r.Item.Title, r.Score, r.Reasons)
//	}
//
// # Thread Safety
//
// The engine holds no per-request state. Counters are atomic.
package recommend
