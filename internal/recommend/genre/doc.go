// Shelfcast - Reading and Watching Tracker with Cross-Media Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfcast

// Package genre normalizes genre and tag labels and bridges the TV and book
// genre taxonomies.
//
// # Normalization
//
// Labels from the metadata providers arrive with inconsistent casing and
// padding. Normalize folds them to a single comparison form and every
// equality check in the recommendation engine goes through it.
//
// # Cross-domain mapping
//
// Book subjects and TV genres are disjoint vocabularies. Mapper holds a
// static table from one vocabulary to a short ordered list (1-4 entries) of
// the other, with a default bucket for unknown labels:
//
//	m := genre.NewMapper(genre.TelevisionToLiterary)
//	m.Map("Crime")      // [Mystery Thriller Crime]
//	m.Map("Telenovela") // [Fiction]
//
// The tables are many-to-many and lossy. They favor candidate recall over
// taxonomic precision.
package genre
