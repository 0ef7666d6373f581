// Shelfcast - Reading and Watching Tracker with Cross-Media Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfcast

// Package library persists each user's reading and watching lists in
// BadgerDB and turns them into recommendation history.
//
// Entries are stored as JSON under keys of the form
//
//	entry:<user>:<kind>:<item>
//
// so a user's books or shows can be listed with a single prefix scan.
// Status, rating, notes and progress are kept for display only; History
// passes nothing but the items and their added time to the engine.
package library
