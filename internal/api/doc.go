// Shelfcast - Reading and Watching Tracker with Cross-Media Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfcast

/*
Package api provides the HTTP surface of Shelfcast using the Chi router.

# Endpoints

Recommendations:
  - POST /api/v1/recommendations/{mode}: rank a caller-supplied pool
  - GET  /api/v1/users/{userID}/recommendations/{mode}: rank catalog results
    against a stored library

Library:
  - GET    /api/v1/users/{userID}/library?kind=book|show
  - PUT    /api/v1/users/{userID}/library
  - GET    /api/v1/users/{userID}/library/{kind}/{itemID}
  - DELETE /api/v1/users/{userID}/library/{kind}/{itemID}

Genres:
  - GET /api/v1/genres/map?genre=Crime&direction=tv-to-book

Operations:
  - GET /health, /health/live, /health/ready
  - GET /metrics (Prometheus)

Modes are "books", "shows", "books-from-shows" and "shows-from-books".

# Response Format

Every JSON endpoint answers with the same envelope:

	{
	  "status": "success",
	  "data": {...},
	  "metadata": {"timestamp": "...", "query_time_ms": 3}
	}

Errors set status to "error" and carry a machine-readable code:

	{
	  "status": "error",
	  "data": null,
	  "metadata": {"timestamp": "..."},
	  "error": {"code": "VALIDATION_ERROR", "message": "...", "details": {...}}
	}

# Middleware

Global: request ID with logging context, real IP, panic recovery, CORS
(go-chi/cors) and gzip for JSON bodies. API routes add per-IP rate limiting (go-chi/httprate),
security headers, a request timeout and Prometheus instrumentation.
*/
package api
