// Shelfcast - Reading and Watching Tracker with Cross-Media Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfcast

package provider

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/goccy/go-json"

	"github.com/tomtom215/shelfcast/internal/recommend"
)

// ErrUnavailable is returned when a source cannot serve a search, either
// because the call failed or because the circuit breaker rejected it.
var ErrUnavailable = errors.New("catalog source unavailable")

// maxResponseBytes bounds how much of a catalog response is read.
const maxResponseBytes = 8 << 20

// Source searches a catalog for items of a single media kind.
type Source interface {
	// Name identifies the source in logs, metrics and cache keys.
	Name() string

	// Kind is the media kind every returned item has.
	Kind() recommend.MediaKind

	// Search returns at most limit items matching query.
	Search(ctx context.Context, query string, limit int) ([]recommend.Item, error)
}

// StatusError reports a non-2xx catalog response.
type StatusError struct {
	Source     string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s returned status %d: %s", e.Source, e.StatusCode, e.Body)
}

// httpClient is the JSON GET helper shared by the catalog clients.
type httpClient struct {
	name      string
	baseURL   string
	userAgent string
	client    *http.Client
}

func newHTTPClient(name, baseURL, userAgent string, client *http.Client) httpClient {
	return httpClient{
		name:      name,
		baseURL:   strings.TrimSuffix(baseURL, "/"),
		userAgent: userAgent,
		client:    client,
	}
}

// getJSON performs a GET on baseURL+endpoint and decodes the body into out.
func (c *httpClient) getJSON(ctx context.Context, endpoint string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+endpoint, http.NoBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s request failed: %w", c.name, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body := io.LimitReader(resp.Body, maxResponseBytes)

	if resp.StatusCode != http.StatusOK {
		snippet, err := io.ReadAll(io.LimitReader(body, 512))
		if err != nil {
			snippet = nil
		}
		return &StatusError{Source: c.name, StatusCode: resp.StatusCode, Body: string(snippet)}
	}

	if err := json.NewDecoder(body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", c.name, err)
	}
	return nil
}

// nonNil turns a missing JSON array into an empty slice.
func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
