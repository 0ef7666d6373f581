// Shelfcast - Reading and Watching Tracker with Cross-Media Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfcast

package provider

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/tomtom215/shelfcast/internal/config"
	"github.com/tomtom215/shelfcast/internal/recommend"
)

// TVMazeSourceName is the source name used in IDs, metrics and logs.
const TVMazeSourceName = "tvmaze"

const tvMazeIDPrefix = "tvmaze:"

// Ensure TVMaze implements Source
var _ Source = (*TVMaze)(nil)

// TVMaze searches TV shows through the TVmaze public API. The search
// endpoint has no limit parameter; results are truncated client-side.
//
// API Reference: https://www.tvmaze.com/api
type TVMaze struct {
	http httpClient
}

type tvMazeSearchResult struct {
	Score float64    `json:"score"`
	Show  tvMazeShow `json:"show"`
}

type tvMazeShow struct {
	ID       int      `json:"id"`
	Name     string   `json:"name"`
	Type     string   `json:"type"`
	Language string   `json:"language"`
	Genres   []string `json:"genres"`
}

// NewTVMaze creates a TVmaze client.
func NewTVMaze(src *config.SourceConfig, providers *config.ProvidersConfig) *TVMaze {
	return &TVMaze{
		http: newHTTPClient(TVMazeSourceName, src.BaseURL, providers.UserAgent,
			&http.Client{Timeout: providers.Timeout}),
	}
}

// Name implements Source.
func (t *TVMaze) Name() string { return TVMazeSourceName }

// Kind implements Source.
func (t *TVMaze) Kind() recommend.MediaKind { return recommend.KindShow }

// Search queries /search/shows and converts each hit into a show item.
func (t *TVMaze) Search(ctx context.Context, query string, limit int) ([]recommend.Item, error) {
	params := url.Values{}
	params.Set("q", query)

	var results []tvMazeSearchResult
	if err := t.http.getJSON(ctx, "/search/shows?"+params.Encode(), &results); err != nil {
		return nil, err
	}

	items := make([]recommend.Item, 0, len(results))
	for i := range results {
		show := &results[i].Show
		if show.ID == 0 {
			continue
		}
		items = append(items, recommend.Item{
			ID:     tvMazeIDPrefix + strconv.Itoa(show.ID),
			Kind:   recommend.KindShow,
			Title:  show.Name,
			Genres: nonNil(show.Genres),
			Tags:   []string{},
		})
		if limit > 0 && len(items) == limit {
			break
		}
	}
	return items, nil
}
