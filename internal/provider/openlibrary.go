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
	"strings"

	"github.com/tomtom215/shelfcast/internal/config"
	"github.com/tomtom215/shelfcast/internal/recommend"
)

// OpenLibrarySourceName is the source name used in IDs, metrics and logs.
const OpenLibrarySourceName = "openlibrary"

const (
	openLibraryIDPrefix = "ol:"

	// Open Library attaches dozens of subjects to popular works. Only the
	// leading ones are kept as genres.
	maxSubjects = 10
	maxTags     = 6

	openLibraryFields = "key,title,subject,place,time"
)

// Ensure OpenLibrary implements Source
var _ Source = (*OpenLibrary)(nil)

// OpenLibrary searches books through the Open Library search API.
//
// API Reference: https://openlibrary.org/dev/docs/api/search
type OpenLibrary struct {
	http httpClient
}

type openLibrarySearchResponse struct {
	NumFound int              `json:"numFound"`
	Docs     []openLibraryDoc `json:"docs"`
}

type openLibraryDoc struct {
	Key     string   `json:"key"`
	Title   string   `json:"title"`
	Subject []string `json:"subject"`
	Place   []string `json:"place"`
	Time    []string `json:"time"`
}

// NewOpenLibrary creates an Open Library client.
func NewOpenLibrary(src *config.SourceConfig, providers *config.ProvidersConfig) *OpenLibrary {
	return &OpenLibrary{
		http: newHTTPClient(OpenLibrarySourceName, src.BaseURL, providers.UserAgent,
			&http.Client{Timeout: providers.Timeout}),
	}
}

// Name implements Source.
func (o *OpenLibrary) Name() string { return OpenLibrarySourceName }

// Kind implements Source.
func (o *OpenLibrary) Kind() recommend.MediaKind { return recommend.KindBook }

// Search queries /search.json and converts each document into a book item.
func (o *OpenLibrary) Search(ctx context.Context, query string, limit int) ([]recommend.Item, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("fields", openLibraryFields)
	if limit > 0 {
		params.Set("limit", strconv.Itoa(limit))
	}

	var resp openLibrarySearchResponse
	if err := o.http.getJSON(ctx, "/search.json?"+params.Encode(), &resp); err != nil {
		return nil, err
	}

	items := make([]recommend.Item, 0, len(resp.Docs))
	for i := range resp.Docs {
		doc := &resp.Docs[i]
		if doc.Key == "" {
			continue
		}
		items = append(items, doc.toItem())
		if limit > 0 && len(items) == limit {
			break
		}
	}
	return items, nil
}

func (d *openLibraryDoc) toItem() recommend.Item {
	tags := make([]string, 0, len(d.Place)+len(d.Time))
	tags = append(tags, d.Place...)
	tags = append(tags, d.Time...)

	return recommend.Item{
		ID:     openLibraryIDPrefix + strings.TrimPrefix(d.Key, "/works/"),
		Kind:   recommend.KindBook,
		Title:  d.Title,
		Genres: capped(nonNil(d.Subject), maxSubjects),
		Tags:   capped(tags, maxTags),
	}
}

func capped(s []string, n int) []string {
	if len(s) > n {
		return s[:n]
	}
	return s
}
