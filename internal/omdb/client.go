// Reelquest - AI-Assisted Movie Recommendation Service
// Copyright 2026 Reelquest contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelquest/reelquest

// Package omdb is the movie-metadata provider client. It resolves a
// recommendation (by IMDb identifier, or by title and year) into a full
// metadata record through a write-once cache, and fetches poster images
// through a companion endpoint.
//
// Parameter validation happens before any network call. Upstream failures
// are single-attempt; the caller's context bounds each request.
package omdb

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/reelquest/reelquest/internal/cache"
	"github.com/reelquest/reelquest/internal/logging"
	"github.com/reelquest/reelquest/internal/metrics"
	"github.com/reelquest/reelquest/internal/models"
)

// firstFilmYear is the earliest plausible release year (Roundhay Garden Scene).
const firstFilmYear = 1888

// SearchParams identifies a title to resolve: an IMDb identifier, or a
// title plus year. The identifier takes precedence when both are present.
type SearchParams struct {
	IMDbID string
	Title  string
	Year   int
}

// Valid reports whether the parameters are well-formed: an identifier with
// the "tt" prefix and at least 7 characters, or a non-empty title with a
// year within [1888, current year + 1].
func (p SearchParams) Valid() bool {
	if p.IMDbID != "" {
		return strings.HasPrefix(p.IMDbID, "tt") && len(p.IMDbID) >= 7
	}
	if p.Title != "" && p.Year != 0 {
		return strings.TrimSpace(p.Title) != "" &&
			p.Year >= firstFilmYear && p.Year <= time.Now().Year()+1
	}
	return false
}

// cacheKey computes the resolution key for the lookup.
func (p SearchParams) cacheKey() string {
	return cache.Key(p.IMDbID, p.Title, p.Year)
}

// query builds the provider query parameters shared by the movie and poster
// endpoints.
func (p SearchParams) query(apiKey string) url.Values {
	params := url.Values{}
	params.Set("apikey", apiKey)
	if p.IMDbID != "" {
		params.Set("i", p.IMDbID)
	} else {
		params.Set("t", p.Title)
		params.Set("y", strconv.Itoa(p.Year))
	}
	return params
}

// Config holds client settings.
type Config struct {
	APIKey    string
	BaseURL   string
	PosterURL string
	Timeout   time.Duration

	// HTTPClient overrides the default client, used by tests.
	HTTPClient *http.Client
}

// Client resolves movie metadata and posters from the provider.
type Client struct {
	apiKey    string
	baseURL   string
	posterURL string
	client    *http.Client
	cache     *cache.MetadataCache
}

// NewClient creates a provider client backed by the given metadata cache.
func NewClient(cfg Config, metadataCache *cache.MetadataCache) *Client {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout == 0 {
			timeout = 10 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	return &Client{
		apiKey:    cfg.APIKey,
		baseURL:   cfg.BaseURL,
		posterURL: cfg.PosterURL,
		client:    httpClient,
		cache:     metadataCache,
	}
}

// Resolve looks up full metadata for the given parameters. Cache hits
// short-circuit the network entirely; on a miss the provider record is
// normalized, cached, and returned.
func (c *Client) Resolve(ctx context.Context, params SearchParams) (models.MovieMetadata, error) {
	if c.apiKey == "" {
		return models.MovieMetadata{}, ErrMissingAPIKey
	}
	if !params.Valid() {
		return models.MovieMetadata{}, ErrInvalidParams
	}

	key := params.cacheKey()
	if cached, ok := c.cache.Get(key); ok {
		metrics.RecordCacheAccess(true)
		return cached, nil
	}
	metrics.RecordCacheAccess(false)

	query := params.query(c.apiKey)
	query.Set("plot", "full")
	query.Set("r", "json")
	reqURL := c.baseURL + "?" + query.Encode()

	start := time.Now()
	raw, err := c.fetchMovie(ctx, reqURL)
	metrics.RecordUpstreamRequest("omdb", "resolve", time.Since(start), err)
	if err != nil {
		return models.MovieMetadata{}, err
	}

	// A 200 body can still carry the provider's own not-found marker.
	if raw.Error != "" {
		return models.MovieMetadata{}, &NotFoundError{Message: raw.Error}
	}

	meta := normalize(raw)
	c.cache.Set(key, meta)
	metrics.CacheSize.Set(float64(c.cache.Len()))

	logging.Ctx(ctx).Debug().
		Str("key", key).
		Str("title", meta.Title).
		Msg("Movie metadata resolved")

	return meta, nil
}

// Poster fetches the poster image for the given parameters. A response
// without an image content type is a NotFoundError. Returns the image bytes
// and the provider's content type for passthrough.
func (c *Client) Poster(ctx context.Context, params SearchParams) ([]byte, string, error) {
	if c.apiKey == "" {
		return nil, "", ErrMissingAPIKey
	}
	if !params.Valid() {
		return nil, "", ErrInvalidParams
	}

	reqURL := c.posterURL + "?" + params.query(c.apiKey).Encode()

	start := time.Now()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return nil, "", &ProviderError{Operation: "poster", Err: err}
	}

	resp, err := c.client.Do(req)
	metrics.RecordUpstreamRequest("omdb", "poster", time.Since(start), err)
	if err != nil {
		return nil, "", &ProviderError{Operation: "poster", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, "", &ProviderError{Operation: "poster", Status: resp.StatusCode}
	}

	contentType := resp.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		return nil, "", &NotFoundError{Message: "No poster found for this movie"}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", &ProviderError{Operation: "poster", Err: err}
	}

	return body, contentType, nil
}

// fetchMovie issues the lookup request and decodes the provider record.
func (c *Client) fetchMovie(ctx context.Context, reqURL string) (*rawMovie, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return nil, &ProviderError{Operation: "resolve", Err: err}
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &ProviderError{Operation: "resolve", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &ProviderError{Operation: "resolve", Status: resp.StatusCode}
	}

	var raw rawMovie
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, &ProviderError{Operation: "resolve", Err: fmt.Errorf("decode response: %w", err)}
	}
	return &raw, nil
}
