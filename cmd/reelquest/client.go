// Reelquest - AI-Assisted Movie Recommendation Service
// Copyright 2026 Reelquest contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelquest/reelquest

package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/reelquest/reelquest/internal/models"
	"github.com/reelquest/reelquest/internal/omdb"
)

// apiClient talks to a running Reelquest server.
type apiClient struct {
	baseURL string
	client  *http.Client
}

func newAPIClient(baseURL string, timeout time.Duration) *apiClient {
	return &apiClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

// recommendationsReply mirrors the server's response body.
type recommendationsReply struct {
	Response struct {
		List []models.RecommendationItem `json:"list"`
	} `json:"response"`
	RemainingRequests int `json:"remainingRequests"`
}

// apiError is the `{"error": "..."}` body every endpoint uses for failures.
type apiError struct {
	Error string `json:"error"`
}

// Recommendations posts the search options and returns the recommended
// titles plus the server-side remaining quota.
func (c *apiClient) Recommendations(ctx context.Context, opts models.SearchOptions) ([]models.RecommendationItem, int, error) {
	body, err := json.Marshal(map[string]models.SearchOptions{"searchOptions": opts})
	if err != nil {
		return nil, 0, fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/api/v1/recommendations", bytes.NewReader(body))
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("call server: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, 0, decodeAPIError(resp)
	}

	var reply recommendationsReply
	if err := json.NewDecoder(resp.Body).Decode(&reply); err != nil {
		return nil, 0, fmt.Errorf("decode response: %w", err)
	}
	return reply.Response.List, reply.RemainingRequests, nil
}

// Resolve fetches full metadata for one title via GET /api/v1/movie,
// satisfying enrich.Resolver.
func (c *apiClient) Resolve(ctx context.Context, params omdb.SearchParams) (models.MovieMetadata, error) {
	q := url.Values{}
	if params.IMDbID != "" {
		q.Set("i", params.IMDbID)
	} else {
		q.Set("t", params.Title)
		q.Set("y", strconv.Itoa(params.Year))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/api/v1/movie?"+q.Encode(), nil)
	if err != nil {
		return models.MovieMetadata{}, err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return models.MovieMetadata{}, fmt.Errorf("call server: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return models.MovieMetadata{}, &omdb.NotFoundError{Message: decodeAPIError(resp).Error()}
	}
	if resp.StatusCode != http.StatusOK {
		return models.MovieMetadata{}, decodeAPIError(resp)
	}

	var reply struct {
		Data models.MovieMetadata `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&reply); err != nil {
		return models.MovieMetadata{}, fmt.Errorf("decode response: %w", err)
	}
	return reply.Data, nil
}

// decodeAPIError turns a non-200 response into an error carrying the
// server's message when one is present.
func decodeAPIError(resp *http.Response) error {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))

	var body apiError
	if err := json.Unmarshal(data, &body); err == nil && body.Error != "" {
		return fmt.Errorf("server: %s (status %d)", body.Error, resp.StatusCode)
	}
	return fmt.Errorf("server returned status %d", resp.StatusCode)
}
