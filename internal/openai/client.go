// Reelquest - AI-Assisted Movie Recommendation Service
// Copyright 2026 Reelquest contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelquest/reelquest

// Package openai is the LLM provider client. It covers the two operations
// the recommendation pipeline needs: content moderation of the user's
// description, and a structured-output completion against the Responses API
// with an optional web-search tool.
//
// Every call takes the caller's context; the configured timeout bounds the
// request. There is no retry: upstream failures are single-attempt and
// surfaced immediately.
package openai

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/goccy/go-json"

	"github.com/reelquest/reelquest/internal/metrics"
)

// ErrMissingAPIKey indicates the provider key is not configured. Callers
// surface it as a configuration error, not a transport failure.
var ErrMissingAPIKey = errors.New("openai: API key not configured")

// Config holds client settings.
type Config struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration

	// HTTPClient overrides the default client, used by tests.
	HTTPClient *http.Client
}

// Client talks to the LLM provider.
type Client struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// NewClient creates a provider client. The API key may be empty; calls will
// then fail with ErrMissingAPIKey.
func NewClient(cfg Config) *Client {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout == 0 {
			timeout = 60 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	return &Client{
		apiKey:  cfg.APIKey,
		baseURL: cfg.BaseURL,
		client:  httpClient,
	}
}

// Moderate runs the content-moderation check on the given text.
func (c *Client) Moderate(ctx context.Context, text string) (*ModerationResult, error) {
	if c.apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	start := time.Now()
	var resp moderationResponse
	err := c.post(ctx, "/moderations", moderationRequest{Input: text}, &resp)
	metrics.RecordUpstreamRequest("openai", "moderate", time.Since(start), err)
	if err != nil {
		return nil, err
	}

	if len(resp.Results) == 0 {
		return nil, fmt.Errorf("openai: moderation returned no results")
	}

	return &ModerationResult{
		Flagged:    resp.Results[0].Flagged,
		Categories: resp.Results[0].Categories,
	}, nil
}

// CreateResponse issues a structured-output completion. A provider status
// other than "completed" is returned as an error.
func (c *Client) CreateResponse(ctx context.Context, req ResponseRequest) (*ResponseResult, error) {
	if c.apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	wireReq := responsesRequest{
		Model:        req.Model,
		Instructions: req.Instructions,
		Input:        req.Input,
	}
	if req.WebSearch {
		wireReq.Tools = []responseTool{{Type: "web_search"}}
	}
	if req.Schema != nil {
		wireReq.Text = &textOptions{
			Format: textFormat{
				Type:   "json_schema",
				Name:   req.SchemaName,
				Strict: true,
				Schema: req.Schema,
			},
		}
	}

	start := time.Now()
	var resp responsesResponse
	err := c.post(ctx, "/responses", wireReq, &resp)
	metrics.RecordUpstreamRequest("openai", "create_response", time.Since(start), err)
	if err != nil {
		return nil, err
	}

	if resp.Status != "completed" {
		msg := resp.Status
		if resp.Error != nil && resp.Error.Message != "" {
			msg = fmt.Sprintf("%s: %s", resp.Status, resp.Error.Message)
		}
		return nil, fmt.Errorf("openai: response not completed: %s", msg)
	}

	return &ResponseResult{
		Status:     resp.Status,
		OutputText: resp.outputText(),
	}, nil
}

// post issues an authenticated JSON POST and decodes the response into out.
func (c *Client) post(ctx context.Context, path string, payload, out interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("openai: encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("openai: create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("openai: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("openai: request failed with status %d: %s", resp.StatusCode, snippet)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("openai: decode response: %w", err)
	}
	return nil
}
