// Reelquest - AI-Assisted Movie Recommendation Service
// Copyright 2026 Reelquest contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelquest/reelquest

package recommend

import (
	"context"
	"fmt"

	"github.com/goccy/go-json"

	"github.com/reelquest/reelquest/internal/logging"
	"github.com/reelquest/reelquest/internal/metrics"
	"github.com/reelquest/reelquest/internal/models"
	"github.com/reelquest/reelquest/internal/openai"
	"github.com/reelquest/reelquest/internal/ratelimit"
	"github.com/reelquest/reelquest/internal/validation"
)

// instructions is the fixed system instruction for the completion call.
const instructions = "You are a movie recommendations application with a " +
	"database of all movies on IMDb. Interpret the options given by the user " +
	"and return up to 10 movie titles matching their search options, each " +
	"with its release year and verifiable IMDb identifier. Use live web " +
	"search only when the user asks for new or recent releases; prefer " +
	"authoritative sources."

// schemaName labels the structured-output schema.
const schemaName = "movie_recommendations"

// CompletionClient is the subset of the LLM provider client the service
// uses. Satisfied by *openai.Client.
type CompletionClient interface {
	Moderate(ctx context.Context, text string) (*openai.ModerationResult, error)
	CreateResponse(ctx context.Context, req openai.ResponseRequest) (*openai.ResponseResult, error)
}

// Config holds the service tunables.
type Config struct {
	// Model is the default completion model.
	Model string

	// SearchModel is the search-capable variant for live-search requests.
	SearchModel string

	// MaxDescriptionLength bounds the free-text description.
	MaxDescriptionLength int

	// MaxResults bounds the number of recommended titles.
	MaxResults int

	// DefaultRegion is used when the options carry no region hint.
	DefaultRegion string

	// LimiterDisabled turns off the rate-limit gate.
	LimiterDisabled bool
}

// Service runs the recommendation pipeline.
type Service struct {
	llm     CompletionClient
	limiter *ratelimit.Limiter
	cfg     Config
}

// NewService creates a recommendation service. The limiter is shared with
// the rest of the process and owns its counter table exclusively.
func NewService(llm CompletionClient, limiter *ratelimit.Limiter, cfg Config) *Service {
	return &Service{
		llm:     llm,
		limiter: limiter,
		cfg:     cfg,
	}
}

// recommendationList is the structured-output envelope the model returns.
type recommendationList struct {
	List []models.RecommendationItem `json:"list"`
}

// GetRecommendations runs the fail-fast pipeline for one request:
// rate-limit gate, moderation, text validation, prompt build, completion,
// parse. Returns the recommended items (possibly empty) and the caller's
// remaining quota.
//
// No idempotence is guaranteed: the same input may yield different
// recommendations on repeated calls.
func (s *Service) GetRecommendations(ctx context.Context, clientID string, opts models.SearchOptions) ([]models.RecommendationItem, int, error) {
	log := logging.Ctx(ctx)

	if !s.cfg.LimiterDisabled && !s.limiter.Allow(clientID) {
		metrics.RateLimitHits.WithLabelValues("recommendations").Inc()
		return nil, 0, ErrRateLimited
	}

	if opts.Description != "" {
		moderation, err := s.llm.Moderate(ctx, opts.Description)
		if err != nil {
			return nil, 0, err
		}
		if moderation.Flagged {
			metrics.ModerationFlagged.Inc()
			log.Warn().Strs("categories", moderation.FlaggedCategories()).Msg("Description flagged by moderation")
			return nil, 0, &ModerationError{Categories: moderation.FlaggedCategories()}
		}

		if verr := validation.ValidateText(opts.Description, s.cfg.MaxDescriptionLength); verr != nil {
			return nil, 0, verr
		}
	}

	prompt := BuildPrompt(opts.Description, opts.Genres, opts.Categories, opts.Region, s.cfg.DefaultRegion)

	model := s.cfg.Model
	if prompt.UseLiveSearch {
		model = s.cfg.SearchModel
	}

	result, err := s.llm.CreateResponse(ctx, openai.ResponseRequest{
		Model:        model,
		Instructions: instructions,
		Input:        prompt.Text,
		SchemaName:   schemaName,
		Schema:       s.outputSchema(),
		WebSearch:    prompt.UseLiveSearch,
	})
	if err != nil {
		return nil, 0, err
	}

	var parsed recommendationList
	if err := json.Unmarshal([]byte(result.OutputText), &parsed); err != nil {
		return nil, 0, fmt.Errorf("parse recommendations: %w", err)
	}

	// Strict schema or not, the model occasionally invents identifiers that
	// don't parse. Drop malformed items instead of failing the batch.
	items := make([]models.RecommendationItem, 0, len(parsed.List))
	for _, item := range parsed.List {
		if verr := validation.ValidateStruct(&item); verr != nil {
			log.Warn().
				Str("title", item.Title).
				Str("imdb_id", item.IMDbID).
				Str("reason", verr.Error()).
				Msg("Dropping malformed recommendation item")
			continue
		}
		items = append(items, item)
	}
	if len(items) > s.cfg.MaxResults {
		items = items[:s.cfg.MaxResults]
	}

	log.Info().
		Int("count", len(items)).
		Bool("live_search", prompt.UseLiveSearch).
		Str("model", model).
		Msg("Recommendations generated")

	return items, s.Remaining(clientID), nil
}

// Remaining returns the caller's remaining quota in the current window.
func (s *Service) Remaining(clientID string) int {
	return s.limiter.Remaining(clientID)
}

// outputSchema is the strict JSON schema for the structured-output call: an
// object with a "list" array of at most MaxResults items, each carrying a
// title, an integer year, and an IMDb identifier.
func (s *Service) outputSchema() map[string]interface{} {
	return map[string]interface{}{
		"type":                 "object",
		"additionalProperties": false,
		"required":             []string{"list"},
		"properties": map[string]interface{}{
			"list": map[string]interface{}{
				"type":     "array",
				"maxItems": s.cfg.MaxResults,
				"items": map[string]interface{}{
					"type":                 "object",
					"additionalProperties": false,
					"required":             []string{"title", "year", "imdbId"},
					"properties": map[string]interface{}{
						"title":  map[string]interface{}{"type": "string"},
						"year":   map[string]interface{}{"type": "integer"},
						"imdbId": map[string]interface{}{"type": "string", "pattern": `^tt\d{7,}$`},
					},
				},
			},
		},
	}
}
