// Reelquest - AI-Assisted Movie Recommendation Service
// Copyright 2026 Reelquest contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelquest/reelquest

// Package api provides the HTTP boundary of the service: the recommendation
// endpoint, the movie and poster lookups, and the supporting health,
// lookup-info, and metrics routes.
package api

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/goccy/go-json"

	"github.com/reelquest/reelquest/internal/logging"
	"github.com/reelquest/reelquest/internal/models"
	"github.com/reelquest/reelquest/internal/omdb"
	"github.com/reelquest/reelquest/internal/openai"
	"github.com/reelquest/reelquest/internal/recommend"
	"github.com/reelquest/reelquest/internal/validation"
)

// Recommender runs the recommendation pipeline. Satisfied by
// *recommend.Service.
type Recommender interface {
	GetRecommendations(ctx context.Context, clientID string, opts models.SearchOptions) ([]models.RecommendationItem, int, error)
}

// MovieSource resolves metadata and posters. Satisfied by *omdb.Client and
// *omdb.BreakerClient.
type MovieSource interface {
	Resolve(ctx context.Context, params omdb.SearchParams) (models.MovieMetadata, error)
	Poster(ctx context.Context, params omdb.SearchParams) ([]byte, string, error)
}

// Handler carries the endpoint implementations.
type Handler struct {
	recommender Recommender
	movies      MovieSource
	version     string
	startTime   time.Time
}

// NewHandler creates the endpoint handler set.
func NewHandler(recommender Recommender, movies MovieSource, version string) *Handler {
	return &Handler{
		recommender: recommender,
		movies:      movies,
		version:     version,
		startTime:   time.Now(),
	}
}

// recommendationsRequest is the inbound body for the recommendations endpoint.
type recommendationsRequest struct {
	SearchOptions models.SearchOptions `json:"searchOptions"`
}

// recommendationsResponse preserves the legacy field names consumed by the
// presentation layer.
type recommendationsResponse struct {
	Response          recommendationsList  `json:"response"`
	OriginalInput     models.SearchOptions `json:"originalInput"`
	RemainingRequests int                  `json:"remainingRequests"`
}

type recommendationsList struct {
	List []models.RecommendationItem `json:"list"`
}

// movieResponse preserves the legacy lookup response shape.
type movieResponse struct {
	Success bool                 `json:"success"`
	Data    models.MovieMetadata `json:"data"`
	Source  string               `json:"source"`
}

// metadataSource labels where lookup data came from.
const metadataSource = "OMDb API"

// Recommendations handles POST /api/v1/recommendations.
func (h *Handler) Recommendations(w http.ResponseWriter, r *http.Request) {
	var req recommendationsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	opts := req.SearchOptions
	if !opts.Submittable() {
		respondError(w, http.StatusBadRequest,
			"At least one of description, genres, or categories must be provided", nil)
		return
	}

	items, remaining, err := h.recommender.GetRecommendations(r.Context(), clientIdentifier(r), opts)
	if err != nil {
		h.respondRecommendationError(w, r, err)
		return
	}

	if items == nil {
		items = []models.RecommendationItem{}
	}

	respondJSON(w, http.StatusOK, recommendationsResponse{
		Response:          recommendationsList{List: items},
		OriginalInput:     opts,
		RemainingRequests: remaining,
	})
}

// respondRecommendationError maps pipeline errors to the HTTP contract.
func (h *Handler) respondRecommendationError(w http.ResponseWriter, r *http.Request, err error) {
	var modErr *recommend.ModerationError
	var textErr *validation.TextError

	switch {
	case errors.Is(err, recommend.ErrRateLimited):
		respondError(w, http.StatusTooManyRequests, "Rate limit exceeded. Please try again later.", nil)
	case errors.As(err, &modErr):
		respondError(w, http.StatusBadRequest, modErr.Error(), nil)
	case errors.As(err, &textErr):
		respondError(w, http.StatusBadRequest, textErr.Error(), nil)
	case errors.Is(err, openai.ErrMissingAPIKey):
		respondError(w, http.StatusInternalServerError, "Recommendation service temporarily unavailable", err)
	default:
		logging.Ctx(r.Context()).Error().Err(err).Msg("Recommendation pipeline failed")
		respondError(w, http.StatusInternalServerError, "Failed to generate recommendations", nil)
	}
}

// Movie handles GET /api/v1/movie.
func (h *Handler) Movie(w http.ResponseWriter, r *http.Request) {
	params := searchParamsFromQuery(r)

	meta, err := h.movies.Resolve(r.Context(), params)
	if err != nil {
		h.respondLookupError(w, r, err, "Failed to fetch movie data")
		return
	}

	respondJSON(w, http.StatusOK, movieResponse{
		Success: true,
		Data:    meta,
		Source:  metadataSource,
	})
}

// Poster handles GET /api/v1/poster. Poster images are immutable per
// identifier, so successful responses carry a 24-hour public cache
// directive.
func (h *Handler) Poster(w http.ResponseWriter, r *http.Request) {
	params := searchParamsFromQuery(r)

	data, contentType, err := h.movies.Poster(r.Context(), params)
	if err != nil {
		h.respondLookupError(w, r, err, "Failed to fetch movie poster")
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Cache-Control", "public, max-age=86400")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("Failed to write poster response")
	}
}

// respondLookupError maps metadata client errors to the HTTP contract.
func (h *Handler) respondLookupError(w http.ResponseWriter, r *http.Request, err error, genericMessage string) {
	var notFound *omdb.NotFoundError

	switch {
	case errors.Is(err, omdb.ErrInvalidParams):
		respondError(w, http.StatusBadRequest, err.Error(), nil)
	case errors.Is(err, omdb.ErrMissingAPIKey):
		respondError(w, http.StatusInternalServerError, "OMDb API key not configured", err)
	case errors.As(err, &notFound):
		respondError(w, http.StatusNotFound, notFound.Error(), nil)
	default:
		logging.Ctx(r.Context()).Error().Err(err).Msg("Movie lookup failed")
		respondError(w, http.StatusInternalServerError, genericMessage, nil)
	}
}

// LookupInfo handles GET /api/v1/lookup-info, a static description of the
// lookup endpoints for interactive exploration.
func (h *Handler) LookupInfo(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Movie Lookup Endpoints",
		"endpoints": map[string]string{
			"movie":  "/api/v1/movie",
			"poster": "/api/v1/poster",
		},
		"examples": map[string]interface{}{
			"byImdbId": map[string]string{
				"movie":  "/api/v1/movie?i=tt3896198",
				"poster": "/api/v1/poster?i=tt3896198",
			},
			"byTitleAndYear": map[string]string{
				"movie":  "/api/v1/movie?t=Guardians of the Galaxy Vol. 2&y=2017",
				"poster": "/api/v1/poster?t=Guardians of the Galaxy Vol. 2&y=2017",
			},
		},
		"parameters": map[string]string{
			"i": "IMDb ID (e.g., tt3896198)",
			"t": "Movie title",
			"y": "Release year",
		},
		"note": "Either provide imdb_id (i) OR both title (t) and year (y)",
	})
}

// Health handles GET /api/v1/health.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "ok",
		"version": h.version,
		"uptime":  time.Since(h.startTime).Round(time.Second).String(),
	})
}

// searchParamsFromQuery extracts the lookup parameters. A non-numeric year
// is left zero and fails parameter validation downstream.
func searchParamsFromQuery(r *http.Request) omdb.SearchParams {
	q := r.URL.Query()
	params := omdb.SearchParams{
		IMDbID: q.Get("i"),
		Title:  q.Get("t"),
	}
	if y := q.Get("y"); y != "" {
		if year, err := strconv.Atoi(y); err == nil {
			params.Year = year
		}
	}
	return params
}

// clientIdentifier keys the rate limiter by the caller's network address.
// chi's RealIP middleware has already resolved proxy headers into RemoteAddr.
func clientIdentifier(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
