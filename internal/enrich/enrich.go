// Reelquest - AI-Assisted Movie Recommendation Service
// Copyright 2026 Reelquest contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelquest/reelquest

// Package enrich fans a batch of recommended titles out to the metadata
// resolver concurrently and assembles the display-ready collection,
// tolerating partial failures.
package enrich

import (
	"context"
	"errors"
	"sync"

	"github.com/reelquest/reelquest/internal/logging"
	"github.com/reelquest/reelquest/internal/metrics"
	"github.com/reelquest/reelquest/internal/models"
	"github.com/reelquest/reelquest/internal/omdb"
)

// ErrNoneEnriched indicates every lookup in a batch failed.
var ErrNoneEnriched = errors.New("no movies could be enriched")

// Resolver resolves one recommendation into full metadata. Implemented by
// the OMDb client on the server side and by an HTTP API resolver in the CLI.
type Resolver interface {
	Resolve(ctx context.Context, params omdb.SearchParams) (models.MovieMetadata, error)
}

// Enricher runs concurrent metadata enrichment over a Resolver.
type Enricher struct {
	resolver Resolver
}

// New creates an Enricher.
func New(resolver Resolver) *Enricher {
	return &Enricher{resolver: resolver}
}

// Enrich resolves metadata for every item concurrently. Individual failures
// (not found, provider error, network error) are logged and dropped; the
// surviving records keep the input order. When every lookup fails the batch
// itself fails with ErrNoneEnriched.
func (e *Enricher) Enrich(ctx context.Context, items []models.RecommendationItem) ([]models.MovieMetadata, error) {
	if len(items) == 0 {
		return nil, ErrNoneEnriched
	}

	metrics.EnrichmentBatchSize.Observe(float64(len(items)))

	// Indexed results keep input order regardless of completion order. The
	// join waits for every resolution; one failure never aborts siblings.
	results := make([]*models.MovieMetadata, len(items))
	var wg sync.WaitGroup

	for i, item := range items {
		wg.Add(1)
		go func(i int, item models.RecommendationItem) {
			defer wg.Done()

			meta, err := e.resolver.Resolve(ctx, omdb.SearchParams{
				IMDbID: item.IMDbID,
				Title:  item.Title,
				Year:   item.Year,
			})
			if err != nil {
				metrics.EnrichmentItemFailures.Inc()
				logging.Ctx(ctx).Warn().
					Err(err).
					Str("title", item.Title).
					Str("imdb_id", item.IMDbID).
					Msg("Dropping item from enrichment batch")
				return
			}
			results[i] = &meta
		}(i, item)
	}
	wg.Wait()

	enriched := make([]models.MovieMetadata, 0, len(items))
	for _, r := range results {
		if r != nil {
			enriched = append(enriched, *r)
		}
	}

	if len(enriched) == 0 {
		metrics.EnrichmentBatchFailures.Inc()
		return nil, ErrNoneEnriched
	}

	return enriched, nil
}
