// Reelquest - AI-Assisted Movie Recommendation Service
// Copyright 2026 Reelquest contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelquest/reelquest

package omdb

import (
	"context"
	"errors"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/reelquest/reelquest/internal/logging"
	"github.com/reelquest/reelquest/internal/metrics"
	"github.com/reelquest/reelquest/internal/models"
)

// BreakerClient wraps Client with a circuit breaker so a failing provider is
// answered fast instead of tying up request handlers. It adds no retry:
// calls remain single-attempt, the breaker only short-circuits when the
// provider is already known to be down.
//
// Domain outcomes (invalid params, not found) do not count as failures; only
// transport-level errors trip the breaker.
type BreakerClient struct {
	client  *Client
	breaker *gobreaker.CircuitBreaker[interface{}]
}

// BreakerConfig holds circuit breaker tunables.
type BreakerConfig struct {
	// FailureThreshold is the number of consecutive transport failures that
	// opens the circuit.
	FailureThreshold uint32

	// Timeout is how long the circuit stays open before a probe is allowed.
	Timeout time.Duration
}

// NewBreakerClient wraps the given client with a circuit breaker.
func NewBreakerClient(client *Client, cfg BreakerConfig) *BreakerClient {
	if cfg.FailureThreshold == 0 {
		cfg.FailureThreshold = 5
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}

	log := logging.WithComponent("omdb")

	settings := gobreaker.Settings{
		Name:        "omdb",
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.FailureThreshold
		},
		IsSuccessful: func(err error) bool {
			// Not-found and bad-params are valid provider answers.
			var notFound *NotFoundError
			if errors.As(err, &notFound) {
				return true
			}
			return err == nil || errors.Is(err, ErrInvalidParams)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			metrics.CircuitBreakerState.WithLabelValues(name).Set(float64(to))
			log.Warn().
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("Circuit breaker state changed")
		},
	}

	return &BreakerClient{
		client:  client,
		breaker: gobreaker.NewCircuitBreaker[interface{}](settings),
	}
}

// posterResult bundles the two poster return values through the breaker.
type posterResult struct {
	data        []byte
	contentType string
}

// Resolve is Client.Resolve behind the breaker.
func (b *BreakerClient) Resolve(ctx context.Context, params SearchParams) (models.MovieMetadata, error) {
	result, err := b.breaker.Execute(func() (interface{}, error) {
		return b.client.Resolve(ctx, params)
	})
	if err != nil {
		return models.MovieMetadata{}, err
	}
	return castResult[models.MovieMetadata](result)
}

// Poster is Client.Poster behind the breaker.
func (b *BreakerClient) Poster(ctx context.Context, params SearchParams) ([]byte, string, error) {
	result, err := b.breaker.Execute(func() (interface{}, error) {
		data, contentType, perr := b.client.Poster(ctx, params)
		if perr != nil {
			return nil, perr
		}
		return posterResult{data: data, contentType: contentType}, nil
	})
	if err != nil {
		return nil, "", err
	}
	poster, err := castResult[posterResult](result)
	if err != nil {
		return nil, "", err
	}
	return poster.data, poster.contentType, nil
}

// State returns the breaker state for monitoring.
func (b *BreakerClient) State() string {
	return b.breaker.State().String()
}

// castResult converts the breaker's interface{} result to the expected type.
func castResult[T any](result interface{}) (T, error) {
	typed, ok := result.(T)
	if !ok {
		var zero T
		return zero, errors.New("omdb: unexpected result type from circuit breaker")
	}
	return typed, nil
}
