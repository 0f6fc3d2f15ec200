// Reelquest - AI-Assisted Movie Recommendation Service
// Copyright 2026 Reelquest contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelquest/reelquest

package omdb

import (
	"errors"
	"fmt"
)

// ErrMissingAPIKey indicates the provider key is not configured.
var ErrMissingAPIKey = errors.New("omdb: API key not configured")

// ErrInvalidParams indicates the lookup parameters failed validation before
// any network call: neither a well-formed IMDb identifier nor a non-empty
// title with a plausible year was supplied.
var ErrInvalidParams = errors.New(
	`omdb: either imdb_id (i) or both title (t) and year (y) must be provided; ` +
		`imdb_id must start with "tt" and title/year must be valid`)

// NotFoundError indicates the provider answered but has no record (or no
// poster image) for the requested title. Semantically distinct from a
// transport failure; surfaced as HTTP 404.
type NotFoundError struct {
	// Message is the provider's own error text when available.
	Message string
}

func (e *NotFoundError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return "movie not found"
}

// ProviderError indicates a transport-level failure talking to the provider:
// a network error or a non-2xx status. Surfaced as HTTP 500 with a generic
// message. Single-attempt; safe to retry at the caller.
type ProviderError struct {
	Operation string
	Status    int
	Err       error
}

func (e *ProviderError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("omdb: %s failed with status %d", e.Operation, e.Status)
	}
	return fmt.Sprintf("omdb: %s failed: %v", e.Operation, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}
