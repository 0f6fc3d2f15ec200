// Reelquest - AI-Assisted Movie Recommendation Service
// Copyright 2026 Reelquest contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelquest/reelquest

// Package models defines the domain types shared across the recommendation
// pipeline: user search intent, LLM recommendation output, and the enriched
// movie metadata records produced by the OMDb client.
package models

import (
	"regexp"
	"strings"
)

// IMDbIDPattern matches the canonical IMDb identifier format: "tt" followed
// by at least seven digits. It is the format the structured-output schema
// requires from the LLM and the format the OMDb lookup accepts.
var IMDbIDPattern = regexp.MustCompile(`^tt\d{7,}$`)

// SearchOptions captures the user's movie search intent.
//
// At least one of Description, Genres, or Categories must be non-empty for
// the options to be submittable; see Submittable.
type SearchOptions struct {
	Description string   `json:"description"`
	Genres      []string `json:"genres"`
	Categories  []string `json:"categories"`

	// Region is an optional locale hint appended to the prompt.
	// Defaults to "Australia" when empty.
	Region string `json:"region,omitempty"`
}

// Submittable reports whether at least one content field is non-empty.
func (o SearchOptions) Submittable() bool {
	return strings.TrimSpace(o.Description) != "" || len(o.Genres) > 0 || len(o.Categories) > 0
}

// RecommendationItem is a single title returned by the LLM.
//
// A response batch is an ordered sequence of at most the configured maximum
// number of items. Uniqueness of IMDbID within a batch is expected but not
// enforced.
type RecommendationItem struct {
	Title  string `json:"title" validate:"required"`
	Year   int    `json:"year" validate:"required"`
	IMDbID string `json:"imdbId" validate:"required,imdbid"`
}

// Rating is a single source/value rating pair as reported by OMDb,
// e.g. {"Source": "Rotten Tomatoes", "Value": "83%"}.
type Rating struct {
	Source string `json:"Source"`
	Value  string `json:"Value"`
}

// MovieMetadata is the enriched record for one recommended title.
//
// Optional and numeric fields are pointers: the OMDb "N/A" sentinel is
// normalized to nil before a record is considered valid, so a nil pointer
// always means "not available from the provider".
type MovieMetadata struct {
	Title    string   `json:"title"`
	Year     int      `json:"year"`
	Rated    string   `json:"rated"`
	Released string   `json:"released"`
	Runtime  string   `json:"runtime"`
	Genre    []string `json:"genre"`
	Director string   `json:"director"`
	Writer   string   `json:"writer"`
	Actors   []string `json:"actors"`
	Plot     string   `json:"plot"`
	Poster   string   `json:"poster"`
	Ratings  []Rating `json:"ratings"`

	Metascore  *int     `json:"metascore"`
	IMDbRating *float64 `json:"imdbRating"`
	IMDbVotes  *int     `json:"imdbVotes"`

	IMDbID     string  `json:"imdbId"`
	Type       string  `json:"type"`
	BoxOffice  *string `json:"boxOffice"`
	Production *string `json:"production"`
}
