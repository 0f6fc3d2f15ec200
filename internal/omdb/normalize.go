// Reelquest - AI-Assisted Movie Recommendation Service
// Copyright 2026 Reelquest contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelquest/reelquest

package omdb

import (
	"strconv"
	"strings"

	"github.com/reelquest/reelquest/internal/models"
)

// notAvailable is the provider's sentinel for missing data.
const notAvailable = "N/A"

// rawMovie is the provider's wire format for a movie record.
type rawMovie struct {
	Title      string          `json:"Title"`
	Year       string          `json:"Year"`
	Rated      string          `json:"Rated"`
	Released   string          `json:"Released"`
	Runtime    string          `json:"Runtime"`
	Genre      string          `json:"Genre"`
	Director   string          `json:"Director"`
	Writer     string          `json:"Writer"`
	Actors     string          `json:"Actors"`
	Plot       string          `json:"Plot"`
	Poster     string          `json:"Poster"`
	Ratings    []models.Rating `json:"Ratings"`
	Metascore  string          `json:"Metascore"`
	IMDbRating string          `json:"imdbRating"`
	IMDbVotes  string          `json:"imdbVotes"`
	IMDbID     string          `json:"imdbID"`
	Type       string          `json:"Type"`
	BoxOffice  string          `json:"BoxOffice"`
	Production string          `json:"Production"`

	// Response/Error carry the provider's own success flag and not-found
	// message inside a 200 response.
	Response string `json:"Response"`
	Error    string `json:"Error"`
}

// normalize maps a raw provider record to the internal MovieMetadata shape.
// Every "N/A" sentinel in an optional or numeric field becomes nil; list
// fields are split on the provider's ", " separator.
func normalize(raw *rawMovie) models.MovieMetadata {
	return models.MovieMetadata{
		Title:      raw.Title,
		Year:       intField(raw.Year),
		Rated:      raw.Rated,
		Released:   raw.Released,
		Runtime:    raw.Runtime,
		Genre:      listField(raw.Genre),
		Director:   raw.Director,
		Writer:     raw.Writer,
		Actors:     listField(raw.Actors),
		Plot:       raw.Plot,
		Poster:     raw.Poster,
		Ratings:    raw.Ratings,
		Metascore:  intPtrField(raw.Metascore),
		IMDbRating: floatPtrField(raw.IMDbRating),
		IMDbVotes:  votesField(raw.IMDbVotes),
		IMDbID:     raw.IMDbID,
		Type:       raw.Type,
		BoxOffice:  stringPtrField(raw.BoxOffice),
		Production: stringPtrField(raw.Production),
	}
}

// intField parses a year-like value; "N/A" or garbage yields 0. Values like
// "2010–2015" (series ranges) keep the leading year.
func intField(s string) int {
	s = strings.TrimSpace(s)
	if s == "" || s == notAvailable {
		return 0
	}
	digits := s
	for i, r := range s {
		if r < '0' || r > '9' {
			digits = s[:i]
			break
		}
	}
	n, err := strconv.Atoi(digits)
	if err != nil {
		return 0
	}
	return n
}

// listField splits a comma-separated provider list; "N/A" yields nil.
func listField(s string) []string {
	if s == "" || s == notAvailable {
		return nil
	}
	return strings.Split(s, ", ")
}

// stringPtrField maps the "N/A" sentinel to nil.
func stringPtrField(s string) *string {
	if s == "" || s == notAvailable {
		return nil
	}
	return &s
}

// intPtrField parses an integer, mapping "N/A" or parse failure to nil.
func intPtrField(s string) *int {
	if s == "" || s == notAvailable {
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return nil
	}
	return &n
}

// floatPtrField parses a float, mapping "N/A" or parse failure to nil.
func floatPtrField(s string) *float64 {
	if s == "" || s == notAvailable {
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &f
}

// votesField parses a vote count with thousands separators ("1,234,567").
func votesField(s string) *int {
	if s == "" || s == notAvailable {
		return nil
	}
	n, err := strconv.Atoi(strings.ReplaceAll(s, ",", ""))
	if err != nil {
		return nil
	}
	return &n
}
