// Reelquest - AI-Assisted Movie Recommendation Service
// Copyright 2026 Reelquest contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelquest/reelquest

// Package recommend turns user search options into LLM recommendation
// requests and orchestrates the fail-fast pipeline around them: rate limit
// gate, moderation, text validation, prompt construction, structured-output
// completion, and result parsing.
package recommend

import (
	"fmt"
	"strings"
)

// PromptRequest is the outcome of building a prompt from search options.
type PromptRequest struct {
	// Text is the assembled user prompt.
	Text string

	// UseLiveSearch reports whether the call should enable the provider's
	// web-search tool and select the search-capable model variant.
	UseLiveSearch bool
}

// liveSearchCategory is the category entry that requests fresh results.
const liveSearchCategory = "new release"

// WantsLiveSearch reports whether the search options ask for titles newer
// than the model's training data: a "new release" category entry, or a
// description mentioning new releases or recent titles.
func WantsLiveSearch(description string, categories []string) bool {
	for _, c := range categories {
		if strings.EqualFold(strings.TrimSpace(c), liveSearchCategory) {
			return true
		}
	}
	desc := strings.ToLower(description)
	return strings.Contains(desc, "new releases") || strings.Contains(desc, "recent")
}

// BuildPrompt assembles the user prompt from search options. Clauses appear
// in fixed order: genres, categories, description, then the region hint.
// Each clause is a complete sentence ending with a trailing space so the
// final string reads as one instruction. defaultRegion is used when the
// options carry no region.
func BuildPrompt(description string, genres, categories []string, region, defaultRegion string) PromptRequest {
	var sb strings.Builder

	if len(genres) > 0 {
		fmt.Fprintf(&sb, "I'm looking for movies that match the following genres: %s. ", strings.Join(genres, ", "))
	}
	if len(categories) > 0 {
		fmt.Fprintf(&sb, "Ensure the movie selections fall under the following categories: %s. ", strings.Join(categories, ", "))
	}
	if trimmed := strings.TrimSpace(description); trimmed != "" {
		sb.WriteString(trimmed)
		sb.WriteString(" ")
	}

	if region == "" {
		region = defaultRegion
	}
	fmt.Fprintf(&sb, "Only recommend movies available to watch in %s.", region)

	return PromptRequest{
		Text:          sb.String(),
		UseLiveSearch: WantsLiveSearch(description, categories),
	}
}
