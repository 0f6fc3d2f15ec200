// Reelquest - AI-Assisted Movie Recommendation Service
// Copyright 2026 Reelquest contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelquest/reelquest

package openai

import (
	"sort"
	"strings"
)

// moderationRequest is the wire format for the moderation endpoint.
type moderationRequest struct {
	Input string `json:"input"`
}

// moderationResponse is the wire format of a moderation result batch.
type moderationResponse struct {
	Results []moderationResult `json:"results"`
}

type moderationResult struct {
	Flagged    bool            `json:"flagged"`
	Categories map[string]bool `json:"categories"`
}

// ModerationResult is the outcome of a content-moderation check.
type ModerationResult struct {
	Flagged    bool
	Categories map[string]bool
}

// FlaggedCategories returns the names of the categories flagged true, sorted
// for deterministic error messages.
func (m ModerationResult) FlaggedCategories() []string {
	flagged := make([]string, 0, len(m.Categories))
	for name, hit := range m.Categories {
		if hit {
			flagged = append(flagged, name)
		}
	}
	sort.Strings(flagged)
	return flagged
}

// ResponseRequest describes a structured-output completion call.
type ResponseRequest struct {
	// Model is the model variant to invoke.
	Model string

	// Instructions is the system instruction describing the assistant's role.
	Instructions string

	// Input is the user content (the built prompt).
	Input string

	// SchemaName labels the structured-output schema.
	SchemaName string

	// Schema is the JSON schema the output must conform to.
	Schema map[string]interface{}

	// WebSearch enables the provider's web-search tool for the call.
	WebSearch bool
}

// responsesRequest is the wire format for the Responses API.
type responsesRequest struct {
	Model        string         `json:"model"`
	Instructions string         `json:"instructions,omitempty"`
	Input        string         `json:"input"`
	Tools        []responseTool `json:"tools,omitempty"`
	Text         *textOptions   `json:"text,omitempty"`
}

type responseTool struct {
	Type string `json:"type"`
}

type textOptions struct {
	Format textFormat `json:"format"`
}

type textFormat struct {
	Type   string                 `json:"type"`
	Name   string                 `json:"name"`
	Strict bool                   `json:"strict"`
	Schema map[string]interface{} `json:"schema"`
}

// responsesResponse is the wire format of a Responses API result.
type responsesResponse struct {
	ID     string         `json:"id"`
	Status string         `json:"status"`
	Output []outputItem   `json:"output"`
	Error  *responseError `json:"error"`
}

type outputItem struct {
	Type    string        `json:"type"`
	Content []contentPart `json:"content"`
}

type contentPart struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type responseError struct {
	Message string `json:"message"`
}

// outputText concatenates all output_text parts of the response.
func (r *responsesResponse) outputText() string {
	var sb strings.Builder
	for _, item := range r.Output {
		if item.Type != "message" {
			continue
		}
		for _, part := range item.Content {
			if part.Type == "output_text" {
				sb.WriteString(part.Text)
			}
		}
	}
	return sb.String()
}

// ResponseResult is the parsed outcome of a completion call.
type ResponseResult struct {
	// Status is the provider's completion status; anything other than
	// "completed" is an error to callers.
	Status string

	// OutputText is the structured-output JSON text produced by the model.
	OutputText string
}
