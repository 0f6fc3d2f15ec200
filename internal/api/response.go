// Reelquest - AI-Assisted Movie Recommendation Service
// Copyright 2026 Reelquest contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelquest/reelquest

package api

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/goccy/go-json"

	"github.com/reelquest/reelquest/internal/logging"
)

// errorResponse is the error body shared by every endpoint.
type errorResponse struct {
	Error string `json:"error"`
}

// sanitizeLogValue removes control characters from strings to prevent log
// injection. Newlines and other control characters could otherwise forge log
// entries.
func sanitizeLogValue(s string) string {
	var result strings.Builder
	result.Grow(len(s))
	for _, r := range s {
		if r < 0x20 || r == 0x7F {
			result.WriteString(fmt.Sprintf("\\x%02x", r))
		} else {
			result.WriteRune(r)
		}
	}
	return result.String()
}

// respondJSON sends a JSON response with proper headers.
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")

	data, err := json.Marshal(payload)
	if err != nil {
		logging.Error().Err(err).Msg("Failed to marshal JSON response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		logging.Error().Err(err).Msg("Failed to write JSON response")
	}
}

// respondError sends the `{"error": "..."}` body every endpoint uses for
// failures. err, when present, is logged but never leaked to the client.
func respondError(w http.ResponseWriter, status int, message string, err error) {
	if err != nil {
		logging.Error().
			Int("status", status).
			Str("error", sanitizeLogValue(err.Error())).
			Msg("API error")
	}
	respondJSON(w, status, errorResponse{Error: message})
}
