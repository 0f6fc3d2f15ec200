// Reelquest - AI-Assisted Movie Recommendation Service
// Copyright 2026 Reelquest contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelquest/reelquest

package validation

import (
	"fmt"
	"regexp"
	"strings"
)

// TextReason classifies why a free-text input was rejected.
type TextReason string

const (
	// ReasonEmpty indicates the text was empty or whitespace-only.
	ReasonEmpty TextReason = "empty"

	// ReasonTooLong indicates the text exceeded the configured maximum length.
	ReasonTooLong TextReason = "too_long"

	// ReasonMalicious indicates the text matched a markup or script-injection pattern.
	ReasonMalicious TextReason = "malicious"

	// ReasonProhibited indicates the text matched a spam heuristic.
	ReasonProhibited TextReason = "prohibited"
)

// TextError describes a rejected free-text input.
type TextError struct {
	Reason  TextReason
	Message string
}

func (e *TextError) Error() string {
	return e.Message
}

// suspiciousPatterns are markup and script-injection patterns that must never
// be forwarded to an external service.
var suspiciousPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?is)<script\b.*?</script>`), // script blocks
	regexp.MustCompile(`(?i)javascript:`),            // javascript: protocol
	regexp.MustCompile(`(?i)\bon\w+\s*=`),            // inline event handlers
	regexp.MustCompile(`(?i)data:text/html`),         // executable data URIs
	regexp.MustCompile(`(?i)vbscript:`),              // vbscript: protocol
}

// spamPatterns are coarse spam heuristics: known spam keywords, embedded
// URLs, and embedded email addresses.
var spamPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b(spam|viagra|casino|poker|bet)\b`),
	regexp.MustCompile(`(?i)(http|https)://\S+`),
	regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`),
}

// ValidateText checks a user-supplied description against the safety rules,
// applied in order with first match winning:
//
//  1. Empty or whitespace-only text.
//  2. Length exceeding maxLength.
//  3. Markup/script-injection patterns.
//  4. Spam heuristics (keywords, URLs, email addresses).
//
// Returns nil when the text passes, or a *TextError with the rejection
// reason. Pure function of its inputs; no network or state side effects.
func ValidateText(text string, maxLength int) *TextError {
	if strings.TrimSpace(text) == "" {
		return &TextError{
			Reason:  ReasonEmpty,
			Message: "Please enter a description of the movies you are looking for",
		}
	}

	if len(text) > maxLength {
		return &TextError{
			Reason:  ReasonTooLong,
			Message: fmt.Sprintf("Text too long. Maximum %d characters allowed.", maxLength),
		}
	}

	for _, pattern := range suspiciousPatterns {
		if pattern.MatchString(text) {
			return &TextError{
				Reason:  ReasonMalicious,
				Message: "Potentially malicious content detected",
			}
		}
	}

	for _, pattern := range spamPatterns {
		if pattern.MatchString(text) {
			return &TextError{
				Reason:  ReasonProhibited,
				Message: "Content contains prohibited patterns",
			}
		}
	}

	return nil
}
