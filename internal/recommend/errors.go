// Reelquest - AI-Assisted Movie Recommendation Service
// Copyright 2026 Reelquest contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelquest/reelquest

package recommend

import (
	"errors"
	"fmt"
	"strings"
)

// ErrRateLimited indicates the caller exhausted its request quota for the
// current window. Surfaced as HTTP 429.
var ErrRateLimited = errors.New("rate limit exceeded")

// ModerationError indicates the description was flagged by content
// moderation. Surfaced as HTTP 400; never retried.
type ModerationError struct {
	// Categories are the content-policy categories flagged true.
	Categories []string
}

func (e *ModerationError) Error() string {
	return fmt.Sprintf("Content flagged as inappropriate: %s", strings.Join(e.Categories, ", "))
}
