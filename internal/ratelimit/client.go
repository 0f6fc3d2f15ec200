// Reelquest - AI-Assisted Movie Recommendation Service
// Copyright 2026 Reelquest contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelquest/reelquest

package ratelimit

import (
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/goccy/go-json"
)

// ClientLimiter mirrors the server's rate-limit policy on the client side so
// the CLI can give instant feedback without a network round trip. It is
// advisory only; the server remains authoritative.
//
// Usage timestamps persist in a JSON file under the user cache directory,
// scoped per machine user. When that storage is unavailable the limiter
// degrades gracefully to a no-op that allows everything.
//
// Allow both tests and commits a usage unit in one call: a check alone
// consumes one request slot. There is no dry-run.
type ClientLimiter struct {
	mu sync.Mutex

	path        string
	maxRequests int
	window      time.Duration

	now func() time.Time
}

// clientStateFile is the file name for persisted usage timestamps.
const clientStateFile = "requests.json"

// NewClientLimiter creates a client-side limiter persisting state under the
// user cache directory. If no cache directory is available the limiter still
// works but never denies.
func NewClientLimiter(maxRequests int, window time.Duration) *ClientLimiter {
	path := ""
	if dir, err := os.UserCacheDir(); err == nil {
		path = filepath.Join(dir, "reelquest", clientStateFile)
	}
	return &ClientLimiter{
		path:        path,
		maxRequests: maxRequests,
		window:      window,
		now:         time.Now,
	}
}

// NewClientLimiterAt creates a client-side limiter persisting state at the
// given file path. Used by tests and by callers that manage their own state
// location.
func NewClientLimiterAt(path string, maxRequests int, window time.Duration) *ClientLimiter {
	return &ClientLimiter{
		path:        path,
		maxRequests: maxRequests,
		window:      window,
		now:         time.Now,
	}
}

// load reads the persisted usage timestamps and drops those outside the
// current window. Storage errors yield an empty slice: degrade, don't fail.
func (c *ClientLimiter) load() []time.Time {
	if c.path == "" {
		return nil
	}

	data, err := os.ReadFile(c.path)
	if err != nil {
		return nil
	}

	var raw []int64
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil
	}

	now := c.now()
	valid := make([]time.Time, 0, len(raw))
	for _, ms := range raw {
		ts := time.UnixMilli(ms)
		if now.Sub(ts) < c.window {
			valid = append(valid, ts)
		}
	}
	return valid
}

// save persists the usage timestamps, silently ignoring storage errors.
func (c *ClientLimiter) save(timestamps []time.Time) {
	if c.path == "" {
		return
	}

	raw := make([]int64, len(timestamps))
	for i, ts := range timestamps {
		raw[i] = ts.UnixMilli()
	}

	data, err := json.Marshal(raw)
	if err != nil {
		return
	}

	if err := os.MkdirAll(filepath.Dir(c.path), 0o700); err != nil {
		return
	}
	//nolint:errcheck // advisory state; a failed write degrades to "unlimited"
	os.WriteFile(c.path, data, 0o600)
}

// Allow records a usage and reports whether the caller is still under the
// limit. Note the fused semantics: an allowed call always commits one slot.
func (c *ClientLimiter) Allow() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	valid := c.load()
	if len(valid) >= c.maxRequests {
		return false
	}

	valid = append(valid, c.now())
	c.save(valid)
	return true
}

// Remaining returns the number of requests still available in the window.
func (c *ClientLimiter) Remaining() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	remaining := c.maxRequests - len(c.load())
	if remaining < 0 {
		return 0
	}
	return remaining
}

// CurrentCount returns the number of usages recorded within the window.
func (c *ClientLimiter) CurrentCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.load())
}

// Reset clears all recorded usage.
func (c *ClientLimiter) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.path == "" {
		return
	}
	//nolint:errcheck // a missing file is already the reset state
	os.Remove(c.path)
}
