// Reelquest - AI-Assisted Movie Recommendation Service
// Copyright 2026 Reelquest contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelquest/reelquest

// Package ratelimit implements the fixed-window rate limiting used to bound
// recommendation request volume.
//
// Two limiters live here: Limiter is the authoritative server-side
// per-identifier counter, and ClientLimiter is the advisory client-side
// mirror used by the CLI to avoid a round trip when the quota is already
// exhausted.
//
// State is process-local by design. A deployment with multiple processes
// behind a load balancer gets independent counters per process; callers
// needing distributed correctness must externalize the counter to a shared
// store.
package ratelimit

import (
	"context"
	"sync"
	"time"

	"github.com/reelquest/reelquest/internal/logging"
)

// entry is a per-identifier fixed-window counter.
type entry struct {
	count     int
	resetTime time.Time
}

// Limiter is a fixed-window rate limiter keyed by client identifier.
//
// Construct one per process with NewLimiter and share it across request
// handlers. All methods are safe for concurrent use.
type Limiter struct {
	mu    sync.Mutex
	store map[string]*entry

	maxRequests int
	window      time.Duration

	// now is injectable for tests.
	now func() time.Time
}

// NewLimiter creates a fixed-window limiter allowing maxRequests per window
// per identifier.
func NewLimiter(maxRequests int, window time.Duration) *Limiter {
	return &Limiter{
		store:       make(map[string]*entry),
		maxRequests: maxRequests,
		window:      window,
		now:         time.Now,
	}
}

// Allow records a request for the identifier and reports whether it is
// within the limit.
//
// On first observation of an identifier, or when its window has elapsed, the
// counter resets to 1 and the request is allowed. A denied request does not
// increment the counter and does not extend the window.
func (l *Limiter) Allow(identifier string) bool {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	e, ok := l.store[identifier]
	if !ok || now.After(e.resetTime) {
		l.store[identifier] = &entry{
			count:     1,
			resetTime: now.Add(l.window),
		}
		return true
	}

	if e.count >= l.maxRequests {
		return false
	}

	e.count++
	return true
}

// Remaining returns the number of requests the identifier may still make in
// the current window. Unseen or expired identifiers have the full quota.
func (l *Limiter) Remaining(identifier string) int {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	e, ok := l.store[identifier]
	if !ok || now.After(e.resetTime) {
		return l.maxRequests
	}

	remaining := l.maxRequests - e.count
	if remaining < 0 {
		return 0
	}
	return remaining
}

// sweep deletes entries whose window has expired, bounding memory growth.
// Returns the number of entries removed.
func (l *Limiter) sweep() int {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	removed := 0
	for id, e := range l.store {
		if now.After(e.resetTime) {
			delete(l.store, id)
			removed++
		}
	}
	return removed
}

// Len returns the number of tracked identifiers.
func (l *Limiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.store)
}

// Start runs the periodic sweep until ctx is cancelled. Call it in its own
// goroutine:
//
//	go limiter.Start(ctx, cfg.RateLimit.SweepInterval)
func (l *Limiter) Start(ctx context.Context, interval time.Duration) {
	log := logging.WithComponent("ratelimit")
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Debug().Msg("Rate limiter sweep stopped")
			return
		case <-ticker.C:
			if removed := l.sweep(); removed > 0 {
				log.Debug().Int("removed", removed).Msg("Swept expired rate limit entries")
			}
		}
	}
}
