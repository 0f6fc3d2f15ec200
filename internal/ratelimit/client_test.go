// Reelquest - AI-Assisted Movie Recommendation Service
// Copyright 2026 Reelquest contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelquest/reelquest

package ratelimit

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func newTestClientLimiter(t *testing.T, maxRequests int, window time.Duration) (*ClientLimiter, *fakeClock) {
	t.Helper()
	clock := newFakeClock()
	c := NewClientLimiterAt(filepath.Join(t.TempDir(), "requests.json"), maxRequests, window)
	c.now = clock.Now
	return c, clock
}

func TestClientLimiterAllowCommitsUsage(t *testing.T) {
	t.Parallel()

	c, _ := newTestClientLimiter(t, 3, time.Hour)

	// Each Allow consumes a slot even though it is "just a check".
	if !c.Allow() {
		t.Fatal("first Allow denied")
	}
	if got := c.CurrentCount(); got != 1 {
		t.Errorf("CurrentCount = %d, want 1", got)
	}
	if got := c.Remaining(); got != 2 {
		t.Errorf("Remaining = %d, want 2", got)
	}
}

func TestClientLimiterDeniesAtLimit(t *testing.T) {
	t.Parallel()

	c, _ := newTestClientLimiter(t, 2, time.Hour)

	c.Allow()
	c.Allow()
	if c.Allow() {
		t.Error("3rd Allow succeeded, want denial")
	}
	if got := c.CurrentCount(); got != 2 {
		t.Errorf("CurrentCount = %d, want 2 (denial must not record usage)", got)
	}
}

func TestClientLimiterWindowExpiry(t *testing.T) {
	t.Parallel()

	c, clock := newTestClientLimiter(t, 2, time.Hour)

	c.Allow()
	c.Allow()
	clock.Advance(61 * time.Minute)

	if !c.Allow() {
		t.Error("expected allow after window elapsed")
	}
	if got := c.CurrentCount(); got != 1 {
		t.Errorf("CurrentCount = %d, want 1 after expiry", got)
	}
}

func TestClientLimiterReset(t *testing.T) {
	t.Parallel()

	c, _ := newTestClientLimiter(t, 2, time.Hour)

	c.Allow()
	c.Reset()

	if got := c.CurrentCount(); got != 0 {
		t.Errorf("CurrentCount = %d, want 0 after Reset", got)
	}
	if got := c.Remaining(); got != 2 {
		t.Errorf("Remaining = %d, want full quota after Reset", got)
	}
}

func TestClientLimiterPersistsAcrossInstances(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "requests.json")
	clock := newFakeClock()

	first := NewClientLimiterAt(path, 5, time.Hour)
	first.now = clock.Now
	first.Allow()
	first.Allow()

	second := NewClientLimiterAt(path, 5, time.Hour)
	second.now = clock.Now
	if got := second.CurrentCount(); got != 2 {
		t.Errorf("CurrentCount = %d, want 2 from persisted state", got)
	}
}

func TestClientLimiterDegradesWithoutStorage(t *testing.T) {
	t.Parallel()

	// Empty path means no usable storage: never deny.
	c := NewClientLimiterAt("", 1, time.Hour)
	for i := 0; i < 5; i++ {
		if !c.Allow() {
			t.Fatal("storage-less limiter must allow everything")
		}
	}
	if got := c.Remaining(); got != 1 {
		t.Errorf("Remaining = %d, want full quota without storage", got)
	}
}

func TestClientLimiterCorruptStateFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "requests.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o600); err != nil {
		t.Fatal(err)
	}

	c := NewClientLimiterAt(path, 2, time.Hour)
	if !c.Allow() {
		t.Error("corrupt state must degrade to empty, not deny")
	}
	if got := c.CurrentCount(); got != 1 {
		t.Errorf("CurrentCount = %d, want 1", got)
	}
}
