// Reelquest - AI-Assisted Movie Recommendation Service
// Copyright 2026 Reelquest contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelquest/reelquest

// Package cache provides the process-lifetime metadata cache used by the
// movie metadata client.
//
// Unlike a TTL cache, entries here are write-once: movie metadata is
// immutable per identifier, so once a key is populated it is served from
// memory for the remainder of the process lifetime with no invalidation.
// Concurrent duplicate writes with the same computed value are harmless.
package cache

import (
	"fmt"
	"strings"
	"sync"

	"github.com/reelquest/reelquest/internal/models"
)

// MetadataCache is a thread-safe write-once mapping from a resolution key to
// movie metadata.
type MetadataCache struct {
	mu      sync.RWMutex
	entries map[string]models.MovieMetadata

	statsMu sync.Mutex
	stats   Stats
}

// Stats tracks cache performance counters.
type Stats struct {
	Hits      int64
	Misses    int64
	TotalKeys int64
}

// New creates an empty metadata cache.
func New() *MetadataCache {
	return &MetadataCache{
		entries: make(map[string]models.MovieMetadata),
	}
}

// Key computes the resolution key for a lookup: the external identifier when
// present, else the title-year composite.
func Key(imdbID, title string, year int) string {
	if imdbID != "" {
		return imdbID
	}
	return fmt.Sprintf("%s-%d", strings.ToLower(strings.TrimSpace(title)), year)
}

// Get retrieves a cached record.
func (c *MetadataCache) Get(key string) (models.MovieMetadata, bool) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()

	if ok {
		c.recordHit()
	} else {
		c.recordMiss()
	}
	return entry, ok
}

// Set stores a record under the key. The first write wins; a later write for
// an already-populated key is ignored, preserving write-once semantics under
// concurrent enrichment.
func (c *MetadataCache) Set(key string, value models.MovieMetadata) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[key]; exists {
		return
	}
	c.entries[key] = value
	size := len(c.entries)

	c.statsMu.Lock()
	c.stats.TotalKeys = int64(size)
	c.statsMu.Unlock()
}

// Len returns the number of cached entries.
func (c *MetadataCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// GetStats returns a snapshot of the cache counters.
func (c *MetadataCache) GetStats() Stats {
	c.statsMu.Lock()
	defer c.statsMu.Unlock()
	return c.stats
}

// HitRate returns the cache hit rate as a percentage.
func (c *MetadataCache) HitRate() float64 {
	stats := c.GetStats()
	total := stats.Hits + stats.Misses
	if total == 0 {
		return 0.0
	}
	return float64(stats.Hits) / float64(total) * 100.0
}

func (c *MetadataCache) recordHit() {
	c.statsMu.Lock()
	c.stats.Hits++
	c.statsMu.Unlock()
}

func (c *MetadataCache) recordMiss() {
	c.statsMu.Lock()
	c.stats.Misses++
	c.statsMu.Unlock()
}
