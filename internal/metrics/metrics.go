// Reelquest - AI-Assisted Movie Recommendation Service
// Copyright 2026 Reelquest contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelquest/reelquest

// Package metrics provides Prometheus instrumentation for the service:
// API endpoint latency and throughput, rate-limit rejections, metadata
// cache efficiency, upstream provider calls, and enrichment outcomes.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	RateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_rate_limit_hits_total",
			Help: "Total number of rate limit rejections",
		},
		[]string{"endpoint"},
	)

	// Metadata Cache Metrics
	CacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "metadata_cache_hits_total",
			Help: "Total number of metadata cache hits",
		},
	)

	CacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "metadata_cache_misses_total",
			Help: "Total number of metadata cache misses",
		},
	)

	CacheSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "metadata_cache_entries",
			Help: "Current number of cached metadata records",
		},
	)

	// Upstream Provider Metrics
	UpstreamRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "upstream_request_duration_seconds",
			Help:    "Duration of upstream provider calls in seconds",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"provider", "operation"},
	)

	UpstreamErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "upstream_errors_total",
			Help: "Total number of upstream provider errors",
		},
		[]string{"provider", "operation", "error_type"},
	)

	// Moderation Metrics
	ModerationFlagged = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "moderation_flagged_total",
			Help: "Total number of descriptions flagged by content moderation",
		},
	)

	// Enrichment Metrics
	EnrichmentBatchSize = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "enrichment_batch_size",
			Help:    "Number of recommendation items per enrichment batch",
			Buckets: []float64{1, 2, 3, 5, 8, 10},
		},
	)

	EnrichmentItemFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "enrichment_item_failures_total",
			Help: "Total number of individual item lookups dropped during enrichment",
		},
	)

	EnrichmentBatchFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "enrichment_batch_failures_total",
			Help: "Total number of enrichment batches where every lookup failed",
		},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)
)

// RecordAPIRequest records an API request metric.
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// RecordUpstreamRequest records a provider call metric.
func RecordUpstreamRequest(provider, operation string, duration time.Duration, err error) {
	UpstreamRequestDuration.WithLabelValues(provider, operation).Observe(duration.Seconds())
	if err != nil {
		UpstreamErrors.WithLabelValues(provider, operation, "request_failed").Inc()
	}
}

// RecordCacheAccess records a metadata cache lookup outcome.
func RecordCacheAccess(hit bool) {
	if hit {
		CacheHits.Inc()
	} else {
		CacheMisses.Inc()
	}
}

// TrackActiveRequest tracks active API requests.
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}
