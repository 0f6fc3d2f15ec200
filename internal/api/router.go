// Reelquest - AI-Assisted Movie Recommendation Service
// Copyright 2026 Reelquest contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelquest/reelquest

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/reelquest/reelquest/internal/middleware"
)

// RouterConfig holds the routing-level settings.
type RouterConfig struct {
	// CORSOrigins lists allowed origins; "*" allows any.
	CORSOrigins []string

	// LookupRequests/LookupWindow bound the metadata lookup endpoints per
	// IP. This outer guard is independent of the recommendation quota.
	LookupRequests int
	LookupWindow   time.Duration
}

// NewRouter assembles the chi router with the full middleware stack.
func NewRouter(handler *Handler, cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware, applied to all routes in order.
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		MaxAge:         300,
	}))

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(securityHeaders)
		r.Use(middleware.PrometheusMetrics)

		r.Get("/health", handler.Health)

		// The recommendation endpoint carries its own domain rate limiter
		// (remaining-quota accounting lives in the pipeline).
		r.Post("/recommendations", handler.Recommendations)

		// Lookup endpoints get an outer per-IP guard.
		r.Group(func(r chi.Router) {
			if cfg.LookupRequests > 0 {
				r.Use(httprate.LimitByIP(cfg.LookupRequests, cfg.LookupWindow))
			}
			r.Get("/movie", handler.Movie)
			r.Get("/poster", handler.Poster)
			r.Get("/lookup-info", handler.LookupInfo)
		})
	})

	r.Handle("/metrics", promhttp.Handler())

	return r
}

// securityHeaders sets baseline response headers for the API group.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		next.ServeHTTP(w, r)
	})
}
