// Reelquest - AI-Assisted Movie Recommendation Service
// Copyright 2026 Reelquest contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelquest/reelquest

// Package main is the entry point for the Reelquest server.
//
// Reelquest turns a free-text description, genres, and categories into
// movie recommendations via an LLM, and enriches them with OMDb metadata
// and posters.
//
// # Application Architecture
//
// The server initializes components in the following order:
//
//  1. Configuration: Load settings from environment variables and config files (Koanf v2)
//  2. Logging: Configure zerolog from the loaded settings
//  3. Rate limiter: Fixed-window quota per client with a background sweeper
//  4. Upstream clients: OpenAI (moderation + responses) and OMDb (metadata + posters)
//  5. HTTP server: chi router with CORS, metrics, and security headers
//
// # Configuration
//
// Configuration is loaded via Koanf v2 with layered sources (highest priority wins):
//   - Environment variables (OPENAI_API_KEY, OMDB_API_KEY, HTTP_PORT, ...)
//   - Config file (config.yaml, or CONFIG_PATH)
//   - Built-in defaults
//
// API keys are not required at boot. Endpoints that need a missing key
// report a 500 at request time, so metadata lookups keep working when only
// the OMDb key is configured.
//
// # Signal Handling
//
// The server handles graceful shutdown on SIGINT and SIGTERM:
//   - Stops accepting new connections
//   - Waits for in-flight requests to complete (10s timeout)
//   - Stops the rate limiter sweeper
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/reelquest/reelquest/internal/api"
	"github.com/reelquest/reelquest/internal/cache"
	"github.com/reelquest/reelquest/internal/config"
	"github.com/reelquest/reelquest/internal/logging"
	"github.com/reelquest/reelquest/internal/omdb"
	"github.com/reelquest/reelquest/internal/openai"
	"github.com/reelquest/reelquest/internal/ratelimit"
	"github.com/reelquest/reelquest/internal/recommend"
)

// version is set at build time via -ldflags "-X main.version=...".
var version = "dev"

func main() {
	// Load configuration first to get logging settings
	cfg, err := config.Load()
	if err != nil {
		// Use default logger for config errors (config not yet available)
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Initialize zerolog with configuration
	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().Str("version", version).Msg("Starting Reelquest")
	logging.Info().
		Str("host", cfg.Server.Host).
		Int("port", cfg.Server.Port).
		Bool("openai_key_set", cfg.OpenAI.APIKey != "").
		Bool("omdb_key_set", cfg.OMDb.APIKey != "").
		Bool("rate_limit_disabled", cfg.RateLimit.Disabled).
		Msg("Configuration loaded")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Recommendation quota limiter with periodic expired-window sweeps.
	limiter := ratelimit.NewLimiter(cfg.RateLimit.MaxRequests, cfg.RateLimit.Window)
	go limiter.Start(ctx, cfg.RateLimit.SweepInterval)

	llm := openai.NewClient(openai.Config{
		APIKey:  cfg.OpenAI.APIKey,
		BaseURL: cfg.OpenAI.BaseURL,
		Timeout: cfg.OpenAI.Timeout,
	})

	recommender := recommend.NewService(llm, limiter, recommend.Config{
		Model:                cfg.OpenAI.Model,
		SearchModel:          cfg.OpenAI.SearchModel,
		MaxDescriptionLength: cfg.Recommend.MaxDescriptionLength,
		MaxResults:           cfg.Recommend.MaxResults,
		DefaultRegion:        cfg.Recommend.DefaultRegion,
		LimiterDisabled:      cfg.RateLimit.Disabled,
	})

	// OMDb client behind a circuit breaker so a flapping upstream fails fast
	// instead of holding request slots open.
	metadataCache := cache.New()
	movies := omdb.NewBreakerClient(
		omdb.NewClient(omdb.Config{
			APIKey:    cfg.OMDb.APIKey,
			BaseURL:   cfg.OMDb.BaseURL,
			PosterURL: cfg.OMDb.PosterURL,
			Timeout:   cfg.OMDb.Timeout,
		}, metadataCache),
		omdb.BreakerConfig{},
	)

	handler := api.NewHandler(recommender, movies, version)
	router := api.NewRouter(handler, api.RouterConfig{
		CORSOrigins:    cfg.Server.CORSOrigins,
		LookupRequests: cfg.RateLimit.LookupRequests,
		LookupWindow:   cfg.RateLimit.LookupWindow,
	})

	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       120 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logging.Info().Str("addr", server.Addr).Msg("HTTP server listening")
		serverErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serverErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Fatal().Err(err).Msg("HTTP server failed")
		}
	case <-ctx.Done():
		logging.Info().Msg("Shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logging.Error().Err(err).Msg("Graceful shutdown failed")
	}

	logging.Info().Msg("Reelquest stopped")
}
