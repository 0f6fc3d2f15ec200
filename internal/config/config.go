// Reelquest - AI-Assisted Movie Recommendation Service
// Copyright 2026 Reelquest contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelquest/reelquest

// Package config provides layered configuration loading via Koanf v2.
//
// Precedence, highest wins: environment variables > config file > defaults.
// Provider API keys are deliberately NOT validated at load time: a missing
// key degrades the specific endpoint with a 500 at request time instead of
// preventing the process from booting.
package config

import (
	"fmt"
	"time"
)

// Config is the root configuration for the Reelquest server.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	OpenAI    OpenAIConfig    `koanf:"openai"`
	OMDb      OMDbConfig      `koanf:"omdb"`
	RateLimit RateLimitConfig `koanf:"rate_limit"`
	Recommend RecommendConfig `koanf:"recommend"`
	Logging   LoggingConfig   `koanf:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host    string        `koanf:"host"`
	Port    int           `koanf:"port"`
	Timeout time.Duration `koanf:"timeout"`

	// CORSOrigins lists allowed CORS origins. "*" allows any origin,
	// matching the original deployment where posters are embedded
	// cross-origin.
	CORSOrigins []string `koanf:"cors_origins"`
}

// OpenAIConfig holds LLM provider settings.
type OpenAIConfig struct {
	// APIKey is required for the recommendations endpoint. A missing key
	// surfaces as a 500 on that endpoint only.
	APIKey  string        `koanf:"api_key"`
	BaseURL string        `koanf:"base_url"`
	Timeout time.Duration `koanf:"timeout"`

	// Model is the default completion model used when no live web search
	// is requested.
	Model string `koanf:"model"`

	// SearchModel is the search-capable variant selected when the user
	// asks for new releases or recent titles.
	SearchModel string `koanf:"search_model"`
}

// OMDbConfig holds movie-metadata provider settings.
type OMDbConfig struct {
	// APIKey is required for the movie and poster lookup endpoints.
	APIKey    string        `koanf:"api_key"`
	BaseURL   string        `koanf:"base_url"`
	PosterURL string        `koanf:"poster_url"`
	Timeout   time.Duration `koanf:"timeout"`
}

// RateLimitConfig holds the fixed-window rate limiter policy shared by the
// server-side limiter and mirrored by the CLI's client-side limiter.
type RateLimitConfig struct {
	// MaxRequests is the number of recommendation requests allowed per
	// window per client identifier.
	MaxRequests int `koanf:"max_requests"`

	// Window is the fixed window duration.
	Window time.Duration `koanf:"window"`

	// SweepInterval is how often expired counter entries are removed.
	SweepInterval time.Duration `koanf:"sweep_interval"`

	// Disabled turns off the recommendation rate limiter entirely.
	Disabled bool `koanf:"disabled"`

	// LookupRequests/LookupWindow bound the metadata lookup endpoints
	// (outer httprate guard, per IP).
	LookupRequests int           `koanf:"lookup_requests"`
	LookupWindow   time.Duration `koanf:"lookup_window"`
}

// RecommendConfig holds recommendation pipeline tunables.
type RecommendConfig struct {
	// MaxDescriptionLength bounds the free-text description.
	MaxDescriptionLength int `koanf:"max_description_length"`

	// MaxResults bounds the number of titles requested from the LLM.
	MaxResults int `koanf:"max_results"`

	// DefaultRegion is appended to the prompt when the user supplies no
	// region hint.
	DefaultRegion string `koanf:"default_region"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// Validate checks structural configuration invariants. Provider API keys
// are intentionally excluded; their absence is a per-endpoint runtime error.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be in [1, 65535], got %d", c.Server.Port)
	}
	if c.RateLimit.MaxRequests < 1 {
		return fmt.Errorf("rate_limit.max_requests must be >= 1, got %d", c.RateLimit.MaxRequests)
	}
	if c.RateLimit.Window <= 0 {
		return fmt.Errorf("rate_limit.window must be positive, got %s", c.RateLimit.Window)
	}
	if c.RateLimit.SweepInterval <= 0 {
		return fmt.Errorf("rate_limit.sweep_interval must be positive, got %s", c.RateLimit.SweepInterval)
	}
	if c.Recommend.MaxDescriptionLength < 1 {
		return fmt.Errorf("recommend.max_description_length must be >= 1, got %d", c.Recommend.MaxDescriptionLength)
	}
	if c.Recommend.MaxResults < 1 || c.Recommend.MaxResults > 50 {
		return fmt.Errorf("recommend.max_results must be in [1, 50], got %d", c.Recommend.MaxResults)
	}
	if c.OpenAI.BaseURL == "" {
		return fmt.Errorf("openai.base_url must not be empty")
	}
	if c.OMDb.BaseURL == "" || c.OMDb.PosterURL == "" {
		return fmt.Errorf("omdb.base_url and omdb.poster_url must not be empty")
	}
	return nil
}

// Load reads configuration from all sources with the following priority
// (highest wins):
//
//  1. Environment variables
//  2. Config file (config.yaml if present, or the path in CONFIG_PATH)
//  3. Built-in defaults
//
// See LoadWithKoanf for the underlying implementation.
func Load() (*Config, error) {
	return LoadWithKoanf()
}
