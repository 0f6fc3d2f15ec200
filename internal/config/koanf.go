// Reelquest - AI-Assisted Movie Recommendation Service
// Copyright 2026 Reelquest contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelquest/reelquest

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where config files are searched in order
// of priority. The first file found is used.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/reelquest/config.yaml",
	"/etc/reelquest/config.yml",
}

// ConfigPathEnvVar is the environment variable that can override the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig returns a Config struct with all sensible default values.
// These defaults are applied first, then overridden by config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:        "0.0.0.0",
			Port:        8080,
			Timeout:     30 * time.Second,
			CORSOrigins: []string{"*"},
		},
		OpenAI: OpenAIConfig{
			APIKey:      "",
			BaseURL:     "https://api.openai.com/v1",
			Timeout:     60 * time.Second,
			Model:       "gpt-4o-mini",
			SearchModel: "gpt-4o-mini-search-preview",
		},
		OMDb: OMDbConfig{
			APIKey:    "",
			BaseURL:   "https://www.omdbapi.com/",
			PosterURL: "https://img.omdbapi.com/",
			Timeout:   10 * time.Second,
		},
		RateLimit: RateLimitConfig{
			MaxRequests:    5,
			Window:         1 * time.Hour,
			SweepInterval:  5 * time.Minute,
			Disabled:       false,
			LookupRequests: 60,
			LookupWindow:   1 * time.Minute,
		},
		Recommend: RecommendConfig{
			MaxDescriptionLength: 2000,
			MaxResults:           10,
			DefaultRegion:        "Australia",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// LoadWithKoanf loads configuration using Koanf v2 with layered sources:
//  1. Defaults: Built-in sensible defaults
//  2. Config File: Optional YAML config file (if exists)
//  3. Environment Variables: Override any setting
//
// Precedence: ENV > File > Defaults.
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	// Layer 1: Load defaults from struct
	defaults := defaultConfig()
	if err := k.Load(structs.Provider(defaults, "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Layer 2: Load config file (optional)
	configPath := findConfigFile()
	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// Layer 3: Load environment variables (highest priority)
	// OPENAI_API_KEY -> openai.api_key, RATE_LIMIT_REQUESTS -> rate_limit.max_requests
	envProvider := env.Provider("", ".", envTransformFunc)
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	// Post-process slice fields from comma-separated strings
	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile searches for a config file in the default paths.
// Returns the path to the first file found, or empty string if none found.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// sliceConfigPaths defines which config paths should be parsed as comma-separated slices.
var sliceConfigPaths = []string{
	"server.cors_origins",
}

// processSliceFields converts comma-separated string values to slices for
// known slice fields. Env vars come in as strings, but the config expects slices.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		val := k.Get(path)
		if val == nil {
			continue
		}

		// Already a slice (from YAML file), skip
		if _, ok := val.([]interface{}); ok {
			continue
		}
		if _, ok := val.([]string); ok {
			continue
		}

		if strVal, ok := val.(string); ok {
			if strVal == "" {
				continue
			}
			parts := strings.Split(strVal, ",")
			trimmed := make([]string, 0, len(parts))
			for _, p := range parts {
				p = strings.TrimSpace(p)
				if p != "" {
					trimmed = append(trimmed, p)
				}
			}
			if len(trimmed) > 0 {
				if err := k.Set(path, trimmed); err != nil {
					return fmt.Errorf("failed to set %s: %w", path, err)
				}
			}
		}
	}
	return nil
}

// envTransformFunc transforms environment variable names to koanf config paths.
//
// Examples:
//   - OPENAI_API_KEY -> openai.api_key
//   - OMDB_API_KEY -> omdb.api_key
//   - RATE_LIMIT_REQUESTS -> rate_limit.max_requests
//   - HTTP_PORT -> server.port
func envTransformFunc(key string) string {
	key = strings.ToLower(key)

	envMappings := map[string]string{
		// Server mappings
		"http_port":    "server.port",
		"http_host":    "server.host",
		"http_timeout": "server.timeout",
		"cors_origins": "server.cors_origins",

		// OpenAI mappings
		"openai_api_key":      "openai.api_key",
		"openai_base_url":     "openai.base_url",
		"openai_timeout":      "openai.timeout",
		"openai_model":        "openai.model",
		"openai_search_model": "openai.search_model",

		// OMDb mappings
		"omdb_api_key":    "omdb.api_key",
		"omdb_base_url":   "omdb.base_url",
		"omdb_poster_url": "omdb.poster_url",
		"omdb_timeout":    "omdb.timeout",

		// Rate limit mappings
		"rate_limit_requests":        "rate_limit.max_requests",
		"rate_limit_window":          "rate_limit.window",
		"rate_limit_sweep_interval":  "rate_limit.sweep_interval",
		"disable_rate_limit":         "rate_limit.disabled",
		"rate_limit_lookup_requests": "rate_limit.lookup_requests",
		"rate_limit_lookup_window":   "rate_limit.lookup_window",

		// Recommendation mappings
		"max_description_length": "recommend.max_description_length",
		"max_recommendations":    "recommend.max_results",
		"default_region":         "recommend.default_region",

		// Logging mappings
		"log_level":  "logging.level",
		"log_format": "logging.format",
		"log_caller": "logging.caller",
	}

	if mapped, ok := envMappings[key]; ok {
		return mapped
	}

	// Unmapped keys are skipped so random environment variables don't
	// pollute the config.
	return ""
}
