// Reelquest - AI-Assisted Movie Recommendation Service
// Copyright 2026 Reelquest contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelquest/reelquest

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadWithKoanfDefaults(t *testing.T) {
	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf() error = %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.RateLimit.MaxRequests != 5 {
		t.Errorf("RateLimit.MaxRequests = %d, want 5", cfg.RateLimit.MaxRequests)
	}
	if cfg.RateLimit.Window != time.Hour {
		t.Errorf("RateLimit.Window = %s, want 1h", cfg.RateLimit.Window)
	}
	if cfg.Recommend.DefaultRegion != "Australia" {
		t.Errorf("Recommend.DefaultRegion = %q, want Australia", cfg.Recommend.DefaultRegion)
	}
	if cfg.Recommend.MaxDescriptionLength != 2000 {
		t.Errorf("Recommend.MaxDescriptionLength = %d, want 2000", cfg.Recommend.MaxDescriptionLength)
	}
	if cfg.OMDb.BaseURL != "https://www.omdbapi.com/" {
		t.Errorf("OMDb.BaseURL = %q", cfg.OMDb.BaseURL)
	}
}

func TestLoadWithKoanfEnvOverride(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test-key")
	t.Setenv("OMDB_API_KEY", "omdb-test-key")
	t.Setenv("RATE_LIMIT_REQUESTS", "10")
	t.Setenv("RATE_LIMIT_WINDOW", "30m")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("DEFAULT_REGION", "New Zealand")

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf() error = %v", err)
	}

	if cfg.OpenAI.APIKey != "sk-test-key" {
		t.Errorf("OpenAI.APIKey = %q, want sk-test-key", cfg.OpenAI.APIKey)
	}
	if cfg.OMDb.APIKey != "omdb-test-key" {
		t.Errorf("OMDb.APIKey = %q, want omdb-test-key", cfg.OMDb.APIKey)
	}
	if cfg.RateLimit.MaxRequests != 10 {
		t.Errorf("RateLimit.MaxRequests = %d, want 10", cfg.RateLimit.MaxRequests)
	}
	if cfg.RateLimit.Window != 30*time.Minute {
		t.Errorf("RateLimit.Window = %s, want 30m", cfg.RateLimit.Window)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %d, want 9090", cfg.Server.Port)
	}
	if cfg.Recommend.DefaultRegion != "New Zealand" {
		t.Errorf("Recommend.DefaultRegion = %q, want New Zealand", cfg.Recommend.DefaultRegion)
	}
}

func TestLoadWithKoanfConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := []byte(`
server:
  port: 3000
rate_limit:
  max_requests: 3
recommend:
  max_results: 5
`)
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	t.Setenv(ConfigPathEnvVar, path)

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf() error = %v", err)
	}

	if cfg.Server.Port != 3000 {
		t.Errorf("Server.Port = %d, want 3000", cfg.Server.Port)
	}
	if cfg.RateLimit.MaxRequests != 3 {
		t.Errorf("RateLimit.MaxRequests = %d, want 3", cfg.RateLimit.MaxRequests)
	}
	if cfg.Recommend.MaxResults != 5 {
		t.Errorf("Recommend.MaxResults = %d, want 5", cfg.Recommend.MaxResults)
	}
	// Untouched values keep defaults
	if cfg.Recommend.DefaultRegion != "Australia" {
		t.Errorf("Recommend.DefaultRegion = %q, want Australia", cfg.Recommend.DefaultRegion)
	}
}

func TestLoadWithKoanfEnvBeatsFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("server:\n  port: 3000\n"), 0o600); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	t.Setenv(ConfigPathEnvVar, path)
	t.Setenv("HTTP_PORT", "4000")

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf() error = %v", err)
	}
	if cfg.Server.Port != 4000 {
		t.Errorf("Server.Port = %d, want env override 4000", cfg.Server.Port)
	}
}

func TestLoadWithKoanfCORSOriginsFromEnv(t *testing.T) {
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example")

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf() error = %v", err)
	}
	want := []string{"https://a.example", "https://b.example"}
	if len(cfg.Server.CORSOrigins) != len(want) {
		t.Fatalf("CORSOrigins = %v, want %v", cfg.Server.CORSOrigins, want)
	}
	for i := range want {
		if cfg.Server.CORSOrigins[i] != want[i] {
			t.Errorf("CORSOrigins[%d] = %q, want %q", i, cfg.Server.CORSOrigins[i], want[i])
		}
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "defaults_valid", mutate: func(*Config) {}, wantErr: false},
		{name: "port_zero", mutate: func(c *Config) { c.Server.Port = 0 }, wantErr: true},
		{name: "port_too_high", mutate: func(c *Config) { c.Server.Port = 70000 }, wantErr: true},
		{name: "zero_max_requests", mutate: func(c *Config) { c.RateLimit.MaxRequests = 0 }, wantErr: true},
		{name: "negative_window", mutate: func(c *Config) { c.RateLimit.Window = -time.Minute }, wantErr: true},
		{name: "zero_sweep_interval", mutate: func(c *Config) { c.RateLimit.SweepInterval = 0 }, wantErr: true},
		{name: "zero_description_length", mutate: func(c *Config) { c.Recommend.MaxDescriptionLength = 0 }, wantErr: true},
		{name: "too_many_results", mutate: func(c *Config) { c.Recommend.MaxResults = 100 }, wantErr: true},
		{name: "empty_openai_base_url", mutate: func(c *Config) { c.OpenAI.BaseURL = "" }, wantErr: true},
		{name: "empty_poster_url", mutate: func(c *Config) { c.OMDb.PosterURL = "" }, wantErr: true},
		{name: "missing_api_keys_ok", mutate: func(c *Config) { c.OpenAI.APIKey = ""; c.OMDb.APIKey = "" }, wantErr: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := defaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
