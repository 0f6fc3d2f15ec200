// Reelquest - AI-Assisted Movie Recommendation Service
// Copyright 2026 Reelquest contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelquest/reelquest

package logging

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

func TestInitLevels(t *testing.T) {
	tests := []struct {
		name      string
		level     string
		logDebug  bool
		wantDebug bool
	}{
		{name: "debug_enabled", level: "debug", logDebug: true, wantDebug: true},
		{name: "info_suppresses_debug", level: "info", logDebug: true, wantDebug: false},
		{name: "unknown_defaults_to_info", level: "bogus", logDebug: true, wantDebug: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			Init(Config{Level: tt.level, Output: &buf})

			if tt.logDebug {
				Debug().Msg("debug message")
			}

			got := strings.Contains(buf.String(), "debug message")
			if got != tt.wantDebug {
				t.Errorf("debug emitted = %v, want %v (output: %q)", got, tt.wantDebug, buf.String())
			}
		})
	}
}

func TestCtxAddsRequestID(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: "info", Output: &buf})

	ctx := ContextWithRequestID(context.Background(), "req-123")
	Ctx(ctx).Info().Msg("with id")

	if !strings.Contains(buf.String(), `"request_id":"req-123"`) {
		t.Errorf("expected request_id field in output, got %q", buf.String())
	}
}

func TestRequestIDFromContextMissing(t *testing.T) {
	if got := RequestIDFromContext(context.Background()); got != "" {
		t.Errorf("expected empty request ID, got %q", got)
	}
}

func TestGenerateRequestIDUnique(t *testing.T) {
	a := GenerateRequestID()
	b := GenerateRequestID()
	if a == b {
		t.Error("expected unique request IDs")
	}
	if len(a) != 36 {
		t.Errorf("expected UUID format, got %q", a)
	}
}
