// Reelquest - AI-Assisted Movie Recommendation Service
// Copyright 2026 Reelquest contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelquest/reelquest

package recommend

import (
	"strings"
	"testing"
)

func TestWantsLiveSearch(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		description string
		categories  []string
		want        bool
	}{
		{name: "no_signal", description: "crime thrillers from the 90s", want: false},
		{name: "new_release_category", categories: []string{"New Release"}, want: true},
		{name: "category_case_insensitive", categories: []string{"NEW RELEASE"}, want: true},
		{name: "category_padded", categories: []string{" new release "}, want: true},
		{name: "other_category", categories: []string{"Cult Classic"}, want: false},
		{name: "description_new_releases", description: "show me new releases please", want: true},
		{name: "description_recent", description: "recent sci-fi", want: true},
		{name: "description_case_insensitive", description: "Recent thrillers", want: true},
		{name: "singular_new_release_in_description", description: "a new release", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := WantsLiveSearch(tt.description, tt.categories); got != tt.want {
				t.Errorf("WantsLiveSearch(%q, %v) = %v, want %v", tt.description, tt.categories, got, tt.want)
			}
		})
	}
}

func TestBuildPromptClauseOrder(t *testing.T) {
	t.Parallel()

	req := BuildPrompt(
		"something with heists",
		[]string{"Action", "Crime"},
		[]string{"Cult Classic"},
		"",
		"Australia",
	)

	text := req.Text
	genreIdx := strings.Index(text, "Action, Crime")
	categoryIdx := strings.Index(text, "Cult Classic")
	descIdx := strings.Index(text, "something with heists")
	regionIdx := strings.Index(text, "Australia")

	for name, idx := range map[string]int{"genres": genreIdx, "categories": categoryIdx, "description": descIdx, "region": regionIdx} {
		if idx == -1 {
			t.Fatalf("prompt missing %s clause: %q", name, text)
		}
	}
	if !(genreIdx < categoryIdx && categoryIdx < descIdx && descIdx < regionIdx) {
		t.Errorf("clause order wrong: %q", text)
	}
}

func TestBuildPromptGenresOnlyWithNewRelease(t *testing.T) {
	t.Parallel()

	// The end-to-end scenario: empty description, Comedy genre, New Release
	// category selects live search and omits any plot clause.
	req := BuildPrompt("", []string{"Comedy"}, []string{"New Release"}, "", "Australia")

	if !req.UseLiveSearch {
		t.Error("UseLiveSearch = false, want true")
	}
	if !strings.Contains(req.Text, "Comedy") {
		t.Errorf("prompt %q missing genre", req.Text)
	}
	if !strings.Contains(req.Text, "Australia") {
		t.Errorf("prompt %q missing default region", req.Text)
	}
}

func TestBuildPromptExplicitRegion(t *testing.T) {
	t.Parallel()

	req := BuildPrompt("war films", nil, nil, "Japan", "Australia")
	if !strings.Contains(req.Text, "Japan") {
		t.Errorf("prompt %q missing explicit region", req.Text)
	}
	if strings.Contains(req.Text, "Australia") {
		t.Errorf("prompt %q should not fall back to default region", req.Text)
	}
}

func TestBuildPromptTrimsDescription(t *testing.T) {
	t.Parallel()

	req := BuildPrompt("  slow-burn dramas  ", nil, nil, "", "Australia")
	if strings.Contains(req.Text, "  slow-burn") {
		t.Errorf("description not trimmed: %q", req.Text)
	}
	if !strings.Contains(req.Text, "slow-burn dramas") {
		t.Errorf("description missing: %q", req.Text)
	}
}
