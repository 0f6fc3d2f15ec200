// Reelquest - AI-Assisted Movie Recommendation Service
// Copyright 2026 Reelquest contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelquest/reelquest

// Package main is the Reelquest command-line client.
//
// It posts search options to a running Reelquest server, enriches the
// recommended titles with full metadata via the movie lookup endpoint, and
// renders the result as a table. A local advisory rate limiter mirrors the
// server's quota so the CLI can refuse immediately instead of burning a
// network round trip on a request the server would reject anyway.
//
// # Example Usage
//
//	reelquest -description "slow-burn sci-fi with a strong ensemble cast"
//	reelquest -genres "Crime,Thriller" -categories "Classic"
//	reelquest -genres Drama -region "New Zealand" -server http://host:8080
//	reelquest -reset
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/reelquest/reelquest/internal/enrich"
	"github.com/reelquest/reelquest/internal/logging"
	"github.com/reelquest/reelquest/internal/models"
	"github.com/reelquest/reelquest/internal/ratelimit"
)

// Advisory client-side quota, mirroring the server defaults.
const (
	clientMaxRequests = 5
	clientWindow      = time.Hour
)

func main() {
	var (
		server      = flag.String("server", "http://localhost:8080", "Reelquest server base URL")
		description = flag.String("description", "", "free-text description of what to watch")
		genres      = flag.String("genres", "", "comma-separated genres")
		categories  = flag.String("categories", "", "comma-separated categories (e.g. \"New Release\")")
		region      = flag.String("region", "", "viewing region (server default applies when empty)")
		noEnrich    = flag.Bool("no-enrich", false, "skip metadata enrichment, print bare recommendations")
		reset       = flag.Bool("reset", false, "clear the local rate-limit state and exit")
		timeout     = flag.Duration("timeout", 2*time.Minute, "overall request timeout")
		verbose     = flag.Bool("v", false, "verbose logging")
	)
	flag.Parse()

	level := "error"
	if *verbose {
		level = "debug"
	}
	logging.Init(logging.Config{Level: level, Format: "console"})

	limiter := ratelimit.NewClientLimiter(clientMaxRequests, clientWindow)

	if *reset {
		limiter.Reset()
		fmt.Println("Local rate-limit state cleared.")
		return
	}

	opts := models.SearchOptions{
		Description: *description,
		Genres:      splitList(*genres),
		Categories:  splitList(*categories),
		Region:      *region,
	}
	if !opts.Submittable() {
		fmt.Fprintln(os.Stderr, "Provide at least one of -description, -genres, or -categories.")
		flag.Usage()
		os.Exit(2)
	}

	// The local gate commits a usage slot when it allows; there is no
	// separate check step.
	if !limiter.Allow() {
		fmt.Fprintf(os.Stderr, "Rate limit exceeded: %d requests per %s. Try again later.\n",
			clientMaxRequests, clientWindow)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, *timeout)
	defer cancel()

	client := newAPIClient(*server, *timeout)

	items, remaining, err := client.Recommendations(ctx, opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Recommendation request failed: %v\n", err)
		os.Exit(1)
	}
	if len(items) == 0 {
		fmt.Println("No recommendations matched your search.")
		return
	}

	if *noEnrich {
		printBare(items)
	} else {
		enriched, err := enrich.New(client).Enrich(ctx, items)
		if err != nil {
			// Fall back to the bare list rather than discarding the results.
			fmt.Fprintf(os.Stderr, "Enrichment failed: %v\n", err)
			printBare(items)
		} else {
			printEnriched(enriched)
		}
	}

	fmt.Printf("\nRequests remaining this window: %d (server), %d (local)\n",
		remaining, limiter.Remaining())
}

// splitList splits a comma-separated flag value, trimming whitespace and
// dropping empty entries.
func splitList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func printBare(items []models.RecommendationItem) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "TITLE\tYEAR\tIMDB")
	for _, item := range items {
		fmt.Fprintf(w, "%s\t%d\t%s\n", item.Title, item.Year, item.IMDbID)
	}
	w.Flush()
}

func printEnriched(movies []models.MovieMetadata) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "TITLE\tYEAR\tRATED\tRUNTIME\tGENRE\tIMDB RATING\tMETASCORE")
	for _, m := range movies {
		fmt.Fprintf(w, "%s\t%d\t%s\t%s\t%s\t%s\t%s\n",
			m.Title, m.Year, m.Rated, m.Runtime,
			strings.Join(m.Genre, ", "),
			formatFloat(m.IMDbRating), formatInt(m.Metascore))
	}
	w.Flush()
}

// formatFloat renders an optional rating, "-" when the provider had none.
func formatFloat(v *float64) string {
	if v == nil {
		return "-"
	}
	return strconv.FormatFloat(*v, 'f', 1, 64)
}

func formatInt(v *int) string {
	if v == nil {
		return "-"
	}
	return strconv.Itoa(*v)
}
