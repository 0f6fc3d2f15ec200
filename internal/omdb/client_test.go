// Reelquest - AI-Assisted Movie Recommendation Service
// Copyright 2026 Reelquest contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelquest/reelquest

package omdb

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"sync/atomic"
	"testing"
	"time"

	"github.com/reelquest/reelquest/internal/cache"
)

// stubMovieJSON mirrors a typical provider record with some N/A fields.
const stubMovieJSON = `{
	"Title": "Guardians of the Galaxy Vol. 2",
	"Year": "2017",
	"Rated": "PG-13",
	"Released": "05 May 2017",
	"Runtime": "136 min",
	"Genre": "Action, Adventure, Comedy",
	"Director": "James Gunn",
	"Writer": "James Gunn, Dan Abnett",
	"Actors": "Chris Pratt, Zoe Saldana, Dave Bautista",
	"Plot": "The Guardians struggle to keep together as a team.",
	"Poster": "https://example.com/poster.jpg",
	"Ratings": [{"Source": "Internet Movie Database", "Value": "7.6/10"}],
	"Metascore": "67",
	"imdbRating": "7.6",
	"imdbVotes": "786,904",
	"imdbID": "tt3896198",
	"Type": "movie",
	"BoxOffice": "$389,813,101",
	"Production": "N/A",
	"Response": "True"
}`

func newStubServer(t *testing.T, calls *atomic.Int64, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls != nil {
			calls.Add(1)
		}
		handler(w, r)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newTestClient(srv *httptest.Server) *Client {
	return NewClient(Config{
		APIKey:     "test-key",
		BaseURL:    srv.URL,
		PosterURL:  srv.URL,
		HTTPClient: srv.Client(),
	}, cache.New())
}

func TestSearchParamsValid(t *testing.T) {
	t.Parallel()

	currentYear := time.Now().Year()
	tests := []struct {
		name   string
		params SearchParams
		want   bool
	}{
		{name: "imdb_id", params: SearchParams{IMDbID: "tt3896198"}, want: true},
		{name: "imdb_id_minimum_length", params: SearchParams{IMDbID: "tt12345"}, want: true},
		{name: "imdb_id_too_short", params: SearchParams{IMDbID: "tt1234"}, want: false},
		{name: "imdb_id_wrong_prefix", params: SearchParams{IMDbID: "nm3896198"}, want: false},
		{name: "title_year", params: SearchParams{Title: "Heat", Year: 1995}, want: true},
		{name: "title_blank", params: SearchParams{Title: "   ", Year: 1995}, want: false},
		{name: "year_before_film", params: SearchParams{Title: "X", Year: 1887}, want: false},
		{name: "year_first_film", params: SearchParams{Title: "X", Year: 1888}, want: true},
		{name: "year_next", params: SearchParams{Title: "X", Year: currentYear + 1}, want: true},
		{name: "year_far_future", params: SearchParams{Title: "X", Year: currentYear + 2}, want: false},
		{name: "nothing", params: SearchParams{}, want: false},
		{name: "title_without_year", params: SearchParams{Title: "Heat"}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.params.Valid(); got != tt.want {
				t.Errorf("Valid(%+v) = %v, want %v", tt.params, got, tt.want)
			}
		})
	}
}

func TestResolveRejectsBeforeNetwork(t *testing.T) {
	t.Parallel()

	var calls atomic.Int64
	srv := newStubServer(t, &calls, func(w http.ResponseWriter, r *http.Request) {})
	client := newTestClient(srv)

	_, err := client.Resolve(context.Background(), SearchParams{IMDbID: "tt12"})
	if !errors.Is(err, ErrInvalidParams) {
		t.Fatalf("error = %v, want ErrInvalidParams", err)
	}
	if calls.Load() != 0 {
		t.Errorf("network calls = %d, want 0", calls.Load())
	}
}

func TestResolveMissingAPIKey(t *testing.T) {
	t.Parallel()

	client := NewClient(Config{BaseURL: "http://unused"}, cache.New())
	_, err := client.Resolve(context.Background(), SearchParams{IMDbID: "tt3896198"})
	if !errors.Is(err, ErrMissingAPIKey) {
		t.Errorf("error = %v, want ErrMissingAPIKey", err)
	}
}

func TestResolveNormalizes(t *testing.T) {
	t.Parallel()

	srv := newStubServer(t, nil, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("i"); got != "tt3896198" {
			t.Errorf("i = %q", got)
		}
		if got := r.URL.Query().Get("plot"); got != "full" {
			t.Errorf("plot = %q, want full", got)
		}
		if got := r.URL.Query().Get("r"); got != "json" {
			t.Errorf("r = %q, want json", got)
		}
		//nolint:errcheck
		w.Write([]byte(stubMovieJSON))
	})
	client := newTestClient(srv)

	meta, err := client.Resolve(context.Background(), SearchParams{IMDbID: "tt3896198"})
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}

	if meta.Title != "Guardians of the Galaxy Vol. 2" || meta.Year != 2017 {
		t.Errorf("title/year = %q/%d", meta.Title, meta.Year)
	}
	wantGenre := []string{"Action", "Adventure", "Comedy"}
	if !reflect.DeepEqual(meta.Genre, wantGenre) {
		t.Errorf("Genre = %v, want %v", meta.Genre, wantGenre)
	}
	if meta.Metascore == nil || *meta.Metascore != 67 {
		t.Errorf("Metascore = %v, want 67", meta.Metascore)
	}
	if meta.IMDbRating == nil || *meta.IMDbRating != 7.6 {
		t.Errorf("IMDbRating = %v, want 7.6", meta.IMDbRating)
	}
	if meta.IMDbVotes == nil || *meta.IMDbVotes != 786904 {
		t.Errorf("IMDbVotes = %v, want 786904 (separators stripped)", meta.IMDbVotes)
	}
	if meta.Production != nil {
		t.Errorf("Production = %v, want nil for N/A", meta.Production)
	}
	if meta.BoxOffice == nil || *meta.BoxOffice != "$389,813,101" {
		t.Errorf("BoxOffice = %v", meta.BoxOffice)
	}
}

func TestResolveCachesSingleNetworkCall(t *testing.T) {
	t.Parallel()

	var calls atomic.Int64
	srv := newStubServer(t, &calls, func(w http.ResponseWriter, r *http.Request) {
		//nolint:errcheck
		w.Write([]byte(stubMovieJSON))
	})
	client := newTestClient(srv)

	first, err := client.Resolve(context.Background(), SearchParams{IMDbID: "tt3896198"})
	if err != nil {
		t.Fatalf("first Resolve() error = %v", err)
	}
	second, err := client.Resolve(context.Background(), SearchParams{IMDbID: "tt3896198"})
	if err != nil {
		t.Fatalf("second Resolve() error = %v", err)
	}

	if calls.Load() != 1 {
		t.Errorf("network calls = %d, want 1", calls.Load())
	}
	if !reflect.DeepEqual(first.Genre, second.Genre) || first.Title != second.Title {
		t.Error("cached value differs from original")
	}
}

func TestResolveTitleYearQuery(t *testing.T) {
	t.Parallel()

	srv := newStubServer(t, nil, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("t"); got != "Heat" {
			t.Errorf("t = %q, want Heat", got)
		}
		if got := r.URL.Query().Get("y"); got != "1995" {
			t.Errorf("y = %q, want 1995", got)
		}
		//nolint:errcheck
		w.Write([]byte(stubMovieJSON))
	})
	client := newTestClient(srv)

	if _, err := client.Resolve(context.Background(), SearchParams{Title: "Heat", Year: 1995}); err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
}

func TestResolveProviderNotFound(t *testing.T) {
	t.Parallel()

	srv := newStubServer(t, nil, func(w http.ResponseWriter, r *http.Request) {
		//nolint:errcheck
		w.Write([]byte(`{"Response":"False","Error":"Movie not found!"}`))
	})
	client := newTestClient(srv)

	_, err := client.Resolve(context.Background(), SearchParams{IMDbID: "tt9999999"})

	var notFound *NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("error = %v, want *NotFoundError", err)
	}
	if notFound.Message != "Movie not found!" {
		t.Errorf("Message = %q", notFound.Message)
	}
}

func TestResolveTransportError(t *testing.T) {
	t.Parallel()

	srv := newStubServer(t, nil, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	})
	client := newTestClient(srv)

	_, err := client.Resolve(context.Background(), SearchParams{IMDbID: "tt3896198"})

	var provErr *ProviderError
	if !errors.As(err, &provErr) {
		t.Fatalf("error = %v, want *ProviderError", err)
	}
	if provErr.Status != http.StatusBadGateway {
		t.Errorf("Status = %d, want 502", provErr.Status)
	}
}

func TestPosterSuccess(t *testing.T) {
	t.Parallel()

	image := []byte{0xFF, 0xD8, 0xFF, 0xE0}
	srv := newStubServer(t, nil, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/jpeg")
		//nolint:errcheck
		w.Write(image)
	})
	client := newTestClient(srv)

	data, contentType, err := client.Poster(context.Background(), SearchParams{IMDbID: "tt3896198"})
	if err != nil {
		t.Fatalf("Poster() error = %v", err)
	}
	if contentType != "image/jpeg" {
		t.Errorf("contentType = %q", contentType)
	}
	if !reflect.DeepEqual(data, image) {
		t.Error("image bytes altered in passthrough")
	}
}

func TestPosterNonImageIsNotFound(t *testing.T) {
	t.Parallel()

	srv := newStubServer(t, nil, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		//nolint:errcheck
		w.Write([]byte(`{"Error":"no poster"}`))
	})
	client := newTestClient(srv)

	_, _, err := client.Poster(context.Background(), SearchParams{IMDbID: "tt3896198"})

	var notFound *NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("error = %v, want *NotFoundError", err)
	}
}

func TestPosterRejectsBeforeNetwork(t *testing.T) {
	t.Parallel()

	var calls atomic.Int64
	srv := newStubServer(t, &calls, func(w http.ResponseWriter, r *http.Request) {})
	client := newTestClient(srv)

	if _, _, err := client.Poster(context.Background(), SearchParams{}); !errors.Is(err, ErrInvalidParams) {
		t.Fatalf("error = %v, want ErrInvalidParams", err)
	}
	if calls.Load() != 0 {
		t.Errorf("network calls = %d, want 0", calls.Load())
	}
}
