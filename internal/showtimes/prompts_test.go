package showtimes

import (
	"strings"
	"testing"

	"github.com/cinesaver/cinesaver/internal/domain"
)

func TestVariantFor(t *testing.T) {
	tests := []struct {
		name  string
		query domain.SearchQuery
		want  queryVariant
	}{
		{"movie and theater", domain.SearchQuery{MovieName: "Dune", TheaterName: "Grand Mall", City: "Chicago"}, variantMovieAndTheater},
		{"movie only", domain.SearchQuery{MovieName: "Dune", City: "Chicago"}, variantMovieOnly},
		{"theater only", domain.SearchQuery{TheaterName: "Grand Mall", City: "Chicago"}, variantTheaterOnly},
		{"city only", domain.SearchQuery{City: "Chicago"}, variantCityOnly},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := variantFor(tt.query); got != tt.want {
				t.Fatalf("variantFor() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestBuildPromptContents(t *testing.T) {
	base := domain.SearchQuery{
		City:           "Chicago",
		StartTimeOfDay: "18:00",
		EndTimeOfDay:   "22:00",
	}

	tests := []struct {
		name     string
		mutate   func(q *domain.SearchQuery)
		contains []string
		excludes []string
	}{
		{
			name: "movie and theater names both quoted",
			mutate: func(q *domain.SearchQuery) {
				q.MovieName = "Dune"
				q.TheaterName = "Grand Mall"
			},
			contains: []string{`"Dune"`, `"Grand Mall"`, "between 18:00 and 22:00"},
		},
		{
			name:     "movie only demands exhaustive chains",
			mutate:   func(q *domain.SearchQuery) { q.MovieName = "Dune" },
			contains: []string{"EVERY available theater", "AMC", "Fandango", `"Dune"`},
			excludes: []string{"venue/mall named"},
		},
		{
			name:     "theater only lists everything at the venue",
			mutate:   func(q *domain.SearchQuery) { q.TheaterName = "Grand Mall" },
			contains: []string{"ALL movies currently playing", `"Grand Mall"`},
		},
		{
			name:     "city only sweeps the whole city",
			mutate:   func(q *domain.SearchQuery) {},
			contains: []string{"comprehensive and exhaustive", `"Chicago"`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := base
			tt.mutate(&q)
			prompt := buildPrompt(q, 2026)

			if !strings.Contains(prompt, "in the current year 2026") {
				t.Fatalf("prompt missing year context: %s", prompt)
			}
			if !strings.Contains(prompt, `formatted as "Movie Title @ Theater/Mall Name"`) {
				t.Fatal("prompt missing the shared naming-contract suffix")
			}
			for _, frag := range tt.contains {
				if !strings.Contains(prompt, frag) {
					t.Fatalf("prompt missing %q:\n%s", frag, prompt)
				}
			}
			for _, frag := range tt.excludes {
				if strings.Contains(prompt, frag) {
					t.Fatalf("prompt should not contain %q:\n%s", frag, prompt)
				}
			}
		})
	}
}

func TestLocationPartFallback(t *testing.T) {
	if got := locationPart(""); !strings.Contains(got, "likely location") {
		t.Fatalf("locationPart(\"\") = %q, want the no-city fallback", got)
	}
	if got := locationPart("Boston"); !strings.Contains(got, `"Boston"`) {
		t.Fatalf("locationPart(Boston) = %q, want quoted city", got)
	}
}

func TestTrendingPrompt(t *testing.T) {
	prompt := trendingPrompt("Mumbai", 2026)
	for _, frag := range []string{"top 5 trending movies", `"Mumbai"`, "2026"} {
		if !strings.Contains(prompt, frag) {
			t.Fatalf("trending prompt missing %q: %s", frag, prompt)
		}
	}
}
