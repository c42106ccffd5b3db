package dossier

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/cinesaver/cinesaver/internal/catalog"
	"github.com/cinesaver/cinesaver/internal/domain"
	"github.com/cinesaver/cinesaver/internal/genai"
)

type fakeCatalog struct {
	record *catalog.Record
	err    error
}

func (f *fakeCatalog) Lookup(ctx context.Context, title string) (*catalog.Record, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.record, nil
}

type fakeModel struct {
	calls  int
	result *genai.Result
	err    error
}

func (f *fakeModel) Generate(ctx context.Context, prompt string, schema json.RawMessage) (*genai.Result, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

// fakeMetadata serves poster lookups by title.
type fakeMetadata struct {
	posters map[string]string
	errs    map[string]error
}

func (f *fakeMetadata) Search(ctx context.Context, query string) ([]domain.CandidateSuggestion, error) {
	return nil, errors.New("not used")
}

func (f *fakeMetadata) Detail(ctx context.Context, title string) (*domain.MetadataRecord, error) {
	if err, ok := f.errs[title]; ok {
		return nil, err
	}
	poster, ok := f.posters[title]
	if !ok {
		return nil, errors.New("metadata: not found")
	}
	return &domain.MetadataRecord{Title: title, PosterURL: poster}, nil
}

func testRecord() *catalog.Record {
	return &catalog.Record{
		ID:          872585,
		Title:       "Oppenheimer",
		Synopsis:    "The story of the atomic bomb.",
		ReleaseDate: "2023-07-21",
		Runtime:     "181 min",
		PosterURL:   "https://image.example/w780/opp.jpg",
		Genres:      []string{"Drama", "History"},
		VoteAverage: 8.1,
		Revenue:     "$952,000,000",
		Cast:        []domain.CastMember{{Name: "Cillian Murphy", Role: "J. Robert Oppenheimer"}},
		UserReviews: []domain.UserReview{{Author: "viewer", Content: "great", Rating: "9/10"}},
	}
}

func TestBuildNotFoundSkipsModel(t *testing.T) {
	model := &fakeModel{}
	svc := New(&fakeCatalog{err: catalog.ErrNotFound}, model, &fakeMetadata{}, zerolog.Nop())

	_, err := svc.Build(context.Background(), "Nonexistent")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("Build() error = %v, want ErrNotFound", err)
	}
	if model.calls != 0 {
		t.Fatalf("model called %d times for a missing title, want 0", model.calls)
	}
}

func TestBuildDegradesWhenSweepFails(t *testing.T) {
	model := &fakeModel{err: errors.New("model saturated")}
	svc := New(&fakeCatalog{record: testRecord()}, model, &fakeMetadata{}, zerolog.Nop())

	d, err := svc.Build(context.Background(), "Oppenheimer")
	if err != nil {
		t.Fatalf("Build() must not propagate a sweep failure, got %v", err)
	}
	if d == nil {
		t.Fatal("Build() returned a nil dossier")
	}
	if d.Title != "Oppenheimer" || d.Synopsis == "" || len(d.Cast) != 1 {
		t.Fatalf("catalog facts missing from degraded dossier: %+v", d)
	}
	if d.Year != "2023" {
		t.Fatalf("Year = %q, want 2023", d.Year)
	}
	if d.MoodTags == nil || len(d.MoodTags) != 0 {
		t.Fatalf("MoodTags = %v, want empty non-nil slice", d.MoodTags)
	}
	if d.Consensus != defaultConsensus {
		t.Fatalf("Consensus = %q, want the default filler", d.Consensus)
	}
	if len(d.Reviews) != 0 || len(d.Similar) != 0 {
		t.Fatalf("overlay fields should be empty on degradation: %+v", d)
	}
}

func TestBuildDegradesOnMalformedSweep(t *testing.T) {
	model := &fakeModel{result: &genai.Result{Text: "not json at all"}}
	svc := New(&fakeCatalog{record: testRecord()}, model, &fakeMetadata{}, zerolog.Nop())

	d, err := svc.Build(context.Background(), "Oppenheimer")
	if err != nil {
		t.Fatalf("Build() must absorb a malformed sweep, got %v", err)
	}
	if d.Consensus != defaultConsensus {
		t.Fatalf("Consensus = %q, want the default filler", d.Consensus)
	}
}

func TestBuildMergesSweepAndEnrichesSimilar(t *testing.T) {
	model := &fakeModel{result: &genai.Result{Text: `{
		"moodTags": ["Haunting", "Monumental", "Feverish"],
		"consensus": "Critics hail a towering achievement.",
		"criticReviews": [{"source": "Empire", "author": "A", "summary": "s", "score": "5/5", "url": "u"}],
		"similar": [
			{"title": "First Man", "year": "2018"},
			{"title": "Obscure Feature", "year": "1971"}
		]
	}`}}
	meta := &fakeMetadata{
		posters: map[string]string{"First Man": "https://image.example/firstman.jpg"},
		errs:    map[string]error{"Obscure Feature": errors.New("metadata down")},
	}
	svc := New(&fakeCatalog{record: testRecord()}, model, meta, zerolog.Nop())

	d, err := svc.Build(context.Background(), "Oppenheimer")
	if err != nil {
		t.Fatalf("Build() unexpected error: %v", err)
	}

	if len(d.MoodTags) != 3 || d.MoodTags[0] != "Haunting" {
		t.Fatalf("MoodTags = %v", d.MoodTags)
	}
	if d.Consensus != "Critics hail a towering achievement." {
		t.Fatalf("Consensus = %q", d.Consensus)
	}
	if len(d.Reviews) != 1 || d.Reviews[0].Source != "Empire" {
		t.Fatalf("Reviews = %+v", d.Reviews)
	}
	if len(d.Similar) != 2 {
		t.Fatalf("Similar = %+v, want both suggestions kept", d.Similar)
	}
	if d.Similar[0].PosterURL != "https://image.example/firstman.jpg" {
		t.Fatalf("enriched poster = %q", d.Similar[0].PosterURL)
	}
	if !strings.Contains(d.Similar[1].PosterURL, "placehold.co") ||
		!strings.Contains(d.Similar[1].PosterURL, "Obscure+Feature") {
		t.Fatalf("failed lookup should fall back to a title-embedding placeholder, got %q", d.Similar[1].PosterURL)
	}
}

func TestSweepPromptCarriesYearContext(t *testing.T) {
	got := sweepPrompt("Oppenheimer", "2023-07-21", 2026)
	if !strings.Contains(got, `"Oppenheimer" (2023-07-21)`) {
		t.Fatalf("prompt missing title and release date: %q", got)
	}
	if !strings.Contains(got, "elite cinematic aggregator in 2026") {
		t.Fatalf("prompt missing year context: %q", got)
	}
}

func TestPlaceholderPosterEncodesTitle(t *testing.T) {
	got := placeholderPoster("Léon: The Professional")
	if !strings.HasPrefix(got, "https://placehold.co/200x300/") {
		t.Fatalf("placeholder base wrong: %q", got)
	}
	idx := strings.Index(got, "text=")
	if idx < 0 {
		t.Fatalf("placeholder missing text parameter: %q", got)
	}
	if encoded := got[idx+len("text="):]; strings.ContainsAny(encoded, " :é") {
		t.Fatalf("placeholder title not URL-escaped: %q", got)
	}
}
