// Package showtimes discovers theater sessions and ticket prices by prompting
// a web-grounded generative model with a fixed output schema, then normalizes
// the reply into price-sorted entries with a derived cheapest flag.
package showtimes

import (
	"context"
	"encoding/json"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/cinesaver/cinesaver/internal/domain"
	"github.com/cinesaver/cinesaver/internal/genai"
)

// showtimeSchema constrains the model reply for ticket searches.
var showtimeSchema = json.RawMessage(`{
  "type": "object",
  "properties": {
    "theaters": {
      "type": "array",
      "items": {
        "type": "object",
        "properties": {
          "name": {"type": "string", "description": "Full identifier: 'Movie Title @ Theater Name'"},
          "address": {"type": "string"},
          "showtime": {"type": "string"},
          "price": {"type": "number"},
          "currencySymbol": {"type": "string"},
          "bookingUrl": {"type": "string"}
        },
        "required": ["name", "address", "showtime", "price", "currencySymbol", "bookingUrl"]
      }
    }
  },
  "required": ["theaters"]
}`)

// trendingSchema constrains the model reply for the trending list.
var trendingSchema = json.RawMessage(`{
  "type": "object",
  "properties": {
    "movies": {
      "type": "array",
      "items": {
        "type": "object",
        "properties": {
          "title": {"type": "string"},
          "genre": {"type": "string"},
          "rating": {"type": "string"},
          "description": {"type": "string"}
        },
        "required": ["title", "genre", "rating", "description"]
      }
    }
  },
  "required": ["movies"]
}`)

// Result is a discovery response: normalized entries plus the citation
// sources the model grounded them on.
type Result struct {
	Entries []domain.ShowtimeEntry
	Sources []domain.CitationSource
}

// Service performs showtime discovery and trending lookups.
type Service struct {
	model  genai.Client
	logger zerolog.Logger
}

// New constructs the discovery service.
func New(model genai.Client, logger zerolog.Logger) *Service {
	return &Service{model: model, logger: logger}
}

type theatersPayload struct {
	Theaters []struct {
		Name           string  `json:"name"`
		Address        string  `json:"address"`
		Showtime       string  `json:"showtime"`
		Price          float64 `json:"price"`
		CurrencySymbol string  `json:"currencySymbol"`
		BookingURL     string  `json:"bookingUrl"`
	} `json:"theaters"`
}

type trendingPayload struct {
	Movies []domain.TrendingMovie `json:"movies"`
}

// Search submits the query's prompt variant and normalizes the reply. An
// empty well-formed result is not an error; a malformed reply is escalated
// as genai.ErrMalformed.
func (s *Service) Search(ctx context.Context, q domain.SearchQuery) (*Result, error) {
	prompt := buildPrompt(q, time.Now().Year())

	reply, err := s.model.Generate(ctx, prompt, showtimeSchema)
	if err != nil {
		return nil, err
	}

	var payload theatersPayload
	if err := reply.Decode(&payload); err != nil {
		return nil, err
	}

	entries := make([]domain.ShowtimeEntry, 0, len(payload.Theaters))
	for _, t := range payload.Theaters {
		entries = append(entries, domain.ShowtimeEntry{
			DisplayName:    t.Name,
			Address:        t.Address,
			Showtime:       t.Showtime,
			Price:          t.Price,
			CurrencySymbol: t.CurrencySymbol,
			BookingURL:     t.BookingURL,
		})
	}

	return &Result{
		Entries: normalize(entries),
		Sources: reply.Citations,
	}, nil
}

// Trending regenerates the per-city highlight list. All failures degrade to
// an empty list; the trending rail is never load-bearing.
func (s *Service) Trending(ctx context.Context, city string) []domain.TrendingMovie {
	reply, err := s.model.Generate(ctx, trendingPrompt(city, time.Now().Year()), trendingSchema)
	if err != nil {
		s.logger.Warn().Err(err).Str("city", city).Msg("trending lookup failed")
		return nil
	}

	var payload trendingPayload
	if err := reply.Decode(&payload); err != nil {
		s.logger.Warn().Err(err).Str("city", city).Msg("trending reply malformed")
		return nil
	}
	return payload.Movies
}

// normalize sorts entries ascending by price and flags exactly the first one
// cheapest. Ties keep their original relative order.
func normalize(entries []domain.ShowtimeEntry) []domain.ShowtimeEntry {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Price < entries[j].Price
	})
	if len(entries) > 0 {
		entries[0].IsCheapest = true
	}
	return entries
}
