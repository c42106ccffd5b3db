// Package search is the top-level orchestration for a showtime search: one
// required discovery branch fanned out with best-effort enrichment branches,
// joined all-settle style so only the discovery failure can surface.
package search

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/cinesaver/cinesaver/internal/domain"
	"github.com/cinesaver/cinesaver/internal/metadata"
	"github.com/cinesaver/cinesaver/internal/showtimes"
)

// ErrInterrupted is the single generic failure surfaced when the required
// showtime branch fails.
var ErrInterrupted = errors.New("search: service interrupted")

// Discovery is the required showtime branch.
type Discovery interface {
	Search(ctx context.Context, q domain.SearchQuery) (*showtimes.Result, error)
}

// Suggester is the "did you mean" fallback branch.
type Suggester interface {
	Suggest(ctx context.Context, query string) ([]domain.CandidateSuggestion, error)
}

// Result is the merged outcome of one search request. RequestID lets the
// caller discard a stale response when a newer search superseded this one.
type Result struct {
	RequestID   string                       `json:"requestId"`
	Entries     []domain.ShowtimeEntry       `json:"results"`
	Sources     []domain.CitationSource      `json:"sources"`
	Metadata    *domain.MetadataRecord       `json:"movie,omitempty"`
	Suggestions []domain.CandidateSuggestion `json:"suggestions,omitempty"`
}

// Service coordinates the discovery, metadata, and suggestion calls for one
// user action.
type Service struct {
	discovery Discovery
	metadata  metadata.Client
	suggester Suggester
	logger    zerolog.Logger
}

// New constructs the aggregation service.
func New(discovery Discovery, meta metadata.Client, suggester Suggester, logger zerolog.Logger) *Service {
	return &Service{discovery: discovery, metadata: meta, suggester: suggester, logger: logger}
}

// Search validates the query, then fans out the required showtime call and
// the optional metadata side-panel call. When the showtime set comes back
// empty for a movie search, a best-effort suggestion lookup offers
// alternatives. Only the showtime branch's failure propagates.
func (s *Service) Search(ctx context.Context, q domain.SearchQuery) (*Result, error) {
	q.Normalize()
	if err := q.Validate(); err != nil {
		return nil, err
	}

	var (
		wg        sync.WaitGroup
		discovery *showtimes.Result
		discErr   error
		record    *domain.MetadataRecord
	)

	wg.Add(1)
	go func() {
		defer wg.Done()
		discovery, discErr = s.discovery.Search(ctx, q)
	}()

	if q.MovieName != "" {
		wg.Add(1)
		go func() {
			defer wg.Done()
			rec, err := s.metadata.Detail(ctx, q.MovieName)
			if err != nil {
				if !errors.Is(err, metadata.ErrNotFound) {
					s.logger.Warn().Err(err).Str("movie", q.MovieName).Msg("metadata side panel lookup failed")
				}
				return
			}
			record = rec
		}()
	}
	wg.Wait()

	if discErr != nil {
		s.logger.Error().Err(discErr).Str("city", q.City).Msg("showtime discovery failed")
		return nil, ErrInterrupted
	}

	result := &Result{
		RequestID: uuid.NewString(),
		Entries:   discovery.Entries,
		Sources:   discovery.Sources,
		Metadata:  record,
	}
	if result.Entries == nil {
		result.Entries = []domain.ShowtimeEntry{}
	}
	if result.Sources == nil {
		result.Sources = []domain.CitationSource{}
	}

	if len(result.Entries) == 0 && q.MovieName != "" {
		alternatives, err := s.suggester.Suggest(ctx, q.MovieName)
		if err != nil {
			s.logger.Warn().Err(err).Str("movie", q.MovieName).Msg("fallback suggestions failed")
		} else {
			result.Suggestions = alternatives
		}
	}

	return result, nil
}
