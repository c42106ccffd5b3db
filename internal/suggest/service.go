// Package suggest ranks autocomplete candidates for partial titles and
// provides the keystroke debouncing that keeps the metadata API out of the
// hot path of typing.
package suggest

import (
	"context"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"github.com/cinesaver/cinesaver/internal/domain"
	"github.com/cinesaver/cinesaver/internal/metadata"
)

const (
	// minQueryLen is the shortest input that triggers a remote search.
	minQueryLen = 2
	// maxSuggestions caps the returned shortlist.
	maxSuggestions = 6
)

// Service resolves partial titles to a ranked candidate shortlist.
type Service struct {
	metadata metadata.Client
	logger   zerolog.Logger
}

// New constructs the suggestion service.
func New(meta metadata.Client, logger zerolog.Logger) *Service {
	return &Service{metadata: meta, logger: logger}
}

// Suggest returns up to six candidates ranked by ascending distance between
// candidate-title length and query length. Inputs shorter than two
// characters short-circuit to an empty list without any remote call.
func (s *Service) Suggest(ctx context.Context, query string) ([]domain.CandidateSuggestion, error) {
	query = strings.TrimSpace(query)
	if len(query) < minQueryLen {
		return nil, nil
	}

	candidates, err := s.metadata.Search(ctx, query)
	if err != nil {
		return nil, err
	}

	rank(candidates, query)
	if len(candidates) > maxSuggestions {
		candidates = candidates[:maxSuggestions]
	}
	return candidates, nil
}

// rank orders candidates by absolute character-count distance between title
// and query, ascending; ties keep the upstream's original order.
func rank(candidates []domain.CandidateSuggestion, query string) {
	sort.SliceStable(candidates, func(i, j int) bool {
		return lengthDistance(candidates[i].Title, query) < lengthDistance(candidates[j].Title, query)
	})
}

func lengthDistance(title, query string) int {
	d := utf8.RuneCountInString(title) - utf8.RuneCountInString(query)
	if d < 0 {
		return -d
	}
	return d
}
