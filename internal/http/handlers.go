package httpserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/cinesaver/cinesaver/internal/domain"
	"github.com/cinesaver/cinesaver/internal/dossier"
	"github.com/cinesaver/cinesaver/internal/search"
)

const maxRequestBody = 1 << 20 // 1 MiB

type errorResponse struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

type suggestionsResponse struct {
	Suggestions []domain.CandidateSuggestion `json:"suggestions"`
}

type trendingResponse struct {
	Movies []domain.TrendingMovie `json:"movies"`
}

type reverseGeocodeResponse struct {
	City string `json:"city"`
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var query domain.SearchQuery
	if err := decodeJSONBody(w, r, &query); err != nil {
		s.respondDecodeError(w, err)
		return
	}

	result, err := s.search.Search(r.Context(), query)
	if err != nil {
		var vErr *domain.ValidationError
		switch {
		case errors.As(err, &vErr):
			s.respondJSON(w, http.StatusUnprocessableEntity, errorResponse{
				Code:    "VALIDATION_ERROR",
				Message: vErr.Message,
				Details: map[string]string{"field": vErr.Field},
			})
		case errors.Is(err, search.ErrInterrupted):
			s.respondError(w, http.StatusBadGateway, "UPSTREAM_ERROR", "Cinema link interrupted. We couldn't fetch current ticket data for this query.")
		default:
			s.logger.Error().Err(err).Msg("search failed")
			s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to run search")
		}
		return
	}

	s.respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleSuggestions(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))

	candidates, err := s.suggest.Suggest(r.Context(), query)
	if err != nil {
		// Autocomplete is best-effort: absorb the failure and serve nothing.
		s.logger.Warn().Err(err).Str("query", query).Msg("suggestions lookup failed")
		candidates = nil
	}
	if candidates == nil {
		candidates = []domain.CandidateSuggestion{}
	}
	s.respondJSON(w, http.StatusOK, suggestionsResponse{Suggestions: candidates})
}

func (s *Server) handleDossier(w http.ResponseWriter, r *http.Request) {
	title, err := decodeTitleParam(r)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error())
		return
	}

	d, err := s.dossiers.Build(r.Context(), title)
	if err != nil {
		if errors.Is(err, dossier.ErrNotFound) {
			s.respondError(w, http.StatusNotFound, "NOT_FOUND", "The archives are empty for this title")
			return
		}
		s.logger.Error().Err(err).Str("title", title).Msg("dossier build failed")
		s.respondError(w, http.StatusBadGateway, "UPSTREAM_ERROR", "Communication with the vault was interrupted")
		return
	}
	s.respondJSON(w, http.StatusOK, d)
}

func (s *Server) handleTrending(w http.ResponseWriter, r *http.Request) {
	city := strings.TrimSpace(r.URL.Query().Get("city"))
	if city == "" {
		s.respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "city is required")
		return
	}

	movies := s.trending.Trending(r.Context(), city)
	if movies == nil {
		movies = []domain.TrendingMovie{}
	}
	s.respondJSON(w, http.StatusOK, trendingResponse{Movies: movies})
}

func (s *Server) handleReverseGeocode(w http.ResponseWriter, r *http.Request) {
	lat, latErr := strconv.ParseFloat(r.URL.Query().Get("lat"), 64)
	lon, lonErr := strconv.ParseFloat(r.URL.Query().Get("lon"), 64)
	if latErr != nil || lonErr != nil {
		s.respondError(w, http.StatusBadRequest, "BAD_REQUEST", "lat and lon must be valid coordinates")
		return
	}

	city, err := s.geocoder.Reverse(r.Context(), lat, lon)
	if err != nil {
		s.logger.Warn().Err(err).Msg("reverse geocode failed")
		s.respondError(w, http.StatusBadGateway, "UPSTREAM_ERROR", "Location detection failed")
		return
	}
	s.respondJSON(w, http.StatusOK, reverseGeocodeResponse{City: city})
}

func decodeJSONBody(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)
	defer r.Body.Close()
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return err
	}
	return nil
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		if err := json.NewEncoder(w).Encode(payload); err != nil {
			s.logger.Warn().Err(err).Msg("failed to encode response")
		}
	}
}

func (s *Server) respondError(w http.ResponseWriter, status int, code, message string) {
	s.respondJSON(w, status, errorResponse{
		Code:    code,
		Message: message,
	})
}

func (s *Server) respondDecodeError(w http.ResponseWriter, err error) {
	var syntaxError *json.SyntaxError
	var typeError *json.UnmarshalTypeError
	switch {
	case errors.As(err, &syntaxError):
		s.respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "Malformed JSON payload")
	case errors.As(err, &typeError):
		s.respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", fmt.Sprintf("Invalid value for field %s", typeError.Field))
	case errors.Is(err, io.EOF):
		s.respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "Request body cannot be empty")
	default:
		s.respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Unable to parse request body")
	}
}

func decodeTitleParam(r *http.Request) (string, error) {
	raw := chi.URLParam(r, "title")
	title, err := url.PathUnescape(raw)
	if err != nil {
		return "", fmt.Errorf("invalid title parameter")
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return "", fmt.Errorf("title cannot be empty")
	}
	return title, nil
}
