package metadata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/cinesaver/cinesaver/internal/domain"
)

// ErrNotFound is returned when upstream cannot find the requested title.
var ErrNotFound = errors.New("metadata: not found")

// Client defines the contract for querying the upstream metadata API.
type Client interface {
	// Search performs a fuzzy title search and returns candidate titles in
	// the upstream's original order.
	Search(ctx context.Context, query string) ([]domain.CandidateSuggestion, error)
	// Detail fetches the full record for one exact title.
	Detail(ctx context.Context, title string) (*domain.MetadataRecord, error)
}

// HTTPClient implements Client over HTTP.
type HTTPClient struct {
	baseURL *url.URL
	apiKey  string
	client  *http.Client
	logger  zerolog.Logger
}

// NewHTTPClient constructs a new HTTP-backed metadata client.
func NewHTTPClient(baseURL, apiKey string, timeout time.Duration, logger zerolog.Logger) (*HTTPClient, error) {
	parsed, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse metadata url: %w", err)
	}
	return &HTTPClient{
		baseURL: parsed,
		apiKey:  apiKey,
		client: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				Proxy: http.ProxyFromEnvironment,
				DialContext: (&net.Dialer{
					Timeout:   timeout,
					KeepAlive: 30 * time.Second,
				}).DialContext,
				TLSHandshakeTimeout:   timeout,
				ResponseHeaderTimeout: timeout,
				ExpectContinueTimeout: 1 * time.Second,
			},
		},
		logger: logger,
	}, nil
}

type searchResponse struct {
	Response string `json:"Response"`
	Search   []struct {
		Title  string `json:"Title"`
		Year   string `json:"Year"`
		ImdbID string `json:"imdbID"`
		Type   string `json:"Type"`
		Poster string `json:"Poster"`
	} `json:"Search"`
}

type detailResponse struct {
	Response   string `json:"Response"`
	Title      string `json:"Title"`
	Year       string `json:"Year"`
	Rated      string `json:"Rated"`
	Released   string `json:"Released"`
	Runtime    string `json:"Runtime"`
	Genre      string `json:"Genre"`
	Director   string `json:"Director"`
	Writer     string `json:"Writer"`
	Actors     string `json:"Actors"`
	Plot       string `json:"Plot"`
	Awards     string `json:"Awards"`
	Poster     string `json:"Poster"`
	ImdbRating string `json:"imdbRating"`
	Metascore  string `json:"Metascore"`
	BoxOffice  string `json:"BoxOffice"`
	Production string `json:"Production"`
}

// Search queries the fuzzy search endpoint. An upstream "False" response is
// an empty result, not an error.
func (c *HTTPClient) Search(ctx context.Context, query string) ([]domain.CandidateSuggestion, error) {
	q := url.Values{}
	q.Set("s", query)
	q.Set("type", "movie")
	q.Set("apikey", c.apiKey)

	var payload searchResponse
	if err := c.get(ctx, q, &payload); err != nil {
		return nil, err
	}
	if payload.Response != "True" {
		return nil, nil
	}

	results := make([]domain.CandidateSuggestion, 0, len(payload.Search))
	for _, item := range payload.Search {
		results = append(results, domain.CandidateSuggestion{
			Title:      item.Title,
			Year:       item.Year,
			ExternalID: item.ImdbID,
			PosterURL:  normalizePoster(item.Poster),
		})
	}
	return results, nil
}

// Detail fetches the full record for an exact title. Upstream resolves
// best-match itself; no local fuzzy matching and no retries.
func (c *HTTPClient) Detail(ctx context.Context, title string) (*domain.MetadataRecord, error) {
	q := url.Values{}
	q.Set("t", title)
	q.Set("apikey", c.apiKey)

	var payload detailResponse
	if err := c.get(ctx, q, &payload); err != nil {
		return nil, err
	}
	if payload.Response != "True" {
		return nil, ErrNotFound
	}

	return &domain.MetadataRecord{
		Title:      payload.Title,
		Year:       payload.Year,
		Rated:      payload.Rated,
		Released:   payload.Released,
		Runtime:    payload.Runtime,
		Genre:      payload.Genre,
		Director:   payload.Director,
		Writer:     payload.Writer,
		Actors:     payload.Actors,
		Plot:       payload.Plot,
		Awards:     payload.Awards,
		PosterURL:  normalizePoster(payload.Poster),
		Rating:     payload.ImdbRating,
		Metascore:  payload.Metascore,
		BoxOffice:  payload.BoxOffice,
		Production: payload.Production,
	}, nil
}

func (c *HTTPClient) get(ctx context.Context, query url.Values, dst any) error {
	rel := &url.URL{Path: "/", RawQuery: query.Encode()}
	endpoint := c.baseURL.ResolveReference(rel)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Warn().Int("status", resp.StatusCode).Msg("metadata upstream returned non-200")
		return fmt.Errorf("metadata: upstream returned %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return fmt.Errorf("decode metadata response: %w", err)
	}
	return nil
}

// normalizePoster maps the upstream "N/A" sentinel to an empty string.
func normalizePoster(poster string) string {
	if poster == "" || poster == "N/A" {
		return ""
	}
	return poster
}
