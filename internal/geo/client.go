// Package geo resolves coordinates to a city name through a reverse-geocoding
// endpoint. Strictly best-effort: callers treat any failure as "no city".
package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// UnknownLocation is returned when the address carries no usable locality.
const UnknownLocation = "Unknown Location"

// Client defines the contract for reverse geocoding.
type Client interface {
	Reverse(ctx context.Context, lat, lon float64) (string, error)
}

// HTTPClient implements Client against a Nominatim-style endpoint.
type HTTPClient struct {
	baseURL *url.URL
	client  *http.Client
	logger  zerolog.Logger
}

// NewHTTPClient constructs a new HTTP-backed reverse geocoder.
func NewHTTPClient(baseURL string, timeout time.Duration, logger zerolog.Logger) (*HTTPClient, error) {
	parsed, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse geo url: %w", err)
	}
	return &HTTPClient{
		baseURL: parsed,
		client:  &http.Client{Timeout: timeout},
		logger:  logger,
	}, nil
}

type reverseResponse struct {
	Address struct {
		City    string `json:"city"`
		Town    string `json:"town"`
		Village string `json:"village"`
	} `json:"address"`
}

// Reverse resolves coordinates to a city name, falling back through town and
// village before giving up with UnknownLocation.
func (c *HTTPClient) Reverse(ctx context.Context, lat, lon float64) (string, error) {
	q := url.Values{}
	q.Set("format", "json")
	q.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	q.Set("lon", strconv.FormatFloat(lon, 'f', -1, 64))
	rel := &url.URL{Path: "/reverse", RawQuery: q.Encode()}
	endpoint := c.baseURL.ResolveReference(rel)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Debug().Int("status", resp.StatusCode).Msg("reverse geocode returned non-200")
		return "", fmt.Errorf("geo: upstream returned %d", resp.StatusCode)
	}

	var payload reverseResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("decode reverse geocode response: %w", err)
	}

	switch {
	case payload.Address.City != "":
		return payload.Address.City, nil
	case payload.Address.Town != "":
		return payload.Address.Town, nil
	case payload.Address.Village != "":
		return payload.Address.Village, nil
	default:
		return UnknownLocation, nil
	}
}
