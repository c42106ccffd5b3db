package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/cinesaver/cinesaver/internal/domain"
)

// ErrNotFound is returned when the fuzzy title lookup matches nothing.
var ErrNotFound = errors.New("catalog: not found")

const (
	posterSize   = "w780"
	backdropSize = "original"
	profileSize  = "w185"

	maxCast        = 15
	maxUserReviews = 3
)

// Record holds the canonical movie facts assembled from the catalog's
// detail, credits, and reviews endpoints.
type Record struct {
	ID          int64
	Title       string
	Synopsis    string
	ReleaseDate string
	Runtime     string
	PosterURL   string
	BackdropURL string
	Cast        []domain.CastMember
	UserReviews []domain.UserReview
	Genres      []string
	VoteAverage float64
	Tagline     string
	Budget      string
	Revenue     string
}

// Year extracts the release year from the record's release date.
func (r *Record) Year() string {
	if r.ReleaseDate == "" {
		return "N/A"
	}
	return strings.SplitN(r.ReleaseDate, "-", 2)[0]
}

// Client defines the contract for fuzzy canonical-fact lookups.
type Client interface {
	Lookup(ctx context.Context, title string) (*Record, error)
}

// HTTPClient implements Client over HTTP.
type HTTPClient struct {
	baseURL  *url.URL
	imageURL string
	apiKey   string
	client   *http.Client
	logger   zerolog.Logger
}

// NewHTTPClient constructs a new HTTP-backed catalog client. imageBaseURL is
// the root for poster/backdrop/profile paths returned by the API.
func NewHTTPClient(baseURL, imageBaseURL, apiKey string, timeout time.Duration, logger zerolog.Logger) (*HTTPClient, error) {
	parsed, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse catalog url: %w", err)
	}
	return &HTTPClient{
		baseURL:  parsed,
		imageURL: strings.TrimRight(imageBaseURL, "/"),
		apiKey:   apiKey,
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
	Results []struct {
		ID    int64  `json:"id"`
		Title string `json:"title"`
	} `json:"results"`
}

type detailResponse struct {
	ID           int64  `json:"id"`
	Title        string `json:"title"`
	Overview     string `json:"overview"`
	ReleaseDate  string `json:"release_date"`
	Runtime      int    `json:"runtime"`
	PosterPath   string `json:"poster_path"`
	BackdropPath string `json:"backdrop_path"`
	Genres       []struct {
		Name string `json:"name"`
	} `json:"genres"`
	VoteAverage float64 `json:"vote_average"`
	Tagline     string  `json:"tagline"`
	Budget      int64   `json:"budget"`
	Revenue     int64   `json:"revenue"`
}

type creditsResponse struct {
	Cast []struct {
		Name        string `json:"name"`
		Character   string `json:"character"`
		ProfilePath string `json:"profile_path"`
	} `json:"cast"`
}

type reviewsResponse struct {
	Results []struct {
		Author        string `json:"author"`
		Content       string `json:"content"`
		URL           string `json:"url"`
		AuthorDetails struct {
			Rating *float64 `json:"rating"`
		} `json:"author_details"`
	} `json:"results"`
}

// Lookup resolves a title to its first search match and assembles the full
// record from the detail, credits, and reviews endpoints in one fan-out.
func (c *HTTPClient) Lookup(ctx context.Context, title string) (*Record, error) {
	var search searchResponse
	if err := c.get(ctx, "/search/movie", url.Values{"query": {title}}, &search); err != nil {
		return nil, err
	}
	if len(search.Results) == 0 {
		return nil, ErrNotFound
	}
	id := search.Results[0].ID
	idPath := "/movie/" + strconv.FormatInt(id, 10)

	var (
		wg         sync.WaitGroup
		details    detailResponse
		credits    creditsResponse
		reviews    reviewsResponse
		detailsErr error
	)
	wg.Add(3)
	go func() {
		defer wg.Done()
		detailsErr = c.get(ctx, idPath, nil, &details)
	}()
	go func() {
		defer wg.Done()
		// Credits and reviews are best-effort; the record degrades to empty
		// slices when either call fails.
		if err := c.get(ctx, idPath+"/credits", nil, &credits); err != nil {
			c.logger.Warn().Err(err).Int64("movie_id", id).Msg("catalog credits fetch failed")
		}
	}()
	go func() {
		defer wg.Done()
		if err := c.get(ctx, idPath+"/reviews", nil, &reviews); err != nil {
			c.logger.Warn().Err(err).Int64("movie_id", id).Msg("catalog reviews fetch failed")
		}
	}()
	wg.Wait()

	if detailsErr != nil {
		return nil, detailsErr
	}

	return c.assemble(details, credits, reviews), nil
}

func (c *HTTPClient) assemble(details detailResponse, credits creditsResponse, reviews reviewsResponse) *Record {
	rec := &Record{
		ID:          details.ID,
		Title:       details.Title,
		Synopsis:    details.Overview,
		ReleaseDate: details.ReleaseDate,
		Runtime:     fmt.Sprintf("%d min", details.Runtime),
		PosterURL:   c.imagePath(posterSize, details.PosterPath),
		BackdropURL: c.imagePath(backdropSize, details.BackdropPath),
		VoteAverage: details.VoteAverage,
		Tagline:     details.Tagline,
		Budget:      formatAmount(details.Budget),
		Revenue:     formatAmount(details.Revenue),
	}

	rec.Genres = make([]string, 0, len(details.Genres))
	for _, g := range details.Genres {
		rec.Genres = append(rec.Genres, g.Name)
	}

	castLen := len(credits.Cast)
	if castLen > maxCast {
		castLen = maxCast
	}
	rec.Cast = make([]domain.CastMember, 0, castLen)
	for _, member := range credits.Cast[:castLen] {
		rec.Cast = append(rec.Cast, domain.CastMember{
			Name:       member.Name,
			Role:       member.Character,
			ProfileURL: c.imagePath(profileSize, member.ProfilePath),
		})
	}

	reviewLen := len(reviews.Results)
	if reviewLen > maxUserReviews {
		reviewLen = maxUserReviews
	}
	rec.UserReviews = make([]domain.UserReview, 0, reviewLen)
	for _, rv := range reviews.Results[:reviewLen] {
		rating := "N/A"
		if rv.AuthorDetails.Rating != nil {
			rating = strconv.FormatFloat(*rv.AuthorDetails.Rating, 'f', -1, 64) + "/10"
		}
		rec.UserReviews = append(rec.UserReviews, domain.UserReview{
			Author:  rv.Author,
			Content: rv.Content,
			Rating:  rating,
			URL:     rv.URL,
		})
	}

	return rec
}

func (c *HTTPClient) get(ctx context.Context, path string, query url.Values, dst any) error {
	if query == nil {
		query = url.Values{}
	}
	query.Set("api_key", c.apiKey)

	// The base URL carries a version prefix ("/3"); prepend it so an
	// absolute endpoint path does not replace it during resolution.
	rel := &url.URL{Path: c.baseURL.Path + path, RawQuery: query.Encode()}
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
		c.logger.Warn().Int("status", resp.StatusCode).Str("path", path).Msg("catalog upstream returned non-200")
		return fmt.Errorf("catalog: upstream returned %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return fmt.Errorf("decode catalog response: %w", err)
	}
	return nil
}

func (c *HTTPClient) imagePath(size, path string) string {
	if path == "" {
		return ""
	}
	return c.imageURL + "/" + size + path
}

// formatAmount renders a dollar amount with thousands separators, or "N/A"
// for a zero/unreported figure.
func formatAmount(amount int64) string {
	if amount <= 0 {
		return "N/A"
	}
	digits := strconv.FormatInt(amount, 10)
	var b strings.Builder
	b.WriteByte('$')
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
		if len(digits) > lead {
			b.WriteByte(',')
		}
	}
	for i := lead; i < len(digits); i += 3 {
		b.WriteString(digits[i : i+3])
		if i+3 < len(digits) {
			b.WriteByte(',')
		}
	}
	return b.String()
}
