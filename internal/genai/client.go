package genai

import (
	"bytes"
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

// ErrMalformed is returned when the model replied transport-wise but its
// schema-constrained payload could not be parsed.
var ErrMalformed = errors.New("genai: invalid upstream data")

// Result carries the model's JSON-encoded reply text plus the citation
// sources extracted from its grounding metadata.
type Result struct {
	Text      string
	Citations []domain.CitationSource
}

// Decode unmarshals the reply text into v, mapping any parse failure to
// ErrMalformed.
func (r *Result) Decode(v any) error {
	if err := json.Unmarshal([]byte(strings.TrimSpace(r.Text)), v); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return nil
}

// Client defines the contract for schema-constrained, web-grounded
// generation.
type Client interface {
	Generate(ctx context.Context, prompt string, schema json.RawMessage) (*Result, error)
}

// HTTPClient implements Client against a Gemini-style REST endpoint.
type HTTPClient struct {
	baseURL *url.URL
	apiKey  string
	model   string
	client  *http.Client
	logger  zerolog.Logger
}

// NewHTTPClient constructs a new HTTP-backed generative model client.
func NewHTTPClient(baseURL, apiKey, model string, timeout time.Duration, logger zerolog.Logger) (*HTTPClient, error) {
	parsed, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse genai url: %w", err)
	}
	return &HTTPClient{
		baseURL: parsed,
		apiKey:  apiKey,
		model:   model,
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

type generateRequest struct {
	Contents         []content        `json:"contents"`
	Tools            []tool           `json:"tools"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type tool struct {
	GoogleSearch struct{} `json:"google_search"`
}

type generationConfig struct {
	ResponseMIMEType string          `json:"responseMimeType"`
	ResponseSchema   json.RawMessage `json:"responseSchema,omitempty"`
	ThinkingConfig   thinkingConfig  `json:"thinkingConfig"`
}

type thinkingConfig struct {
	ThinkingBudget int `json:"thinkingBudget"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []part `json:"parts"`
		} `json:"content"`
		GroundingMetadata struct {
			GroundingChunks []struct {
				Web struct {
					URI   string `json:"uri"`
					Title string `json:"title"`
				} `json:"web"`
			} `json:"groundingChunks"`
		} `json:"groundingMetadata"`
	} `json:"candidates"`
}

// Generate submits one prompt with live search grounding enabled and a fixed
// output schema, returning the reply text and citation sources.
func (c *HTTPClient) Generate(ctx context.Context, prompt string, schema json.RawMessage) (*Result, error) {
	body := generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
		Tools:    []tool{{}},
		GenerationConfig: generationConfig{
			ResponseMIMEType: "application/json",
			ResponseSchema:   schema,
			ThinkingConfig:   thinkingConfig{ThinkingBudget: 0},
		},
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encode generate request: %w", err)
	}

	rel := &url.URL{Path: "/v1beta/models/" + c.model + ":generateContent"}
	q := rel.Query()
	q.Set("key", c.apiKey)
	rel.RawQuery = q.Encode()
	endpoint := c.baseURL.ResolveReference(rel)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint.String(), bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Warn().Int("status", resp.StatusCode).Str("model", c.model).Msg("genai upstream returned non-200")
		return nil, fmt.Errorf("genai: upstream returned %d", resp.StatusCode)
	}

	var decoded generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("%w: decode envelope: %v", ErrMalformed, err)
	}
	if len(decoded.Candidates) == 0 {
		return nil, fmt.Errorf("%w: no candidates", ErrMalformed)
	}

	cand := decoded.Candidates[0]
	var text strings.Builder
	for _, p := range cand.Content.Parts {
		text.WriteString(p.Text)
	}

	citations := make([]domain.CitationSource, 0, len(cand.GroundingMetadata.GroundingChunks))
	for _, chunk := range cand.GroundingMetadata.GroundingChunks {
		if chunk.Web.URI == "" && chunk.Web.Title == "" {
			continue
		}
		citations = append(citations, domain.CitationSource{
			URI:   chunk.Web.URI,
			Title: chunk.Web.Title,
		})
	}

	return &Result{Text: text.String(), Citations: citations}, nil
}
