package places

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
)

const (
	DefaultEndpoint   = "https://places.googleapis.com/v1/places:searchText"
	DefaultMaxResults = 5

	// FieldMask limits the searchText payload to what the report renders.
	FieldMask = "places.id,places.displayName,places.generativeSummary,places.areaSummary,contextualContents"

	errorBodyLimit = 4096
)

// ErrRequestFailed matches every transport and non-2xx failure.
var ErrRequestFailed = errors.New("API request failed")

// RequestError carries the detail of a failed searchText call.
type RequestError struct {
	StatusCode int
	Detail     string
	Err        error
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("%s: %s", ErrRequestFailed, e.Detail)
}

func (e *RequestError) Is(target error) bool {
	return target == ErrRequestFailed
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

type searchTextRequest struct {
	TextQuery      string        `json:"textQuery"`
	LocationBias   *LocationBias `json:"location_bias,omitempty"`
	MaxResultCount int           `json:"maxResultCount"`
}

type Client struct {
	apiKey     string
	endpoint   string
	httpClient *http.Client
	log        *slog.Logger
}

type Option func(*Client)

// WithEndpoint overrides the searchText URL.
func WithEndpoint(endpoint string) Option {
	return func(c *Client) {
		c.endpoint = endpoint
	}
}

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

func NewClient(apiKey string, log *slog.Logger, opts ...Option) *Client {
	c := &Client{
		apiKey:     strings.TrimSpace(apiKey),
		endpoint:   DefaultEndpoint,
		httpClient: http.DefaultClient,
		log:        log,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// SearchPlaces issues exactly one searchText request and returns the decoded
// payload as is. A zero maxResults means DefaultMaxResults.
func (c *Client) SearchPlaces(
	ctx context.Context,
	query string,
	bias *LocationBias,
	maxResults int,
) (*PlacesResponse, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, errors.New("query is empty")
	}

	if maxResults == 0 {
		maxResults = DefaultMaxResults
	}
	if maxResults < 0 {
		return nil, fmt.Errorf("max results must be positive (maxResults = %d)", maxResults)
	}

	if bias != nil {
		if err := bias.Validate(); err != nil {
			return nil, fmt.Errorf("validate location bias: %w", err)
		}
	}

	body, err := json.Marshal(searchTextRequest{
		TextQuery:      query,
		LocationBias:   bias,
		MaxResultCount: maxResults,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Goog-Api-Key", c.apiKey)
	req.Header.Set("X-Goog-FieldMask", FieldMask)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &RequestError{Detail: err.Error(), Err: err}
	}
	defer func() {
		if err = resp.Body.Close(); err != nil {
			c.log.WarnContext(ctx, "Failed to close response body",
				"error", err,
				"query", query)
		}
	}()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyLimit))

		return nil, &RequestError{
			StatusCode: resp.StatusCode,
			Detail: fmt.Sprintf(
				"unexpected status (status = %d, body = %s)",
				resp.StatusCode,
				strings.TrimSpace(string(respBody)),
			),
		}
	}

	var result PlacesResponse
	if err = json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	c.log.DebugContext(ctx, "Places are fetched",
		"query", query,
		"placeCount", len(result.Places),
		"contextualContentCount", len(result.ContextualContents),
		"response", result)

	return &result, nil
}
