// Copyright 2025 The ChapaUY Authors
// SPDX-License-Identifier: Apache-2.0

package places

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/jcodagnone/placescout/spatial"
	"github.com/jcodagnone/placescout/utils/httputils"
)

// DefaultBaseURL is the Places Web Service (legacy) endpoint.
const DefaultBaseURL = "https://maps.googleapis.com/maps/api/place"

// DetailFields is the field mask requested for every Place Details lookup.
var DetailFields = []string{
	"name",
	"formatted_address",
	"rating",
	"user_ratings_total",
	"types",
	"geometry",
	"photos",
	"formatted_phone_number",
	"website",
}

// API is the subset of the Places Web Service used by the pipelines.
type API interface {
	// TextSearch runs a single Text Search page. A non-OK status is not an
	// error: it is returned in the response for the caller to interpret.
	TextSearch(ctx context.Context, req SearchRequest) (*SearchResponse, error)

	// Details runs a single Place Details lookup.
	Details(ctx context.Context, placeID string, fields []string) (*DetailsResponse, error)
}

// ClientOptions configuration for Client.
type ClientOptions struct {
	// BaseURL overrides DefaultBaseURL, mostly for tests.
	BaseURL string

	// UserAgent is the User-Agent header to use in HTTP requests
	UserAgent string

	// Timeout bounds each HTTP call
	Timeout time.Duration

	// Trace, when set, receives redacted request/response dumps
	Trace io.Writer

	// TraceBody includes bodies in the dumps
	TraceBody bool
}

// Client talks to the Places Web Service using an API key.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new Places client. It fails with ErrConfigurationMissing
// when apiKey is empty.
func NewClient(apiKey string, options *ClientOptions) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, ErrConfigurationMissing
	}

	if options == nil {
		options = &ClientOptions{}
	}

	baseURL := DefaultBaseURL
	if options.BaseURL != "" {
		baseURL = strings.TrimRight(options.BaseURL, "/")
	}

	timeout := options.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	userAgent := "placescout/unknown"
	if options.UserAgent != "" {
		userAgent = options.UserAgent
	}

	return &Client{
		apiKey:  apiKey,
		baseURL: baseURL,
		httpClient: httputils.NewTracingClient(
			timeout,
			map[string]string{
				"User-Agent": userAgent,
				"Accept":     "application/json",
			},
			options.Trace,
			options.TraceBody,
		),
	}, nil
}

// TextSearch implements API.
func (c *Client) TextSearch(ctx context.Context, req SearchRequest) (*SearchResponse, error) {
	q := req.Query

	params := url.Values{}
	params.Set("query", q.Text)
	params.Set("key", c.apiKey)

	if q.Type != "" {
		params.Set("type", q.Type)
	}

	if q.Radius > 0 {
		params.Set("radius", strconv.Itoa(q.Radius))
	}

	if q.Location != (spatial.Point{}) {
		params.Set("location", q.Location.String())
	}

	if req.PageToken != "" {
		params.Set("pagetoken", req.PageToken)
	}

	var resp SearchResponse
	if err := c.get(ctx, "/textsearch/json", params, &resp); err != nil {
		return nil, err
	}

	return &resp, nil
}

// Details implements API.
func (c *Client) Details(ctx context.Context, placeID string, fields []string) (*DetailsResponse, error) {
	params := url.Values{}
	params.Set("place_id", placeID)
	params.Set("key", c.apiKey)

	if len(fields) > 0 {
		params.Set("fields", strings.Join(fields, ","))
	}

	var resp DetailsResponse
	if err := c.get(ctx, "/details/json", params, &resp); err != nil {
		return nil, err
	}

	return &resp, nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out any) (err error) {
	reqURL := c.baseURL + path + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return transport("creating request", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// url.Error embeds the full URL, key included
		var uErr *url.Error
		if errors.As(err, &uErr) {
			err = uErr.Err
		}

		return transport("places request failed", err)
	}

	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			err = errors.Join(err, fmt.Errorf("closing resp.Body: %w", cerr))
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return ClassifyHTTPStatus(resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return transport("decoding response", err)
	}

	return nil
}
