// Copyright 2025 The ChapaUY Authors
// SPDX-License-Identifier: Apache-2.0

package places

import (
	"context"
	"log"
	"time"
)

// Pagination defaults.
const (
	DefaultMaxPages   = 3
	DefaultTokenDelay = 2 * time.Second
)

// pageState is the outcome of a single Text Search page.
type pageState int

const (
	// stateFetching a page request is about to be issued.
	stateFetching pageState = iota
	// stateContinuing the page was accepted and a continuation token exists.
	stateContinuing
	// stateStopping pagination ends without error.
	stateStopping
	// stateAborting pagination ends with an error.
	stateAborting
)

func (s pageState) String() string {
	switch s {
	case stateFetching:
		return "fetching"
	case stateContinuing:
		return "continuing"
	case stateStopping:
		return "stopping"
	case stateAborting:
		return "aborting"
	default:
		return "unknown"
	}
}

// pageStep classifies a page answer. withToken tells whether the request carried
// a continuation token. The returned error is set only for stateAborting, and
// for the token expiration notice on stateStopping.
func pageStep(resp *SearchResponse, withToken bool) (pageState, error) {
	switch resp.Status {
	case StatusOK:
		if resp.NextPageToken == "" {
			return stateStopping, nil
		}

		return stateContinuing, nil
	case StatusZeroResults:
		return stateStopping, nil
	case StatusInvalidRequest:
		if withToken {
			return stateStopping, &Error{
				Kind:    ErrorKindTokenExpired,
				Status:  resp.Status,
				Message: "continuation token refused",
			}
		}
	}

	return stateAborting, rejected(resp.Status, resp.ErrorMessage)
}

// Collector walks the Text Search pages of a query.
type Collector struct {
	api API

	// MaxPages caps the number of search requests per query.
	MaxPages int

	// TokenDelay is waited before every request that carries a continuation
	// token, since fresh tokens are not immediately valid.
	TokenDelay time.Duration

	sleep func(ctx context.Context, d time.Duration) error
}

// NewCollector creates a Collector with the default limits.
func NewCollector(api API) *Collector {
	return &Collector{
		api:        api,
		MaxPages:   DefaultMaxPages,
		TokenDelay: DefaultTokenDelay,
		sleep:      sleepContext,
	}
}

// Collect returns the accumulated results of up to MaxPages pages. An empty
// slice with a nil error means the query matched nothing.
func (c *Collector) Collect(ctx context.Context, q SearchQuery) ([]RawResult, error) {
	ret := []RawResult{}
	token := ""

	for page := 0; page < c.MaxPages; page++ {
		if token != "" {
			if err := c.sleep(ctx, c.TokenDelay); err != nil {
				return nil, transport("waiting for continuation token", err)
			}
		}

		resp, err := c.api.TextSearch(ctx, SearchRequest{Query: q, PageToken: token})
		if err != nil {
			return nil, err
		}

		state, err := pageStep(resp, token != "")
		switch state {
		case stateAborting:
			return nil, err
		case stateStopping:
			if IsTokenExpired(err) {
				log.Printf("⚠️  Search %q: continuation token refused on page %d, keeping %d results",
					q.Text, page+1, len(ret))
			}

			return append(ret, resp.Results...), nil
		case stateContinuing:
			ret = append(ret, resp.Results...)
			token = resp.NextPageToken
		}
	}

	return ret, nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
