// Copyright 2025 The ChapaUY Authors
// SPDX-License-Identifier: Apache-2.0

package places

import (
	"context"
	"errors"
	"sync"
	"time"
)

// fakeAPI answers TextSearch calls from pages, in order, and Details calls
// from details keyed by place id.
type fakeAPI struct {
	mu       sync.Mutex
	pages    []*SearchResponse
	pageErr  map[int]error
	details  map[string]func() (*DetailsResponse, error)
	searches []SearchRequest
	lookups  []string
}

func (f *fakeAPI) TextSearch(_ context.Context, req SearchRequest) (*SearchResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	n := len(f.searches)
	f.searches = append(f.searches, req)

	if err := f.pageErr[n]; err != nil {
		return nil, err
	}

	if n >= len(f.pages) {
		return nil, errors.New("fakeAPI: no more pages")
	}

	return f.pages[n], nil
}

func (f *fakeAPI) Details(_ context.Context, placeID string, _ []string) (*DetailsResponse, error) {
	f.mu.Lock()
	f.lookups = append(f.lookups, placeID)
	fn := f.details[placeID]
	f.mu.Unlock()

	if fn == nil {
		return &DetailsResponse{Status: StatusNotFound}, nil
	}

	return fn()
}

// recordingSleep records waits instead of sleeping.
type recordingSleep struct {
	mu    sync.Mutex
	waits []time.Duration
}

func (r *recordingSleep) sleep(ctx context.Context, d time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.waits = append(r.waits, d)

	return ctx.Err()
}

func ptr[T any](v T) *T {
	return &v
}

func raw(id, name string) RawResult {
	return RawResult{
		PlaceID:          id,
		Name:             name,
		FormattedAddress: name + " street",
		Rating:           ptr(4.5),
		UserRatingsTotal: ptr(120),
		Types:            []string{"restaurant"},
		Geometry:         Geometry{Location: DefaultLocation},
		Photos:           []Photo{{PhotoReference: "photo-" + id}},
	}
}

func detailsOK(d *PlaceDetails) func() (*DetailsResponse, error) {
	return func() (*DetailsResponse, error) {
		return &DetailsResponse{Status: StatusOK, Result: d}, nil
	}
}
