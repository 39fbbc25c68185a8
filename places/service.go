// Copyright 2025 The ChapaUY Authors
// SPDX-License-Identifier: Apache-2.0

package places

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/jcodagnone/placescout/spatial"
)

// Options configures a Service. The zero value uses the defaults.
type Options struct {
	Client     ClientOptions
	MaxPages   int
	TokenDelay time.Duration

	// Concurrency limits detail lookups in flight, zero is unbounded.
	Concurrency int

	// Defaults replaces the built-in query defaults when set.
	Defaults *SearchQuery
}

// Service runs the full pipeline: paginated search followed by enrichment.
type Service struct {
	Collector *Collector
	Enricher  *Enricher
	defaults  SearchQuery
}

// NewService builds a Service backed by the Places Web Service. It fails with
// ErrConfigurationMissing when apiKey is empty.
func NewService(apiKey string, opts *Options) (*Service, error) {
	if opts == nil {
		opts = &Options{}
	}

	client, err := NewClient(apiKey, &opts.Client)
	if err != nil {
		return nil, err
	}

	return NewServiceWithAPI(client, opts), nil
}

// NewServiceWithAPI builds a Service on top of an arbitrary API implementation.
func NewServiceWithAPI(api API, opts *Options) *Service {
	if opts == nil {
		opts = &Options{}
	}

	collector := NewCollector(api)
	if opts.MaxPages > 0 {
		collector.MaxPages = opts.MaxPages
	}

	if opts.TokenDelay > 0 {
		collector.TokenDelay = opts.TokenDelay
	}

	enricher := NewEnricher(api)
	enricher.Concurrency = opts.Concurrency

	defaults := SearchQuery{}.WithDefaults()
	if opts.Defaults != nil {
		defaults = opts.Defaults.WithDefaults()
	}

	return &Service{
		Collector: collector,
		Enricher:  enricher,
		defaults:  defaults,
	}
}

// Normalize trims the query text and fills the optional fields.
func (s *Service) Normalize(q SearchQuery) SearchQuery {
	q.Text = strings.TrimSpace(q.Text)

	if q.Type == "" {
		q.Type = s.defaults.Type
	}

	if q.Radius <= 0 {
		q.Radius = s.defaults.Radius
	}

	if q.Location == (spatial.Point{}) {
		q.Location = s.defaults.Location
	}

	return q
}

// Search collects and enriches the results of q. An empty slice with a nil
// error means nothing matched.
func (s *Service) Search(ctx context.Context, q SearchQuery) ([]EnrichedResult, error) {
	q = s.Normalize(q)

	start := time.Now()

	raws, err := s.Collector.Collect(ctx, q)
	if err != nil {
		return nil, err
	}

	if len(raws) == 0 {
		log.Printf("🔍 Search %q: no results", q.Text)

		return []EnrichedResult{}, nil
	}

	ret := s.Enricher.Enrich(ctx, q.Location, raws)
	log.Printf("🔍 Search %q: %d results in %s", q.Text, len(ret), time.Since(start).Round(time.Millisecond))

	return ret, nil
}
