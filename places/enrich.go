// Copyright 2025 The ChapaUY Authors
// SPDX-License-Identifier: Apache-2.0

package places

import (
	"context"
	"fmt"
	"log"
	"sync/atomic"

	"github.com/jcodagnone/placescout/spatial"
	"golang.org/x/sync/errgroup"
)

// outcome is what a single detail lookup produced. err is set when result is
// the fallback built from the search record.
type outcome struct {
	result EnrichedResult
	err    error
}

// Enricher runs one Place Details lookup per search result.
type Enricher struct {
	api API

	// Fields is the details field mask.
	Fields []string

	// Concurrency limits in-flight lookups. Zero means one per result.
	Concurrency int

	// CellResolution is the H3 resolution of EnrichedResult.H3Cell. Negative
	// disables the cell.
	CellResolution int

	// OnProgress, if set, is called once per finished lookup.
	OnProgress func(done, total int)
}

// NewEnricher creates an Enricher requesting DetailFields.
func NewEnricher(api API) *Enricher {
	return &Enricher{
		api:            api,
		Fields:         DetailFields,
		CellResolution: spatial.DefaultCellResolution,
	}
}

// Enrich returns exactly one EnrichedResult per input, in input order. It never
// fails: a lookup that does not succeed degrades to the search record with
// phone and website unavailable. center is the reference for DistanceMeters.
func (e *Enricher) Enrich(ctx context.Context, center spatial.Point, raws []RawResult) []EnrichedResult {
	outcomes := make([]outcome, len(raws))

	var (
		g    errgroup.Group
		done atomic.Int32
	)

	if e.Concurrency > 0 {
		g.SetLimit(e.Concurrency)
	}

	for i := range raws {
		g.Go(func() error {
			outcomes[i] = e.lookup(ctx, &raws[i])

			if e.OnProgress != nil {
				e.OnProgress(int(done.Add(1)), len(raws))
			}

			return nil
		})
	}

	// lookups report through outcomes, never through the group
	_ = g.Wait()

	ret := make([]EnrichedResult, len(outcomes))
	for i := range outcomes {
		o := &outcomes[i]
		if o.err != nil {
			if IsUpstreamRejected(o.err) {
				log.Printf("⚠️  Details %s (%s): %v, using search record", raws[i].PlaceID, raws[i].Name, o.err)
			} else {
				log.Printf("❌ Details %s (%s): %v, using search record", raws[i].PlaceID, raws[i].Name, o.err)
			}
		}

		ret[i] = e.decorate(center, o.result)
	}

	return ret
}

// lookup is the failure boundary of a single result.
func (e *Enricher) lookup(ctx context.Context, raw *RawResult) (ret outcome) {
	defer func() {
		if r := recover(); r != nil {
			ret = outcome{
				result: fromRaw(raw),
				err:    fmt.Errorf("details lookup panicked: %v", r),
			}
		}
	}()

	resp, err := e.api.Details(ctx, raw.PlaceID, e.Fields)
	if err != nil {
		return outcome{result: fromRaw(raw), err: err}
	}

	if resp.Status != StatusOK || resp.Result == nil {
		return outcome{result: fromRaw(raw), err: rejected(resp.Status, resp.ErrorMessage)}
	}

	return outcome{result: fromDetails(raw, resp.Result)}
}

func (e *Enricher) decorate(center spatial.Point, r EnrichedResult) EnrichedResult {
	p := r.Point()
	if p == (spatial.Point{}) {
		return r
	}

	if center != (spatial.Point{}) {
		r.DistanceMeters = center.HaversineDistance(p)
	}

	if e.CellResolution >= 0 {
		if cell, err := p.Cell(e.CellResolution); err == nil {
			r.H3Cell = cell
		}
	}

	return r
}
