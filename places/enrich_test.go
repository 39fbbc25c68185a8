// Copyright 2025 The ChapaUY Authors
// SPDX-License-Identifier: Apache-2.0

package places

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/jcodagnone/placescout/spatial"
	"github.com/jcodagnone/placescout/utils/sentinel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnrichPreservesOrderAndLength(t *testing.T) {
	const n = 25

	raws := make([]RawResult, 0, n)
	api := &fakeAPI{details: map[string]func() (*DetailsResponse, error){}}

	for i := range n {
		id := fmt.Sprintf("p%02d", i)
		raws = append(raws, raw(id, "Place "+id))

		d := &PlaceDetails{RawResult: raw("", "Place "+id), Website: "https://" + id + ".example"}
		if i%3 == 0 {
			api.details[id] = func() (*DetailsResponse, error) { return nil, errors.New("reset by peer") }
		} else {
			api.details[id] = detailsOK(d)
		}
	}

	got := NewEnricher(api).Enrich(context.Background(), DefaultLocation, raws)
	require.Len(t, got, n)

	for i := range got {
		assert.Equal(t, raws[i].PlaceID, got[i].PlaceID)
		assert.Equal(t, raws[i].Name, got[i].Name)
	}

	assert.Len(t, api.lookups, n)
}

func TestEnrichFullDetails(t *testing.T) {
	r := raw("abc", "Warung Sate")
	api := &fakeAPI{details: map[string]func() (*DetailsResponse, error){
		"abc": detailsOK(&PlaceDetails{
			RawResult: RawResult{
				Name:             "Warung Sate Pak Kumis",
				FormattedAddress: "Jl. Sabang 12, Jakarta",
				Rating:           ptr(4.7),
				UserRatingsTotal: ptr(2301),
				Types:            []string{"restaurant", "food"},
				Geometry:         Geometry{Location: spatial.Point{Lat: -6.1862, Lng: 106.8283}},
			},
			FormattedPhoneNumber: "(021) 3190 1234",
			Website:              "https://satekumis.example",
		}),
	}}

	e := NewEnricher(api)
	e.CellResolution = -1

	got := e.Enrich(context.Background(), spatial.Point{}, []RawResult{r})

	want := []EnrichedResult{{
		PlaceID:          "abc",
		Name:             "Warung Sate Pak Kumis",
		Address:          "Jl. Sabang 12, Jakarta",
		Rating:           sentinel.NewFloat(4.7),
		UserRatingsTotal: 2301,
		Types:            []string{"restaurant", "food"},
		Lat:              -6.1862,
		Lng:              106.8283,
		PhoneNumber:      "(021) 3190 1234",
		Website:          "https://satekumis.example",
	}}

	if diff := cmp.Diff(want, got, cmp.AllowUnexported(sentinel.Float{})); diff != "" {
		t.Errorf("Enrich() mismatch (-want +got):\n%s", diff)
	}
}

func TestEnrichMissingPhoneAndWebsite(t *testing.T) {
	r := raw("abc", "Kopi Kenangan")
	api := &fakeAPI{details: map[string]func() (*DetailsResponse, error){
		"abc": detailsOK(&PlaceDetails{RawResult: raw("", "Kopi Kenangan")}),
	}}

	got := NewEnricher(api).Enrich(context.Background(), DefaultLocation, []RawResult{r})
	require.Len(t, got, 1)

	assert.Equal(t, sentinel.Unavailable, got[0].PhoneNumber)
	assert.Equal(t, sentinel.Unavailable, got[0].Website)
	assert.Equal(t, "Kopi Kenangan street", got[0].Address)
	assert.NotEqual(t, sentinel.Unavailable, got[0].Rating.String())
	assert.Equal(t, 120, got[0].UserRatingsTotal)
}

func TestEnrichFallbacks(t *testing.T) {
	tests := []struct {
		name   string
		answer func() (*DetailsResponse, error)
	}{
		{"transport error", func() (*DetailsResponse, error) { return nil, transport("request", errors.New("timeout")) }},
		{"non ok status", func() (*DetailsResponse, error) { return &DetailsResponse{Status: StatusNotFound}, nil }},
		{"ok without result", func() (*DetailsResponse, error) { return &DetailsResponse{Status: StatusOK}, nil }},
		{"panic", func() (*DetailsResponse, error) { panic("malformed record") }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := raw("abc", "Bakmi GM")
			api := &fakeAPI{details: map[string]func() (*DetailsResponse, error){"abc": tt.answer}}

			e := NewEnricher(api)
			e.CellResolution = -1

			got := e.Enrich(context.Background(), spatial.Point{}, []RawResult{r})
			require.Len(t, got, 1)

			want := fromRaw(&r)
			if diff := cmp.Diff(want, got[0], cmp.AllowUnexported(sentinel.Float{})); diff != "" {
				t.Errorf("fallback mismatch (-want +got):\n%s", diff)
			}

			assert.Equal(t, sentinel.Unavailable, got[0].PhoneNumber)
			assert.Equal(t, sentinel.Unavailable, got[0].Website)
			require.NotNil(t, got[0].PhotoReference)
			assert.Equal(t, "photo-abc", *got[0].PhotoReference)
		})
	}
}

func TestEnrichFallbackWithSparseRecord(t *testing.T) {
	r := RawResult{PlaceID: "x", Name: "Tanpa Nama"}
	api := &fakeAPI{}

	got := NewEnricher(api).Enrich(context.Background(), DefaultLocation, []RawResult{r})
	require.Len(t, got, 1)

	b, err := json.Marshal(got[0])
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(b, &m))

	assert.Equal(t, "N/A", m["rating"])
	assert.Equal(t, "N/A", m["phoneNumber"])
	assert.Equal(t, "N/A", m["website"])
	assert.Equal(t, []any{}, m["types"])
	assert.Equal(t, float64(0), m["user_ratings_total"])
	assert.Nil(t, m["photo_reference"])
	assert.NotContains(t, m, "h3_cell")
}

func TestEnrichEmpty(t *testing.T) {
	got := NewEnricher(&fakeAPI{}).Enrich(context.Background(), DefaultLocation, nil)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestEnrichDistanceAndCell(t *testing.T) {
	r := raw("abc", "Monas")
	r.Geometry.Location = spatial.Point{Lat: -6.1754, Lng: 106.8272}

	got := NewEnricher(&fakeAPI{}).Enrich(context.Background(), DefaultLocation, []RawResult{r})
	require.Len(t, got, 1)

	want := DefaultLocation.HaversineDistance(r.Geometry.Location)
	assert.InDelta(t, want, got[0].DistanceMeters, 0.001)
	assert.Greater(t, got[0].DistanceMeters, 3000.0)

	cell, err := r.Geometry.Location.Cell(spatial.DefaultCellResolution)
	require.NoError(t, err)
	assert.Equal(t, cell, got[0].H3Cell)
}

func TestEnrichProgress(t *testing.T) {
	raws := []RawResult{raw("a", "A"), raw("b", "B"), raw("c", "C")}

	var (
		mu    sync.Mutex
		calls []int
	)

	e := NewEnricher(&fakeAPI{})
	e.Concurrency = 2
	e.OnProgress = func(done, total int) {
		mu.Lock()
		defer mu.Unlock()

		assert.Equal(t, 3, total)
		calls = append(calls, done)
	}

	e.Enrich(context.Background(), DefaultLocation, raws)

	if diff := cmp.Diff([]int{1, 2, 3}, calls, cmpopts.SortSlices(func(a, b int) bool { return a < b })); diff != "" {
		t.Errorf("progress mismatch (-want +got):\n%s", diff)
	}
}

func TestEnrichLookupsRunConcurrently(t *testing.T) {
	ids := []string{"a", "b", "c", "d", "e"}

	var inFlight sync.WaitGroup
	inFlight.Add(len(ids))

	allStarted := make(chan struct{})
	go func() {
		inFlight.Wait()
		close(allStarted)
	}()

	api := &fakeAPI{details: map[string]func() (*DetailsResponse, error){}}
	raws := make([]RawResult, 0, len(ids))

	for _, id := range ids {
		raws = append(raws, raw(id, strings.ToUpper(id)))
		api.details[id] = func() (*DetailsResponse, error) {
			inFlight.Done()

			select {
			case <-allStarted:
				return &DetailsResponse{Status: StatusOK, Result: &PlaceDetails{Website: "https://" + id + ".example"}}, nil
			case <-time.After(5 * time.Second):
				return nil, errors.New("lookups ran one after another")
			}
		}
	}

	got := NewEnricher(api).Enrich(context.Background(), DefaultLocation, raws)
	require.Len(t, got, len(ids))

	for i, id := range ids {
		assert.Equal(t, "https://"+id+".example", got[i].Website)
	}
}

func TestEnrichConcurrencyLimit(t *testing.T) {
	var (
		mu      sync.Mutex
		current int
		peak    int
	)

	api := &fakeAPI{details: map[string]func() (*DetailsResponse, error){}}
	raws := make([]RawResult, 0, 6)

	for _, id := range []string{"a", "b", "c", "d", "e", "f"} {
		raws = append(raws, raw(id, id))
		api.details[id] = func() (*DetailsResponse, error) {
			mu.Lock()
			current++
			peak = max(peak, current)
			mu.Unlock()

			time.Sleep(10 * time.Millisecond)

			mu.Lock()
			current--
			mu.Unlock()

			return &DetailsResponse{Status: StatusOK, Result: &PlaceDetails{}}, nil
		}
	}

	e := NewEnricher(api)
	e.Concurrency = 2
	e.Enrich(context.Background(), DefaultLocation, raws)

	assert.LessOrEqual(t, peak, 2)
}
