// Copyright 2025 The ChapaUY Authors
// SPDX-License-Identifier: Apache-2.0

package export

import (
	"bytes"
	"encoding/csv"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/jcodagnone/placescout/places"
	"github.com/jcodagnone/placescout/scrape"
	"github.com/jcodagnone/placescout/utils/sentinel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileName(t *testing.T) {
	assert.Equal(t, "restoran-jakarta-places.csv", FileName("Restoran  Jakarta", "places"))
	assert.Equal(t, "cafe-bandung-scrape.csv", FileName("Café, Bandung!", "scrape"))
	assert.Equal(t, "results-places.csv", FileName("???", "places"))
}

func TestWritePlaces(t *testing.T) {
	ref := "ref-1"

	var buf bytes.Buffer
	err := WritePlaces(&buf, []places.EnrichedResult{
		{
			PlaceID:          "ChIJ1",
			Name:             "Sate Khas Senayan, Kebon Sirih",
			Address:          "Jl. Kebon Sirih 31A",
			Rating:           sentinel.NewFloat(4.4),
			UserRatingsTotal: 5120,
			Types:            []string{"restaurant", "food"},
			Lat:              -6.1857,
			Lng:              106.8296,
			PhotoReference:   &ref,
			PhoneNumber:      "(021) 3192 6238",
			Website:          sentinel.Unavailable,
			DistanceMeters:   2712.4,
			H3Cell:           "89c3a...",
		},
		{PlaceID: "ChIJ2", Name: "Warung", Types: []string{}, PhoneNumber: "N/A", Website: "N/A"},
	})
	require.NoError(t, err)

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)

	want := [][]string{
		placesHeader,
		{
			"ChIJ1", "Sate Khas Senayan, Kebon Sirih", "Jl. Kebon Sirih 31A", "4.4", "5120",
			"restaurant|food", "-6.1857", "106.8296", "(021) 3192 6238", "N/A", "ref-1", "2712", "89c3a...",
		},
		{"ChIJ2", "Warung", "", "N/A", "0", "", "0", "0", "N/A", "N/A", "", "", ""},
	}

	if diff := cmp.Diff(want, rows); diff != "" {
		t.Errorf("WritePlaces() mismatch (-want +got):\n%s", diff)
	}
}

func TestWriteScraped(t *testing.T) {
	var buf bytes.Buffer
	err := WriteScraped(&buf, []scrape.ScrapedResult{
		{Name: "Kopi \"Tuku\"", Address: "N/A", ReviewCount: "N/A"},
		{Name: "Bakmi GM", Address: "Jl. Sudirman", Rating: sentinel.NewFloat(4.5), ReviewCount: "1,024"},
	})
	require.NoError(t, err)

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)

	want := [][]string{
		{"name", "address", "rating", "review_count"},
		{`Kopi "Tuku"`, "N/A", "N/A", "N/A"},
		{"Bakmi GM", "Jl. Sudirman", "4.5", "1,024"},
	}

	if diff := cmp.Diff(want, rows); diff != "" {
		t.Errorf("WriteScraped() mismatch (-want +got):\n%s", diff)
	}
}
