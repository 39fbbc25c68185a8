// Copyright 2025 The ChapaUY Authors
// SPDX-License-Identifier: Apache-2.0

// Package export writes search results as CSV.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/jcodagnone/placescout/places"
	"github.com/jcodagnone/placescout/scrape"
	"github.com/jcodagnone/placescout/utils/textutils"
)

var placesHeader = []string{
	"place_id", "name", "address", "rating", "user_ratings_total", "types",
	"lat", "lng", "phone", "website", "photo_reference", "distance_m", "h3_cell",
}

var scrapedHeader = []string{"name", "address", "rating", "review_count"}

// FileName derives a download name from the query, e.g. "restoran-jakarta-places.csv".
func FileName(query, kind string) string {
	slug := textutils.Slug(query)
	if slug == "" {
		slug = "results"
	}

	return fmt.Sprintf("%s-%s.csv", slug, kind)
}

// WritePlaces writes one row per result, preceded by a header.
func WritePlaces(w io.Writer, results []places.EnrichedResult) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(placesHeader); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i := range results {
		r := &results[i]

		photo := ""
		if r.PhotoReference != nil {
			photo = *r.PhotoReference
		}

		distance := ""
		if r.DistanceMeters > 0 {
			distance = strconv.FormatFloat(r.DistanceMeters, 'f', 0, 64)
		}

		row := []string{
			r.PlaceID,
			r.Name,
			r.Address,
			r.Rating.String(),
			strconv.Itoa(r.UserRatingsTotal),
			strings.Join(r.Types, "|"),
			strconv.FormatFloat(r.Lat, 'f', -1, 64),
			strconv.FormatFloat(r.Lng, 'f', -1, 64),
			r.PhoneNumber,
			r.Website,
			photo,
			distance,
			r.H3Cell,
		}

		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing %s: %w", r.PlaceID, err)
		}
	}

	cw.Flush()

	return cw.Error()
}

// WriteScraped writes one row per listing card, preceded by a header.
func WriteScraped(w io.Writer, results []scrape.ScrapedResult) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(scrapedHeader); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for _, r := range results {
		if err := cw.Write([]string{r.Name, r.Address, r.Rating.String(), r.ReviewCount}); err != nil {
			return fmt.Errorf("writing %s: %w", r.Name, err)
		}
	}

	cw.Flush()

	return cw.Error()
}
