// Copyright 2025 The ChapaUY Authors
// SPDX-License-Identifier: Apache-2.0

// Package places collects places from the Google Places Web Service: a paginated
// Text Search followed by a concurrent Place Details lookup per result.
package places

import (
	"github.com/jcodagnone/placescout/spatial"
	"github.com/jcodagnone/placescout/utils/sentinel"
)

// Status values reported by the Places Web Service.
const (
	StatusOK             = "OK"
	StatusZeroResults    = "ZERO_RESULTS"
	StatusInvalidRequest = "INVALID_REQUEST"
	StatusOverQueryLimit = "OVER_QUERY_LIMIT"
	StatusRequestDenied  = "REQUEST_DENIED"
	StatusNotFound       = "NOT_FOUND"
	StatusUnknownError   = "UNKNOWN_ERROR"
)

// Request defaults, the same ones the search form uses when left empty.
const (
	DefaultType   = "point_of_interest"
	DefaultRadius = 50000
)

// DefaultLocation is central Jakarta.
var DefaultLocation = spatial.Point{Lat: -6.2088, Lng: 106.8456}

// SearchQuery is what the user asked for. Immutable per request.
type SearchQuery struct {
	Text     string        // free text, e.g. "restoran jakarta"
	Type     string        // category hint, e.g. "restaurant"
	Location spatial.Point // center of the location bias
	Radius   int           // meters
}

// WithDefaults fills the optional fields left empty.
func (q SearchQuery) WithDefaults() SearchQuery {
	if q.Type == "" {
		q.Type = DefaultType
	}

	if q.Radius <= 0 {
		q.Radius = DefaultRadius
	}

	if q.Location == (spatial.Point{}) {
		q.Location = DefaultLocation
	}

	return q
}

// Geometry as returned by the Places Web Service.
type Geometry struct {
	Location spatial.Point `json:"location"`
}

// Photo references an image that can be fetched with the Place Photos API.
type Photo struct {
	PhotoReference string `json:"photo_reference"`
	Width          int    `json:"width,omitempty"`
	Height         int    `json:"height,omitempty"`
}

// RawResult is a single Text Search hit. It is never mutated after collection.
type RawResult struct {
	PlaceID          string   `json:"place_id"`
	Name             string   `json:"name"`
	FormattedAddress string   `json:"formatted_address"`
	Rating           *float64 `json:"rating,omitempty"`
	UserRatingsTotal *int     `json:"user_ratings_total,omitempty"`
	Types            []string `json:"types,omitempty"`
	Geometry         Geometry `json:"geometry"`
	Photos           []Photo  `json:"photos,omitempty"`
}

// PhotoReference returns the first photo reference, if any.
func (r *RawResult) PhotoReference() *string {
	if len(r.Photos) == 0 || r.Photos[0].PhotoReference == "" {
		return nil
	}

	ref := r.Photos[0].PhotoReference

	return &ref
}

// PlaceDetails is the Place Details record for the requested fields.
type PlaceDetails struct {
	RawResult

	FormattedPhoneNumber string `json:"formatted_phone_number,omitempty"`
	Website              string `json:"website,omitempty"`
}

// EnrichedResult is the terminal output, one per place. Phone and website hold
// sentinel.Unavailable when they could not be fetched.
type EnrichedResult struct {
	PlaceID          string         `json:"place_id"`
	Name             string         `json:"name"`
	Address          string         `json:"address"`
	Rating           sentinel.Float `json:"rating"`
	UserRatingsTotal int            `json:"user_ratings_total"`
	Types            []string       `json:"types"`
	Lat              float64        `json:"lat"`
	Lng              float64        `json:"lng"`
	PhotoReference   *string        `json:"photo_reference"`
	PhoneNumber      string         `json:"phoneNumber"`
	Website          string         `json:"website"`
	DistanceMeters   float64        `json:"distance_m"`
	H3Cell           string         `json:"h3_cell,omitempty"`
}

// Point returns the place coordinates.
func (r *EnrichedResult) Point() spatial.Point {
	return spatial.Point{Lat: r.Lat, Lng: r.Lng}
}

// fromRaw builds the result shared by the detail and the fallback paths.
func fromRaw(r *RawResult) EnrichedResult {
	types := r.Types
	if types == nil {
		types = []string{}
	}

	total := 0
	if r.UserRatingsTotal != nil {
		total = *r.UserRatingsTotal
	}

	return EnrichedResult{
		PlaceID:          r.PlaceID,
		Name:             r.Name,
		Address:          r.FormattedAddress,
		Rating:           sentinel.FloatPtr(r.Rating),
		UserRatingsTotal: total,
		Types:            types,
		Lat:              r.Geometry.Location.Lat,
		Lng:              r.Geometry.Location.Lng,
		PhotoReference:   r.PhotoReference(),
		PhoneNumber:      sentinel.Unavailable,
		Website:          sentinel.Unavailable,
	}
}

// fromDetails builds the result from an authoritative detail record. The
// identifier is taken from raw since the details field mask does not ask for it.
func fromDetails(raw *RawResult, d *PlaceDetails) EnrichedResult {
	ret := fromRaw(&d.RawResult)
	ret.PlaceID = raw.PlaceID
	ret.PhoneNumber = sentinel.String(d.FormattedPhoneNumber)
	ret.Website = sentinel.String(d.Website)

	return ret
}

// SearchRequest is one Text Search call.
type SearchRequest struct {
	Query     SearchQuery
	PageToken string
}

// SearchResponse is the Text Search payload.
type SearchResponse struct {
	Status        string      `json:"status"`
	ErrorMessage  string      `json:"error_message,omitempty"`
	Results       []RawResult `json:"results"`
	NextPageToken string      `json:"next_page_token,omitempty"`
}

// DetailsResponse is the Place Details payload.
type DetailsResponse struct {
	Status       string        `json:"status"`
	ErrorMessage string        `json:"error_message,omitempty"`
	Result       *PlaceDetails `json:"result,omitempty"`
}
