// Copyright 2025 The ChapaUY Authors
// SPDX-License-Identifier: Apache-2.0

package web

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/jcodagnone/placescout/export"
	"github.com/jcodagnone/placescout/places"
	"github.com/jcodagnone/placescout/scrape"
	"github.com/jcodagnone/placescout/spatial"
)

// User facing messages.
const (
	msgQueryRequired  = `parameter "query" is required`
	msgNoResults      = "no results found"
	msgNoScraped      = "no results found or the page layout changed"
	msgPlacesFailed   = "failed to fetch data from the Places API"
	msgServerError    = "server error"
	msgScrapingFailed = "scraping failed"
)

// Envelope is the body of every JSON answer.
type Envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
	Details string `json:"details,omitempty"`
	Status  string `json:"status,omitempty"`
}

// apiError is a failure ready to be rendered.
type apiError struct {
	code int
	body Envelope
}

func badRequest(msg string) *apiError {
	return &apiError{code: http.StatusBadRequest, body: Envelope{Error: msg}}
}

// placesFailure maps a pipeline error to its answer.
func placesFailure(err error) *apiError {
	var pErr *places.Error

	switch {
	case places.IsConfigurationMissing(err):
		return &apiError{http.StatusInternalServerError, Envelope{Error: places.ErrConfigurationMissing.Message}}
	case places.IsUpstreamRejected(err) && errors.As(err, &pErr):
		msg := pErr.Message
		if msg == "" {
			msg = msgPlacesFailed
		}

		return &apiError{http.StatusInternalServerError, Envelope{Error: msg, Status: pErr.Status}}
	default:
		return &apiError{http.StatusInternalServerError, Envelope{Error: msgServerError, Details: err.Error()}}
	}
}

func scrapeFailure(err error) *apiError {
	return &apiError{http.StatusInternalServerError, Envelope{Error: msgScrapingFailed, Details: err.Error()}}
}

// placesQuery reads the search parameters. Empty optional parameters take the
// service defaults.
func placesQuery(ctx *gin.Context) (places.SearchQuery, *apiError) {
	q := places.SearchQuery{
		Text: strings.TrimSpace(ctx.Query("query")),
		Type: strings.TrimSpace(ctx.Query("type")),
	}

	if q.Text == "" {
		return q, badRequest(msgQueryRequired)
	}

	if v := strings.TrimSpace(ctx.Query("radius")); v != "" {
		radius, err := strconv.Atoi(v)
		if err != nil || radius <= 0 {
			return q, badRequest(fmt.Sprintf("invalid radius %q", v))
		}

		q.Radius = radius
	}

	if v := strings.TrimSpace(ctx.Query("location")); v != "" {
		p, err := spatial.ParsePoint(v)
		if err != nil {
			return q, badRequest(err.Error())
		}

		q.Location = p
	}

	return q, nil
}

func (s *Server) runPlaces(ctx *gin.Context) (places.SearchQuery, []places.EnrichedResult, *apiError) {
	q, apiErr := placesQuery(ctx)
	if apiErr != nil {
		return q, nil, apiErr
	}

	if s.searcher == nil {
		return q, nil, placesFailure(places.ErrConfigurationMissing)
	}

	results, err := s.searcher.Search(ctx.Request.Context(), q)
	if err != nil {
		return q, nil, placesFailure(err)
	}

	return q, results, nil
}

func (s *Server) runScrape(ctx *gin.Context) (string, []scrape.ScrapedResult, *apiError) {
	query := strings.TrimSpace(ctx.Query("query"))
	if query == "" {
		return query, nil, badRequest(msgQueryRequired)
	}

	results, err := s.scraper.Scrape(ctx.Request.Context(), query)
	if err != nil {
		return query, nil, scrapeFailure(err)
	}

	return query, results, nil
}

func abort(ctx *gin.Context, apiErr *apiError) {
	if apiErr.code >= http.StatusInternalServerError {
		log.Printf("❌ %s [%s]: %s %s", ctx.Request.URL.Path, RequestID(ctx), apiErr.body.Error, apiErr.body.Details)
	}

	ctx.JSON(apiErr.code, apiErr.body)
}

func (s *Server) searchPlaces(ctx *gin.Context) {
	_, results, apiErr := s.runPlaces(ctx)
	if apiErr != nil {
		abort(ctx, apiErr)

		return
	}

	if len(results) == 0 {
		ctx.JSON(http.StatusOK, Envelope{Success: true, Data: []places.EnrichedResult{}, Message: msgNoResults})

		return
	}

	ctx.JSON(http.StatusOK, Envelope{Success: true, Data: results})
}

func (s *Server) scrapePlaces(ctx *gin.Context) {
	_, results, apiErr := s.runScrape(ctx)
	if apiErr != nil {
		abort(ctx, apiErr)

		return
	}

	if len(results) == 0 {
		ctx.JSON(http.StatusOK, Envelope{Success: true, Data: []scrape.ScrapedResult{}, Message: msgNoScraped})

		return
	}

	ctx.JSON(http.StatusOK, Envelope{Success: true, Data: results})
}

func attachment(ctx *gin.Context, name string) {
	ctx.Header("Content-Type", "text/csv; charset=utf-8")
	ctx.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, name))
	ctx.Status(http.StatusOK)
}

func (s *Server) exportPlaces(ctx *gin.Context) {
	q, results, apiErr := s.runPlaces(ctx)
	if apiErr != nil {
		abort(ctx, apiErr)

		return
	}

	attachment(ctx, export.FileName(q.Text, "places"))

	if err := export.WritePlaces(ctx.Writer, results); err != nil {
		log.Printf("❌ Writing CSV [%s]: %v", RequestID(ctx), err)
	}
}

func (s *Server) exportScrape(ctx *gin.Context) {
	query, results, apiErr := s.runScrape(ctx)
	if apiErr != nil {
		abort(ctx, apiErr)

		return
	}

	attachment(ctx, export.FileName(query, "scrape"))

	if err := export.WriteScraped(ctx.Writer, results); err != nil {
		log.Printf("❌ Writing CSV [%s]: %v", RequestID(ctx), err)
	}
}
