// Copyright 2025 The ChapaUY Authors
// SPDX-License-Identifier: Apache-2.0

package web

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/jcodagnone/placescout/places"
	"github.com/jcodagnone/placescout/scrape"
)

// Result sources selectable in the search form.
const (
	SourcePlaces = "places"
	SourceScrape = "scrape"
)

type indexPage struct {
	Query    string
	Source   string
	Searched bool
	Error    string
	Details  string
	Message  string
	CSVURL   string
	Places   []places.EnrichedResult
	Scraped  []scrape.ScrapedResult
	Count    int
}

func (s *Server) indexView(ctx *gin.Context) {
	page := indexPage{
		Query:  strings.TrimSpace(ctx.Query("query")),
		Source: ctx.DefaultQuery("source", SourcePlaces),
	}

	if page.Source != SourceScrape {
		page.Source = SourcePlaces
	}

	if _, submitted := ctx.GetQuery("query"); !submitted {
		ctx.HTML(http.StatusOK, "index.html", page)

		return
	}

	page.Searched = true

	var apiErr *apiError

	switch page.Source {
	case SourceScrape:
		_, page.Scraped, apiErr = s.runScrape(ctx)
		page.Count = len(page.Scraped)
	default:
		_, page.Places, apiErr = s.runPlaces(ctx)
		page.Count = len(page.Places)
	}

	code := http.StatusOK

	switch {
	case apiErr != nil:
		code = apiErr.code
		page.Error = apiErr.body.Error
		page.Details = apiErr.body.Details
	case page.Count == 0:
		page.Message = msgNoResults
	default:
		page.CSVURL = "/api/" + page.Source + ".csv?" + csvParams(ctx).Encode()
	}

	ctx.HTML(code, "index.html", page)
}

// csvParams forwards the search parameters to the download link.
func csvParams(ctx *gin.Context) url.Values {
	ret := url.Values{}

	for _, k := range []string{"query", "type", "radius", "location"} {
		if v := ctx.Query(k); v != "" {
			ret.Set(k, v)
		}
	}

	return ret
}
