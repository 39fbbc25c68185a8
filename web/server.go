// Copyright 2025 The ChapaUY Authors
// SPDX-License-Identifier: Apache-2.0

// Package web serves the search page, the JSON API and the CSV downloads.
package web

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jcodagnone/placescout/places"
	"github.com/jcodagnone/placescout/scrape"
)

//go:embed templates/*.html
var templatesFS embed.FS

var templateFuncs = template.FuncMap{
	"km": func(meters float64) string {
		return fmt.Sprintf("%.1f km", meters/1000)
	},
}

// PlacesSearcher runs the Places API pipeline.
type PlacesSearcher interface {
	Search(ctx context.Context, q places.SearchQuery) ([]places.EnrichedResult, error)
}

// Scraper runs the browser pipeline.
type Scraper interface {
	Scrape(ctx context.Context, query string) ([]scrape.ScrapedResult, error)
}

// Server wires both pipelines to HTTP. A nil searcher means the API key is
// missing: the Places endpoints then fail while the scraper keeps working.
type Server struct {
	searcher PlacesSearcher
	scraper  Scraper
	engine   *gin.Engine
}

// NewServer creates a Server.
func NewServer(searcher PlacesSearcher, scraper Scraper) *Server {
	s := &Server{
		searcher: searcher,
		scraper:  scraper,
	}

	s.engine = s.routes()

	return s
}

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery(), requestID())
	r.SetHTMLTemplate(template.Must(template.New("").Funcs(templateFuncs).ParseFS(templatesFS, "templates/*.html")))

	r.GET("/", s.indexView)
	r.GET("/api/places", s.searchPlaces)
	r.GET("/api/places.csv", s.exportPlaces)
	r.GET("/api/scrape", s.scrapePlaces)
	r.GET("/api/scrape.csv", s.exportScrape)

	return r
}

// Handler returns the HTTP handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves on addr until ctx is done, then drains in-flight requests.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)

	go func() {
		log.Printf("🌐 Listening on %s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Println("🛑 Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}

	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}
