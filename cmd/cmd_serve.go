// Copyright 2025 The ChapaUY Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/jcodagnone/placescout/config"
	"github.com/jcodagnone/placescout/places"
	"github.com/jcodagnone/placescout/web"
	"github.com/spf13/cobra"
)

var serveOptions = struct {
	Listen string
	Debug  bool
}{}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serves the search page and the JSON API",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		if serveOptions.Listen != "" {
			cfg.Listen = serveOptions.Listen
		}

		if !serveOptions.Debug {
			gin.SetMode(gin.ReleaseMode)
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		var searcher web.PlacesSearcher

		svc, err := newPlacesService(ctx, cfg)

		switch {
		case err == nil:
			searcher = svc
			log.Println("📍 Places API: enabled")
		case places.IsConfigurationMissing(err):
			log.Printf("⚠️  Places API disabled: %v. Set %s, run `scout key set` or configure ADC.",
				err, config.EnvAPIKey)
		default:
			return err
		}

		log.Println("🗺️  Maps scraper: enabled")

		return web.NewServer(searcher, cfg.NewScraper()).Run(ctx, cfg.Listen)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(
		&serveOptions.Listen,
		"listen",
		"",
		"Address to listen on, overrides the configuration (e.g. :8080)",
	)
	serveCmd.Flags().BoolVar(
		&serveOptions.Debug,
		"debug",
		false,
		"Run gin in debug mode",
	)
}
