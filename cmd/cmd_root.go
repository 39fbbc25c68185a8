// Copyright 2025 The ChapaUY Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/jcodagnone/placescout/config"
	"github.com/jcodagnone/placescout/places"
	"github.com/spf13/cobra"
)

type logWriter struct {
	writer io.Writer
}

func (w *logWriter) Write(bytes []byte) (int, error) {
	return fmt.Fprintf(w.writer, "%s %s", time.Now().Format("2006-01-02 15:04:05"), string(bytes))
}

func init() {
	log.SetFlags(0)
	log.SetOutput(&logWriter{writer: os.Stderr})
}

var rootCmd = &cobra.Command{
	Use:   "scout",
	Short: "search places through the Google Places API or the Maps search page",
	Long: `
scout finds places (restaurants, hotels, shops...) for a free text query.

It can use the official Places API (Text Search followed by Place Details for
every result) or drive a headless Chrome over the Google Maps search page. Both
sources are available from the command line, as a JSON API and as a web page,
with CSV export.
`,
	SilenceUsage: true,
}

// globalOptions are the flags shared by every command.
type globalOptions struct {
	ConfigPath          string
	EnableHTTPTrace     bool
	EnableHTTPBodyTrace bool
}

var rootOptions = &globalOptions{}

var Version = "dev"

func Execute(version string) {
	Version = version

	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&rootOptions.ConfigPath,
		"config",
		"",
		"YAML configuration file (defaults to "+config.DefaultPath+" when present)",
	)
	rootCmd.PersistentFlags().BoolVar(
		&rootOptions.EnableHTTPTrace,
		"trace-http",
		false,
		"Display Places API requests-responses",
	)
	rootCmd.PersistentFlags().BoolVar(
		&rootOptions.EnableHTTPBodyTrace,
		"trace-http-body",
		false,
		"Display Places API requests-responses bodies",
	)
}

func loadConfig() (*config.Config, error) {
	if err := config.LoadDotEnv(config.DotEnvFiles...); err != nil {
		return nil, err
	}

	cfg, err := config.Load(rootOptions.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("loading configuration: %w", err)
	}

	return cfg, nil
}

func userAgent() string {
	return fmt.Sprintf("placescout/%s (+https://github.com/jcodagnone/placescout)", Version)
}

// newPlacesService resolves the API key and builds the Places pipeline. It
// fails with places.ErrConfigurationMissing when no key is found.
func newPlacesService(ctx context.Context, cfg *config.Config) (*places.Service, error) {
	key, source := cfg.ResolveAPIKey(ctx)
	if source != config.KeySourceNone {
		log.Printf("🔑 Places API key from %s", source)
	}

	opts := cfg.PlacesOptions()
	opts.Client.UserAgent = userAgent()

	if rootOptions.EnableHTTPTrace || rootOptions.EnableHTTPBodyTrace {
		opts.Client.Trace = os.Stderr
		opts.Client.TraceBody = rootOptions.EnableHTTPBodyTrace
	}

	return places.NewService(key, opts)
}
