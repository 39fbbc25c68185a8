// Copyright 2025 The ChapaUY Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/jcodagnone/placescout/export"
	"github.com/jcodagnone/placescout/scrape"
	"github.com/spf13/cobra"
)

var scrapeOptions = struct {
	outputOptions

	MaxScrolls int
	Headful    bool
	ChromePath string
}{}

var scrapeCmd = &cobra.Command{
	Use:   "scrape <query>",
	Short: "Collects places from the Google Maps search page with a headless Chrome",
	Long: `
Collects places from the Google Maps search page with a headless Chrome.

Scraping Google Maps may breach the Google Terms of Service and can get your IP
blocked. Prefer "scout search", which uses the official Places API.
`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		if cmd.Flags().Changed("max-scrolls") {
			cfg.Scraper.MaxScrolls = scrapeOptions.MaxScrolls
		}

		if scrapeOptions.Headful {
			cfg.Scraper.Headful = true
		}

		if scrapeOptions.ChromePath != "" {
			cfg.Scraper.ChromePath = scrapeOptions.ChromePath
		}

		query := strings.Join(args, " ")

		scraper := cfg.NewScraper()
		scraper.OnState = func(s scrape.State) {
			log.Printf("🗺️  %s", s)
		}

		results, err := scraper.Scrape(cmd.Context(), query)
		if err != nil {
			return err
		}

		switch {
		case scrapeOptions.CSVPath != "":
			return writeCSV(scrapeOptions.CSVPath, func(w io.Writer) error {
				return export.WriteScraped(w, results)
			})
		case scrapeOptions.JSON:
			return writeJSON(results)
		}

		if len(results) == 0 {
			fmt.Printf("No results found for %q.\n", query)

			return nil
		}

		rows := make([][]string, 0, len(results))
		for _, r := range results {
			rows = append(rows, []string{r.Name, r.Address, r.Rating.String(), r.ReviewCount})
		}

		fmt.Printf("%d results for %q:\n", len(results), query)
		printTable(os.Stdout, []string{"Name", "Address", "Rating", "Reviews"}, rows)

		return nil
	},
}

func init() {
	rootCmd.AddCommand(scrapeCmd)
	addOutputFlags(scrapeCmd, &scrapeOptions.outputOptions)
	scrapeCmd.Flags().IntVar(
		&scrapeOptions.MaxScrolls,
		"max-scrolls",
		0,
		"Stop scrolling the results feed after this many iterations (0 scrolls until it stops growing)",
	)
	scrapeCmd.Flags().BoolVar(
		&scrapeOptions.Headful,
		"headful",
		false,
		"Show the browser window",
	)
	scrapeCmd.Flags().StringVar(
		&scrapeOptions.ChromePath,
		"chrome-path",
		"",
		"Chrome or Chromium binary (defaults to $CHROME_PATH or the one found in PATH)",
	)
}
