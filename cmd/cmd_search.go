// Copyright 2025 The ChapaUY Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/jcodagnone/placescout/export"
	"github.com/jcodagnone/placescout/places"
	"github.com/jcodagnone/placescout/spatial"
	"github.com/jcodagnone/placescout/utils/textutils"
	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

// outputOptions selects how results are printed.
type outputOptions struct {
	CSVPath string
	JSON    bool
}

var searchOptions = struct {
	outputOptions

	Type     string
	Radius   int
	Location string
}{}

// openOutput returns where to write a CSV file, "-" being stdout.
func openOutput(path string) (io.WriteCloser, error) {
	if path == "-" {
		return nopCloser{os.Stdout}, nil
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating %s: %w", path, err)
	}

	return f, nil
}

type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error { return nil }

func writeJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")

	return enc.Encode(v)
}

// writeCSV writes through fn into path.
func writeCSV(path string, fn func(io.Writer) error) (err error) {
	out, err := openOutput(path)
	if err != nil {
		return err
	}

	defer func() {
		if cerr := out.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("closing %s: %w", path, cerr)
		}
	}()

	if err := fn(out); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}

	if path != "-" {
		log.Printf("💾 Saved %s", path)
	}

	return nil
}

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Searches places with the Places API and fetches their details",
	Example: `  scout search restoran jakarta
  scout search "hotel bandung" --type lodging --radius 5000 --location -6.9175,107.6191 --csv hotels.csv`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		q := places.SearchQuery{
			Text:   strings.Join(args, " "),
			Type:   searchOptions.Type,
			Radius: searchOptions.Radius,
		}

		if searchOptions.Location != "" {
			if q.Location, err = spatial.ParsePoint(searchOptions.Location); err != nil {
				return err
			}
		}

		svc, err := newPlacesService(cmd.Context(), cfg)
		if err != nil {
			return err
		}

		var (
			mu  sync.Mutex
			bar *progressbar.ProgressBar
		)

		if isatty.IsTerminal(os.Stderr.Fd()) {
			svc.Enricher.OnProgress = func(done, total int) {
				mu.Lock()
				defer mu.Unlock()

				if bar == nil {
					bar = progressbar.NewOptions(total,
						progressbar.OptionSetDescription("Fetching details"),
						progressbar.OptionSetWriter(os.Stderr),
						progressbar.OptionShowCount(),
						progressbar.OptionClearOnFinish(),
					)
				}

				_ = bar.Set(done)
			}
		}

		results, err := svc.Search(cmd.Context(), q)
		if err != nil {
			if s := places.UpstreamStatus(err); s != "" {
				return fmt.Errorf("places API answered %s: %w", s, err)
			}

			return err
		}

		if bar != nil {
			_ = bar.Finish()
		}

		switch {
		case searchOptions.CSVPath != "":
			return writeCSV(searchOptions.CSVPath, func(w io.Writer) error {
				return export.WritePlaces(w, results)
			})
		case searchOptions.JSON:
			return writeJSON(results)
		}

		if len(results) == 0 {
			fmt.Printf("No results found for %q.\n", q.Text)

			return nil
		}

		rows := make([][]string, 0, len(results))
		for _, r := range results {
			rows = append(rows, placeRow(r))
		}

		fmt.Printf("%d results for %q:\n", len(results), q.Text)
		printTable(os.Stdout, []string{"Name", "Address", "Rating", "Reviews", "Phone", "Website"}, rows)

		return nil
	},
}

func addOutputFlags(cmd *cobra.Command, opts *outputOptions) {
	cmd.Flags().StringVar(
		&opts.CSVPath,
		"csv",
		"",
		"Write the results as CSV to this file (- for stdout)",
	)
	cmd.Flags().BoolVar(
		&opts.JSON,
		"json",
		false,
		"Print the results as JSON",
	)
}

func init() {
	rootCmd.AddCommand(searchCmd)
	addOutputFlags(searchCmd, &searchOptions.outputOptions)
	searchCmd.Flags().StringVar(
		&searchOptions.Type,
		"type",
		"",
		"Place type hint, e.g. restaurant (defaults to "+places.DefaultType+")",
	)
	searchCmd.Flags().IntVar(
		&searchOptions.Radius,
		"radius",
		0,
		"Location bias radius in meters (defaults to "+strconv.Itoa(places.DefaultRadius)+")",
	)
	searchCmd.Flags().StringVar(
		&searchOptions.Location,
		"location",
		"",
		"Location bias center as lat,lng (defaults to "+places.DefaultLocation.String()+")",
	)
}

// placeRow is the table line of an enriched place.
func placeRow(r places.EnrichedResult) []string {
	return []string{
		r.Name,
		r.Address,
		r.Rating.String(),
		textutils.Count(r.UserRatingsTotal),
		r.PhoneNumber,
		r.Website,
	}
}
