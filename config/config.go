// Copyright 2025 The ChapaUY Authors
// SPDX-License-Identifier: Apache-2.0

// Package config loads placescout settings from an optional YAML file and the
// environment, and resolves the Places API key.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/jcodagnone/placescout/places"
	"github.com/jcodagnone/placescout/scrape"
	"github.com/jcodagnone/placescout/spatial"
	"gopkg.in/yaml.v3"
)

// DefaultPath is read when no --config is given. Its absence is not an error.
const DefaultPath = "placescout.yaml"

// Environment overrides.
const (
	EnvAPIKey     = "GOOGLE_MAPS_API_KEY"
	EnvListen     = "PLACESCOUT_LISTEN"
	EnvChromePath = "CHROME_PATH"
)

// Config is the whole configuration. Durations use Go syntax, e.g. "2s".
type Config struct {
	Listen string `yaml:"listen"`
	APIKey string `yaml:"api_key"`

	Places struct {
		MaxPages    int           `yaml:"max_pages"`
		TokenDelay  time.Duration `yaml:"token_delay"`
		Timeout     time.Duration `yaml:"timeout"`
		Concurrency int           `yaml:"concurrency"`

		Defaults struct {
			Type     string `yaml:"type"`
			Radius   int    `yaml:"radius"`
			Location string `yaml:"location"` // "lat,lng"
		} `yaml:"defaults"`
	} `yaml:"places"`

	Scraper struct {
		ChromePath        string        `yaml:"chrome_path"`
		Headful           bool          `yaml:"headful"`
		UserAgent         string        `yaml:"user_agent"`
		MaxScrolls        int           `yaml:"max_scrolls"`
		NavigationTimeout time.Duration `yaml:"navigation_timeout"`
		FeedTimeout       time.Duration `yaml:"feed_timeout"`
		ScrollPause       time.Duration `yaml:"scroll_pause"`
	} `yaml:"scraper"`

	Keys struct {
		Keyring     bool   `yaml:"keyring"`      // look the key up in the OS keychain
		ADC         bool   `yaml:"adc"`          // look the key up with Application Default Credentials
		Project     string `yaml:"gcp_project"`  // used when the credentials carry none
		DisplayName string `yaml:"display_name"` // API key resource to pick
	} `yaml:"keys"`
}

// Default returns the built-in configuration.
func Default() *Config {
	cfg := &Config{Listen: ":8080"}

	cfg.Places.MaxPages = places.DefaultMaxPages
	cfg.Places.TokenDelay = places.DefaultTokenDelay
	cfg.Places.Timeout = 10 * time.Second
	cfg.Places.Defaults.Type = places.DefaultType
	cfg.Places.Defaults.Radius = places.DefaultRadius
	cfg.Places.Defaults.Location = places.DefaultLocation.String()

	cfg.Scraper.NavigationTimeout = scrape.DefaultNavigationTimeout
	cfg.Scraper.FeedTimeout = scrape.DefaultFeedTimeout
	cfg.Scraper.ScrollPause = scrape.DefaultScrollPause

	cfg.Keys.Keyring = true
	cfg.Keys.ADC = true
	cfg.Keys.DisplayName = DefaultKeyDisplayName

	return cfg
}

// Load reads path on top of Default and applies the environment overrides.
// An empty path reads DefaultPath when it exists.
func Load(path string) (*Config, error) {
	return load(path, os.Getenv)
}

func load(path string, getenv func(string) string) (*Config, error) {
	cfg := Default()

	optional := path == ""
	if optional {
		path = DefaultPath
	}

	b, err := os.ReadFile(path)

	switch {
	case err == nil:
		if err := yaml.Unmarshal(b, cfg); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
	case optional && errors.Is(err, fs.ErrNotExist):
	default:
		return nil, fmt.Errorf("reading config: %w", err)
	}

	if v := strings.TrimSpace(getenv(EnvAPIKey)); v != "" {
		cfg.APIKey = v
	}

	if v := strings.TrimSpace(getenv(EnvListen)); v != "" {
		cfg.Listen = v
	}

	if v := strings.TrimSpace(getenv(EnvChromePath)); v != "" {
		cfg.Scraper.ChromePath = v
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return cfg, nil
}

// Validate checks the values that cannot be defaulted.
func (c *Config) Validate() error {
	var errs []error

	if c.Places.Defaults.Location != "" {
		if _, err := spatial.ParsePoint(c.Places.Defaults.Location); err != nil {
			errs = append(errs, fmt.Errorf("places.defaults.location: %w", err))
		}
	}

	if c.Places.MaxPages < 0 {
		errs = append(errs, errors.New("places.max_pages must not be negative"))
	}

	if c.Scraper.MaxScrolls < 0 {
		errs = append(errs, errors.New("scraper.max_scrolls must not be negative"))
	}

	return errors.Join(errs...)
}

// PlacesOptions returns the options for places.NewService.
func (c *Config) PlacesOptions() *places.Options {
	opts := &places.Options{
		MaxPages:    c.Places.MaxPages,
		TokenDelay:  c.Places.TokenDelay,
		Concurrency: c.Places.Concurrency,
		Client: places.ClientOptions{
			Timeout: c.Places.Timeout,
		},
	}

	defaults := places.SearchQuery{
		Type:   c.Places.Defaults.Type,
		Radius: c.Places.Defaults.Radius,
	}

	if p, err := spatial.ParsePoint(c.Places.Defaults.Location); err == nil {
		defaults.Location = p
	}

	opts.Defaults = &defaults

	return opts
}

// NewScraper builds a Chrome backed scraper.
func (c *Config) NewScraper() *scrape.Scraper {
	s := scrape.NewScraper(scrape.NewChromeLauncher(scrape.ChromeOptions{
		ExecPath:  c.Scraper.ChromePath,
		Headful:   c.Scraper.Headful,
		UserAgent: c.Scraper.UserAgent,
	}))

	s.MaxScrolls = c.Scraper.MaxScrolls

	if c.Scraper.NavigationTimeout > 0 {
		s.NavigationTimeout = c.Scraper.NavigationTimeout
	}

	if c.Scraper.FeedTimeout > 0 {
		s.FeedTimeout = c.Scraper.FeedTimeout
	}

	if c.Scraper.ScrollPause > 0 {
		s.ScrollPause = c.Scraper.ScrollPause
	}

	return s
}
