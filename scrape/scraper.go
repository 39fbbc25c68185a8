// Copyright 2025 The ChapaUY Authors
// SPDX-License-Identifier: Apache-2.0

package scrape

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"strings"
	"time"
)

// Scraper defaults.
const (
	DefaultSearchURL         = "https://www.google.com/maps/search/"
	DefaultNavigationTimeout = 60 * time.Second
	DefaultFeedTimeout       = 15 * time.Second
	DefaultScrollPause       = 2 * time.Second
)

// Scraper runs one browser session per query.
type Scraper struct {
	launcher Launcher

	SearchURL         string
	NavigationTimeout time.Duration
	FeedTimeout       time.Duration
	ScrollPause       time.Duration

	// MaxScrolls caps the scroll iterations. Zero scrolls until the feed
	// stops growing.
	MaxScrolls int

	// OnState, if set, is called on every state transition.
	OnState func(State)

	sleep func(ctx context.Context, d time.Duration) error
}

// NewScraper creates a Scraper with the default timings.
func NewScraper(launcher Launcher) *Scraper {
	return &Scraper{
		launcher:          launcher,
		SearchURL:         DefaultSearchURL,
		NavigationTimeout: DefaultNavigationTimeout,
		FeedTimeout:       DefaultFeedTimeout,
		ScrollPause:       DefaultScrollPause,
		sleep:             sleepContext,
	}
}

// SearchURLFor returns the Maps search page of query.
func (s *Scraper) SearchURLFor(query string) string {
	return s.SearchURL + url.PathEscape(strings.TrimSpace(query))
}

// Scrape returns the listing cards found for query. A feed that never shows up
// is not an error: the result is empty. The page is closed on every path.
func (s *Scraper) Scrape(ctx context.Context, query string) (ret []ScrapedResult, err error) {
	start := time.Now()

	page, err := s.launcher.Launch(ctx)
	if err != nil {
		s.enter(StateFailed)

		return nil, &Error{State: StateNavigating, Err: fmt.Errorf("launching browser: %w", err)}
	}

	defer func() {
		if cerr := page.Close(); cerr != nil {
			log.Printf("⚠️  Closing browser: %v", cerr)
		}
	}()

	state := StateNavigating
	fail := func(err error) ([]ScrapedResult, error) {
		failed := state
		s.enter(StateFailed)

		return nil, &Error{State: failed, Err: err}
	}

	for {
		s.enter(state)

		switch state {
		case StateNavigating:
			if err := page.Navigate(ctx, s.SearchURLFor(query), s.NavigationTimeout); err != nil {
				return fail(err)
			}

			state = StateWaitingForFeed

		case StateWaitingForFeed:
			found, err := page.WaitFor(ctx, ItemSelector, s.FeedTimeout)
			if err != nil && ctx.Err() != nil {
				return fail(err)
			}

			if err != nil {
				log.Printf("⚠️ Scrape %q: waiting for %s: %v, reporting no results", query, ItemSelector, err)

				ret = []ScrapedResult{}
				state = StateDone

				continue
			}

			if !found {
				log.Printf("🤷 Scrape %q: no %s items after %s, no results or the page layout changed",
					query, ItemSelector, s.FeedTimeout)

				ret = []ScrapedResult{}
				state = StateDone

				continue
			}

			state = StateScrolling

		case StateScrolling:
			if err := s.scroll(ctx, page); err != nil {
				return fail(err)
			}

			state = StateExtracting

		case StateExtracting:
			doc, err := page.HTML(ctx)
			if err != nil {
				return fail(err)
			}

			if ret, err = Extract(strings.NewReader(doc)); err != nil {
				return fail(err)
			}

			state = StateDone

		case StateDone:
			log.Printf("🗺️  Scrape %q: %d results in %s", query, len(ret), time.Since(start).Round(time.Millisecond))

			return ret, nil

		default:
			return fail(fmt.Errorf("unexpected state %s", state))
		}
	}
}

// scroll grows the feed until two consecutive heights match. A missing feed
// container skips scrolling.
func (s *Scraper) scroll(ctx context.Context, page Page) error {
	last, ok, err := page.ScrollHeight(ctx, FeedSelector)
	if err != nil {
		return err
	}

	if !ok {
		return nil
	}

	for n := 0; s.MaxScrolls <= 0 || n < s.MaxScrolls; n++ {
		if err := page.ScrollBy(ctx, FeedSelector); err != nil {
			return err
		}

		if err := s.sleep(ctx, s.ScrollPause); err != nil {
			return err
		}

		height, ok, err := page.ScrollHeight(ctx, FeedSelector)
		if err != nil {
			return err
		}

		if !ok || height == last {
			return nil
		}

		last = height
	}

	return nil
}

func (s *Scraper) enter(state State) {
	if s.OnState != nil {
		s.OnState(state)
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
