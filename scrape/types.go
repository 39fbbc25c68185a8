// Copyright 2025 The ChapaUY Authors
// SPDX-License-Identifier: Apache-2.0

// Package scrape collects places by driving a headless browser over the Google
// Maps search page: it scrolls the results feed until it stops growing and then
// reads the rendered listing cards.
package scrape

import (
	"context"
	"fmt"
	"time"

	"github.com/jcodagnone/placescout/utils/sentinel"
)

// ScrapedResult is a single listing card. Missing fields hold sentinel.Unavailable.
type ScrapedResult struct {
	Name        string         `json:"name"`
	Address     string         `json:"address"`
	Rating      sentinel.Float `json:"rating"`
	ReviewCount string         `json:"reviewCount"`
}

// Page is a single browser tab.
type Page interface {
	// Navigate loads url and waits until the network settles, bounded by timeout.
	Navigate(ctx context.Context, url string, timeout time.Duration) error

	// WaitFor waits up to timeout for selector to match. It reports false, and
	// no error, when the timeout expires.
	WaitFor(ctx context.Context, selector string, timeout time.Duration) (bool, error)

	// ScrollHeight returns the scrollHeight of the element matching selector.
	// ok is false when nothing matches.
	ScrollHeight(ctx context.Context, selector string) (height int64, ok bool, err error)

	// ScrollBy scrolls the element matching selector by its own scrollHeight.
	ScrollBy(ctx context.Context, selector string) error

	// HTML returns the serialized document.
	HTML(ctx context.Context) (string, error)

	// Close releases the tab and its browser.
	Close() error
}

// Launcher starts a browser and opens a page in it.
type Launcher interface {
	Launch(ctx context.Context) (Page, error)
}

// State is a step of a scraping run.
type State int

const (
	StateNavigating State = iota
	StateWaitingForFeed
	StateScrolling
	StateExtracting
	StateDone
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateNavigating:
		return "navigating"
	case StateWaitingForFeed:
		return "waiting_for_feed"
	case StateScrolling:
		return "scrolling"
	case StateExtracting:
		return "extracting"
	case StateDone:
		return "done"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Error reports the step a run failed in.
type Error struct {
	State State
	Err   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("scraping failed while %s: %v", e.State, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}
