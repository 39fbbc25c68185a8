// Copyright 2025 The ChapaUY Authors
// SPDX-License-Identifier: Apache-2.0

package scrape

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

// lifecycle event equivalent to "no more than two connections for 500ms"
const networkSettled = "networkAlmostIdle"

// ChromeOptions configures ChromeLauncher.
type ChromeOptions struct {
	// ExecPath is the Chrome binary. Empty lets chromedp look it up.
	ExecPath string

	// Headful shows the browser window, for debugging.
	Headful bool

	Width, Height int
	UserAgent     string
}

// ChromeLauncher starts a fresh Chrome per Launch through the DevTools protocol.
type ChromeLauncher struct {
	opts ChromeOptions
}

// NewChromeLauncher creates a launcher. Zero sizes default to 1280x800.
func NewChromeLauncher(opts ChromeOptions) *ChromeLauncher {
	if opts.Width <= 0 || opts.Height <= 0 {
		opts.Width, opts.Height = 1280, 800
	}

	return &ChromeLauncher{opts: opts}
}

func (l *ChromeLauncher) allocatorOptions() []chromedp.ExecAllocatorOption {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", !l.opts.Headful),
		chromedp.Flag("disable-gpu", true),
		chromedp.NoSandbox,
		chromedp.Flag("disable-setuid-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.WindowSize(l.opts.Width, l.opts.Height),
	)

	if l.opts.UserAgent != "" {
		opts = append(opts, chromedp.UserAgent(l.opts.UserAgent))
	}

	if l.opts.ExecPath != "" {
		opts = append(opts, chromedp.ExecPath(l.opts.ExecPath))
	}

	return opts
}

// Launch implements Launcher. The browser dies with ctx.
func (l *ChromeLauncher) Launch(ctx context.Context) (Page, error) {
	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, l.allocatorOptions()...)
	tabCtx, tabCancel := chromedp.NewContext(allocCtx)

	p := &chromePage{
		ctx:    tabCtx,
		cancel: func() { tabCancel(); allocCancel() },
		idle:   map[cdp.LoaderID]bool{},
		notify: make(chan struct{}, 1),
	}

	// The first Run starts the browser and creates the target.
	if err := chromedp.Run(tabCtx, page.SetLifecycleEventsEnabled(true)); err != nil {
		p.cancel()

		return nil, err
	}

	chromedp.ListenTarget(tabCtx, p.onEvent)

	return p, nil
}

type chromePage struct {
	ctx    context.Context
	cancel func()

	mu     sync.Mutex
	idle   map[cdp.LoaderID]bool
	notify chan struct{}
}

func (p *chromePage) onEvent(ev any) {
	e, ok := ev.(*page.EventLifecycleEvent)
	if !ok || e.Name != networkSettled {
		return
	}

	p.mu.Lock()
	p.idle[e.LoaderID] = true
	p.mu.Unlock()

	select {
	case p.notify <- struct{}{}:
	default:
	}
}

func (p *chromePage) settled(id cdp.LoaderID) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.idle[id]
}

// run executes actions on the tab, bounded by the caller's ctx as well.
func (p *chromePage) run(ctx context.Context, timeout time.Duration, actions ...chromedp.Action) error {
	runCtx, cancel := p.bound(ctx, timeout)
	defer cancel()

	return chromedp.Run(runCtx, actions...)
}

// bound derives from the tab context, so actions reach the browser, and stops
// when either ctx or timeout ends.
func (p *chromePage) bound(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	var (
		runCtx context.Context
		cancel context.CancelFunc
	)

	if timeout > 0 {
		runCtx, cancel = context.WithTimeout(p.ctx, timeout)
	} else {
		runCtx, cancel = context.WithCancel(p.ctx)
	}

	stop := context.AfterFunc(ctx, cancel)

	return runCtx, func() {
		stop()
		cancel()
	}
}

func (p *chromePage) Navigate(ctx context.Context, url string, timeout time.Duration) error {
	runCtx, cancel := p.bound(ctx, timeout)
	defer cancel()

	var loaderID cdp.LoaderID

	err := chromedp.Run(runCtx, chromedp.ActionFunc(func(ctx context.Context) error {
		_, id, errorText, _, err := page.Navigate(url).Do(ctx)
		if err != nil {
			return err
		}

		if errorText != "" {
			return fmt.Errorf("page load error %s", errorText)
		}

		loaderID = id

		return nil
	}))
	if err != nil {
		return fmt.Errorf("navigating to %s: %w", url, err)
	}

	for !p.settled(loaderID) {
		select {
		case <-p.notify:
		case <-runCtx.Done():
			if err := ctx.Err(); err != nil {
				return err
			}

			return fmt.Errorf("waiting for %s to settle: %w", url, context.DeadlineExceeded)
		}
	}

	return nil
}

func (p *chromePage) WaitFor(ctx context.Context, selector string, timeout time.Duration) (bool, error) {
	err := p.run(ctx, timeout, chromedp.WaitReady(selector, chromedp.ByQuery))
	if err == nil {
		return true, nil
	}

	if ctx.Err() == nil && errors.Is(err, context.DeadlineExceeded) {
		return false, nil
	}

	return false, fmt.Errorf("waiting for %s: %w", selector, err)
}

func (p *chromePage) ScrollHeight(ctx context.Context, selector string) (int64, bool, error) {
	sel, err := json.Marshal(selector)
	if err != nil {
		return 0, false, err
	}

	var height int64

	script := fmt.Sprintf(`(() => { const el = document.querySelector(%s); return el ? el.scrollHeight : -1; })()`, sel)
	if err := p.run(ctx, 0, chromedp.Evaluate(script, &height)); err != nil {
		return 0, false, fmt.Errorf("reading scrollHeight of %s: %w", selector, err)
	}

	if height < 0 {
		return 0, false, nil
	}

	return height, true, nil
}

func (p *chromePage) ScrollBy(ctx context.Context, selector string) error {
	sel, err := json.Marshal(selector)
	if err != nil {
		return err
	}

	var found bool

	script := fmt.Sprintf(`(() => { const el = document.querySelector(%s); if (el) el.scrollBy(0, el.scrollHeight); return !!el; })()`, sel)
	if err := p.run(ctx, 0, chromedp.Evaluate(script, &found)); err != nil {
		return fmt.Errorf("scrolling %s: %w", selector, err)
	}

	return nil
}

func (p *chromePage) HTML(ctx context.Context) (string, error) {
	var doc string
	if err := p.run(ctx, 0, chromedp.OuterHTML("html", &doc, chromedp.ByQuery)); err != nil {
		return "", fmt.Errorf("reading document: %w", err)
	}

	return doc, nil
}

// Close shuts the browser down gracefully, then releases the allocator.
func (p *chromePage) Close() error {
	err := chromedp.Cancel(p.ctx)
	p.cancel()

	if errors.Is(err, context.Canceled) {
		return nil
	}

	return err
}
