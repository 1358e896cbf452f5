// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package scholar

import "context"

// Session is the browser capability the search needs: navigate, type into
// a field and submit it, read the rendered page source, and tear down.
// Element extraction happens on the page source, so no richer DOM API
// leaks into the search logic. Tests supply a fake; production uses the
// chromedp implementation in this package.
type Session interface {
	// Open navigates the session to url and waits for the load event.
	Open(ctx context.Context, url string) error

	// TypeAndSubmit types text into the element matching the CSS
	// selector and submits it with a carriage return.
	TypeAndSubmit(ctx context.Context, selector, text string) error

	// PageSource returns the rendered HTML of the current page.
	PageSource(ctx context.Context) (string, error)

	// Close tears the session down. Safe to call exactly once; always
	// called, including on block detection and scrape errors.
	Close() error
}

// SessionFactory opens a fresh browser session. Every search call gets its
// own session; nothing is cached between calls.
type SessionFactory func(ctx context.Context) (Session, error)
