package scraper

import (
	"context"
	"time"
)

// Browser is the minimal page-driving capability the booking flow
// needs. Implementations are bound to one browser session; Close tears
// the session down and must be safe to call on every exit path.
type Browser interface {
	// Navigate loads the given URL and waits for the document to be ready.
	Navigate(url string) error

	// Click clicks the first element matching the CSS selector.
	Click(selector string) error

	// ClickIfVisible clicks the element only when it is present and
	// visible; an absent element is not an error.
	ClickIfVisible(selector string) error

	// WaitVisible blocks until an element matching the selector becomes
	// visible, or the timeout elapses.
	WaitVisible(selector string, timeout time.Duration) error

	// HTML returns the current serialized DOM.
	HTML() (string, error)

	// Close tears down the browser session.
	Close() error
}

// BrowserFactory opens a fresh browser session for a single check.
type BrowserFactory func(ctx context.Context) (Browser, error)
