// Package scraper drives a headless browser through the booking site's
// fixed reservation flow and extracts the earliest available
// appointment date.
//
// The flow is specific to this site's markup (selectors in scraper.go)
// and breaks if the site changes structure; no abstraction for other
// booking sites is attempted. The navigation logic runs against the
// narrow Browser interface so it can be exercised in tests without a
// real browser; chromedp provides the production implementation.
package scraper
