package scraper

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/chromedp"
)

// clickTimeout bounds every individual click so a vanished element
// fails the check instead of hanging the invocation.
const clickTimeout = 15 * time.Second

// chromeBrowser implements Browser on a headless Chrome session driven
// via chromedp.
type chromeBrowser struct {
	ctx           context.Context
	cancelBrowser context.CancelFunc
	cancelAlloc   context.CancelFunc
}

// NewChromeBrowser launches a headless Chrome session. The session is
// canceled when ctx is, or when Close is called.
func NewChromeBrowser(ctx context.Context) (Browser, error) {
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, chromedp.DefaultExecAllocatorOptions[:]...)
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)

	// Start the process now so launch failures surface here, not on the
	// first navigation.
	if err := chromedp.Run(browserCtx); err != nil {
		cancelBrowser()
		cancelAlloc()
		return nil, fmt.Errorf("launching browser: %w", err)
	}

	return &chromeBrowser{
		ctx:           browserCtx,
		cancelBrowser: cancelBrowser,
		cancelAlloc:   cancelAlloc,
	}, nil
}

func (b *chromeBrowser) Navigate(url string) error {
	if err := chromedp.Run(b.ctx, chromedp.Navigate(url)); err != nil {
		return fmt.Errorf("navigating to %s: %w", url, err)
	}
	return nil
}

func (b *chromeBrowser) Click(selector string) error {
	ctx, cancel := context.WithTimeout(b.ctx, clickTimeout)
	defer cancel()

	if err := chromedp.Run(ctx, chromedp.Click(selector, chromedp.ByQuery)); err != nil {
		return fmt.Errorf("clicking %s: %w", selector, err)
	}
	return nil
}

func (b *chromeBrowser) ClickIfVisible(selector string) error {
	var visible bool
	expr := fmt.Sprintf(
		`(() => { const el = document.querySelector(%q); return el !== null && el.offsetParent !== null; })()`,
		selector)
	if err := chromedp.Run(b.ctx, chromedp.Evaluate(expr, &visible)); err != nil {
		return fmt.Errorf("probing %s: %w", selector, err)
	}
	if !visible {
		return nil
	}
	return b.Click(selector)
}

func (b *chromeBrowser) WaitVisible(selector string, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(b.ctx, timeout)
	defer cancel()

	if err := chromedp.Run(ctx, chromedp.WaitVisible(selector, chromedp.ByQuery)); err != nil {
		return fmt.Errorf("waiting for %s: %w", selector, err)
	}
	return nil
}

func (b *chromeBrowser) HTML() (string, error) {
	var html string
	if err := chromedp.Run(b.ctx, chromedp.OuterHTML("html", &html, chromedp.ByQuery)); err != nil {
		return "", fmt.Errorf("reading page HTML: %w", err)
	}
	return html, nil
}

func (b *chromeBrowser) Close() error {
	b.cancelBrowser()
	b.cancelAlloc()
	return nil
}
