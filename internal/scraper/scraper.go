package scraper

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog"

	"terminwatch/internal/appointment"
)

// Selectors for the TEVIS reservation flow.
const (
	selCookieDecline  = "#cookie_msg_btn_no"
	selQuantityInput  = "#inputBox-5635"
	selQuantityPlus   = "#button-plus-5635"
	selContinue       = "#WeiterButton"
	selConfirmDialog  = "#TevisDialog"
	selConfirmOK      = "#TevisDialog .modal-footer .btn-ok"
	selSingleLocation = "div.suggest_location_single"
	selSuggestionForm = ".suggestion_form"
	selSlotDateInputs = "form.suggestion_form input[name='date']"

	// stepTimeout bounds each navigation step; slotTimeout is shorter
	// because an absent suggestion form is the normal "no slots" case,
	// not a page failure worth waiting out.
	stepTimeout = 15 * time.Second
	slotTimeout = 7 * time.Second
)

// Scraper checks the booking site for the earliest available
// appointment date.
type Scraper struct {
	newBrowser BrowserFactory
	url        string
	log        zerolog.Logger
}

// New creates a Scraper against the given booking page, using a real
// headless Chrome session per check.
func New(url string, log zerolog.Logger) *Scraper {
	return &Scraper{
		newBrowser: NewChromeBrowser,
		url:        url,
		log:        log,
	}
}

// NewWithBrowser creates a Scraper with a custom browser factory.
func NewWithBrowser(url string, factory BrowserFactory, log zerolog.Logger) *Scraper {
	return &Scraper{
		newBrowser: factory,
		url:        url,
		log:        log,
	}
}

// Check walks the reservation flow once and returns the earliest slot
// date. found is false with a nil error when the site simply has no
// slots; a non-nil error means the page did not behave (navigation,
// selector, or timeout failure) and the caller should treat the check
// as inconclusive.
func (s *Scraper) Check(ctx context.Context) (earliest appointment.Date, found bool, err error) {
	s.log.Debug().Str("url", s.url).Msg("checking booking page")

	browser, err := s.newBrowser(ctx)
	if err != nil {
		return 0, false, err
	}
	defer browser.Close()

	if err := browser.Navigate(s.url); err != nil {
		return 0, false, err
	}
	if err := browser.ClickIfVisible(selCookieDecline); err != nil {
		return 0, false, err
	}

	// Step 1: pick one appointment and continue.
	if err := browser.WaitVisible(selQuantityInput, stepTimeout); err != nil {
		return 0, false, err
	}
	if err := browser.Click(selQuantityPlus); err != nil {
		return 0, false, err
	}
	if err := browser.Click(selContinue); err != nil {
		return 0, false, err
	}

	// Step 2: accept the confirmation dialog.
	if err := browser.WaitVisible(selConfirmDialog, stepTimeout); err != nil {
		return 0, false, err
	}
	if err := browser.Click(selConfirmOK); err != nil {
		return 0, false, err
	}

	// Step 3: the single suggested location, then continue.
	if err := browser.WaitVisible(selSingleLocation, stepTimeout); err != nil {
		return 0, false, err
	}
	if err := browser.Click(selContinue); err != nil {
		return 0, false, err
	}

	// Step 4: slot suggestions. No form within the short timeout means
	// no slots are offered right now.
	if err := browser.WaitVisible(selSuggestionForm, slotTimeout); err != nil {
		s.log.Info().Msg("no slots visible")
		return 0, false, nil
	}

	html, err := browser.HTML()
	if err != nil {
		return 0, false, err
	}

	earliest, found, err = earliestFromHTML(strings.NewReader(html))
	if err != nil {
		return 0, false, err
	}
	if !found {
		s.log.Info().Msg("no dates found")
		return 0, false, nil
	}

	s.log.Info().Stringer("earliest", earliest).Msg("earliest slot found")
	return earliest, true, nil
}

// earliestFromHTML extracts slot dates from the rendered suggestion
// page and returns their minimum. Inputs whose value is not purely
// numeric are skipped.
func earliestFromHTML(r io.Reader) (appointment.Date, bool, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return 0, false, fmt.Errorf("parsing HTML: %w", err)
	}

	var dates []appointment.Date
	doc.Find(selSlotDateInputs).Each(func(i int, sel *goquery.Selection) {
		val, _ := sel.Attr("value")
		if d, ok := appointment.ParseDate(val); ok {
			dates = append(dates, d)
		}
	})

	earliest, ok := appointment.Earliest(dates)
	return earliest, ok, nil
}
