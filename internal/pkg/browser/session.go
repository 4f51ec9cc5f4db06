package browser

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/chromedp/chromedp"

	"github.com/mxxx222/TennisBot-sub003/internal/pkg/config"
)

// ErrAcquisitionTimeout means the root content node never appeared within the
// configured wait. Callers treat it as "zero records this cycle", not a crash.
var ErrAcquisitionTimeout = errors.New("browser: content did not appear before timeout")

// rootContentSelector marks the earliest node that proves the event list has
// rendered. Kept deliberately loose: the site renames classes between revisions.
const rootContentSelector = `[class*="event"], [class*="match"], [id^="fixture"]`

const defaultUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/142.0.0.0 Safari/537.36"

// Session drives one headless browser per Acquire call. The underlying Chrome
// instance is stateful and must not be shared across concurrent acquisitions,
// so each call allocates and tears down its own context.
type Session struct {
	cfg config.ScraperConfig
}

func NewSession(cfg config.ScraperConfig) *Session {
	return &Session{cfg: cfg}
}

// Acquire loads the fixtures page, waits for content, best-effort clicks the
// category filter, runs the configured scroll-and-settle cycles to trigger
// lazy loading, and returns the final DOM as HTML text.
//
// Teardown is guaranteed on every exit path via the deferred cancels.
func (s *Session) Acquire(ctx context.Context) (string, error) {
	userAgent := s.cfg.UserAgent
	if userAgent == "" {
		userAgent = defaultUserAgent
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.UserAgent(userAgent),
	)

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx, chromedp.WithLogf(func(format string, v ...interface{}) {
		if os.Getenv("SCRAPER_DEBUG") == "1" {
			fmt.Printf("chromedp: "+format, v...)
		}
	}))
	defer cancelBrowser()

	// Bounded wait for the root content node. A page that never renders it is
	// an acquisition timeout, never a hang.
	waitCtx, cancelWait := context.WithTimeout(browserCtx, s.cfg.ContentTimeout)
	defer cancelWait()

	err := chromedp.Run(waitCtx,
		chromedp.Navigate(s.cfg.URL),
		chromedp.WaitReady(rootContentSelector, chromedp.ByQuery),
	)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return "", fmt.Errorf("%w: waited %s for %q", ErrAcquisitionTimeout, s.cfg.ContentTimeout, rootContentSelector)
		}
		return "", fmt.Errorf("navigate %s: %w", s.cfg.URL, err)
	}

	s.clickCategoryFilter(browserCtx)

	// Lazy-loaded rows only materialize on scroll.
	for i := 0; i < s.cfg.ScrollCycles; i++ {
		err := chromedp.Run(browserCtx,
			chromedp.Evaluate(`window.scrollTo(0, document.body.scrollHeight)`, nil),
			chromedp.Sleep(s.cfg.ScrollSettle),
		)
		if err != nil {
			slog.Warn("Scroll cycle failed, continuing with current DOM", "cycle", i+1, "error", err)
			break
		}
	}

	var html string
	if err := chromedp.Run(browserCtx, chromedp.OuterHTML("html", &html, chromedp.ByQuery)); err != nil {
		return "", fmt.Errorf("snapshot DOM: %w", err)
	}

	return html, nil
}

// clickCategoryFilter tries to narrow the page to the configured category.
// The control is not always present, so failure here is logged and ignored.
func (s *Session) clickCategoryFilter(ctx context.Context) {
	if s.cfg.Category == "" {
		return
	}

	selector := fmt.Sprintf(`//*[contains(@class, "filter")]//*[contains(text(), %q)]`, s.cfg.Category)

	clickCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err := chromedp.Run(clickCtx,
		chromedp.Click(selector, chromedp.BySearch),
		chromedp.Sleep(time.Second),
	)
	if err != nil {
		slog.Debug("Category filter not clickable, using unfiltered page", "category", s.cfg.Category, "error", err)
	}
}
