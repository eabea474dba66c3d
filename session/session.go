package session

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/chromedp/cdproto/emulation"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/wzlphp/asin-ai/config"
	"github.com/wzlphp/asin-ai/marketplace"
	"github.com/wzlphp/asin-ai/models"
)

// Selectors that signal the interesting content has rendered. Network
// idle is not enough: challenge pages answer HTTP 200 and settle
// quietly, so the wait is best-effort and classification decides.
const (
	ProductReadySelector = "#productTitle"
	SearchReadySelector  = "[data-component-type='s-search-result']"
)

// stealthScript masks the automation signals the anti-bot checks probe
// first. Injected before any page script runs.
const stealthScript = `
Object.defineProperty(navigator, 'webdriver', { get: () => false });
Object.defineProperty(navigator, 'languages', { get: () => ['en-US', 'en'] });
Object.defineProperty(navigator, 'plugins', { get: () => [1, 2, 3, 4, 5] });
`

// viewports is a pool of plausible desktop sizes; each fetch picks one
// so repeated visits don't share a pixel-identical fingerprint.
var viewports = []struct{ width, height int64 }{
	{1920, 1080},
	{1536, 864},
	{1440, 900},
	{1366, 768},
}

// Session is one marketplace's browsing identity: locale parameters,
// the shared engine handle, and the rate limiter that spaces fetches.
// Sessions are process-scoped and never persisted.
type Session struct {
	Locale marketplace.Locale

	engineCtx context.Context
	fetch     config.FetchConfig
	limiter   *rate.Limiter
	log       *zap.SugaredLogger

	// navigate performs one navigation attempt. nil means fetchOnce;
	// tests substitute canned pages to pin the retry policy without a
	// browser.
	navigate func(ctx context.Context, url, readySelector string) (*models.RawPage, error)
}

func (s *Session) healthy() bool {
	return s.engineCtx.Err() == nil
}

// FetchProduct navigates to an ASIN's detail page and returns the
// classified markup.
func (s *Session) FetchProduct(ctx context.Context, asin string) (*models.RawPage, error) {
	return s.Fetch(ctx, s.Locale.ProductURL(asin, ""), ProductReadySelector)
}

// FetchSearch navigates to a keyword search results page (1-based).
func (s *Session) FetchSearch(ctx context.Context, query string, pageNum int) (*models.RawPage, error) {
	return s.Fetch(ctx, s.Locale.SearchURL(query, pageNum), SearchReadySelector)
}

// Fetch navigates to url inside a fresh, scoped browsing context and
// returns the raw markup with its classification. Transient navigation
// failures are retried with exponential backoff up to the configured
// bound; a challenge-detected page is returned immediately with no
// retry, since hammering the wall only hardens it.
func (s *Session) Fetch(ctx context.Context, url, readySelector string) (*models.RawPage, error) {
	navigate := s.navigate
	if navigate == nil {
		navigate = s.fetchOnce
	}

	var lastErr error
	for attempt := 1; attempt <= s.fetch.MaxRetries; attempt++ {
		// The hard per-session spacing invariant.
		if err := s.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		raw, err := navigate(ctx, url, readySelector)
		if err == nil {
			if raw.Status != models.PageOK {
				s.log.Warnf("[%s] %s page at %s", s.Locale.Code, raw.Status, url)
			}
			return raw, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		lastErr = err
		s.log.Warnf("[%s] fetch attempt %d/%d: %v", s.Locale.Code, attempt, s.fetch.MaxRetries, err)
		if attempt < s.fetch.MaxRetries {
			backoff := s.fetch.RetryBackoff * time.Duration(1<<(attempt-1))
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
		}
	}
	return nil, fmt.Errorf("%w: %s: %v", models.ErrNavigationFailed, url, lastErr)
}

// fetchOnce runs one navigation inside its own browsing context. The
// context is released on success, failure, and cancellation alike.
func (s *Session) fetchOnce(parent context.Context, url, readySelector string) (*models.RawPage, error) {
	tabCtx, cancelTab := chromedp.NewContext(s.engineCtx)
	defer cancelTab()

	// Caller cancellation must tear the tab down even mid-navigation.
	stop := context.AfterFunc(parent, cancelTab)
	defer stop()

	vp := viewports[rand.IntN(len(viewports))]

	navCtx, cancelNav := context.WithTimeout(tabCtx, s.fetch.NavTimeout)
	defer cancelNav()
	if err := chromedp.Run(navCtx,
		chromedp.ActionFunc(func(ctx context.Context) error {
			_, err := page.AddScriptToEvaluateOnNewDocument(stealthScript).Do(ctx)
			return err
		}),
		chromedp.EmulateViewport(vp.width, vp.height),
		chromedp.ActionFunc(func(ctx context.Context) error {
			if err := emulation.SetLocaleOverride().WithLocale(s.Locale.Language).Do(ctx); err != nil {
				return err
			}
			return emulation.SetTimezoneOverride(s.Locale.TimezoneID).Do(ctx)
		}),
		chromedp.Sleep(navJitter()),
		chromedp.Navigate(url),
	); err != nil {
		return nil, fmt.Errorf("navigate %s: %w", url, err)
	}

	// Best-effort content wait; a challenge page never shows the
	// selector, so a timeout here is not a failure.
	if readySelector != "" {
		waitCtx, cancelWait := context.WithTimeout(tabCtx, s.fetch.ContentTimeout)
		_ = chromedp.Run(waitCtx, chromedp.WaitVisible(readySelector, chromedp.ByQuery))
		cancelWait()
	}

	readCtx, cancelRead := context.WithTimeout(tabCtx, s.fetch.NavTimeout)
	defer cancelRead()
	var html string
	if err := chromedp.Run(readCtx,
		chromedp.Evaluate(`window.scrollBy(0, 800)`, nil),
		chromedp.Sleep(s.fetch.SettleDelay),
		chromedp.OuterHTML("html", &html),
	); err != nil {
		return nil, fmt.Errorf("read page content %s: %w", url, err)
	}

	return &models.RawPage{
		URL:       url,
		HTML:      html,
		Status:    Classify(html),
		FetchedAt: time.Now(),
	}, nil
}

// CaptureScreenshot renders an ASIN's detail page (optionally in a
// specific display language) and returns the viewport as PNG bytes.
// It shares the session's rate limit and stealth setup with Fetch.
func (s *Session) CaptureScreenshot(ctx context.Context, asin, language string) ([]byte, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	tabCtx, cancelTab := chromedp.NewContext(s.engineCtx)
	defer cancelTab()
	stop := context.AfterFunc(ctx, cancelTab)
	defer stop()

	runCtx, cancelRun := context.WithTimeout(tabCtx, s.fetch.NavTimeout)
	defer cancelRun()

	url := s.Locale.ProductURL(asin, language)
	var buf []byte
	if err := chromedp.Run(runCtx,
		chromedp.ActionFunc(func(ctx context.Context) error {
			_, err := page.AddScriptToEvaluateOnNewDocument(stealthScript).Do(ctx)
			return err
		}),
		chromedp.EmulateViewport(1280, 900),
		chromedp.Navigate(url),
	); err != nil {
		return nil, fmt.Errorf("navigate %s: %w", url, err)
	}

	waitCtx, cancelWait := context.WithTimeout(tabCtx, s.fetch.ContentTimeout)
	_ = chromedp.Run(waitCtx, chromedp.WaitVisible(ProductReadySelector, chromedp.ByQuery))
	cancelWait()

	if err := chromedp.Run(runCtx,
		chromedp.Sleep(2*time.Second),
		chromedp.CaptureScreenshot(&buf),
	); err != nil {
		return nil, fmt.Errorf("capture %s: %w", url, err)
	}
	return buf, nil
}

// navJitter varies the pause before navigation so request timing does
// not tick like a metronome.
func navJitter() time.Duration {
	return 200*time.Millisecond + rand.N(400*time.Millisecond)
}
