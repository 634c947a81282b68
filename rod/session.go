package rod

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"

	"github.com/kmazurek/scorecap"
	"github.com/kmazurek/scorecap/goquery"
)

// settleWait bounds the DOM-stability wait after navigation. Rendering
// frameworks can finish network activity before content mounts.
const settleWait = 300 * time.Millisecond

// Ensure Session implements scorecap.Session at compile time.
var _ scorecap.Session = (*Session)(nil)

// Session wraps one browser process on a persistent profile with a
// single document handle. Not safe for concurrent use; each capture
// task owns its own Session.
type Session struct {
	browser  *rod.Browser
	launcher *launcher.Launcher
	page     *rod.Page
	baseURL  string
	loginURL string
	logger   *slog.Logger
	closed   atomic.Bool
}

// Open navigates the document handle to the URL and waits for the load
// to settle.
func (s *Session) Open(ctx context.Context, url string) (scorecap.Page, error) {
	page := s.page.Context(ctx)
	if err := page.Navigate(url); err != nil {
		return nil, scorecap.Errorf(scorecap.EUNAVAILABLE, "navigating to %s: %v", url, err)
	}
	if err := page.WaitLoad(); err != nil {
		return nil, scorecap.Errorf(scorecap.EUNAVAILABLE, "waiting for %s to load: %v", url, err)
	}
	// Best effort; slow third-party requests must not fail the open.
	_ = page.WaitStable(settleWait)

	return &pageHandle{page: s.page}, nil
}

// Fetch downloads a resource through the page's network context, so the
// request carries the session's cookies.
func (s *Session) Fetch(ctx context.Context, url string) ([]byte, error) {
	body, err := s.page.Context(ctx).GetResource(url)
	if err != nil {
		return nil, scorecap.Errorf(scorecap.EUNAVAILABLE, "fetching %s: %v", url, err)
	}
	if len(body) == 0 {
		return nil, scorecap.Errorf(scorecap.EUNAVAILABLE, "fetching %s: empty response", url)
	}
	return body, nil
}

// IsLoggedIn navigates to the application home and checks the rendered
// DOM for a login affordance. Absence is treated as logged-in. This is a
// heuristic, not a token check.
func (s *Session) IsLoggedIn(ctx context.Context) (bool, error) {
	page := s.page.Context(ctx)
	if err := page.Navigate(s.baseURL); err != nil {
		return false, scorecap.Errorf(scorecap.EUNAVAILABLE, "navigating to %s: %v", s.baseURL, err)
	}
	if err := page.WaitLoad(); err != nil {
		return false, scorecap.Errorf(scorecap.EUNAVAILABLE, "waiting for %s to load: %v", s.baseURL, err)
	}
	_ = page.WaitStable(settleWait)

	html, err := page.HTML()
	if err != nil {
		return false, scorecap.Errorf(scorecap.EUNAVAILABLE, "reading page HTML: %v", err)
	}

	hasLogin, err := goquery.HasLoginAffordance(html)
	if err != nil {
		return false, err
	}
	return !hasLogin, nil
}

// BeginInteractiveLogin navigates to the login page. It returns as soon
// as the page is showing; the human completes credential entry
// out-of-band and completion is observed via IsLoggedIn or CurrentURL.
func (s *Session) BeginInteractiveLogin(ctx context.Context) error {
	if err := s.page.Context(ctx).Navigate(s.loginURL); err != nil {
		return scorecap.Errorf(scorecap.EUNAVAILABLE, "navigating to login page: %v", err)
	}
	return nil
}

// CurrentURL returns the URL the document handle is showing.
func (s *Session) CurrentURL(ctx context.Context) (string, error) {
	info, err := s.page.Context(ctx).Info()
	if err != nil {
		return "", scorecap.Errorf(scorecap.EUNAVAILABLE, "reading page info: %v", err)
	}
	return info.URL, nil
}

// Close releases the browser process and the profile lock. Safe to call
// more than once and safe after a partial start.
func (s *Session) Close() error {
	if !s.closed.CompareAndSwap(false, true) {
		return nil
	}

	var err error
	if s.browser != nil {
		err = s.browser.Close()
	}
	if s.launcher != nil {
		s.launcher.Kill()
	}
	return err
}

// pageHandle adapts a rod page to scorecap.Page.
type pageHandle struct {
	page *rod.Page
}

func (h *pageHandle) HTML(ctx context.Context) (string, error) {
	html, err := h.page.Context(ctx).HTML()
	if err != nil {
		return "", scorecap.Errorf(scorecap.EUNAVAILABLE, "reading page HTML: %v", err)
	}
	return html, nil
}

// Scroll scrolls the score viewport down by deltaY pixels, falling back
// to window-level scroll when no dedicated container is mounted.
func (h *pageHandle) Scroll(ctx context.Context, deltaY int) error {
	_, err := h.page.Context(ctx).Eval(`(deltaY) => {
		const scroller = document.querySelector('#jmuse-scroller-component')
			|| document.querySelector('[class*="score"]');
		if (scroller) {
			scroller.scrollTop += deltaY;
		} else {
			window.scrollBy(0, deltaY);
		}
	}`, deltaY)
	if err != nil {
		return scorecap.Errorf(scorecap.EUNAVAILABLE, "scrolling page: %v", err)
	}
	return nil
}
