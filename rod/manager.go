// Package rod implements browser-backed sessions using Chrome automation.
// Sessions are bound to a persistent profile directory so cookies and
// login state survive process restarts.
package rod

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"github.com/kmazurek/scorecap"
)

// Default application locations. Overridable per Manager for tests.
const (
	DefaultBaseURL  = "https://musescore.com/"
	DefaultLoginURL = "https://musescore.com/user/login"
)

// Ensure Manager implements scorecap.SessionManager at compile time.
var _ scorecap.SessionManager = (*Manager)(nil)

// Manager launches sessions bound to a persistent profile directory.
// Only one live session may hold the profile; Start reclaims the
// profile's singleton lock files when their recorded holder is provably
// dead and fails with EUNAVAILABLE otherwise.
type Manager struct {
	// ProfileDir is the persistent browser profile directory.
	ProfileDir string

	// BaseURL is the application home, used for login-state detection.
	BaseURL string

	// LoginURL is the interactive login page.
	LoginURL string

	Logger *slog.Logger
}

// NewManager creates a Manager for the given profile directory with
// default application locations.
func NewManager(profileDir string) *Manager {
	return &Manager{
		ProfileDir: profileDir,
		BaseURL:    DefaultBaseURL,
		LoginURL:   DefaultLoginURL,
		Logger:     slog.Default(),
	}
}

// Start launches (or attaches to) the persistent profile and produces a
// ready session with an open document handle. An existing open page is
// reused when present.
func (m *Manager) Start(ctx context.Context, headless bool) (scorecap.Session, error) {
	if err := os.MkdirAll(m.ProfileDir, 0o755); err != nil {
		return nil, scorecap.Errorf(scorecap.EUNAVAILABLE, "creating profile directory: %v", err)
	}

	if err := ReclaimProfile(m.ProfileDir); err != nil {
		return nil, err
	}

	lnchr := launcher.New().
		UserDataDir(m.ProfileDir).
		Set("disable-blink-features", "AutomationControlled").
		Set("no-sandbox").
		Set("disable-setuid-sandbox").
		Set("disable-dev-shm-usage").
		Leakless(true).
		Headless(headless)
	if !headless {
		// WSL compatibility for visible windows.
		lnchr = lnchr.Set("start-maximized").Set("disable-gpu")
	}

	u, err := lnchr.Launch()
	if err != nil {
		return nil, scorecap.Errorf(scorecap.EUNAVAILABLE, "launching browser: %v", err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		lnchr.Kill() // Clean up launched process on connection failure
		return nil, scorecap.Errorf(scorecap.EUNAVAILABLE, "connecting to browser: %v", err)
	}

	page, err := readyPage(browser)
	if err != nil {
		_ = browser.Close()
		lnchr.Kill()
		return nil, err
	}

	return &Session{
		browser:  browser,
		launcher: lnchr,
		page:     page,
		baseURL:  m.BaseURL,
		loginURL: m.LoginURL,
		logger:   m.Logger,
	}, nil
}

// readyPage reuses the first open page of a persistent profile, or opens
// a new one if the profile came up empty.
func readyPage(browser *rod.Browser) (*rod.Page, error) {
	pages, err := browser.Pages()
	if err != nil {
		return nil, fmt.Errorf("listing pages: %w", err)
	}
	if len(pages) > 0 {
		return pages[0], nil
	}

	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, fmt.Errorf("creating page: %w", err)
	}
	return page, nil
}
