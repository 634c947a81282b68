package mock

import (
	"context"

	"github.com/kmazurek/scorecap"
)

var _ scorecap.SessionManager = (*SessionManager)(nil)

// SessionManager is a mock implementation of scorecap.SessionManager.
type SessionManager struct {
	StartFn func(ctx context.Context, headless bool) (scorecap.Session, error)
}

func (m *SessionManager) Start(ctx context.Context, headless bool) (scorecap.Session, error) {
	return m.StartFn(ctx, headless)
}

var _ scorecap.Session = (*Session)(nil)

// Session is a mock implementation of scorecap.Session.
type Session struct {
	OpenFn                  func(ctx context.Context, url string) (scorecap.Page, error)
	FetchFn                 func(ctx context.Context, url string) ([]byte, error)
	IsLoggedInFn            func(ctx context.Context) (bool, error)
	BeginInteractiveLoginFn func(ctx context.Context) error
	CurrentURLFn            func(ctx context.Context) (string, error)
	CloseFn                 func() error
}

func (s *Session) Open(ctx context.Context, url string) (scorecap.Page, error) {
	return s.OpenFn(ctx, url)
}

func (s *Session) Fetch(ctx context.Context, url string) ([]byte, error) {
	return s.FetchFn(ctx, url)
}

func (s *Session) IsLoggedIn(ctx context.Context) (bool, error) {
	return s.IsLoggedInFn(ctx)
}

func (s *Session) BeginInteractiveLogin(ctx context.Context) error {
	return s.BeginInteractiveLoginFn(ctx)
}

func (s *Session) CurrentURL(ctx context.Context) (string, error) {
	return s.CurrentURLFn(ctx)
}

func (s *Session) Close() error {
	if s.CloseFn == nil {
		return nil
	}
	return s.CloseFn()
}

var _ scorecap.Page = (*Page)(nil)

// Page is a mock implementation of scorecap.Page.
type Page struct {
	HTMLFn   func(ctx context.Context) (string, error)
	ScrollFn func(ctx context.Context, deltaY int) error
}

func (p *Page) HTML(ctx context.Context) (string, error) {
	return p.HTMLFn(ctx)
}

func (p *Page) Scroll(ctx context.Context, deltaY int) error {
	if p.ScrollFn == nil {
		return nil
	}
	return p.ScrollFn(ctx, deltaY)
}
