package rod

import (
	"context"
	"log/slog"
	"time"

	"github.com/kmazurek/scorecap"
)

// Ensure LoggingSession implements scorecap.Session.
var _ scorecap.Session = (*LoggingSession)(nil)

// LoggingSession wraps a Session with debug logging.
type LoggingSession struct {
	next   scorecap.Session
	logger *slog.Logger
}

// NewLoggingSession creates a new LoggingSession.
func NewLoggingSession(next scorecap.Session, logger *slog.Logger) *LoggingSession {
	return &LoggingSession{next: next, logger: logger}
}

// Open logs the navigation target and delegates to the wrapped session.
func (s *LoggingSession) Open(ctx context.Context, url string) (page scorecap.Page, err error) {
	defer func(begin time.Time) {
		s.logger.Info("open",
			"url", url,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Open(ctx, url)
}

// Fetch logs the resource download and delegates to the wrapped session.
func (s *LoggingSession) Fetch(ctx context.Context, url string) (body []byte, err error) {
	defer func(begin time.Time) {
		s.logger.Info("fetch",
			"url", url,
			"bytes", len(body),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Fetch(ctx, url)
}

// IsLoggedIn delegates to the wrapped session and logs the outcome.
func (s *LoggingSession) IsLoggedIn(ctx context.Context) (ok bool, err error) {
	defer func(begin time.Time) {
		s.logger.Info("login check",
			"logged_in", ok,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.IsLoggedIn(ctx)
}

// BeginInteractiveLogin delegates to the wrapped session.
func (s *LoggingSession) BeginInteractiveLogin(ctx context.Context) error {
	return s.next.BeginInteractiveLogin(ctx)
}

// CurrentURL delegates to the wrapped session.
func (s *LoggingSession) CurrentURL(ctx context.Context) (string, error) {
	return s.next.CurrentURL(ctx)
}

// Close delegates to the wrapped session.
func (s *LoggingSession) Close() error {
	return s.next.Close()
}

// Ensure LoggingSessionManager implements scorecap.SessionManager.
var _ scorecap.SessionManager = (*LoggingSessionManager)(nil)

// LoggingSessionManager wraps a SessionManager so every session it
// starts logs its operations.
type LoggingSessionManager struct {
	next   scorecap.SessionManager
	logger *slog.Logger
}

// NewLoggingSessionManager creates a new LoggingSessionManager.
func NewLoggingSessionManager(next scorecap.SessionManager, logger *slog.Logger) *LoggingSessionManager {
	return &LoggingSessionManager{next: next, logger: logger}
}

// Start starts a session and wraps it in a LoggingSession.
func (m *LoggingSessionManager) Start(ctx context.Context, headless bool) (scorecap.Session, error) {
	session, err := m.next.Start(ctx, headless)
	if err != nil {
		return nil, err
	}
	return NewLoggingSession(session, m.logger), nil
}
