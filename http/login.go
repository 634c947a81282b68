package http

import (
	"context"
	"net/http"
	"strings"

	"github.com/kmazurek/scorecap"
)

// handleStatus reports login state without touching the browser.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	inProgress := s.loginSession != nil
	s.mu.Unlock()

	s.respondJSON(w, http.StatusOK, map[string]any{
		"logged_in":         s.Login.HasLogin(),
		"login_in_progress": inProgress,
	})
}

// handleLoginStart opens a visible browser on the login page. Only one
// interactive login may be open at a time.
func (s *Server) handleLoginStart(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.loginSession != nil {
		s.respondError(w, r, scorecap.Errorf(scorecap.ECONFLICT, "login already in progress"))
		return
	}

	// The browser stays open after this request returns.
	session, err := s.Sessions.Start(context.WithoutCancel(r.Context()), false)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	if err := session.BeginInteractiveLogin(r.Context()); err != nil {
		_ = session.Close()
		s.respondError(w, r, err)
		return
	}

	s.loginSession = session
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "started"})
}

// handleLoginCheck inspects the open login session.
func (s *Server) handleLoginCheck(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	session := s.loginSession
	s.mu.Unlock()

	if session == nil {
		s.respondError(w, r, scorecap.Errorf(scorecap.EINVALID, "no login in progress"))
		return
	}

	currentURL, err := session.CurrentURL(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	loggedIn, err := session.IsLoggedIn(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]any{
		"logged_in":   loggedIn,
		"current_url": currentURL,
	})
}

// handleLoginFinish closes the login browser and records the outcome.
// Still sitting on a login page counts as not logged in.
func (s *Server) handleLoginFinish(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	session := s.loginSession
	s.loginSession = nil
	s.mu.Unlock()

	if session == nil {
		s.respondError(w, r, scorecap.Errorf(scorecap.EINVALID, "no login in progress"))
		return
	}

	currentURL, urlErr := session.CurrentURL(r.Context())
	if err := session.Close(); err != nil {
		s.Logger.Error("login session close failed", "err", err)
	}

	loggedIn := urlErr == nil && currentURL != "" && !strings.Contains(currentURL, "login")
	if loggedIn {
		if err := s.Login.MarkLoggedIn(); err != nil {
			s.respondError(w, r, err)
			return
		}
	} else {
		if err := s.Login.ClearLogin(); err != nil {
			s.respondError(w, r, err)
			return
		}
	}

	s.respondJSON(w, http.StatusOK, map[string]any{"logged_in": loggedIn})
}
