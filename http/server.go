// Package http provides the JSON API in front of the capture pipeline.
package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/kmazurek/scorecap"
)

// ShutdownTimeout is how long Close waits for in-flight requests.
const ShutdownTimeout = 5 * time.Second

// TaskLauncher starts background execution of a created task.
type TaskLauncher interface {
	Launch(ctx context.Context, task *scorecap.Task)
}

// LoginState persists whether an interactive login has ever completed,
// so status can be answered without starting a browser.
type LoginState interface {
	HasLogin() bool
	MarkLoggedIn() error
	ClearLogin() error
}

// Server serves the capture API. All state lives in the injected
// services; the server itself only holds the one interactive login
// session that may be open at a time.
type Server struct {
	ln     net.Listener
	server *http.Server
	router chi.Router

	// Addr is the bind address, e.g. ":8080".
	Addr string

	// Host is the only host (or parent domain) accepted in capture URLs.
	Host string

	TaskService scorecap.TaskService
	Runner      TaskLauncher
	Sessions    scorecap.SessionManager
	Login       LoginState

	Logger *slog.Logger

	mu           sync.Mutex
	loginSession scorecap.Session
}

// NewServer creates a Server with its routes registered.
func NewServer() *Server {
	s := &Server{
		Host:   scorecap.DefaultScoreHost,
		router: chi.NewRouter(),
		Logger: slog.Default(),
	}
	s.server = &http.Server{Handler: s.router}

	s.router.Use(middleware.Recoverer)

	s.router.Route("/api", func(r chi.Router) {
		r.Post("/capture", s.handleCaptureCreate)
		r.Get("/task/{taskID}", s.handleTaskByID)
		r.Get("/tasks", s.handleTaskList)
		r.Get("/download/{taskID}/{filename}", s.handleDownload)
		r.Get("/download-pdf/{taskID}", s.handleDownloadPDF)
		r.Get("/status", s.handleStatus)
		r.Post("/login/start", s.handleLoginStart)
		r.Get("/login/check", s.handleLoginCheck)
		r.Post("/login/finish", s.handleLoginFinish)
	})

	return s
}

// ServeHTTP makes the server usable directly as a handler in tests.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Open begins listening on Addr. Requests are served on a background
// goroutine until Close.
func (s *Server) Open() error {
	ln, err := net.Listen("tcp", s.Addr)
	if err != nil {
		return err
	}
	s.ln = ln

	go func() {
		if err := s.server.Serve(s.ln); err != nil && err != http.ErrServerClosed {
			s.Logger.Error("http server stopped", "err", err)
		}
	}()
	return nil
}

// Close gracefully shuts the server down and closes any login session
// left open.
func (s *Server) Close() error {
	s.mu.Lock()
	if s.loginSession != nil {
		_ = s.loginSession.Close()
		s.loginSession = nil
	}
	s.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	return s.server.Shutdown(ctx)
}

// URL returns the base URL of a listening server.
func (s *Server) URL() string {
	if s.ln == nil {
		return ""
	}
	return "http://" + s.ln.Addr().String()
}

// respondJSON writes v as a JSON body with the given status.
func (s *Server) respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.Logger.Error("response encoding failed", "err", err)
	}
}

// respondError maps a domain error onto an HTTP status and a JSON body
// carrying the user-facing message.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error) {
	code, message := scorecap.ErrorCode(err), scorecap.ErrorMessage(err)

	if code == scorecap.EINTERNAL {
		s.Logger.Error("internal error", "path", r.URL.Path, "err", err)
	}

	s.respondJSON(w, errorStatus(code), map[string]string{"error": message})
}

// errorStatus translates domain error codes to HTTP status codes.
func errorStatus(code string) int {
	switch code {
	case scorecap.EINVALID:
		return http.StatusBadRequest
	case scorecap.ENOTFOUND:
		return http.StatusNotFound
	case scorecap.ECONFLICT:
		return http.StatusConflict
	case scorecap.EUNAUTHORIZED:
		return http.StatusUnauthorized
	case scorecap.EUNAVAILABLE:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
