package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"os"
	"path/filepath"

	"github.com/go-chi/chi/v5"

	"github.com/kmazurek/scorecap"
)

// handleCaptureCreate validates the submitted URL, registers a task and
// launches its capture in the background.
func (s *Server) handleCaptureCreate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		URL string `json:"url"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, r, scorecap.Errorf(scorecap.EINVALID, "invalid JSON body"))
		return
	}
	if err := scorecap.ValidateScoreURL(req.URL, s.Host); err != nil {
		s.respondError(w, r, err)
		return
	}

	task := &scorecap.Task{URL: req.URL}
	if err := s.TaskService.CreateTask(r.Context(), task); err != nil {
		s.respondError(w, r, err)
		return
	}

	// The capture outlives this request, so it must not inherit the
	// request context.
	s.Runner.Launch(context.WithoutCancel(r.Context()), task)

	s.respondJSON(w, http.StatusAccepted, map[string]string{
		"task_id": task.ID,
		"status":  task.Status,
	})
}

func (s *Server) handleTaskByID(w http.ResponseWriter, r *http.Request) {
	task, err := s.TaskService.FindTaskByID(r.Context(), chi.URLParam(r, "taskID"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, task)
}

func (s *Server) handleTaskList(w http.ResponseWriter, r *http.Request) {
	tasks, err := s.TaskService.FindTasks(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]any{"tasks": tasks})
}

// handleDownload serves one artifact file from a completed task's output
// directory.
func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	result, err := s.completedResult(r, chi.URLParam(r, "taskID"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	filename, unescapeErr := url.PathUnescape(chi.URLParam(r, "filename"))
	if unescapeErr != nil || filename != filepath.Base(filename) || filename == "." || filename == ".." {
		s.respondError(w, r, scorecap.Errorf(scorecap.EINVALID, "invalid filename %q", filename))
		return
	}

	s.serveArtifact(w, r, filepath.Join(result.OutputDir, filename), filename)
}

// handleDownloadPDF serves a completed task's merged PDF.
func (s *Server) handleDownloadPDF(w http.ResponseWriter, r *http.Request) {
	result, err := s.completedResult(r, chi.URLParam(r, "taskID"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	if result.PDFPath == "" {
		s.respondError(w, r, scorecap.Errorf(scorecap.ENOTFOUND, "merged PDF not available"))
		return
	}

	s.serveArtifact(w, r, result.PDFPath, filepath.Base(result.PDFPath))
}

// completedResult loads a task and requires it to be completed.
func (s *Server) completedResult(r *http.Request, taskID string) (*scorecap.CaptureResult, error) {
	task, err := s.TaskService.FindTaskByID(r.Context(), taskID)
	if err != nil {
		return nil, err
	}
	if task.Status != scorecap.TaskCompleted || task.Result == nil {
		return nil, scorecap.Errorf(scorecap.ENOTFOUND, "task %q has no downloadable result", taskID)
	}
	return task.Result, nil
}

func (s *Server) serveArtifact(w http.ResponseWriter, r *http.Request, path, filename string) {
	if _, err := os.Stat(path); err != nil {
		s.respondError(w, r, scorecap.Errorf(scorecap.ENOTFOUND, "file %q not found", filename))
		return
	}
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	http.ServeFile(w, r, path)
}
