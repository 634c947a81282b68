// Package slog provides logging decorators for scorecap services.
package slog

import (
	"context"
	"log/slog"

	"github.com/kmazurek/scorecap"
)

// Ensure LoggingTaskService implements scorecap.TaskService.
var _ scorecap.TaskService = (*LoggingTaskService)(nil)

// LoggingTaskService wraps a TaskService with logging of task lifecycle
// transitions. Progress updates are logged at debug level to keep the
// per-page noise out of normal output.
type LoggingTaskService struct {
	next   scorecap.TaskService
	logger *slog.Logger
}

// NewLoggingTaskService creates a new LoggingTaskService.
func NewLoggingTaskService(next scorecap.TaskService, logger *slog.Logger) *LoggingTaskService {
	return &LoggingTaskService{next: next, logger: logger}
}

// CreateTask logs the new task and delegates to the wrapped service.
func (s *LoggingTaskService) CreateTask(ctx context.Context, task *scorecap.Task) error {
	err := s.next.CreateTask(ctx, task)
	s.logger.Info("task created", "task", task.ID, "url", task.URL, "err", err)
	return err
}

// FindTaskByID delegates to the wrapped service.
func (s *LoggingTaskService) FindTaskByID(ctx context.Context, id string) (*scorecap.Task, error) {
	return s.next.FindTaskByID(ctx, id)
}

// FindTasks delegates to the wrapped service.
func (s *LoggingTaskService) FindTasks(ctx context.Context) ([]*scorecap.Task, error) {
	return s.next.FindTasks(ctx)
}

// UpdateTaskProgress logs progress and delegates to the wrapped service.
func (s *LoggingTaskService) UpdateTaskProgress(ctx context.Context, id string, current, total int) error {
	s.logger.Debug("task progress", "task", id, "current", current, "total", total)
	return s.next.UpdateTaskProgress(ctx, id, current, total)
}

// CompleteTask logs completion and delegates to the wrapped service.
func (s *LoggingTaskService) CompleteTask(ctx context.Context, id string, result *scorecap.CaptureResult) error {
	err := s.next.CompleteTask(ctx, id, result)
	s.logger.Info("task completed",
		"task", id,
		"pages", result.TotalPages,
		"output", result.OutputDir,
		"err", err,
	)
	return err
}

// FailTask logs the failure and delegates to the wrapped service.
func (s *LoggingTaskService) FailTask(ctx context.Context, id string, message string) error {
	err := s.next.FailTask(ctx, id, message)
	s.logger.Info("task failed", "task", id, "reason", message, "err", err)
	return err
}
