package mock

import (
	"context"

	"github.com/kmazurek/scorecap"
)

var _ scorecap.TaskService = (*TaskService)(nil)

// TaskService is a mock implementation of scorecap.TaskService.
type TaskService struct {
	CreateTaskFn         func(ctx context.Context, task *scorecap.Task) error
	FindTaskByIDFn       func(ctx context.Context, id string) (*scorecap.Task, error)
	FindTasksFn          func(ctx context.Context) ([]*scorecap.Task, error)
	UpdateTaskProgressFn func(ctx context.Context, id string, current, total int) error
	CompleteTaskFn       func(ctx context.Context, id string, result *scorecap.CaptureResult) error
	FailTaskFn           func(ctx context.Context, id string, message string) error
}

func (s *TaskService) CreateTask(ctx context.Context, task *scorecap.Task) error {
	return s.CreateTaskFn(ctx, task)
}

func (s *TaskService) FindTaskByID(ctx context.Context, id string) (*scorecap.Task, error) {
	return s.FindTaskByIDFn(ctx, id)
}

func (s *TaskService) FindTasks(ctx context.Context) ([]*scorecap.Task, error) {
	return s.FindTasksFn(ctx)
}

func (s *TaskService) UpdateTaskProgress(ctx context.Context, id string, current, total int) error {
	return s.UpdateTaskProgressFn(ctx, id, current, total)
}

func (s *TaskService) CompleteTask(ctx context.Context, id string, result *scorecap.CaptureResult) error {
	return s.CompleteTaskFn(ctx, id, result)
}

func (s *TaskService) FailTask(ctx context.Context, id string, message string) error {
	return s.FailTaskFn(ctx, id, message)
}
