// Package mem provides in-memory service implementations. Task records
// intentionally do not survive process restarts.
package mem

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/kmazurek/scorecap"
)

// Ensure TaskService implements scorecap.TaskService at compile time.
var _ scorecap.TaskService = (*TaskService)(nil)

// TaskService stores tasks in memory. Reads return copies, so pollers
// never share memory with the goroutine mutating a running task.
type TaskService struct {
	mu    sync.RWMutex
	tasks map[string]*scorecap.Task
	order []string

	// Now returns the current time. Overridable in tests.
	Now func() time.Time
}

// NewTaskService creates an empty TaskService.
func NewTaskService() *TaskService {
	return &TaskService{
		tasks: make(map[string]*scorecap.Task),
		Now:   time.Now,
	}
}

// CreateTask registers a task, assigning an ID and creation timestamp.
func (s *TaskService) CreateTask(ctx context.Context, task *scorecap.Task) error {
	if err := task.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if task.ID == "" {
		task.ID = uuid.NewString()
	}
	if _, ok := s.tasks[task.ID]; ok {
		return scorecap.Errorf(scorecap.ECONFLICT, "task %q already exists", task.ID)
	}

	task.Status = scorecap.TaskPending
	task.CreatedAt = s.Now()

	stored := *task
	s.tasks[task.ID] = &stored
	s.order = append(s.order, task.ID)
	return nil
}

// FindTaskByID returns a copy of the task.
func (s *TaskService) FindTaskByID(ctx context.Context, id string) (*scorecap.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	task, ok := s.tasks[id]
	if !ok {
		return nil, scorecap.Errorf(scorecap.ENOTFOUND, "task %q not found", id)
	}
	copied := *task
	return &copied, nil
}

// FindTasks returns copies of all tasks in insertion order.
func (s *TaskService) FindTasks(ctx context.Context) ([]*scorecap.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tasks := make([]*scorecap.Task, 0, len(s.order))
	for _, id := range s.order {
		copied := *s.tasks[id]
		tasks = append(tasks, &copied)
	}
	return tasks, nil
}

// UpdateTaskProgress records progress and flips a pending task to
// running on its first update.
func (s *TaskService) UpdateTaskProgress(ctx context.Context, id string, current, total int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	task, ok := s.tasks[id]
	if !ok {
		return scorecap.Errorf(scorecap.ENOTFOUND, "task %q not found", id)
	}
	if task.Status == scorecap.TaskCompleted || task.Status == scorecap.TaskError {
		return scorecap.Errorf(scorecap.ECONFLICT, "task %q already finished", id)
	}

	task.Status = scorecap.TaskRunning
	task.CurrentPage = current
	task.TotalPages = total
	if total > 0 {
		task.Progress = current * 100 / total
	}
	return nil
}

// CompleteTask transitions the task to completed with its result.
func (s *TaskService) CompleteTask(ctx context.Context, id string, result *scorecap.CaptureResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	task, ok := s.tasks[id]
	if !ok {
		return scorecap.Errorf(scorecap.ENOTFOUND, "task %q not found", id)
	}

	task.Status = scorecap.TaskCompleted
	task.Result = result
	task.Progress = 100
	return nil
}

// FailTask transitions the task to error with a human-readable message.
func (s *TaskService) FailTask(ctx context.Context, id string, message string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	task, ok := s.tasks[id]
	if !ok {
		return scorecap.Errorf(scorecap.ENOTFOUND, "task %q not found", id)
	}

	task.Status = scorecap.TaskError
	task.Error = message
	return nil
}
