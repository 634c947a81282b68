package scorecap

import (
	"context"
	"net/url"
	"strings"
	"time"
)

// Task statuses. A task moves pending → running → completed|error and
// never leaves a terminal status.
const (
	TaskPending   = "pending"
	TaskRunning   = "running"
	TaskCompleted = "completed"
	TaskError     = "error"
)

// Task is one capture request as seen by pollers. Owned by the task
// registry; mutated only through the registry by the goroutine executing
// the capture.
type Task struct {
	ID     string `json:"id"`
	URL    string `json:"url"`
	Status string `json:"status"`

	// Percent complete, 0-100.
	Progress    int `json:"progress"`
	CurrentPage int `json:"currentPage"`
	TotalPages  int `json:"totalPages"`

	Result *CaptureResult `json:"result"`
	Error  string         `json:"error,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
}

// Validate returns an error if the task contains invalid fields.
func (t *Task) Validate() error {
	if t.URL == "" {
		return Errorf(EINVALID, "task URL required")
	}
	return nil
}

// DefaultScoreHost is the host capture URLs must point at unless
// configured otherwise.
const DefaultScoreHost = "musescore.com"

// ValidateScoreURL reports whether rawURL points at the given host (or a
// subdomain of it). Capture requests for other hosts are rejected.
func ValidateScoreURL(rawURL, host string) error {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return Errorf(EINVALID, "invalid score URL %q", rawURL)
	}
	if u.Host != host && !strings.HasSuffix(u.Host, "."+host) {
		return Errorf(EINVALID, "score URL must be on %s", host)
	}
	return nil
}

// TaskService stores mutable task records and makes them pollable.
// Each task's fields are written only by the execution context driving
// that task; reads return copies so pollers never race with the writer.
type TaskService interface {
	// CreateTask registers a new task, assigning an ID if empty.
	CreateTask(ctx context.Context, task *Task) error

	// FindTaskByID retrieves a task by ID.
	// Returns ENOTFOUND if task does not exist.
	FindTaskByID(ctx context.Context, id string) (*Task, error)

	// FindTasks retrieves all known tasks in insertion order.
	FindTasks(ctx context.Context) ([]*Task, error)

	// UpdateTaskProgress records progress on a running task.
	UpdateTaskProgress(ctx context.Context, id string, current, total int) error

	// CompleteTask transitions a task to completed with its result.
	CompleteTask(ctx context.Context, id string, result *CaptureResult) error

	// FailTask transitions a task to error with a human-readable message.
	FailTask(ctx context.Context, id string, message string) error
}
