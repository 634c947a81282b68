package capture

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/kmazurek/scorecap"
)

// Runner executes capture tasks in the background. Each task gets its
// own goroutine and its own fresh Session; sharing one session across
// concurrent captures would corrupt its navigation state.
type Runner struct {
	Sessions scorecap.SessionManager
	Tasks    scorecap.TaskService
	Capturer ScoreCapturer

	// Headless controls the browser mode for task sessions.
	Headless bool

	Logger *slog.Logger
}

// Launch starts the capture for a created task and returns immediately.
// The task always reaches a terminal status: any error, including a
// panic in the pipeline, lands in the task's error field so pollers
// never observe a stuck running task.
func (r *Runner) Launch(ctx context.Context, task *scorecap.Task) {
	go r.run(ctx, task.ID, task.URL)
}

func (r *Runner) run(ctx context.Context, taskID, url string) {
	logger := r.Logger
	if logger == nil {
		logger = slog.Default()
	}

	defer func() {
		if p := recover(); p != nil {
			logger.Error("capture panicked", "task", taskID, "panic", p)
			_ = r.Tasks.FailTask(ctx, taskID, fmt.Sprintf("internal error: %v", p))
		}
	}()

	// Flip the task to running before any slow work.
	if err := r.Tasks.UpdateTaskProgress(ctx, taskID, 0, 0); err != nil {
		logger.Error("task not updatable", "task", taskID, "err", err)
		return
	}

	session, err := r.Sessions.Start(ctx, r.Headless)
	if err != nil {
		_ = r.Tasks.FailTask(ctx, taskID, scorecap.ErrorMessage(err))
		return
	}
	defer session.Close()

	result, err := r.Capturer.CaptureScore(ctx, session, url, func(event ProgressEvent) {
		if event.Total == 0 {
			return
		}
		_ = r.Tasks.UpdateTaskProgress(ctx, taskID, event.Completed, event.Total)
	})
	if err != nil {
		_ = r.Tasks.FailTask(ctx, taskID, scorecap.ErrorMessage(err))
		return
	}

	_ = r.Tasks.CompleteTask(ctx, taskID, result)
}
