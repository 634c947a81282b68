package main

import (
	"fmt"

	"golang.org/x/time/rate"

	"github.com/kmazurek/scorecap"
	"github.com/kmazurek/scorecap/capture"
)

// Run executes the capture command: one score, synchronously, with
// progress printed to stdout.
func (c *CaptureCmd) Run(deps *Dependencies) error {
	if err := scorecap.ValidateScoreURL(c.URL, scorecap.DefaultScoreHost); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", scorecap.ErrorMessage(err))
		return err
	}

	deps.Capturer.Concurrency = c.Concurrency
	if c.Rate > 0 {
		deps.Capturer.Limiter = rate.NewLimiter(rate.Limit(c.Rate), 1)
	}

	session, err := deps.Sessions.Start(deps.Ctx, c.Headless)
	if err != nil {
		fmt.Fprintln(deps.Stderr, "Hint: Chrome or Chromium must be installed")
		return fmt.Errorf("failed to start browser: %w", err)
	}
	defer session.Close()

	result, err := deps.Capturer.CaptureScore(deps.Ctx, session, c.URL, func(event capture.ProgressEvent) {
		switch event.Type {
		case capture.ProgressStarted:
			fmt.Fprintf(deps.Stdout, "capturing %d pages\n", event.Total)
		case capture.ProgressCompleted:
			fmt.Fprintf(deps.Stdout, "  %d/%d done\n", event.Completed, event.Total)
		case capture.ProgressFailed:
			fmt.Fprintf(deps.Stdout, "  %d/%d failed: %s\n", event.Completed, event.Total, event.URL)
		}
	})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", scorecap.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "captured %q (%d pages) to %s\n", result.Title, result.TotalPages, result.OutputDir)
	if result.PDFPath != "" {
		fmt.Fprintf(deps.Stdout, "merged PDF: %s\n", result.PDFPath)
	}
	return nil
}
