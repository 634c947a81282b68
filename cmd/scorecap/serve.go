package main

import (
	"fmt"

	"golang.org/x/time/rate"

	"github.com/kmazurek/scorecap/capture"
	scorecaphttp "github.com/kmazurek/scorecap/http"
)

// Run executes the serve command. It blocks until the context is
// canceled, typically by SIGINT or SIGTERM.
func (c *ServeCmd) Run(deps *Dependencies) error {
	deps.Capturer.Concurrency = c.Concurrency
	if c.Rate > 0 {
		deps.Capturer.Limiter = rate.NewLimiter(rate.Limit(c.Rate), 1)
	}

	runner := &capture.Runner{
		Sessions: deps.Sessions,
		Tasks:    deps.Tasks,
		Capturer: deps.Capturer,
		Headless: c.Headless,
		Logger:   deps.Logger,
	}

	server := scorecaphttp.NewServer()
	server.Addr = c.Addr
	server.TaskService = deps.Tasks
	server.Runner = runner
	server.Sessions = deps.Sessions
	server.Login = deps.Login
	server.Logger = deps.Logger

	if err := server.Open(); err != nil {
		return fmt.Errorf("failed to listen on %q: %w", c.Addr, err)
	}
	defer server.Close()

	fmt.Fprintf(deps.Stdout, "scorecap listening on %s\n", server.URL())

	<-deps.Ctx.Done()
	fmt.Fprintln(deps.Stdout, "shutting down")
	return nil
}
