package main

import (
	"context"
	"io"
	"log/slog"

	"github.com/kmazurek/scorecap"
	"github.com/kmazurek/scorecap/capture"
	scorecaphttp "github.com/kmazurek/scorecap/http"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx    context.Context
	Stdout io.Writer
	Stderr io.Writer
	Stdin  io.Reader
	Logger *slog.Logger

	Sessions scorecap.SessionManager
	Tasks    scorecap.TaskService
	Capturer *capture.Capturer
	Login    scorecaphttp.LoginState
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Debug bool `help:"Enable debug logging, including per-session browser operations"`

	Serve   ServeCmd   `cmd:"" help:"Run the capture API server"`
	Capture CaptureCmd `cmd:"" help:"Capture one score directly"`
	Login   LoginCmd   `cmd:"" help:"Log in interactively and persist the session"`
}

// ServeCmd is the "serve" subcommand.
type ServeCmd struct {
	Addr        string  `default:":8080" help:"Listen address"`
	Headless    bool    `default:"true" negatable:"" help:"Run capture browsers headless"`
	Concurrency int     `short:"c" default:"1" help:"Concurrent page fetch limit"`
	Rate        float64 `default:"2" help:"Max resource fetches per second (0 disables pacing)"`
}

// CaptureCmd is the "capture" subcommand.
type CaptureCmd struct {
	URL         string  `arg:"" help:"Score page URL"`
	Headless    bool    `default:"true" negatable:"" help:"Run the browser headless"`
	Concurrency int     `short:"c" default:"1" help:"Concurrent page fetch limit"`
	Rate        float64 `default:"2" help:"Max resource fetches per second (0 disables pacing)"`
}

// LoginCmd is the "login" subcommand.
type LoginCmd struct{}
