package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/kmazurek/scorecap/capture"
	"github.com/kmazurek/scorecap/gofpdf"
	"github.com/kmazurek/scorecap/mem"
	"github.com/kmazurek/scorecap/oksvg"
	"github.com/kmazurek/scorecap/pdfcpu"
	"github.com/kmazurek/scorecap/rod"
	scorecapslog "github.com/kmazurek/scorecap/slog"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// ProfileDir holds the persistent browser profile. Set before
	// calling Run().
	ProfileDir string

	// OutputDir is the parent directory for captured scores.
	OutputDir string
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		ProfileDir: defaultProfileDir(),
		OutputDir:  defaultOutputDir(),
	}
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
		Stdin:  os.Stdin,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("scorecap"),
		kong.Description("Capture sheet music scores as SVG, PNG and PDF."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'scorecap --help' to see available commands")
	}

	cmd := args[0]
	if cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	level := slog.LevelInfo
	if cli.Debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
	deps.Logger = logger

	// Wire core services into dependencies.
	manager := rod.NewManager(m.ProfileDir)
	manager.Logger = logger
	deps.Sessions = manager
	if cli.Debug {
		deps.Sessions = rod.NewLoggingSessionManager(manager, logger)
	}
	deps.Tasks = scorecapslog.NewLoggingTaskService(mem.NewTaskService(), logger)
	deps.Login = rod.Profile{Dir: m.ProfileDir}

	rasterizer := oksvg.NewRasterizer()
	deps.Capturer = &capture.Capturer{
		Discoverer: capture.NewDiscoverer(),
		Rasterizer: rasterizer,
		Fragments:  gofpdf.NewRenderer(rasterizer),
		Merger:     pdfcpu.NewMerger(),
		OutputDir:  m.OutputDir,
		Logger:     logger,
	}

	return kongCtx.Run(deps)
}

func defaultProfileDir() string {
	if path := os.Getenv("SCORECAP_PROFILE"); path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".scorecap-profile"
	}
	return filepath.Join(home, ".scorecap", "profile")
}

func defaultOutputDir() string {
	if path := os.Getenv("SCORECAP_OUTPUT"); path != "" {
		return path
	}
	return "captures"
}
