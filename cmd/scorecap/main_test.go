package main_test

import (
	"bytes"
	"context"
	"testing"

	main "github.com/kmazurek/scorecap/cmd/scorecap"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun_NoCommand(t *testing.T) {
	t.Parallel()

	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
	m := main.NewMain()

	err := m.Run(context.Background(), nil, stdout, stderr)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "no command specified")
	assert.Contains(t, stdout.String(), "serve")
}

func TestRun_Help(t *testing.T) {
	t.Parallel()

	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
	m := main.NewMain()

	err := m.Run(context.Background(), []string{"--help"}, stdout, stderr)

	require.NoError(t, err)
	assert.Contains(t, stdout.String(), "capture")
	assert.Contains(t, stdout.String(), "login")
}

func TestRun_UnknownCommand(t *testing.T) {
	t.Parallel()

	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
	m := main.NewMain()

	err := m.Run(context.Background(), []string{"frobnicate"}, stdout, stderr)

	assert.Error(t, err)
}

func TestRun_CaptureRejectsForeignHost(t *testing.T) {
	t.Parallel()

	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
	m := main.NewMain()
	m.ProfileDir = t.TempDir()
	m.OutputDir = t.TempDir()

	err := m.Run(context.Background(), []string{"capture", "https://example.com/scores/1"}, stdout, stderr)

	require.Error(t, err)
	assert.Contains(t, stderr.String(), "musescore.com")
}

func TestRun_ServeStopsOnContextCancel(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
	m := main.NewMain()
	m.ProfileDir = t.TempDir()
	m.OutputDir = t.TempDir()

	err := m.Run(ctx, []string{"serve", "--addr", "127.0.0.1:0"}, stdout, stderr)

	require.NoError(t, err)
	assert.Contains(t, stdout.String(), "listening on")
	assert.Contains(t, stdout.String(), "shutting down")
}
