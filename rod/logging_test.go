package rod_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/kmazurek/scorecap"
	"github.com/kmazurek/scorecap/mock"
	"github.com/kmazurek/scorecap/rod"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggingSession_LogsOperations(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	inner := &mock.Session{
		OpenFn: func(ctx context.Context, url string) (scorecap.Page, error) {
			return &mock.Page{}, nil
		},
		FetchFn: func(ctx context.Context, url string) ([]byte, error) {
			return []byte("<svg/>"), nil
		},
		IsLoggedInFn: func(ctx context.Context) (bool, error) {
			return true, nil
		},
	}
	s := rod.NewLoggingSession(inner, logger)

	_, err := s.Open(context.Background(), "https://musescore.com/s/1")
	require.NoError(t, err)
	body, err := s.Fetch(context.Background(), "https://musescore.com/score_1.svg")
	require.NoError(t, err)
	require.Equal(t, []byte("<svg/>"), body)
	loggedIn, err := s.IsLoggedIn(context.Background())
	require.NoError(t, err)
	require.True(t, loggedIn)

	out := buf.String()
	assert.Contains(t, out, "msg=open")
	assert.Contains(t, out, "https://musescore.com/s/1")
	assert.Contains(t, out, "msg=fetch")
	assert.Contains(t, out, "bytes=6")
	assert.Contains(t, out, "login check")
	assert.Contains(t, out, "logged_in=true")
}

func TestLoggingSession_DelegatesClose(t *testing.T) {
	t.Parallel()

	closed := false
	inner := &mock.Session{CloseFn: func() error { closed = true; return nil }}
	s := rod.NewLoggingSession(inner, slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)))

	require.NoError(t, s.Close())
	assert.True(t, closed)
}

func TestLoggingSessionManager(t *testing.T) {
	t.Parallel()

	t.Run("wraps started sessions", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))

		inner := &mock.Session{
			FetchFn: func(ctx context.Context, url string) ([]byte, error) {
				return []byte("<svg/>"), nil
			},
		}
		manager := rod.NewLoggingSessionManager(&mock.SessionManager{
			StartFn: func(ctx context.Context, headless bool) (scorecap.Session, error) {
				return inner, nil
			},
		}, logger)

		session, err := manager.Start(context.Background(), true)
		require.NoError(t, err)

		_, err = session.Fetch(context.Background(), "https://musescore.com/score_1.svg")
		require.NoError(t, err)
		assert.Contains(t, buf.String(), "msg=fetch")
	})

	t.Run("start failure passes through", func(t *testing.T) {
		t.Parallel()

		manager := rod.NewLoggingSessionManager(&mock.SessionManager{
			StartFn: func(ctx context.Context, headless bool) (scorecap.Session, error) {
				return nil, scorecap.Errorf(scorecap.EUNAVAILABLE, "profile is locked")
			},
		}, slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)))

		_, err := manager.Start(context.Background(), true)

		require.Error(t, err)
		assert.Equal(t, scorecap.EUNAVAILABLE, scorecap.ErrorCode(err))
	})
}
