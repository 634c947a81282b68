package capture_test

import (
	"context"
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/kmazurek/scorecap"
	"github.com/kmazurek/scorecap/capture"
	"github.com/kmazurek/scorecap/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testSession wires a scripted page into a mock session whose fetches
// return fake SVG bytes, with selected URLs failing.
func testSession(page scorecap.Page, failURLs ...string) *mock.Session {
	failing := make(map[string]bool)
	for _, u := range failURLs {
		failing[u] = true
	}
	return &mock.Session{
		OpenFn: func(ctx context.Context, url string) (scorecap.Page, error) {
			return page, nil
		},
		FetchFn: func(ctx context.Context, url string) ([]byte, error) {
			if failing[url] {
				return nil, scorecap.Errorf(scorecap.EUNAVAILABLE, "fetching %s: status 403", url)
			}
			return []byte("<svg>" + url + "</svg>"), nil
		},
	}
}

func testCapturer(t *testing.T) *capture.Capturer {
	t.Helper()
	return &capture.Capturer{
		Discoverer: fastDiscoverer(),
		Rasterizer: &mock.Rasterizer{
			RasterizeFn: func(svg []byte, scale float64) ([]byte, error) {
				return []byte("png"), nil
			},
		},
		Fragments: &mock.FragmentRenderer{
			RenderFragmentFn: func(svg []byte) ([]byte, error) {
				return []byte("%PDF fragment"), nil
			},
		},
		Merger: &mock.Merger{
			MergeFn: func(fragmentPaths []string, outputPath string) error {
				return os.WriteFile(outputPath, []byte("%PDF merged"), 0o644)
			},
		},
		OutputDir: t.TempDir(),
	}
}

func TestCapturer_CaptureScore(t *testing.T) {
	t.Parallel()

	// Three pages become discoverable over two scroll iterations.
	page := newScriptedPage(1, 3)
	session := testSession(page)
	c := testCapturer(t)

	var events []capture.ProgressEvent
	result, err := c.CaptureScore(context.Background(), session, "https://musescore.com/user/1/scores/2", func(event capture.ProgressEvent) {
		events = append(events, event)
	})

	require.NoError(t, err)
	assert.Equal(t, "Test Score", result.Title)
	assert.Equal(t, 3, result.TotalPages)
	require.Len(t, result.Pages, 3)
	for i, artifact := range result.Pages {
		assert.Equal(t, i+1, artifact.Page)
		assert.FileExists(t, artifact.SVGPath)
		assert.FileExists(t, artifact.PNGPath)
		assert.FileExists(t, artifact.PDFPath)
		assert.NotEmpty(t, artifact.Checksum)
	}
	require.NotEmpty(t, result.PDFPath)
	assert.FileExists(t, result.PDFPath)
	assert.True(t, strings.HasSuffix(result.PDFPath, "_complete.pdf"))

	// Progress is monotonic and reaches 100%.
	last := 0
	for _, event := range events {
		assert.GreaterOrEqual(t, event.Completed, last)
		last = event.Completed
	}
	final := events[len(events)-1]
	assert.Equal(t, capture.ProgressFinished, final.Type)
	assert.Equal(t, final.Total, final.Completed)
}

func TestCapturer_CaptureScore_SecondFetchFails(t *testing.T) {
	t.Parallel()

	page := newScriptedPage(1, 3)
	session := testSession(page, "https://cdn.example.com/scoredata/score_2.svg")
	c := testCapturer(t)

	var merged []string
	c.Merger = &mock.Merger{
		MergeFn: func(fragmentPaths []string, outputPath string) error {
			merged = fragmentPaths
			return os.WriteFile(outputPath, []byte("%PDF merged"), 0o644)
		},
	}

	var events []capture.ProgressEvent
	result, err := c.CaptureScore(context.Background(), session, "https://musescore.com/user/1/scores/2", func(event capture.ProgressEvent) {
		events = append(events, event)
	})

	require.NoError(t, err)
	assert.Equal(t, 2, result.TotalPages)
	require.Len(t, result.Pages, 2)
	// Failed page 2 keeps pages 1 and 3 at their sorted positions.
	assert.Equal(t, 1, result.Pages[0].Page)
	assert.Equal(t, 3, result.Pages[1].Page)

	// No fragment for page 2 contributes to the merge.
	require.Len(t, merged, 2)
	assert.Contains(t, merged[0], "page_1.pdf")
	assert.Contains(t, merged[1], "page_3.pdf")

	// Progress still reaches 100% despite the failure.
	final := events[len(events)-1]
	assert.Equal(t, final.Total, final.Completed)
}

func TestCapturer_CaptureScore_AllFetchesFail(t *testing.T) {
	t.Parallel()

	page := newScriptedPage(1, 2)
	session := testSession(page,
		"https://cdn.example.com/scoredata/score_1.svg",
		"https://cdn.example.com/scoredata/score_2.svg",
	)
	c := testCapturer(t)

	_, err := c.CaptureScore(context.Background(), session, "https://musescore.com/user/1/scores/2", nil)

	require.Error(t, err)
	assert.Equal(t, scorecap.EUNAVAILABLE, scorecap.ErrorCode(err))
}

func TestCapturer_CaptureScore_NoMetadata(t *testing.T) {
	t.Parallel()

	page := &mock.Page{
		HTMLFn: func(ctx context.Context) (string, error) {
			return `<html><body><h1>Locked Score</h1></body></html>`, nil
		},
	}
	session := testSession(page)
	c := testCapturer(t)

	_, err := c.CaptureScore(context.Background(), session, "https://musescore.com/user/1/scores/2", nil)

	require.Error(t, err)
	assert.Equal(t, scorecap.EUNAUTHORIZED, scorecap.ErrorCode(err))
}

func TestCapturer_CaptureScore_ConversionFailuresAreIndependent(t *testing.T) {
	t.Parallel()

	page := newScriptedPage(1, 1)
	session := testSession(page)
	c := testCapturer(t)
	c.Rasterizer = &mock.Rasterizer{
		RasterizeFn: func(svg []byte, scale float64) ([]byte, error) {
			return nil, scorecap.Errorf(scorecap.EINTERNAL, "raster exploded")
		},
	}

	result, err := c.CaptureScore(context.Background(), session, "https://musescore.com/user/1/scores/2", nil)

	require.NoError(t, err)
	require.Len(t, result.Pages, 1)
	// Raster failed, but the raw vector and the fragment survived.
	assert.Empty(t, result.Pages[0].PNGPath)
	assert.FileExists(t, result.Pages[0].SVGPath)
	assert.FileExists(t, result.Pages[0].PDFPath)
}

func TestCapturer_CaptureScore_ParallelFetchPreservesOrder(t *testing.T) {
	t.Parallel()

	page := newScriptedPage(1, 5)
	session := testSession(page)
	c := testCapturer(t)
	c.Concurrency = 3

	result, err := c.CaptureScore(context.Background(), session, "https://musescore.com/user/1/scores/2", nil)

	require.NoError(t, err)
	require.Len(t, result.Pages, 5)
	for i, artifact := range result.Pages {
		assert.Equal(t, i+1, artifact.Page)
		assert.True(t, strings.HasSuffix(artifact.SVGPath, fmt.Sprintf("page_%d.svg", i+1)))
	}
}
