package capture

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/cespare/xxhash/v2"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/kmazurek/scorecap"
	"github.com/kmazurek/scorecap/goquery"
)

// ProgressEvent reports progress during a capture run.
type ProgressEvent struct {
	Type      ProgressType
	Completed int
	Total     int
	URL       string
	Error     error
}

// ProgressType indicates the type of progress event.
type ProgressType int

const (
	ProgressStarted ProgressType = iota
	ProgressCompleted
	ProgressFailed
	ProgressFinished
)

// ProgressFunc is a callback for reporting capture progress. Events are
// emitted from a single goroutine; Completed is monotonically
// non-decreasing and reaches Total even when individual pages fail.
type ProgressFunc func(event ProgressEvent)

// ScoreCapturer runs one capture end to end.
type ScoreCapturer interface {
	CaptureScore(ctx context.Context, session scorecap.Session, url string, progress ProgressFunc) (*scorecap.CaptureResult, error)
}

// Ensure Capturer implements ScoreCapturer at compile time.
var _ ScoreCapturer = (*Capturer)(nil)

// Capturer orchestrates one score capture: metadata extraction, resource
// discovery, ordered fetch and conversion, and the final merge.
type Capturer struct {
	Discoverer *Discoverer
	Rasterizer scorecap.Rasterizer
	Fragments  scorecap.FragmentRenderer
	Merger     scorecap.Merger

	// OutputDir is the parent under which each capture gets its own
	// timestamped directory.
	OutputDir string

	// Scale is the raster upscale factor; zero means the rasterizer's
	// default (2x).
	Scale float64

	// Concurrency bounds parallel resource fetches. Zero or one means
	// sequential. Recorded page order always matches sorted locator
	// order regardless.
	Concurrency int

	// Limiter paces resource downloads when set.
	Limiter *rate.Limiter

	Logger *slog.Logger
}

// pageResult holds the outcome of processing a single locator.
type pageResult struct {
	position int
	url      string
	artifact scorecap.PageArtifact
	err      error
}

// CaptureScore captures all pages of the score at url through the given
// session. Per-page failures are logged and skipped; the run fails only
// when metadata, discovery, or every single page fails.
func (c *Capturer) CaptureScore(ctx context.Context, session scorecap.Session, url string, progress ProgressFunc) (*scorecap.CaptureResult, error) {
	logger := c.logger()

	page, err := session.Open(ctx, url)
	if err != nil {
		return nil, err
	}

	html, err := page.HTML(ctx)
	if err != nil {
		return nil, err
	}
	info, err := goquery.ExtractScoreInfo(html)
	if err != nil {
		return nil, err
	}
	if info.PageCount <= 0 {
		return nil, scorecap.Errorf(scorecap.EUNAUTHORIZED,
			"no page count found for %s; the session may lack permission to view the full score", url)
	}

	capturedAt := time.Now()
	outputDir := filepath.Join(c.OutputDir, OutputDirName(info.Title, capturedAt))
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, scorecap.Errorf(scorecap.EINTERNAL, "creating output directory: %v", err)
	}

	locators, err := c.discoverer().Discover(ctx, page, info.PageCount)
	if err != nil {
		return nil, err
	}
	if len(locators) == 0 {
		return nil, scorecap.Errorf(scorecap.ENOTFOUND,
			"no resources found for %s after exhausting the scroll budget", url)
	}

	total := len(locators)
	if progress != nil {
		progress(ProgressEvent{Type: ProgressStarted, Total: total})
	}

	// Workers write position-indexed results; the collector goroutine
	// below is the only emitter of progress events, so Completed is
	// monotonic and event order matches completion order.
	concurrency := c.Concurrency
	if concurrency <= 0 {
		concurrency = 1
	}
	resultCh := make(chan pageResult, total)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	go func() {
		for i, locator := range locators {
			i, locator := i, locator
			g.Go(func() error {
				resultCh <- c.processLocator(gctx, session, locator, i, outputDir)
				return nil
			})
		}
		_ = g.Wait()
		close(resultCh)
	}()

	results := make([]pageResult, total)
	completed := 0
	for result := range resultCh {
		completed++
		results[result.position] = result

		event := ProgressEvent{
			Type:      ProgressCompleted,
			Completed: completed,
			Total:     total,
			URL:       result.url,
		}
		if result.err != nil {
			event.Type = ProgressFailed
			event.Error = result.err
			logger.Warn("page capture failed", "url", result.url, "err", result.err)
		}
		if progress != nil {
			progress(event)
		}
	}

	var artifacts []scorecap.PageArtifact
	var fragments []string
	for _, result := range results {
		if result.err != nil {
			continue
		}
		artifacts = append(artifacts, result.artifact)
		if result.artifact.PDFPath != "" {
			fragments = append(fragments, result.artifact.PDFPath)
		}
	}

	if progress != nil {
		progress(ProgressEvent{Type: ProgressFinished, Completed: total, Total: total})
	}

	if len(artifacts) == 0 {
		return nil, scorecap.Errorf(scorecap.EUNAVAILABLE, "no pages could be captured for %s", url)
	}

	mergedPath := ""
	if len(fragments) > 0 {
		mergedPath = filepath.Join(outputDir, SafeTitle(info.Title)+"_complete.pdf")
		if err := c.Merger.Merge(fragments, mergedPath); err != nil {
			logger.Warn("merge failed", "fragments", len(fragments), "err", err)
			mergedPath = ""
		}
	}

	return &scorecap.CaptureResult{
		Title:      info.Title,
		Composer:   info.Composer,
		SourceURL:  url,
		TotalPages: len(artifacts),
		OutputDir:  outputDir,
		Pages:      artifacts,
		PDFPath:    mergedPath,
		CapturedAt: capturedAt,
	}, nil
}

// processLocator fetches one resource and derives its representations.
// The raster and fragment conversions are attempted independently; a
// failure of one is logged without discarding the other.
func (c *Capturer) processLocator(ctx context.Context, session scorecap.Session, locator scorecap.ResourceLocator, position int, outputDir string) pageResult {
	logger := c.logger()
	result := pageResult{position: position, url: locator.URL}

	if c.Limiter != nil {
		if err := c.Limiter.Wait(ctx); err != nil {
			result.err = err
			return result
		}
	}

	svg, err := session.Fetch(ctx, locator.URL)
	if err != nil {
		result.err = err
		return result
	}

	// Artifact file names use the 1-based sorted position, not the
	// parsed index token, which may have gaps.
	n := position + 1
	svgPath := filepath.Join(outputDir, fmt.Sprintf("page_%d.svg", n))
	if err := os.WriteFile(svgPath, svg, 0o644); err != nil {
		result.err = scorecap.Errorf(scorecap.EINTERNAL, "writing page %d: %v", n, err)
		return result
	}

	artifact := scorecap.PageArtifact{
		Page:     n,
		SVGPath:  svgPath,
		Checksum: fmt.Sprintf("%x", xxhash.Sum64(svg)),
	}

	if raster, err := c.Rasterizer.Rasterize(svg, c.Scale); err != nil {
		logger.Warn("rasterization failed", "page", n, "err", err)
	} else {
		pngPath := filepath.Join(outputDir, fmt.Sprintf("page_%d.png", n))
		if err := os.WriteFile(pngPath, raster, 0o644); err != nil {
			logger.Warn("writing raster failed", "page", n, "err", err)
		} else {
			artifact.PNGPath = pngPath
		}
	}

	if fragment, err := c.Fragments.RenderFragment(svg); err != nil {
		logger.Warn("fragment rendering failed", "page", n, "err", err)
	} else {
		pdfPath := filepath.Join(outputDir, fmt.Sprintf("page_%d.pdf", n))
		if err := os.WriteFile(pdfPath, fragment, 0o644); err != nil {
			logger.Warn("writing fragment failed", "page", n, "err", err)
		} else {
			artifact.PDFPath = pdfPath
		}
	}

	result.artifact = artifact
	return result
}

func (c *Capturer) discoverer() *Discoverer {
	if c.Discoverer == nil {
		return NewDiscoverer()
	}
	return c.Discoverer
}

func (c *Capturer) logger() *slog.Logger {
	if c.Logger == nil {
		return slog.Default()
	}
	return c.Logger
}
