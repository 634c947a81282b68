// Package capture provides score capture orchestration. It coordinates
// lazy-load resource discovery, authenticated fetching, conversion, and
// merging of score pages into one document.
package capture

import (
	"context"
	"sort"
	"time"

	"github.com/kmazurek/scorecap"
	"github.com/kmazurek/scorecap/goquery"
)

// Discovery defaults. The scroll step and budget mirror how far the
// source page mounts content per viewport height.
const (
	DefaultScrollStep     = 800
	DefaultExtraScrolls   = 5
	DefaultSettlePolls    = 3
	DefaultSettleInterval = 100 * time.Millisecond
)

// Discoverer collects per-page resource locators from a loaded score
// page by repeatedly scrolling the viewport to trigger lazy rendering.
type Discoverer struct {
	// ScrollStep is the per-iteration scroll increment in pixels.
	ScrollStep int

	// ExtraScrolls pads the iteration budget beyond the expected page
	// count to absorb rendering latency.
	ExtraScrolls int

	// SettlePolls bounds how many times one iteration re-extracts while
	// waiting for newly mounted content. Polling for a concrete DOM
	// condition replaces a blind sleep; keep it low in tests.
	SettlePolls int

	// SettleInterval is the pause between settle polls.
	SettleInterval time.Duration
}

// NewDiscoverer creates a Discoverer with default tuning.
func NewDiscoverer() *Discoverer {
	return &Discoverer{
		ScrollStep:     DefaultScrollStep,
		ExtraScrolls:   DefaultExtraScrolls,
		SettlePolls:    DefaultSettlePolls,
		SettleInterval: DefaultSettleInterval,
	}
}

// Discover returns the score page's resource locators, deduplicated by
// URL and sorted ascending by parsed page index. The scroll loop runs at
// most expected+ExtraScrolls iterations and stops early once expected
// locators have accumulated, so a permission-limited preview terminates
// within the budget.
//
// Returns EINVALID when expected is not positive: without a page count
// there is no bound for the scroll loop.
func (d *Discoverer) Discover(ctx context.Context, page scorecap.Page, expected int) ([]scorecap.ResourceLocator, error) {
	if expected <= 0 {
		return nil, scorecap.Errorf(scorecap.EINVALID, "no score metadata: expected page count unknown")
	}

	seen := make(map[string]struct{})
	if err := d.extract(ctx, page, seen); err != nil {
		return nil, err
	}

	budget := expected + d.extraScrolls()
	for i := 0; i < budget && len(seen) < expected; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		if err := page.Scroll(ctx, d.scrollStep()); err != nil {
			return nil, err
		}

		if err := d.settle(ctx, page, seen); err != nil {
			return nil, err
		}
	}

	locators := make([]scorecap.ResourceLocator, 0, len(seen))
	for url := range seen {
		locators = append(locators, scorecap.ResourceLocator{
			URL:   url,
			Index: goquery.PageIndex(url),
		})
	}
	sort.Slice(locators, func(i, j int) bool {
		if locators[i].Index != locators[j].Index {
			return locators[i].Index < locators[j].Index
		}
		return locators[i].URL < locators[j].URL
	})
	return locators, nil
}

// settle waits for lazily mounted content by re-extracting until the
// accumulated set grows or the poll budget is exhausted.
func (d *Discoverer) settle(ctx context.Context, page scorecap.Page, seen map[string]struct{}) error {
	before := len(seen)
	polls := d.SettlePolls
	if polls <= 0 {
		polls = DefaultSettlePolls
	}

	for i := 0; i < polls; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(d.settleInterval()):
		}

		if err := d.extract(ctx, page, seen); err != nil {
			return err
		}
		if len(seen) > before {
			return nil
		}
	}
	return nil
}

// extract unions the currently mounted locator URLs into seen.
func (d *Discoverer) extract(ctx context.Context, page scorecap.Page, seen map[string]struct{}) error {
	html, err := page.HTML(ctx)
	if err != nil {
		return err
	}
	urls, err := goquery.ExtractResourceURLs(html)
	if err != nil {
		return err
	}
	for _, u := range urls {
		seen[u] = struct{}{}
	}
	return nil
}

func (d *Discoverer) scrollStep() int {
	if d.ScrollStep <= 0 {
		return DefaultScrollStep
	}
	return d.ScrollStep
}

func (d *Discoverer) extraScrolls() int {
	if d.ExtraScrolls <= 0 {
		return DefaultExtraScrolls
	}
	return d.ExtraScrolls
}

func (d *Discoverer) settleInterval() time.Duration {
	if d.SettleInterval <= 0 {
		return DefaultSettleInterval
	}
	return d.SettleInterval
}
