// Package pdfcpu merges single-page PDF fragments into one document.
package pdfcpu

import (
	"os"

	"github.com/pdfcpu/pdfcpu/pkg/api"

	"github.com/kmazurek/scorecap"
)

// Ensure Merger implements scorecap.Merger at compile time.
var _ scorecap.Merger = (*Merger)(nil)

// Merger concatenates PDF fragments in list order.
type Merger struct{}

// NewMerger creates a new Merger.
func NewMerger() *Merger {
	return &Merger{}
}

// Merge concatenates the fragment files into one PDF at outputPath.
// Fragment paths missing on disk are skipped; the upstream failure was
// already logged when the fragment failed to convert. Returns ENOTFOUND
// when no fragment exists at all.
func (m *Merger) Merge(fragmentPaths []string, outputPath string) error {
	existing := make([]string, 0, len(fragmentPaths))
	for _, path := range fragmentPaths {
		if _, err := os.Stat(path); err == nil {
			existing = append(existing, path)
		}
	}

	if len(existing) == 0 {
		return scorecap.Errorf(scorecap.ENOTFOUND, "no fragments to merge")
	}

	if err := api.MergeCreateFile(existing, outputPath, false, nil); err != nil {
		return scorecap.Errorf(scorecap.EINTERNAL, "merging %d fragments: %v", len(existing), err)
	}
	return nil
}
