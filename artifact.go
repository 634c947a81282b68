package scorecap

import "time"

// PageArtifact is one captured page: the raw vector file plus the
// representations derived from it. Written once by the fetch/convert
// step and never mutated afterward. A derived path is empty when that
// conversion failed; the other representations are still kept.
type PageArtifact struct {
	// 1-based sequential position in the sorted locator list.
	Page int `json:"page"`

	SVGPath string `json:"svg"`
	PNGPath string `json:"png"`
	PDFPath string `json:"pdf"`

	// xxhash of the raw vector bytes, hex-encoded.
	Checksum string `json:"checksum"`
}

// CaptureResult is the aggregate outcome of one capture run. Immutable
// once returned.
type CaptureResult struct {
	Title     string `json:"title"`
	Composer  string `json:"composer"`
	SourceURL string `json:"sourceUrl"`

	// Pages actually captured. May be less than the count advertised by
	// the source when some resources failed.
	TotalPages int `json:"totalPages"`

	OutputDir string         `json:"outputDir"`
	Pages     []PageArtifact `json:"pages"`

	// Path of the merged multi-page document, empty when no fragment
	// survived to merge.
	PDFPath string `json:"pdfFile,omitempty"`

	CapturedAt time.Time `json:"capturedAt"`
}
