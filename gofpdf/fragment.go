// Package gofpdf renders single-page PDF fragments from SVG score pages.
package gofpdf

import (
	"bytes"
	"image/png"

	"github.com/jung-kurt/gofpdf"

	"github.com/kmazurek/scorecap"
)

// fragmentScale is the internal raster oversampling used when rendering
// a fragment. The page itself keeps the SVG's intrinsic size.
const fragmentScale = 2.0

// Ensure Renderer implements scorecap.FragmentRenderer at compile time.
var _ scorecap.FragmentRenderer = (*Renderer)(nil)

// Renderer converts SVG bytes into a single-page PDF fragment. It
// rasterizes independently of the orchestrator's raster step, so a
// raster failure never takes the fragment down with it (and vice versa).
type Renderer struct {
	rasterizer scorecap.Rasterizer
}

// NewRenderer creates a Renderer backed by the given rasterizer.
func NewRenderer(rasterizer scorecap.Rasterizer) *Renderer {
	return &Renderer{rasterizer: rasterizer}
}

// RenderFragment renders the SVG to a one-page PDF sized to the page's
// intrinsic dimensions.
func (r *Renderer) RenderFragment(svg []byte) ([]byte, error) {
	raster, err := r.rasterizer.Rasterize(svg, fragmentScale)
	if err != nil {
		return nil, err
	}

	cfg, err := png.DecodeConfig(bytes.NewReader(raster))
	if err != nil {
		return nil, scorecap.Errorf(scorecap.EINTERNAL, "decoding raster: %v", err)
	}

	// Page size in points at the SVG's intrinsic scale.
	wd := float64(cfg.Width) / fragmentScale
	ht := float64(cfg.Height) / fragmentScale

	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		UnitStr: "pt",
		Size:    gofpdf.SizeType{Wd: wd, Ht: ht},
	})
	pdf.AddPage()

	opt := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("page", opt, bytes.NewReader(raster))
	pdf.ImageOptions("page", 0, 0, wd, ht, false, opt, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, scorecap.Errorf(scorecap.EINTERNAL, "writing PDF fragment: %v", err)
	}
	return buf.Bytes(), nil
}
