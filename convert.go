package scorecap

// Rasterizer converts raw vector bytes into a raster image.
type Rasterizer interface {
	// Rasterize renders SVG bytes to PNG bytes, scaling dimensions by
	// the given factor.
	Rasterize(svg []byte, scale float64) ([]byte, error)
}

// FragmentRenderer converts raw vector bytes into a single-page PDF
// fragment suitable for merging.
type FragmentRenderer interface {
	RenderFragment(svg []byte) ([]byte, error)
}

// Merger concatenates single-page PDF fragments into one document.
// Implementations skip fragment paths missing on disk (an upstream
// failure already logged) rather than failing the whole merge, and
// return ENOTFOUND when no fragment exists at all.
type Merger interface {
	Merge(fragmentPaths []string, outputPath string) error
}
