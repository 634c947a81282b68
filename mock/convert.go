package mock

import "github.com/kmazurek/scorecap"

var _ scorecap.Rasterizer = (*Rasterizer)(nil)

// Rasterizer is a mock implementation of scorecap.Rasterizer.
type Rasterizer struct {
	RasterizeFn func(svg []byte, scale float64) ([]byte, error)
}

func (r *Rasterizer) Rasterize(svg []byte, scale float64) ([]byte, error) {
	return r.RasterizeFn(svg, scale)
}

var _ scorecap.FragmentRenderer = (*FragmentRenderer)(nil)

// FragmentRenderer is a mock implementation of scorecap.FragmentRenderer.
type FragmentRenderer struct {
	RenderFragmentFn func(svg []byte) ([]byte, error)
}

func (r *FragmentRenderer) RenderFragment(svg []byte) ([]byte, error) {
	return r.RenderFragmentFn(svg)
}

var _ scorecap.Merger = (*Merger)(nil)

// Merger is a mock implementation of scorecap.Merger.
type Merger struct {
	MergeFn func(fragmentPaths []string, outputPath string) error
}

func (m *Merger) Merge(fragmentPaths []string, outputPath string) error {
	return m.MergeFn(fragmentPaths, outputPath)
}
