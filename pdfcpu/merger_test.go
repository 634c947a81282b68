package pdfcpu_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/kmazurek/scorecap"
	sgofpdf "github.com/kmazurek/scorecap/gofpdf"
	"github.com/kmazurek/scorecap/oksvg"
	"github.com/kmazurek/scorecap/pdfcpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFragment(t *testing.T, dir, name, label string) string {
	t.Helper()

	svg := `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 100 140">
		<rect x="10" y="10" width="80" height="120" fill="black"/>
		<!-- ` + label + ` -->
	</svg>`

	r := sgofpdf.NewRenderer(oksvg.NewRasterizer())
	out, err := r.RenderFragment([]byte(svg))
	require.NoError(t, err)

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, out, 0o644))
	return path
}

func TestMerger_Merge(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	a := writeFragment(t, dir, "page_1.pdf", "a")
	b := writeFragment(t, dir, "page_2.pdf", "b")
	out := filepath.Join(dir, "complete.pdf")

	err := pdfcpu.NewMerger().Merge([]string{a, b}, out)

	require.NoError(t, err)
	merged, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(merged[:4]))
}

func TestMerger_Merge_SkipsMissingFragments(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	a := writeFragment(t, dir, "page_1.pdf", "a")
	missing := filepath.Join(dir, "page_2.pdf")
	c := writeFragment(t, dir, "page_3.pdf", "c")
	out := filepath.Join(dir, "complete.pdf")

	err := pdfcpu.NewMerger().Merge([]string{a, missing, c}, out)

	require.NoError(t, err)
	assert.FileExists(t, out)
}

func TestMerger_Merge_NoFragments(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	out := filepath.Join(dir, "complete.pdf")

	err := pdfcpu.NewMerger().Merge([]string{filepath.Join(dir, "nope.pdf")}, out)

	require.Error(t, err)
	assert.Equal(t, scorecap.ENOTFOUND, scorecap.ErrorCode(err))
	assert.NoFileExists(t, out)
}
