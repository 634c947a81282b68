package oksvg_test

import (
	"bytes"
	"image/png"
	"testing"

	"github.com/kmazurek/scorecap/oksvg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSVG = `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 100 140">
	<rect x="10" y="10" width="80" height="120" fill="black"/>
</svg>`

// No viewBox; dimensions only as attributes with a unit suffix.
const attrOnlySVG = `<svg xmlns="http://www.w3.org/2000/svg" width="50px" height="70px">
	<circle cx="25" cy="35" r="20" fill="black"/>
</svg>`

func TestRasterizer_Rasterize(t *testing.T) {
	t.Parallel()

	r := oksvg.NewRasterizer()

	out, err := r.Rasterize([]byte(testSVG), 2)

	require.NoError(t, err)
	img, err := png.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, 200, img.Bounds().Dx())
	assert.Equal(t, 280, img.Bounds().Dy())
}

func TestRasterizer_Rasterize_DefaultScale(t *testing.T) {
	t.Parallel()

	r := oksvg.NewRasterizer()

	out, err := r.Rasterize([]byte(testSVG), 0)

	require.NoError(t, err)
	img, err := png.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, 200, img.Bounds().Dx())
}

func TestRasterizer_Rasterize_AttributeDimensions(t *testing.T) {
	t.Parallel()

	r := oksvg.NewRasterizer()

	out, err := r.Rasterize([]byte(attrOnlySVG), 1)

	require.NoError(t, err)
	img, err := png.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, 50, img.Bounds().Dx())
	assert.Equal(t, 70, img.Bounds().Dy())
}

func TestRasterizer_Rasterize_InvalidSVG(t *testing.T) {
	t.Parallel()

	r := oksvg.NewRasterizer()

	_, err := r.Rasterize([]byte("this is not svg"), 2)

	require.Error(t, err)
}
