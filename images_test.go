package videoshelf

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eringen/videoshelf/views"
)

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestProcessImageResizesWide(t *testing.T) {
	w, h, data, err := processImage(bytes.NewReader(encodePNG(t, 1600, 400)))
	require.NoError(t, err)
	assert.Equal(t, maxImageWidth, w)
	assert.Equal(t, 200, h)

	cfg, err := jpeg.DecodeConfig(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 800, cfg.Width)
	assert.Equal(t, 200, cfg.Height)
}

func TestProcessImageKeepsSmall(t *testing.T) {
	w, h, data, err := processImage(bytes.NewReader(encodePNG(t, 320, 180)))
	require.NoError(t, err)
	assert.Equal(t, 320, w)
	assert.Equal(t, 180, h)
	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, "jpeg", format)
}

func TestProcessImageInvalid(t *testing.T) {
	_, _, _, err := processImage(strings.NewReader("not an image"))
	assert.ErrorContains(t, err, "decode image")
}

func TestSlugifyFilename(t *testing.T) {
	assert.Equal(t, "my-header-photo.jpg", slugifyFilename("My Header Photo.PNG"))
	assert.Equal(t, "image.jpg", slugifyFilename("!!!.gif"))
}

func TestPrepareHeaderImage(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "img"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "img", "Stage Shot.png"), encodePNG(t, 1000, 500), 0o644))

	ref, data, err := prepareHeaderImage(dir, views.ImageRef{Src: "img/Stage Shot.png", Alt: "Stage"})
	require.NoError(t, err)
	assert.Equal(t, views.ImageRef{Src: "img/stage-shot.jpg", Alt: "Stage", Width: 800, Height: 400}, ref)
	assert.NotEmpty(t, data)
}

func TestPrepareHeaderImageMissing(t *testing.T) {
	in := views.ImageRef{Src: "nope.jpg", Alt: "x"}
	ref, data, err := prepareHeaderImage(t.TempDir(), in)
	assert.Error(t, err)
	assert.Nil(t, data)
	assert.Equal(t, in, ref)

	ref, data, err = prepareHeaderImage(t.TempDir(), views.ImageRef{})
	assert.NoError(t, err)
	assert.Nil(t, data)
	assert.Equal(t, views.ImageRef{}, ref)
}
