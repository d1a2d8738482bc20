package videoshelf

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"golang.org/x/image/draw"

	"github.com/eringen/videoshelf/views"
)

const (
	maxImageWidth = 800
	jpegQuality   = 80
)

// processImage decodes an image from src, resizes it down to maxImageWidth
// if wider, and encodes it as JPEG.
func processImage(src io.Reader) (width, height int, data []byte, err error) {
	img, _, err := image.Decode(src)
	if err != nil {
		return 0, 0, nil, fmt.Errorf("decode image: %w", err)
	}

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	if w > maxImageWidth {
		newH := h * maxImageWidth / w
		dst := image.NewRGBA(image.Rect(0, 0, maxImageWidth, newH))
		draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
		img = dst
		w = maxImageWidth
		h = newH
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return 0, 0, nil, fmt.Errorf("encode jpeg: %w", err)
	}
	return w, h, buf.Bytes(), nil
}

// slugifyFilename converts a filename to a URL-safe slug with a .jpg extension.
func slugifyFilename(name string) string {
	ext := filepath.Ext(name)
	base := Slugify(strings.TrimSuffix(filepath.Base(name), ext))
	if base == "" {
		base = "image"
	}
	return base + ".jpg"
}

// prepareHeaderImage reads the page header image from staticDir and returns
// the reference the page should render plus the processed JPEG bytes.
func prepareHeaderImage(staticDir string, ref views.ImageRef) (views.ImageRef, []byte, error) {
	if ref.Src == "" {
		return ref, nil, nil
	}
	f, err := os.Open(filepath.Join(staticDir, filepath.FromSlash(ref.Src)))
	if err != nil {
		return ref, nil, err
	}
	defer f.Close()

	w, h, data, err := processImage(f)
	if err != nil {
		return ref, nil, fmt.Errorf("header image %s: %w", ref.Src, err)
	}
	out := ref
	out.Src = slugifyFilename(ref.Src)
	if dir := path.Dir(ref.Src); dir != "." {
		out.Src = path.Join(dir, out.Src)
	}
	out.Width = w
	out.Height = h
	return out, data, nil
}
