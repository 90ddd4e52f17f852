package processor

import (
	"bytes"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"testing"

	"golang.org/x/image/bmp"
)

func newPatternImage(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 255 / max(1, w)), G: uint8(y * 255 / max(1, h)), B: 120, A: 255})
		}
	}
	return img
}

func encodeTestImage(t *testing.T, img image.Image, format Format) []byte {
	t.Helper()

	var buf bytes.Buffer
	var err error
	switch format {
	case FormatJPEG:
		err = jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90})
	case FormatPNG:
		err = png.Encode(&buf, img)
	case FormatGIF:
		err = gif.Encode(&buf, img, nil)
	case FormatBMP:
		err = bmp.Encode(&buf, img)
	default:
		t.Fatalf("no test encoder for %s", format)
	}
	if err != nil {
		t.Fatalf("encode test %s: %v", format, err)
	}
	return buf.Bytes()
}

func newTestImage(t *testing.T, format Format, w, h int) []byte {
	t.Helper()
	return encodeTestImage(t, newPatternImage(w, h), format)
}
