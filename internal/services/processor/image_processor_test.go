package processor

import (
	"bytes"
	"encoding/binary"
	"hash/crc32"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/phambaophuc/image-transform/internal/errors"
	"github.com/phambaophuc/image-transform/internal/models"
)

func newProcessor() *ImageProcessor {
	return NewImageProcessor(DefaultOptions())
}

func decodeOutput(t *testing.T, out models.TransformOutput) (image.Image, string) {
	t.Helper()
	img, name, err := image.Decode(bytes.NewReader(out.Data))
	require.NoError(t, err)
	return img, name
}

func TestProcessResizeExactDimensions(t *testing.T) {
	tests := []struct {
		name   string
		format Format
		srcW   int
		srcH   int
		width  int
		height int
	}{
		{"jpeg downscale", FormatJPEG, 200, 100, 50, 80},
		{"jpeg upscale", FormatJPEG, 20, 10, 64, 64},
		{"png downscale", FormatPNG, 300, 200, 123, 45},
		{"png single pixel", FormatPNG, 16, 16, 1, 1},
		{"gif", FormatGIF, 40, 40, 10, 20},
		{"bmp", FormatBMP, 40, 40, 30, 7},
	}

	p := newProcessor()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := p.Process(models.TransformInput{
				Data:      newTestImage(t, tt.format, tt.srcW, tt.srcH),
				Operation: models.ResizeRequest{Width: tt.width, Height: tt.height},
			})
			require.NoError(t, err)

			img, name := decodeOutput(t, out)
			assert.Equal(t, string(tt.format), name, "container format must be preserved")
			assert.Equal(t, tt.format.MIMEType(), out.MIMEType)
			assert.Equal(t, tt.width, img.Bounds().Dx())
			assert.Equal(t, tt.height, img.Bounds().Dy())
			assert.Equal(t, tt.width, out.Width)
			assert.Equal(t, tt.height, out.Height)
		})
	}
}

func TestProcessResizeRejectsDegenerateGeometry(t *testing.T) {
	p := NewImageProcessor(Options{MaxDimension: 100})
	data := newTestImage(t, FormatPNG, 10, 10)

	for _, req := range []models.ResizeRequest{
		{Width: 0, Height: 10},
		{Width: 10, Height: 0},
		{Width: 101, Height: 10},
	} {
		_, err := p.Process(models.TransformInput{Data: data, Operation: req})
		assert.True(t, apperrors.IsKind(err, apperrors.KindInvalidGeometry), "%+v: got %v", req, err)
	}
}

func TestProcessCrop(t *testing.T) {
	src := newPatternImage(100, 100)
	marker := color.RGBA{R: 1, G: 2, B: 3, A: 255}
	src.Set(10, 20, marker)

	out, err := newProcessor().Process(models.TransformInput{
		Data:      encodeTestImage(t, src, FormatPNG),
		Operation: models.CropRequest{X: 10, Y: 20, Width: 30, Height: 40},
	})
	require.NoError(t, err)
	assert.Equal(t, "image/png", out.MIMEType)

	img, _ := decodeOutput(t, out)
	assert.Equal(t, image.Rect(0, 0, 30, 40), img.Bounds())

	r, g, b, a := img.At(0, 0).RGBA()
	assert.Equal(t, []uint32{1, 2, 3, 255}, []uint32{r >> 8, g >> 8, b >> 8, a >> 8})
}

func TestProcessCropTouchingEdgeIsAllowed(t *testing.T) {
	out, err := newProcessor().Process(models.TransformInput{
		Data:      newTestImage(t, FormatPNG, 100, 100),
		Operation: models.CropRequest{X: 50, Y: 50, Width: 50, Height: 50},
	})
	require.NoError(t, err)
	assert.Equal(t, 50, out.Width)
	assert.Equal(t, 50, out.Height)
}

func TestProcessCropOutOfBoundsIsNotClamped(t *testing.T) {
	data := newTestImage(t, FormatPNG, 100, 100)

	for _, req := range []models.CropRequest{
		{X: 50, Y: 50, Width: 100, Height: 100},
		{X: 0, Y: 0, Width: 101, Height: 10},
		{X: 100, Y: 0, Width: 1, Height: 1},
		{X: 0, Y: 0, Width: 0, Height: 10},
		{X: -1, Y: 0, Width: 5, Height: 5},
	} {
		_, err := newProcessor().Process(models.TransformInput{Data: data, Operation: req})
		assert.True(t, apperrors.IsKind(err, apperrors.KindInvalidGeometry), "%+v: got %v", req, err)
	}
}

func TestProcessDimensions(t *testing.T) {
	out, err := newProcessor().Process(models.TransformInput{
		Data:      newTestImage(t, FormatJPEG, 321, 123),
		Operation: models.DimensionsRequest{},
	})
	require.NoError(t, err)

	assert.Nil(t, out.Data)
	assert.Equal(t, "image/jpeg", out.MIMEType)
	assert.Equal(t, 321, out.Width)
	assert.Equal(t, 123, out.Height)
}

func TestProcessCorruptInput(t *testing.T) {
	_, err := newProcessor().Process(models.TransformInput{
		Data:      []byte("definitely not an image, whatever the filename says"),
		Operation: models.ResizeRequest{Width: 10, Height: 10},
	})
	assert.True(t, apperrors.IsKind(err, apperrors.KindUnsupportedFormat), "got %v", err)
}

func TestProcessTruncatedInputIsDecodeError(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, newPatternImage(64, 64)))
	truncated := buf.Bytes()[:buf.Len()/2]

	_, err := newProcessor().Process(models.TransformInput{
		Data:      truncated,
		Operation: models.ResizeRequest{Width: 10, Height: 10},
	})
	assert.True(t, apperrors.IsKind(err, apperrors.KindDecode), "got %v", err)
}

func TestProcessWithoutOperation(t *testing.T) {
	_, err := newProcessor().Process(models.TransformInput{Data: newTestImage(t, FormatPNG, 4, 4)})
	assert.True(t, apperrors.IsKind(err, apperrors.KindInvalidParameter), "got %v", err)
}

func TestNewImageProcessorFixesQuality(t *testing.T) {
	p := NewImageProcessor(Options{JPEGQuality: 0})
	assert.Equal(t, DefaultJPEGQuality, p.opts.JPEGQuality)
}

// pngWithDeclaredSize rewrites the IHDR of a tiny PNG so its header claims
// w x h while the pixel data stays tiny.
func pngWithDeclaredSize(t *testing.T, w, h uint32) []byte {
	t.Helper()
	data := append([]byte(nil), newTestImage(t, FormatPNG, 2, 2)...)
	require.Equal(t, "IHDR", string(data[12:16]))

	binary.BigEndian.PutUint32(data[16:20], w)
	binary.BigEndian.PutUint32(data[20:24], h)
	binary.BigEndian.PutUint32(data[29:33], crc32.ChecksumIEEE(data[12:29]))
	return data
}

func TestProcessRejectsOversizedSourceBeforeDecoding(t *testing.T) {
	data := pngWithDeclaredSize(t, 100000, 100000)

	for _, op := range []models.Operation{
		models.ResizeRequest{Width: 10, Height: 10},
		models.CropRequest{X: 0, Y: 0, Width: 10, Height: 10},
		models.DimensionsRequest{},
	} {
		_, err := newProcessor().Process(models.TransformInput{Data: data, Operation: op})
		assert.True(t, apperrors.IsKind(err, apperrors.KindPayloadTooLarge), "%s: got %v", op.Name(), err)
	}
}

func TestProcessInputPixelLimit(t *testing.T) {
	p := NewImageProcessor(Options{MaxInputPixels: 100})

	_, err := p.Process(models.TransformInput{
		Data:      newTestImage(t, FormatPNG, 10, 11),
		Operation: models.ResizeRequest{Width: 5, Height: 5},
	})
	assert.True(t, apperrors.IsKind(err, apperrors.KindPayloadTooLarge), "got %v", err)

	out, err := p.Process(models.TransformInput{
		Data:      newTestImage(t, FormatPNG, 10, 10),
		Operation: models.ResizeRequest{Width: 5, Height: 5},
	})
	require.NoError(t, err)
	assert.Equal(t, 5, out.Width)
}

func TestProcessGeometryIsCheckedBeforeDecoding(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, newPatternImage(64, 64)))
	truncated := buf.Bytes()[:buf.Len()/2]

	for _, op := range []models.Operation{
		models.ResizeRequest{Width: 0, Height: 10},
		models.CropRequest{X: 60, Y: 0, Width: 10, Height: 10},
	} {
		_, err := newProcessor().Process(models.TransformInput{Data: truncated, Operation: op})
		assert.True(t, apperrors.IsKind(err, apperrors.KindInvalidGeometry), "%s: got %v", op.Name(), err)
	}
}
