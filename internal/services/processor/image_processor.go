package processor

import (
	"bytes"
	"image"

	"github.com/phambaophuc/image-transform/internal/models"
)

const (
	DefaultJPEGQuality    = 90
	DefaultMaxDimension   = 16384
	DefaultMaxInputPixels = 64 << 20 // 8192x8192
)

type Options struct {
	JPEGQuality int
	// MaxDimension caps the requested output edge. Zero disables the check.
	MaxDimension int
	// MaxInputPixels caps the declared width*height of an upload before it is
	// decoded. Zero disables the check.
	MaxInputPixels int64
}

func DefaultOptions() Options {
	return Options{
		JPEGQuality:    DefaultJPEGQuality,
		MaxDimension:   DefaultMaxDimension,
		MaxInputPixels: DefaultMaxInputPixels,
	}
}

// ImageProcessor is the synchronous transform engine. It holds no per-request
// state and is safe for concurrent use.
type ImageProcessor struct {
	opts Options
}

func NewImageProcessor(opts Options) *ImageProcessor {
	if opts.JPEGQuality < 1 || opts.JPEGQuality > 100 {
		opts.JPEGQuality = DefaultJPEGQuality
	}
	return &ImageProcessor{opts: opts}
}

// Process detects the input format, decodes, applies the operation and
// re-encodes in the detected format. It blocks for the whole computation.
// Everything that can be checked from the header is checked before decoding.
func (p *ImageProcessor) Process(input models.TransformInput) (models.TransformOutput, error) {
	format, cfg, err := DetectFormat(input.Data)
	if err != nil {
		return models.TransformOutput{}, err
	}

	if err := p.validateOperation(format, cfg, input.Operation); err != nil {
		return models.TransformOutput{}, err
	}

	img, err := decodeImage(input.Data)
	if err != nil {
		return models.TransformOutput{}, err
	}

	var out image.Image
	switch op := input.Operation.(type) {
	case models.DimensionsRequest:
		bounds := img.Bounds()
		return models.TransformOutput{
			MIMEType: format.MIMEType(),
			Width:    bounds.Dx(),
			Height:   bounds.Dy(),
		}, nil
	case models.ResizeRequest:
		out = p.resizeImage(img, op)
	case models.CropRequest:
		out = p.cropImage(img, op)
	}

	buffer := &bytes.Buffer{}
	if err := p.encodeImage(buffer, out, format); err != nil {
		return models.TransformOutput{}, err
	}

	bounds := out.Bounds()
	return models.TransformOutput{
		Data:     buffer.Bytes(),
		MIMEType: format.MIMEType(),
		Width:    bounds.Dx(),
		Height:   bounds.Dy(),
	}, nil
}
