package processor

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	apperrors "github.com/phambaophuc/image-transform/internal/errors"
)

// Format is the container format detected from an upload's leading bytes.
type Format string

const (
	FormatJPEG Format = "jpeg"
	FormatPNG  Format = "png"
	FormatGIF  Format = "gif"
	FormatBMP  Format = "bmp"
	FormatTIFF Format = "tiff"
	FormatWebP Format = "webp"
)

type formatInfo struct {
	mimeType string
	encoder  imaging.Format
	// webp has a decoder in x/image but no encoder
	encodable bool
}

var formats = map[Format]formatInfo{
	FormatJPEG: {mimeType: "image/jpeg", encoder: imaging.JPEG, encodable: true},
	FormatPNG:  {mimeType: "image/png", encoder: imaging.PNG, encodable: true},
	FormatGIF:  {mimeType: "image/gif", encoder: imaging.GIF, encodable: true},
	FormatBMP:  {mimeType: "image/bmp", encoder: imaging.BMP, encodable: true},
	FormatTIFF: {mimeType: "image/tiff", encoder: imaging.TIFF, encodable: true},
	FormatWebP: {mimeType: "image/webp"},
}

func (f Format) MIMEType() string {
	return formats[f].mimeType
}

// Encodable reports whether images of this format can be written back out.
func (f Format) Encodable() bool {
	return formats[f].encodable
}

// DetectFormat classifies data by signature using the registered decoders.
// Only the header is parsed, pixels are not decoded.
func DetectFormat(data []byte) (Format, image.Config, error) {
	if len(data) == 0 {
		return "", image.Config{}, apperrors.New(apperrors.KindUnsupportedFormat, "detect", errors.New("empty image data"))
	}

	cfg, name, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		if errors.Is(err, image.ErrFormat) {
			return "", image.Config{}, apperrors.New(apperrors.KindUnsupportedFormat, "detect", err)
		}
		// the signature matched a decoder but its header is broken
		return "", image.Config{}, apperrors.New(apperrors.KindDecode, "detect", err)
	}

	format := Format(name)
	if _, ok := formats[format]; !ok {
		return "", image.Config{}, apperrors.New(apperrors.KindUnsupportedFormat, "detect", fmt.Errorf("format %q is not supported", name))
	}

	return format, cfg, nil
}

func decodeImage(data []byte) (image.Image, error) {
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, apperrors.New(apperrors.KindDecode, "decode", err)
	}
	return img, nil
}
