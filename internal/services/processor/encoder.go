package processor

import (
	"fmt"
	"image"
	"io"

	"github.com/disintegration/imaging"

	apperrors "github.com/phambaophuc/image-transform/internal/errors"
)

func (p *ImageProcessor) encodeImage(w io.Writer, img image.Image, format Format) error {
	info, ok := formats[format]
	if !ok || !info.encodable {
		return apperrors.New(apperrors.KindUnsupportedFormat, "encode", fmt.Errorf("no encoder for %q", format))
	}

	if err := imaging.Encode(w, img, info.encoder, imaging.JPEGQuality(p.opts.JPEGQuality)); err != nil {
		return apperrors.New(apperrors.KindEncode, "encode", err)
	}
	return nil
}
