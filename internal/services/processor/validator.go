package processor

import (
	"fmt"
	"image"

	apperrors "github.com/phambaophuc/image-transform/internal/errors"
	"github.com/phambaophuc/image-transform/internal/models"
)

// validateOperation rejects a request using only the decoded header, so
// nothing is allocated for pixels that would be refused anyway.
func (p *ImageProcessor) validateOperation(format Format, cfg image.Config, op models.Operation) error {
	if err := p.validateInputSize(cfg); err != nil {
		return err
	}

	switch req := op.(type) {
	case models.DimensionsRequest:
		return nil
	case models.ResizeRequest:
		if err := p.validateEncodable(format, req); err != nil {
			return err
		}
		return p.validateResize(req)
	case models.CropRequest:
		if err := p.validateEncodable(format, req); err != nil {
			return err
		}
		return p.validateCrop(image.Rect(0, 0, cfg.Width, cfg.Height), req)
	default:
		return apperrors.InvalidParameter("operation", fmt.Errorf("unsupported operation %T", op))
	}
}

func (p *ImageProcessor) validateInputSize(cfg image.Config) error {
	if p.opts.MaxInputPixels <= 0 {
		return nil
	}
	if pixels := int64(cfg.Width) * int64(cfg.Height); pixels > p.opts.MaxInputPixels {
		return apperrors.New(apperrors.KindPayloadTooLarge, "detect",
			fmt.Errorf("source %dx%d has %d pixels, limit is %d", cfg.Width, cfg.Height, pixels, p.opts.MaxInputPixels))
	}
	return nil
}

func (p *ImageProcessor) validateEncodable(format Format, op models.Operation) error {
	if !format.Encodable() {
		return apperrors.New(apperrors.KindUnsupportedFormat, op.Name(),
			fmt.Errorf("%s images can be measured but not re-encoded", format))
	}
	return nil
}

func (p *ImageProcessor) validateResize(req models.ResizeRequest) error {
	if req.Width <= 0 || req.Height <= 0 {
		return invalidGeometry("resize", "width and height must be positive, got %dx%d", req.Width, req.Height)
	}
	if p.opts.MaxDimension > 0 && (req.Width > p.opts.MaxDimension || req.Height > p.opts.MaxDimension) {
		return invalidGeometry("resize", "%dx%d exceeds the maximum dimension %d", req.Width, req.Height, p.opts.MaxDimension)
	}
	return nil
}

func (p *ImageProcessor) validateCrop(bounds image.Rectangle, req models.CropRequest) error {
	if req.Width <= 0 || req.Height <= 0 {
		return invalidGeometry("crop", "width and height must be positive, got %dx%d", req.Width, req.Height)
	}
	if req.X < 0 || req.Y < 0 {
		return invalidGeometry("crop", "origin (%d,%d) is negative", req.X, req.Y)
	}
	if req.X+req.Width > bounds.Dx() || req.Y+req.Height > bounds.Dy() {
		return invalidGeometry("crop", "rectangle (%d,%d %dx%d) exceeds source %dx%d",
			req.X, req.Y, req.Width, req.Height, bounds.Dx(), bounds.Dy())
	}
	return nil
}

func invalidGeometry(op, format string, args ...any) error {
	return apperrors.New(apperrors.KindInvalidGeometry, op, fmt.Errorf(format, args...))
}
