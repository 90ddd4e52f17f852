package processor

import (
	"image"

	"github.com/disintegration/imaging"
	"github.com/phambaophuc/image-transform/internal/models"
)

// cropImage never clamps: a rectangle that leaves the source has already been
// rejected by validateCrop.
func (p *ImageProcessor) cropImage(img image.Image, req models.CropRequest) image.Image {
	rect := image.Rect(req.X, req.Y, req.X+req.Width, req.Y+req.Height).Add(img.Bounds().Min)
	return imaging.Crop(img, rect)
}
