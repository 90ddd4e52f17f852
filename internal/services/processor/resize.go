package processor

import (
	"image"

	"github.com/disintegration/imaging"
	"github.com/phambaophuc/image-transform/internal/models"
)

// resizeImage produces exactly req.Width x req.Height using Lanczos resampling.
func (p *ImageProcessor) resizeImage(img image.Image, req models.ResizeRequest) image.Image {
	return imaging.Resize(img, req.Width, req.Height, imaging.Lanczos)
}
