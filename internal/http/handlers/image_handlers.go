package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/phambaophuc/image-transform/internal/config"
	"github.com/phambaophuc/image-transform/internal/models"
	"github.com/phambaophuc/image-transform/internal/services/worker"
)

// Transformer is the blocking transform engine.
type Transformer interface {
	Process(input models.TransformInput) (models.TransformOutput, error)
}

type ImageHandler struct {
	processor Transformer
	pool      *worker.Pool
	logger    *zap.Logger
	config    *config.Config
}

func NewImageHandler(
	processor Transformer,
	pool *worker.Pool,
	logger *zap.Logger,
	config *config.Config,
) *ImageHandler {
	return &ImageHandler{
		processor: processor,
		pool:      pool,
		logger:    logger,
		config:    config,
	}
}

// === MAIN API ENDPOINTS ===

// ResizeImage resizes the "image" field to width x height (default 800x600).
func (h *ImageHandler) ResizeImage(c *gin.Context) {
	form, err := readMultipartForm(c.Request, h.logger, widthParamKey, heightParamKey)
	if err != nil {
		h.respondError(c, err)
		return
	}

	h.processAndRespond(c, models.TransformInput{
		Data: form.image,
		Operation: models.ResizeRequest{
			Width:  form.number(widthParamKey, h.config.Processor.DefaultWidth),
			Height: form.number(heightParamKey, h.config.Processor.DefaultHeight),
		},
	})
}

// CropImage cuts the x, y, width, height rectangle out of the "image" field.
// All four coordinates are required.
func (h *ImageHandler) CropImage(c *gin.Context) {
	form, err := readMultipartForm(c.Request, h.logger, xParamKey, yParamKey, widthParamKey, heightParamKey)
	if err != nil {
		h.respondError(c, err)
		return
	}

	req, err := parseCropRequest(form)
	if err != nil {
		h.respondError(c, err)
		return
	}

	h.processAndRespond(c, models.TransformInput{Data: form.image, Operation: req})
}

func (h *ImageHandler) ImageDimensions(c *gin.Context) {
	form, err := readMultipartForm(c.Request, h.logger)
	if err != nil {
		h.respondError(c, err)
		return
	}

	out, err := h.transform(c, models.TransformInput{Data: form.image, Operation: models.DimensionsRequest{}})
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.DimensionsResponse{
		Width:    out.Width,
		Height:   out.Height,
		MIMEType: out.MIMEType,
	})
}

func (h *ImageHandler) Liveness(c *gin.Context) {
	c.String(http.StatusOK, "ok")
}

func (h *ImageHandler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, models.HealthCheck{
		Status:    "healthy",
		Timestamp: time.Now(),
		Workers: models.WorkerPool{
			Size:     h.pool.Size(),
			InFlight: h.pool.InFlight(),
		},
	})
}
