package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apperrors "github.com/phambaophuc/image-transform/internal/errors"
	"github.com/phambaophuc/image-transform/internal/http/middleware"
	"github.com/phambaophuc/image-transform/internal/models"
	"github.com/phambaophuc/image-transform/internal/services/worker"
)

// nginx's code for a client that went away before the response
const statusClientClosedRequest = 499

// === REQUEST PARSING ===

func parseCropRequest(form *multipartForm) (models.CropRequest, error) {
	var req models.CropRequest
	for _, field := range []struct {
		name string
		dst  *int
	}{
		{xParamKey, &req.X},
		{yParamKey, &req.Y},
		{widthParamKey, &req.Width},
		{heightParamKey, &req.Height},
	} {
		v, err := form.requiredNumber(field.name)
		if err != nil {
			return models.CropRequest{}, err
		}
		*field.dst = v
	}
	return req, nil
}

// === PROCESSING LOGIC ===

// transform runs the engine on the worker pool and waits for it.
func (h *ImageHandler) transform(c *gin.Context, input models.TransformInput) (models.TransformOutput, error) {
	return worker.Run(c.Request.Context(), h.pool, input.Operation.Name(), func() (models.TransformOutput, error) {
		return h.processor.Process(input)
	})
}

func (h *ImageHandler) processAndRespond(c *gin.Context, input models.TransformInput) {
	out, err := h.transform(c, input)
	if err != nil {
		h.respondError(c, err)
		return
	}

	h.logger.Debug("Image transformed",
		zap.String("request_id", c.GetString(middleware.RequestIDKey)),
		zap.String("operation", input.Operation.Name()),
		zap.String("mime_type", out.MIMEType),
		zap.Int("input_bytes", len(input.Data)),
		zap.Int("output_bytes", len(out.Data)),
	)

	c.Header("X-Image-Width", strconv.Itoa(out.Width))
	c.Header("X-Image-Height", strconv.Itoa(out.Height))
	c.Data(http.StatusOK, out.MIMEType, out.Data)
}

// === RESPONSE HANDLING ===

func statusFor(err error) int {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return statusClientClosedRequest
	}

	switch apperrors.KindOf(err) {
	case apperrors.KindMissingImageData,
		apperrors.KindFieldRead,
		apperrors.KindInvalidParameter,
		apperrors.KindInvalidGeometry:
		return http.StatusBadRequest
	case apperrors.KindPayloadTooLarge:
		return http.StatusRequestEntityTooLarge
	case apperrors.KindUnsupportedFormat, apperrors.KindDecode:
		return http.StatusUnsupportedMediaType
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes the status only; error responses carry no body.
func (h *ImageHandler) respondError(c *gin.Context, err error) {
	status := statusFor(err)
	fields := []zap.Field{
		zap.String("request_id", c.GetString(middleware.RequestIDKey)),
		zap.String("path", c.FullPath()),
		zap.String("kind", string(apperrors.KindOf(err))),
		zap.Int("status", status),
		zap.Error(err),
	}

	switch {
	case status == statusClientClosedRequest:
		h.logger.Info("Client went away before the transform finished", fields...)
	case status >= http.StatusInternalServerError:
		h.logger.Error("Image request failed", fields...)
	default:
		h.logger.Warn("Image request rejected", fields...)
	}

	c.AbortWithStatus(status)
}
