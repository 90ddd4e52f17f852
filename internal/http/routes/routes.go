package routes

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/phambaophuc/image-transform/internal/config"
	"github.com/phambaophuc/image-transform/internal/http/handlers"
	"github.com/phambaophuc/image-transform/internal/http/middleware"
	"github.com/phambaophuc/image-transform/internal/metrics"
)

type Router struct {
	imageHandler *handlers.ImageHandler
	metrics      *metrics.Metrics
	config       *config.Config
	logger       *zap.Logger
}

func NewRouter(
	imageHandler *handlers.ImageHandler,
	metrics *metrics.Metrics,
	config *config.Config,
	logger *zap.Logger,
) *Router {
	return &Router{
		imageHandler: imageHandler,
		metrics:      metrics,
		config:       config,
		logger:       logger,
	}
}

func (r *Router) SetupRoutes() *gin.Engine {
	router := gin.New()

	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(r.logger))
	router.Use(middleware.ErrorHandler(r.logger))
	router.Use(middleware.Metrics(r.metrics))
	router.Use(middleware.CORS(r.config.CORS.AllowedOrigins))
	router.Use(middleware.SecurityHeaders())

	router.GET("/", r.imageHandler.Liveness)
	router.GET("/health", r.imageHandler.HealthCheck)
	router.GET("/metrics", gin.WrapH(r.metrics.Handler()))

	images := router.Group("/image")
	images.Use(middleware.BodyLimit(r.config.Server.MaxBodyBytes))
	images.Use(middleware.ValidateContentType())
	{
		images.POST("/resize", r.imageHandler.ResizeImage)
		images.POST("/crop", r.imageHandler.CropImage)
		images.POST("/dimensions", r.imageHandler.ImageDimensions)
	}

	return router
}
