package routes

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/phambaophuc/el-inspector/internal/config"
	"github.com/phambaophuc/el-inspector/internal/http/handlers"
	"github.com/phambaophuc/el-inspector/internal/http/middleware"
	"github.com/phambaophuc/el-inspector/internal/http/web"
	"go.uber.org/zap"
)

type Router struct {
	imageHandler *handlers.ImageHandler
	config       *config.Config
	logger       *zap.Logger
}

func NewRouter(
	imageHandler *handlers.ImageHandler,
	config *config.Config,
	logger *zap.Logger,
) *Router {
	return &Router{
		imageHandler: imageHandler,
		config:       config,
		logger:       logger,
	}
}

func (r *Router) SetupRoutes() (*gin.Engine, error) {
	if r.config.Server.GinMode != "" {
		gin.SetMode(r.config.Server.GinMode)
	}

	templates, err := web.Templates()
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	router := gin.New()
	router.SetHTMLTemplate(templates)
	router.MaxMultipartMemory = r.config.Image.MaxFileSize

	router.Use(middleware.Logger(r.logger))
	router.Use(middleware.ErrorHandler(r.logger))
	router.Use(middleware.SecurityHeaders())

	upload := middleware.RequireMultipart(r.config.Image.MaxFileSize)

	// API version 1
	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", r.imageHandler.HealthCheck)
		v1.GET("/stats", r.imageHandler.GetStats)

		defects := v1.Group("/defects")
		{
			defects.GET("", r.imageHandler.Defects)
			defects.GET("/distribution", r.imageHandler.Distribution)
		}

		// Only preprocessing is open to other origins; analysis spends the API key.
		images := v1.Group("/images", middleware.CORS())
		{
			images.OPTIONS("/preprocess", func(*gin.Context) {})
			images.POST("/preprocess", upload, r.imageHandler.Preprocess)
		}
		v1.POST("/analyze", middleware.RequireJSONImage(r.config.Image.MaxFileSize), r.imageHandler.Analyze)

		sessions := v1.Group("/session", middleware.Session(r.config.Session.CookieName))
		{
			sessions.GET("", r.imageHandler.GetSession)
			sessions.GET("/preview", r.imageHandler.Preview)
			sessions.POST("/image", upload, r.imageHandler.UploadImage)
			sessions.POST("/analyze", r.imageHandler.AnalyzeSession)
			sessions.POST("/reset", r.imageHandler.ResetSession)
		}
	}

	router.GET("/", middleware.Session(r.config.Session.CookieName), r.imageHandler.Index)

	return router, nil
}
