package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/phambaophuc/el-inspector/internal/config"
	"github.com/phambaophuc/el-inspector/internal/models"
	"github.com/phambaophuc/el-inspector/internal/services/analysis"
	"github.com/phambaophuc/el-inspector/internal/services/inspection"
	"github.com/phambaophuc/el-inspector/internal/services/processor"
	"github.com/phambaophuc/el-inspector/internal/session"
	"go.uber.org/zap"
)

const imageParamKey = "image"

// StatsFunc reports runtime statistics of one backing service.
type StatsFunc func(ctx context.Context) (map[string]interface{}, error)

type ImageHandler struct {
	inspection *inspection.Service
	processor  *processor.ImageProcessor
	analyzer   *analysis.Client
	logger     *zap.Logger
	config     *config.Config
	stats      map[string]StatsFunc
}

func NewImageHandler(
	inspection *inspection.Service,
	processor *processor.ImageProcessor,
	analyzer *analysis.Client,
	logger *zap.Logger,
	config *config.Config,
) *ImageHandler {
	return &ImageHandler{
		inspection: inspection,
		processor:  processor,
		analyzer:   analyzer,
		logger:     logger,
		config:     config,
		stats:      make(map[string]StatsFunc),
	}
}

// RegisterStats exposes a service's statistics under name on the stats endpoint.
func (h *ImageHandler) RegisterStats(name string, fn StatsFunc) {
	h.stats[name] = fn
}

// === STATELESS API ===

// Preprocess fits an uploaded image into the bounding box and returns it as a data URL.
func (h *ImageHandler) Preprocess(c *gin.Context) {
	file, err := h.openImageUpload(c)
	if err != nil {
		h.respondUploadError(c, err)
		return
	}
	defer file.Close()

	img, err := h.processor.Preprocess(file)
	if err != nil {
		h.logger.Warn("Preprocessing failed", zap.Error(err))
		h.respondError(c, http.StatusUnprocessableEntity, session.UploadFailedMessage)
		return
	}

	c.JSON(http.StatusOK, models.APIResponse{
		Success: true,
		Data:    img,
	})
}

type analyzeRequest struct {
	Image string `json:"image" binding:"required"`
}

// Analyze classifies a data URL synchronously.
func (h *ImageHandler) Analyze(c *gin.Context) {
	var req analyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.respondError(c, http.StatusRequestEntityTooLarge, errTooLarge.Error())
			return
		}
		h.respondError(c, http.StatusBadRequest, "Request body must be {\"image\": \"data:<mime>;base64,<data>\"}")
		return
	}

	result, err := h.analyzer.Analyze(c.Request.Context(), req.Image)
	if err != nil {
		h.respondError(c, analysisStatus(err), analysis.UserMessage(err))
		return
	}

	c.JSON(http.StatusOK, models.APIResponse{
		Success: true,
		Data:    result,
	})
}

// === REFERENCE DATA ===

func (h *ImageHandler) Defects(c *gin.Context) {
	c.JSON(http.StatusOK, models.APIResponse{
		Success: true,
		Data:    models.Glossary(),
	})
}

func (h *ImageHandler) Distribution(c *gin.Context) {
	c.JSON(http.StatusOK, models.APIResponse{
		Success: true,
		Data:    models.Distribution(),
	})
}

// === OPERATIONS ===

func (h *ImageHandler) HealthCheck(c *gin.Context) {
	services := h.inspection.HealthCheck(c.Request.Context())
	services["analysis"] = models.StatusHealthy
	if h.config.Analysis.Credential() == "" {
		services["analysis"] = models.StatusNotConfigured
	}

	overall := calculateOverallHealth(services)

	statusCode := http.StatusOK
	if overall == models.StatusUnhealthy {
		statusCode = http.StatusServiceUnavailable
	}

	c.JSON(statusCode, models.APIResponse{
		Success: overall == models.StatusHealthy,
		Data: models.HealthCheck{
			Status:    overall,
			Timestamp: time.Now(),
			Provider:  h.analyzer.ProviderName(),
			Services:  services,
		},
	})
}

func (h *ImageHandler) GetStats(c *gin.Context) {
	stats := map[string]interface{}{
		"timestamp": time.Now(),
	}

	for name, fn := range h.stats {
		serviceStats, err := fn(c.Request.Context())
		if err != nil {
			h.logger.Error("Failed to get stats", zap.String("service", name), zap.Error(err))
			stats[name] = gin.H{"error": err.Error()}
			continue
		}
		stats[name] = serviceStats
	}

	c.JSON(http.StatusOK, models.APIResponse{
		Success: true,
		Data:    stats,
	})
}

func analysisStatus(err error) int {
	switch analysis.KindOf(err) {
	case analysis.KindInput:
		return http.StatusBadRequest
	case analysis.KindConfiguration:
		return http.StatusServiceUnavailable
	case analysis.KindTransport, analysis.KindContract:
		return http.StatusBadGateway
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return http.StatusGatewayTimeout
	}
	return http.StatusInternalServerError
}

func calculateOverallHealth(services map[string]string) string {
	for _, status := range services {
		if status != models.StatusHealthy && status != models.StatusNotConfigured {
			return models.StatusUnhealthy
		}
	}
	return models.StatusHealthy
}
