package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/phambaophuc/el-inspector/internal/http/web"
	"github.com/phambaophuc/el-inspector/internal/models"
)

func (h *ImageHandler) Index(c *gin.Context) {
	c.HTML(http.StatusOK, web.IndexTemplate, gin.H{
		"Glossary":      models.Glossary(),
		"Distribution":  models.Distribution(),
		"MaxFileSizeMB": h.config.Image.MaxFileSize >> 20,
	})
}
