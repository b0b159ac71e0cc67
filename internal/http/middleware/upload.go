package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/phambaophuc/el-inspector/internal/models"
)

const (
	// multipartOverhead leaves room for boundaries and part headers.
	multipartOverhead = 1 << 20
	// jsonOverhead covers the envelope and data URL prefix around a base64 image.
	jsonOverhead = 64 << 10
)

// RequireMultipart rejects non-multipart uploads and caps the body size.
func RequireMultipart(maxFileSize int64) gin.HandlerFunc {
	return requireContentType("multipart/form-data", "Expected multipart/form-data upload", maxFileSize+multipartOverhead)
}

// RequireJSONImage rejects non-JSON bodies and caps them at the base64 size
// of a maxFileSize image. Requiring application/json also forces a CORS
// preflight on cross-origin callers.
func RequireJSONImage(maxFileSize int64) gin.HandlerFunc {
	return requireContentType("application/json", "Expected application/json body", Base64Len(maxFileSize)+jsonOverhead)
}

// Base64Len is the encoded length of n raw bytes.
func Base64Len(n int64) int64 {
	return (n + 2) / 3 * 4
}

func requireContentType(prefix, message string, maxBytes int64) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		contentType := ctx.GetHeader("Content-Type")

		if !strings.HasPrefix(strings.ToLower(contentType), prefix) {
			ctx.AbortWithStatusJSON(http.StatusUnsupportedMediaType, models.APIResponse{
				Success: false,
				Error:   message,
			})
			return
		}

		ctx.Request.Body = http.MaxBytesReader(ctx.Writer, ctx.Request.Body, maxBytes)
		ctx.Next()
	}
}
