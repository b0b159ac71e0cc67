package handlers

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/phambaophuc/el-inspector/internal/models"
	"github.com/phambaophuc/el-inspector/pkg/utils"
)

const sniffLength = 512

var (
	errNoImage   = errors.New("No image file provided")
	errNotImage  = errors.New("Please upload an image file")
	errTooLarge  = errors.New("Image file is too large")
	errBadUpload = errors.New("Failed to read upload")
)

// openImageUpload returns the "image" part when it is reported or sniffed as image/*.
func (h *ImageHandler) openImageUpload(c *gin.Context) (multipart.File, error) {
	file, header, err := c.Request.FormFile(imageParamKey)
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			return nil, errTooLarge
		}
		return nil, errNoImage
	}

	if utils.IsImageContentType(header.Header.Get("Content-Type")) {
		return file, nil
	}

	head := make([]byte, sniffLength)
	n, err := io.ReadFull(file, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		file.Close()
		return nil, errBadUpload
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		file.Close()
		return nil, errBadUpload
	}

	if !utils.IsImageContentType(utils.SniffContentType(head[:n])) {
		file.Close()
		return nil, errNotImage
	}
	return file, nil
}

func (h *ImageHandler) respondUploadError(c *gin.Context, err error) {
	status := http.StatusBadRequest
	switch {
	case errors.Is(err, errNotImage):
		status = http.StatusUnsupportedMediaType
	case errors.Is(err, errTooLarge):
		status = http.StatusRequestEntityTooLarge
	}
	h.respondError(c, status, err.Error())
}

func (h *ImageHandler) respondError(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, models.APIResponse{
		Success: false,
		Error:   message,
	})
}
