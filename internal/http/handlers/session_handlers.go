package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/phambaophuc/el-inspector/internal/http/middleware"
	"github.com/phambaophuc/el-inspector/internal/models"
	"github.com/phambaophuc/el-inspector/internal/services/inspection"
	"github.com/phambaophuc/el-inspector/internal/session"
	"github.com/phambaophuc/el-inspector/pkg/utils"
	"go.uber.org/zap"
)

const previewPath = "/api/v1/session/preview"

func (h *ImageHandler) GetSession(c *gin.Context) {
	st, err := h.inspection.State(c.Request.Context(), middleware.SessionID(c))
	if err != nil {
		h.respondInternal(c, "Failed to load session", err)
		return
	}
	h.respondSession(c, http.StatusOK, st)
}

// UploadImage replaces the session image. It is rejected while an analysis runs.
func (h *ImageHandler) UploadImage(c *gin.Context) {
	file, err := h.openImageUpload(c)
	if err != nil {
		h.respondUploadError(c, err)
		return
	}
	defer file.Close()

	st, err := h.inspection.Upload(c.Request.Context(), middleware.SessionID(c), file)
	switch {
	case err == nil:
		h.respondSession(c, http.StatusOK, st)
	case errors.Is(err, inspection.ErrAnalysisInProgress):
		h.respondSessionError(c, http.StatusConflict, st, "An analysis is already running")
	case errors.Is(err, inspection.ErrUploadRejected):
		h.respondSessionError(c, http.StatusUnprocessableEntity, st, st.Error)
	default:
		h.respondInternal(c, "Failed to store image", err)
	}
}

// AnalyzeSession starts an analysis. Without an image, or while one is
// already running, the session is returned unchanged.
func (h *ImageHandler) AnalyzeSession(c *gin.Context) {
	st, started, err := h.inspection.Analyze(c.Request.Context(), middleware.SessionID(c))
	if err != nil {
		if st.Phase == session.PhaseErrored {
			h.respondSessionError(c, http.StatusServiceUnavailable, st, st.Error)
			return
		}
		h.respondInternal(c, "Failed to start analysis", err)
		return
	}

	status := http.StatusOK
	if started {
		status = http.StatusAccepted
	}
	h.respondSession(c, status, st)
}

func (h *ImageHandler) ResetSession(c *gin.Context) {
	st, err := h.inspection.Reset(c.Request.Context(), middleware.SessionID(c))
	if err != nil {
		h.respondInternal(c, "Failed to reset session", err)
		return
	}
	h.respondSession(c, http.StatusOK, st)
}

// Preview serves the session image as JPEG. With annotate=true and a result
// present, the category and confidence are stamped on it.
func (h *ImageHandler) Preview(c *gin.Context) {
	st, err := h.inspection.State(c.Request.Context(), middleware.SessionID(c))
	if err != nil {
		h.respondInternal(c, "Failed to load session", err)
		return
	}
	if st.Image == nil {
		h.respondError(c, http.StatusNotFound, "No image uploaded")
		return
	}

	mimeType, data, err := utils.DecodeDataURL(st.Image.DataURL)
	if err != nil {
		h.respondInternal(c, "Stored image is corrupt", err)
		return
	}

	annotate, _ := strconv.ParseBool(c.Query("annotate"))
	if annotate && st.Result != nil {
		label := fmt.Sprintf("%s %.1f%%", st.Result.Category, st.Result.Confidence)
		if data, err = h.processor.Annotate(data, label); err != nil {
			h.respondInternal(c, "Failed to annotate image", err)
			return
		}
	}

	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, mimeType, data)
}

type ImageView struct {
	MIMEType       string `json:"mime_type"`
	Width          int    `json:"width"`
	Height         int    `json:"height"`
	OriginalWidth  int    `json:"original_width"`
	OriginalHeight int    `json:"original_height"`
	SizeBytes      int    `json:"size_bytes"`
	Resized        bool   `json:"resized"`
	PreviewURL     string `json:"preview_url"`
}

// SessionView is the client-facing session state. The image payload is
// served separately by Preview.
type SessionView struct {
	Phase     session.Phase          `json:"phase"`
	Image     *ImageView             `json:"image,omitempty"`
	Result    *models.AnalysisResult `json:"result,omitempty"`
	Severity  models.Severity        `json:"severity,omitempty"`
	Error     string                 `json:"error,omitempty"`
	Attempt   int                    `json:"attempt"`
	UpdatedAt string                 `json:"updated_at"`
}

func newSessionView(st session.State) SessionView {
	view := SessionView{
		Phase:   st.Phase,
		Result:  st.Result,
		Error:   st.Error,
		Attempt: st.Attempt,
	}
	if !st.UpdatedAt.IsZero() {
		view.UpdatedAt = st.UpdatedAt.UTC().Format("2006-01-02T15:04:05.000Z07:00")
	}
	if st.Image != nil {
		view.Image = &ImageView{
			MIMEType:       st.Image.MIMEType,
			Width:          st.Image.Width,
			Height:         st.Image.Height,
			OriginalWidth:  st.Image.OriginalWidth,
			OriginalHeight: st.Image.OriginalHeight,
			SizeBytes:      st.Image.SizeBytes,
			Resized:        st.Image.Resized(),
			PreviewURL:     previewPath,
		}
	}
	if st.Result != nil {
		if info, ok := models.LookupDefect(st.Result.Category); ok {
			view.Severity = info.Severity
		}
	}
	return view
}

func (h *ImageHandler) respondSession(c *gin.Context, status int, st session.State) {
	c.JSON(status, models.APIResponse{
		Success: true,
		Data:    newSessionView(st),
	})
}

func (h *ImageHandler) respondSessionError(c *gin.Context, status int, st session.State, message string) {
	c.JSON(status, models.APIResponse{
		Success: false,
		Data:    newSessionView(st),
		Error:   message,
	})
}

func (h *ImageHandler) respondInternal(c *gin.Context, message string, err error) {
	h.logger.Error(message,
		zap.String("session_id", middleware.SessionID(c)),
		zap.Error(err))
	c.Error(err)
	h.respondError(c, http.StatusInternalServerError, message)
}
