// Package session holds the per-user UI state machine. Transition is pure;
// stores only persist its output.
package session

import (
	"time"

	"github.com/phambaophuc/el-inspector/internal/models"
)

type Phase string

const (
	PhaseEmpty       Phase = "empty"
	PhaseImageLoaded Phase = "image_loaded"
	PhaseAnalyzing   Phase = "analyzing"
	PhaseResulted    Phase = "resulted"
	PhaseErrored     Phase = "errored"
)

const UploadFailedMessage = "Failed to process image. Please try another file."

type State struct {
	Phase     Phase                  `json:"phase"`
	Image     *models.UploadedImage  `json:"image,omitempty"`
	Result    *models.AnalysisResult `json:"result,omitempty"`
	Error     string                 `json:"error,omitempty"`
	Attempt   int                    `json:"attempt"`
	UpdatedAt time.Time              `json:"updated_at"`
}

// NewState returns the initial, empty state.
func NewState() State {
	return State{Phase: PhaseEmpty}
}

// CanAnalyze reports whether an AnalyzeRequested event would be applied.
func (s State) CanAnalyze() bool {
	return s.Image != nil && (s.Phase == PhaseImageLoaded || s.Phase == PhaseErrored)
}
