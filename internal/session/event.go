package session

import "github.com/phambaophuc/el-inspector/internal/models"

// Event is a user action or a completed asynchronous operation.
type Event interface {
	eventName() string
}

type ImageUploaded struct {
	Image *models.UploadedImage
}

type UploadFailed struct {
	Err error
}

type AnalyzeRequested struct{}

// AnalysisSucceeded and AnalysisFailed carry the Attempt they complete;
// completions for any other attempt are stale.
type AnalysisSucceeded struct {
	Attempt int
	Result  *models.AnalysisResult
}

type AnalysisFailed struct {
	Attempt int
	Message string
}

type Reset struct{}

func (ImageUploaded) eventName() string     { return "image_uploaded" }
func (UploadFailed) eventName() string      { return "upload_failed" }
func (AnalyzeRequested) eventName() string  { return "analyze_requested" }
func (AnalysisSucceeded) eventName() string { return "analysis_succeeded" }
func (AnalysisFailed) eventName() string    { return "analysis_failed" }
func (Reset) eventName() string             { return "reset" }

// EventName returns a stable name for logging.
func EventName(e Event) string {
	if e == nil {
		return "none"
	}
	return e.eventName()
}
