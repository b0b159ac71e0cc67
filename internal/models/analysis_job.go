package models

import "time"

// AnalysisJob is one analysis attempt handed to a dispatcher.
type AnalysisJob struct {
	ID        string    `json:"id"`
	SessionID string    `json:"session_id"`
	Attempt   int       `json:"attempt"`
	DataURL   string    `json:"data_url"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	Error     string    `json:"error,omitempty"`
}

const (
	JobPending    = "pending"
	JobProcessing = "processing"
	JobCompleted  = "completed"
	JobFailed     = "failed"
)
