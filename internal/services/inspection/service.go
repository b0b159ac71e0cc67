// Package inspection applies user actions and analysis completions to
// per-session state.
package inspection

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/phambaophuc/el-inspector/internal/models"
	"github.com/phambaophuc/el-inspector/internal/services/analysis"
	"github.com/phambaophuc/el-inspector/internal/services/queue"
	"github.com/phambaophuc/el-inspector/internal/session"
	"go.uber.org/zap"
)

var (
	ErrAnalysisInProgress = errors.New("analysis in progress")
	ErrUploadRejected     = errors.New(session.UploadFailedMessage)
)

// completion writes must land even when the job's own deadline has passed.
const completionWriteTimeout = 5 * time.Second

type Preprocessor interface {
	Preprocess(r io.Reader) (*models.UploadedImage, error)
}

type Analyzer interface {
	Analyze(ctx context.Context, dataURL string) (*models.AnalysisResult, error)
}

type Service struct {
	store      session.Store
	processor  Preprocessor
	analyzer   Analyzer
	dispatcher queue.Dispatcher
	logger     *zap.Logger
}

func NewService(
	store session.Store,
	processor Preprocessor,
	analyzer Analyzer,
	dispatcher queue.Dispatcher,
	logger *zap.Logger,
) *Service {
	return &Service{
		store:      store,
		processor:  processor,
		analyzer:   analyzer,
		dispatcher: dispatcher,
		logger:     logger,
	}
}

func (s *Service) State(ctx context.Context, sessionID string) (session.State, error) {
	st, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return session.State{}, fmt.Errorf("failed to load session: %w", err)
	}
	return st, nil
}

// Upload preprocesses r and stores it as the session image. A preprocessing
// failure moves the session to errored and returns ErrUploadRejected.
func (s *Service) Upload(ctx context.Context, sessionID string, r io.Reader) (session.State, error) {
	current, err := s.State(ctx, sessionID)
	if err != nil {
		return session.State{}, err
	}
	if current.Phase == session.PhaseAnalyzing {
		return current, ErrAnalysisInProgress
	}

	img, procErr := s.processor.Preprocess(r)

	var event session.Event = session.ImageUploaded{Image: img}
	if procErr != nil {
		s.logger.Warn("Image preprocessing failed",
			zap.String("session_id", sessionID),
			zap.Error(procErr))
		event = session.UploadFailed{Err: procErr}
	}

	st, applied, err := s.apply(ctx, sessionID, event)
	if err != nil {
		return session.State{}, err
	}
	if !applied {
		return st, ErrAnalysisInProgress
	}
	if procErr != nil {
		return st, fmt.Errorf("%w: %v", ErrUploadRejected, procErr)
	}

	s.logger.Info("Image uploaded",
		zap.String("session_id", sessionID),
		zap.Int("width", img.Width),
		zap.Int("height", img.Height),
		zap.Int("size_bytes", img.SizeBytes))
	return st, nil
}

// Analyze starts an analysis of the session image. It reports false without
// dispatching when the session cannot start one, including while another
// analysis is in flight.
func (s *Service) Analyze(ctx context.Context, sessionID string) (session.State, bool, error) {
	st, applied, err := s.apply(ctx, sessionID, session.AnalyzeRequested{})
	if err != nil {
		return session.State{}, false, err
	}
	if !applied {
		return st, false, nil
	}

	job := &models.AnalysisJob{
		ID:        uuid.NewString(),
		SessionID: sessionID,
		Attempt:   st.Attempt,
		DataURL:   st.Image.DataURL,
		Status:    models.JobPending,
		CreatedAt: time.Now(),
	}

	if dispatchErr := s.dispatcher.Dispatch(ctx, job); dispatchErr != nil {
		s.logger.Error("Failed to dispatch analysis",
			zap.String("session_id", sessionID),
			zap.String("job_id", job.ID),
			zap.Error(dispatchErr))

		st, _, err = s.apply(ctx, sessionID, session.AnalysisFailed{
			Attempt: job.Attempt,
			Message: analysis.UserMessage(dispatchErr),
		})
		if err != nil {
			return session.State{}, false, err
		}
		return st, false, fmt.Errorf("failed to dispatch analysis: %w", dispatchErr)
	}

	return st, true, nil
}

func (s *Service) Reset(ctx context.Context, sessionID string) (session.State, error) {
	st, _, err := s.apply(ctx, sessionID, session.Reset{})
	return st, err
}

// Complete runs the analysis for job and records the outcome. Outcomes for
// an attempt the session has moved past are discarded.
func (s *Service) Complete(ctx context.Context, job *models.AnalysisJob) error {
	result, analyzeErr := s.analyzer.Analyze(ctx, job.DataURL)

	var event session.Event
	if analyzeErr != nil {
		event = session.AnalysisFailed{Attempt: job.Attempt, Message: analysis.UserMessage(analyzeErr)}
	} else {
		event = session.AnalysisSucceeded{Attempt: job.Attempt, Result: result}
	}

	writeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), completionWriteTimeout)
	defer cancel()

	_, applied, err := s.apply(writeCtx, job.SessionID, event)
	if err != nil {
		return err
	}
	if !applied {
		s.logger.Info("Discarding stale analysis outcome",
			zap.String("session_id", job.SessionID),
			zap.String("job_id", job.ID),
			zap.Int("attempt", job.Attempt))
	}

	return analyzeErr
}

func (s *Service) HealthCheck(ctx context.Context) map[string]string {
	return map[string]string{
		"session_store": s.store.HealthCheck(ctx),
		"dispatcher":    s.dispatcher.HealthCheck(),
	}
}

func (s *Service) apply(ctx context.Context, sessionID string, event session.Event) (session.State, bool, error) {
	var applied bool
	st, err := s.store.Update(ctx, sessionID, func(current session.State) session.State {
		next, ok := session.Transition(current, event)
		applied = ok
		return next
	})
	if err != nil {
		return session.State{}, false, fmt.Errorf("failed to update session: %w", err)
	}

	s.logger.Debug("Session event",
		zap.String("session_id", sessionID),
		zap.String("event", session.EventName(event)),
		zap.Bool("applied", applied),
		zap.String("phase", string(st.Phase)))
	return st, applied, nil
}

var _ queue.Completer = (*Service)(nil)
