package queue

import (
	"context"
	"errors"
	"time"

	"github.com/phambaophuc/el-inspector/internal/models"
	"go.uber.org/zap"
)

var errNoCompleter = errors.New("no completer bound to dispatcher")

// runJob executes one job against the completer with its own deadline.
// The job status is updated in place.
func runJob(ctx context.Context, completer Completer, job *models.AnalysisJob, timeout time.Duration, logger *zap.Logger) {
	if completer == nil {
		job.Status = models.JobFailed
		job.Error = errNoCompleter.Error()
		logger.Error("Job dropped", zap.String("job_id", job.ID), zap.Error(errNoCompleter))
		return
	}

	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	job.Status = models.JobProcessing
	start := time.Now()

	if err := completer.Complete(ctx, job); err != nil {
		job.Status = models.JobFailed
		job.Error = err.Error()
		logger.Error("Job processing failed",
			zap.String("job_id", job.ID),
			zap.String("session_id", job.SessionID),
			zap.Int("attempt", job.Attempt),
			zap.Duration("duration", time.Since(start)),
			zap.Error(err))
		return
	}

	job.Status = models.JobCompleted
	logger.Info("Job completed",
		zap.String("job_id", job.ID),
		zap.String("session_id", job.SessionID),
		zap.Int("attempt", job.Attempt),
		zap.Duration("duration", time.Since(start)))
}
