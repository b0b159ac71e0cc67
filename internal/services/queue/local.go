package queue

import (
	"context"
	"sync"
	"time"

	"github.com/phambaophuc/el-inspector/internal/models"
	"go.uber.org/zap"
)

// LocalDispatcher runs each job on its own goroutine inside the process.
type LocalDispatcher struct {
	mu        sync.RWMutex
	completer Completer
	timeout   time.Duration
	logger    *zap.Logger
	wg        sync.WaitGroup
}

func NewLocalDispatcher(timeout time.Duration, logger *zap.Logger) *LocalDispatcher {
	return &LocalDispatcher{timeout: timeout, logger: logger}
}

// Bind sets the completer jobs are handed to.
func (d *LocalDispatcher) Bind(c Completer) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.completer = c
}

// Dispatch starts the job and returns immediately. The job outlives the
// caller's context but keeps its values.
func (d *LocalDispatcher) Dispatch(ctx context.Context, job *models.AnalysisJob) error {
	d.mu.RLock()
	completer := d.completer
	d.mu.RUnlock()

	if completer == nil {
		return errNoCompleter
	}

	detached := context.WithoutCancel(ctx)
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		runJob(detached, completer, job, d.timeout, d.logger)
	}()

	d.logger.Info("Job dispatched", zap.String("job_id", job.ID), zap.String("session_id", job.SessionID))
	return nil
}

// Wait blocks until every dispatched job has finished.
func (d *LocalDispatcher) Wait() {
	d.wg.Wait()
}

func (d *LocalDispatcher) HealthCheck() string {
	return models.StatusHealthy
}

var _ Dispatcher = (*LocalDispatcher)(nil)
