package queue

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/phambaophuc/el-inspector/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestLocalDispatcherWithoutCompleter(t *testing.T) {
	d := NewLocalDispatcher(time.Second, zap.NewNop())
	err := d.Dispatch(context.Background(), &models.AnalysisJob{ID: "j1"})
	require.ErrorIs(t, err, errNoCompleter)
}

func TestLocalDispatcherRunsJob(t *testing.T) {
	d := NewLocalDispatcher(time.Second, zap.NewNop())

	var calls int32
	d.Bind(CompleterFunc(func(ctx context.Context, job *models.AnalysisJob) error {
		atomic.AddInt32(&calls, 1)
		assert.Equal(t, "j1", job.ID)
		assert.Equal(t, models.JobProcessing, job.Status)
		return nil
	}))

	job := &models.AnalysisJob{ID: "j1", Status: models.JobPending}
	require.NoError(t, d.Dispatch(context.Background(), job))
	d.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	assert.Equal(t, models.JobCompleted, job.Status)
}

func TestLocalDispatcherOutlivesCallerContext(t *testing.T) {
	d := NewLocalDispatcher(time.Second, zap.NewNop())

	started := make(chan struct{})
	release := make(chan struct{})
	var ctxErr error
	d.Bind(CompleterFunc(func(ctx context.Context, job *models.AnalysisJob) error {
		close(started)
		<-release
		ctxErr = ctx.Err()
		return nil
	}))

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, d.Dispatch(ctx, &models.AnalysisJob{ID: "j2"}))
	<-started
	cancel()
	close(release)
	d.Wait()

	assert.NoError(t, ctxErr)
}

func TestLocalDispatcherRecordsFailure(t *testing.T) {
	d := NewLocalDispatcher(time.Second, zap.NewNop())
	d.Bind(CompleterFunc(func(ctx context.Context, job *models.AnalysisJob) error {
		return errors.New("boom")
	}))

	job := &models.AnalysisJob{ID: "j3"}
	require.NoError(t, d.Dispatch(context.Background(), job))
	d.Wait()

	assert.Equal(t, models.JobFailed, job.Status)
	assert.Equal(t, "boom", job.Error)
}

func TestRunJobAppliesTimeout(t *testing.T) {
	job := &models.AnalysisJob{ID: "j4"}
	runJob(context.Background(), CompleterFunc(func(ctx context.Context, job *models.AnalysisJob) error {
		<-ctx.Done()
		return ctx.Err()
	}), job, 10*time.Millisecond, zap.NewNop())

	assert.Equal(t, models.JobFailed, job.Status)
	assert.Equal(t, context.DeadlineExceeded.Error(), job.Error)
}
