package queue

import (
	"context"

	"github.com/phambaophuc/el-inspector/internal/models"
)

// Dispatcher hands an analysis job off for asynchronous execution.
// Dispatch must not block on the analysis itself.
type Dispatcher interface {
	Dispatch(ctx context.Context, job *models.AnalysisJob) error
	HealthCheck() string
}

// Completer runs a dispatched job and records its outcome.
type Completer interface {
	Complete(ctx context.Context, job *models.AnalysisJob) error
}

type CompleterFunc func(ctx context.Context, job *models.AnalysisJob) error

func (f CompleterFunc) Complete(ctx context.Context, job *models.AnalysisJob) error {
	return f(ctx, job)
}
