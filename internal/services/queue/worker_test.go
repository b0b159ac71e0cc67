package queue

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/phambaophuc/el-inspector/internal/models"
	"github.com/streadway/amqp"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeAcknowledger struct {
	acked, nacked, requeued bool
}

func (f *fakeAcknowledger) Ack(uint64, bool) error { f.acked = true; return nil }

func (f *fakeAcknowledger) Nack(_ uint64, _ bool, requeue bool) error {
	f.nacked, f.requeued = true, requeue
	return nil
}

func (f *fakeAcknowledger) Reject(_ uint64, requeue bool) error {
	f.nacked, f.requeued = true, requeue
	return nil
}

func newTestQueue() *QueueService {
	return &QueueService{logger: zap.NewNop(), queueName: "el_analysis", timeout: time.Second}
}

func TestHandleDeliveryCompletesAndAcks(t *testing.T) {
	q := newTestQueue()
	body, err := json.Marshal(models.AnalysisJob{ID: "j1", SessionID: "s1", Attempt: 3})
	require.NoError(t, err)

	var got *models.AnalysisJob
	ack := &fakeAcknowledger{}
	q.handleDelivery(context.Background(), q.logger, amqp.Delivery{Acknowledger: ack, Body: body},
		CompleterFunc(func(_ context.Context, job *models.AnalysisJob) error {
			got = job
			return nil
		}))

	require.True(t, ack.acked)
	require.False(t, ack.nacked)
	require.Equal(t, "s1", got.SessionID)
	require.Equal(t, 3, got.Attempt)
	require.Equal(t, models.JobCompleted, got.Status)
}

func TestHandleDeliveryDropsUndecodableJob(t *testing.T) {
	q := newTestQueue()
	called := false
	completer := CompleterFunc(func(context.Context, *models.AnalysisJob) error {
		called = true
		return nil
	})

	for _, body := range [][]byte{[]byte("{"), []byte(`{"id":"j1"}`)} {
		ack := &fakeAcknowledger{}
		q.handleDelivery(context.Background(), q.logger, amqp.Delivery{Acknowledger: ack, Body: body}, completer)

		require.True(t, ack.nacked)
		require.False(t, ack.requeued)
		require.False(t, ack.acked)
	}
	require.False(t, called)
}

func TestStartWorkerRequiresCompleter(t *testing.T) {
	require.ErrorIs(t, newTestQueue().StartWorker(context.Background(), 1, nil), errNoCompleter)
}
