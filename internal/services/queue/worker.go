package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"sync/atomic"

	"github.com/phambaophuc/el-inspector/internal/models"
	"github.com/streadway/amqp"
	"go.uber.org/zap"
)

// StartWorker registers a consumer that hands each analysis job to completer.
func (q *QueueService) StartWorker(ctx context.Context, workerID int, completer Completer) error {
	if completer == nil {
		return errNoCompleter
	}

	consumer := fmt.Sprintf("el-analysis-%d", workerID)
	deliveries, err := q.channel.Consume(q.queueName, consumer, false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("failed to register consumer %s: %w", consumer, err)
	}

	atomic.AddInt32(&q.workers, 1)
	q.logger.Info("Analysis worker started",
		zap.Int("worker_id", workerID),
		zap.String("queue", q.queueName),
		zap.String("completer", fmt.Sprintf("%T", completer)))

	go func() {
		defer atomic.AddInt32(&q.workers, -1)
		q.consume(ctx, workerID, deliveries, completer)
	}()

	return nil
}

func (q *QueueService) consume(ctx context.Context, workerID int, deliveries <-chan amqp.Delivery, completer Completer) {
	log := q.logger.With(zap.Int("worker_id", workerID), zap.String("queue", q.queueName))

	for {
		select {
		case <-ctx.Done():
			log.Info("Analysis worker stopping")
			return
		case delivery, ok := <-deliveries:
			if !ok {
				log.Warn("Delivery channel closed")
				return
			}
			q.handleDelivery(ctx, log, delivery, completer)
		}
	}
}

// handleDelivery runs one job. The outcome is written to the session either
// way, so deliveries are acked rather than requeued; undecodable ones are dropped.
func (q *QueueService) handleDelivery(ctx context.Context, log *zap.Logger, delivery amqp.Delivery, completer Completer) {
	var job models.AnalysisJob
	if err := json.Unmarshal(delivery.Body, &job); err != nil || job.SessionID == "" {
		log.Error("Dropping undecodable analysis job",
			zap.String("message_id", delivery.MessageId),
			zap.Error(err))
		delivery.Nack(false, false)
		return
	}

	log.Info("Analysis job received",
		zap.String("job_id", job.ID),
		zap.String("session_id", job.SessionID),
		zap.Int("attempt", job.Attempt),
		zap.Bool("redelivered", delivery.Redelivered))

	runJob(ctx, completer, &job, q.timeout, log)

	if err := delivery.Ack(false); err != nil {
		log.Error("Failed to ack analysis job", zap.String("job_id", job.ID), zap.Error(err))
	}
}
