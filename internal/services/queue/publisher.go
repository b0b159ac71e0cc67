package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/phambaophuc/el-inspector/internal/models"
	"github.com/streadway/amqp"
	"go.uber.org/zap"
)

// Dispatch publishes the job; a worker picks it up later.
func (q *QueueService) Dispatch(ctx context.Context, job *models.AnalysisJob) error {
	jobBytes, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("failed to marshal job: %w", err)
	}

	q.publishMu.Lock()
	defer q.publishMu.Unlock()

	err = q.channel.Publish(
		"",          // exchange
		q.queueName, // routing key
		false,       // mandatory
		false,       // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         jobBytes,
			DeliveryMode: amqp.Transient,
			MessageId:    job.ID,
			Timestamp:    time.Now(),
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish job: %w", err)
	}

	q.logger.Info("Job published to queue",
		zap.String("job_id", job.ID),
		zap.String("session_id", job.SessionID))
	return nil
}

var _ Dispatcher = (*QueueService)(nil)
