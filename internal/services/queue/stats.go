package queue

import (
	"fmt"
	"sync/atomic"

	"github.com/phambaophuc/el-inspector/internal/models"
)

// GetQueueStats reports the backlog of pending analyses and the local worker count.
func (q *QueueService) GetQueueStats() (map[string]interface{}, error) {
	queueInfo, err := q.channel.QueueInspect(q.queueName)
	if err != nil {
		return nil, fmt.Errorf("failed to inspect queue %s: %w", q.queueName, err)
	}

	return map[string]interface{}{
		"queue":           queueInfo.Name,
		"pending_jobs":    queueInfo.Messages,
		"consumers":       queueInfo.Consumers,
		"local_workers":   atomic.LoadInt32(&q.workers),
		"job_timeout_sec": q.timeout.Seconds(),
	}, nil
}

func (q *QueueService) HealthCheck() string {
	switch {
	case q.conn == nil || q.conn.IsClosed():
		return models.StatusUnhealthy + ": rabbitmq connection closed"
	case q.channel == nil:
		return models.StatusUnhealthy + ": rabbitmq channel not available"
	case atomic.LoadInt32(&q.workers) == 0:
		return models.StatusUnhealthy + ": no analysis workers consuming " + q.queueName
	}
	return models.StatusHealthy
}
