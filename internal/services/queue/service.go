package queue

import (
	"fmt"
	"sync"
	"time"

	"github.com/phambaophuc/el-inspector/internal/config"
	"github.com/streadway/amqp"
	"go.uber.org/zap"
)

// QueueService dispatches analysis jobs through RabbitMQ.
type QueueService struct {
	conn      *amqp.Connection
	channel   *amqp.Channel
	publishMu sync.Mutex
	logger    *zap.Logger
	queueName string
	timeout   time.Duration
	workers   int32
}

func NewQueueService(cfg *config.Config, logger *zap.Logger) (*QueueService, error) {
	conn, err := amqp.Dial(cfg.RabbitMQ.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	queueName := cfg.RabbitMQ.QueueName

	_, err = channel.QueueDeclare(
		queueName, // name
		true,      // durable
		false,     // delete when unused
		false,     // exclusive
		false,     // no-wait
		nil,       // arguments
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare queue: %w", err)
	}

	if err := channel.Qos(cfg.RabbitMQ.Workers, 0, false); err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to set qos: %w", err)
	}

	return &QueueService{
		conn:      conn,
		channel:   channel,
		logger:    logger,
		queueName: queueName,
		timeout:   cfg.Analysis.Timeout,
	}, nil
}

// Close closes the queue connection
func (q *QueueService) Close() error {
	if q.channel != nil {
		q.channel.Close()
	}
	if q.conn != nil {
		q.conn.Close()
	}
	return nil
}
