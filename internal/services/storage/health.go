package storage

import (
	"context"
	"fmt"

	"github.com/phambaophuc/el-inspector/internal/models"
)

// HealthCheck pings Redis
func (s *SessionStore) HealthCheck(ctx context.Context) string {
	if err := s.redisClient.Ping(ctx).Err(); err != nil {
		return models.StatusUnhealthy + ": " + err.Error()
	}
	return models.StatusHealthy
}

func (s *SessionStore) GetStats(ctx context.Context) (map[string]interface{}, error) {
	pipeline := s.redisClient.Pipeline()

	infoCmd := pipeline.Info(ctx, "memory")
	dbSizeCmd := pipeline.DBSize(ctx)

	if _, err := pipeline.Exec(ctx); err != nil {
		return nil, fmt.Errorf("pipeline error: %w", err)
	}

	return map[string]interface{}{
		"db_keys": dbSizeCmd.Val(),
		"info":    infoCmd.Val(),
	}, nil
}
