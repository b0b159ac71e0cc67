package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/phambaophuc/el-inspector/internal/config"
	"github.com/phambaophuc/el-inspector/internal/session"
	"github.com/redis/go-redis/v9"
)

const KeyPrefix = "el_session:"

var ErrUpdateConflict = errors.New("session changed concurrently, giving up")

// SessionStore keeps session states in Redis. Keys expire after the idle TTL.
type SessionStore struct {
	redisClient *redis.Client
	ttl         time.Duration
	maxRetries  int
}

type ServiceOptions struct {
	MaxRetries int
	Timeout    time.Duration
}

var DefaultOptions = ServiceOptions{
	MaxRetries: 5,
	Timeout:    5 * time.Second,
}

func NewSessionStore(cfg *config.Config, opts ...ServiceOptions) (*SessionStore, error) {
	options := DefaultOptions
	if len(opts) > 0 {
		options = opts[0]
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:         cfg.Redis.Addr,
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		PoolSize:     10,
		MinIdleConns: 2,
		DialTimeout:  options.Timeout,
		ReadTimeout:  options.Timeout,
		WriteTimeout: options.Timeout,
	})

	return newSessionStore(redisClient, cfg.Session.TTL, options.MaxRetries), nil
}

func newSessionStore(client *redis.Client, ttl time.Duration, maxRetries int) *SessionStore {
	if maxRetries < 1 {
		maxRetries = 1
	}
	return &SessionStore{
		redisClient: client,
		ttl:         ttl,
		maxRetries:  maxRetries,
	}
}

func (s *SessionStore) Get(ctx context.Context, id string) (session.State, error) {
	data, err := s.redisClient.Get(ctx, sessionKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return session.NewState(), nil
		}
		return session.State{}, fmt.Errorf("session get error: %w", err)
	}
	return decodeState(data)
}

// Update applies fn under WATCH/MULTI; fn may run more than once on contention.
func (s *SessionStore) Update(ctx context.Context, id string, fn func(session.State) session.State) (session.State, error) {
	key := sessionKey(id)
	var next session.State

	txf := func(tx *redis.Tx) error {
		current := session.NewState()
		data, err := tx.Get(ctx, key).Bytes()
		switch {
		case errors.Is(err, redis.Nil):
		case err != nil:
			return err
		default:
			if current, err = decodeState(data); err != nil {
				return err
			}
		}

		next = fn(current)
		next.UpdatedAt = time.Now()

		encoded, err := json.Marshal(next)
		if err != nil {
			return fmt.Errorf("failed to marshal session: %w", err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, encoded, s.ttl)
			return nil
		})
		return err
	}

	for i := 0; i < s.maxRetries; i++ {
		err := s.redisClient.Watch(ctx, txf, key)
		if err == nil {
			return next, nil
		}
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return session.State{}, fmt.Errorf("session update error: %w", err)
	}

	return session.State{}, ErrUpdateConflict
}

func (s *SessionStore) Delete(ctx context.Context, id string) error {
	return s.redisClient.Del(ctx, sessionKey(id)).Err()
}

func (s *SessionStore) Close() error {
	return s.redisClient.Close()
}

func sessionKey(id string) string {
	return KeyPrefix + id
}

func decodeState(data []byte) (session.State, error) {
	var state session.State
	if err := json.Unmarshal(data, &state); err != nil {
		return session.State{}, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	return state, nil
}

var _ session.Store = (*SessionStore)(nil)
