package session

import (
	"context"
	"sync"
	"time"

	"github.com/phambaophuc/el-inspector/internal/models"
)

// Store keeps session states. Update must apply fn atomically per session id;
// an unknown id starts from NewState.
type Store interface {
	Get(ctx context.Context, id string) (State, error)
	Update(ctx context.Context, id string, fn func(State) State) (State, error)
	Delete(ctx context.Context, id string) error
	HealthCheck(ctx context.Context) string
}

type entry struct {
	state   State
	expires time.Time
}

// MemoryStore is an in-process Store with idle expiry.
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[string]entry
	ttl      time.Duration
	now      func() time.Time
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]entry),
		ttl:      ttl,
		now:      time.Now,
	}
}

func (m *MemoryStore) Get(_ context.Context, id string) (State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.lookup(id)
	if !ok {
		return NewState(), nil
	}
	return e.state, nil
}

func (m *MemoryStore) Update(_ context.Context, id string, fn func(State) State) (State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	current := NewState()
	if e, ok := m.lookup(id); ok {
		current = e.state
	}

	next := fn(current)
	next.UpdatedAt = m.now()
	m.sessions[id] = entry{state: next, expires: m.expiry()}
	return next, nil
}

func (m *MemoryStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.sessions, id)
	return nil
}

func (m *MemoryStore) HealthCheck(context.Context) string {
	return models.StatusHealthy
}

// Sweep drops expired sessions and returns how many were removed.
func (m *MemoryStore) Sweep() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	now := m.now()
	for id, e := range m.sessions {
		if !e.expires.IsZero() && now.After(e.expires) {
			delete(m.sessions, id)
			removed++
		}
	}
	return removed
}

// StartSweeper runs Sweep every interval until ctx is done.
func (m *MemoryStore) StartSweeper(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				m.Sweep()
			}
		}
	}()
}

// lookup must be called with mu held.
func (m *MemoryStore) lookup(id string) (entry, bool) {
	e, ok := m.sessions[id]
	if !ok {
		return entry{}, false
	}
	if !e.expires.IsZero() && m.now().After(e.expires) {
		delete(m.sessions, id)
		return entry{}, false
	}
	return e, true
}

func (m *MemoryStore) expiry() time.Time {
	if m.ttl <= 0 {
		return time.Time{}
	}
	return m.now().Add(m.ttl)
}

var _ Store = (*MemoryStore)(nil)
