package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestMemoryStoreUnknownSessionIsEmpty(t *testing.T) {
	store := NewMemoryStore(time.Hour)

	s, err := store.Get(context.Background(), "nope")
	require.NoError(t, err)
	require.Equal(t, PhaseEmpty, s.Phase)
}

func TestMemoryStoreUpdateIsAtomic(t *testing.T) {
	store := NewMemoryStore(time.Hour)
	ctx := context.Background()

	_, err := store.Update(ctx, "s1", func(s State) State {
		next, _ := Transition(s, ImageUploaded{Image: testImage})
		return next
	})
	require.NoError(t, err)

	var wg sync.WaitGroup
	applied := make(chan bool, 20)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			store.Update(ctx, "s1", func(s State) State {
				next, ok := Transition(s, AnalyzeRequested{})
				applied <- ok
				return next
			})
		}()
	}
	wg.Wait()
	close(applied)

	count := 0
	for ok := range applied {
		if ok {
			count++
		}
	}
	require.Equal(t, 1, count)

	s, err := store.Get(ctx, "s1")
	require.NoError(t, err)
	require.Equal(t, PhaseAnalyzing, s.Phase)
	require.Equal(t, 1, s.Attempt)
	require.False(t, s.UpdatedAt.IsZero())
}

func TestMemoryStoreExpiry(t *testing.T) {
	store := NewMemoryStore(time.Minute)
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }
	ctx := context.Background()

	_, err := store.Update(ctx, "s1", func(s State) State {
		next, _ := Transition(s, ImageUploaded{Image: testImage})
		return next
	})
	require.NoError(t, err)
	_, err = store.Update(ctx, "s2", func(s State) State { return s })
	require.NoError(t, err)

	now = now.Add(2 * time.Minute)
	require.Equal(t, 2, store.Sweep())

	s, err := store.Get(ctx, "s1")
	require.NoError(t, err)
	require.Equal(t, PhaseEmpty, s.Phase)
}

func TestMemoryStoreDelete(t *testing.T) {
	store := NewMemoryStore(0)
	ctx := context.Background()

	_, err := store.Update(ctx, "s1", func(s State) State {
		next, _ := Transition(s, ImageUploaded{Image: testImage})
		return next
	})
	require.NoError(t, err)
	require.NoError(t, store.Delete(ctx, "s1"))

	s, err := store.Get(ctx, "s1")
	require.NoError(t, err)
	require.Nil(t, s.Image)
	require.Equal(t, "healthy", store.HealthCheck(ctx))
}
