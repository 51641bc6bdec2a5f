package cache

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestStore(t *testing.T) (*InMemoryIdempotencyStore, *time.Time) {
	t.Helper()
	s := NewInMemoryIdempotencyStore(time.Hour)
	t.Cleanup(func() { _ = s.Close() })
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }
	return s, &now
}

func TestInMemoryIdempotencyStore_Lifecycle(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	_, found, err := s.Result(ctx, "k1")
	require.NoError(t, err)
	assert.False(t, found)

	ok, err := s.Reserve(ctx, "k1", time.Hour)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.Reserve(ctx, "k1", time.Hour)
	require.NoError(t, err)
	assert.False(t, ok, "a pending key cannot be reserved twice")

	result, found, err := s.Result(ctx, "k1")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Empty(t, result, "pending keys have no result yet")

	require.NoError(t, s.Complete(ctx, "k1", "ORD-1", time.Hour))
	result, found, err = s.Result(ctx, "k1")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "ORD-1", result)

	require.NoError(t, s.Release(ctx, "k1"))
	_, found, _ = s.Result(ctx, "k1")
	assert.True(t, found, "completed keys survive release")
}

func TestInMemoryIdempotencyStore_Release(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	ok, _ := s.Reserve(ctx, "k2", time.Hour)
	require.True(t, ok)
	require.NoError(t, s.Release(ctx, "k2"))

	ok, err := s.Reserve(ctx, "k2", time.Hour)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestInMemoryIdempotencyStore_Expiry(t *testing.T) {
	ctx := context.Background()
	s, now := newTestStore(t)

	require.NoError(t, s.Complete(ctx, "k3", "ORD-3", time.Minute))
	*now = now.Add(2 * time.Minute)

	_, found, err := s.Result(ctx, "k3")
	require.NoError(t, err)
	assert.False(t, found)

	ok, err := s.Reserve(ctx, "k3", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)

	*now = now.Add(2 * time.Minute)
	s.cleanup()
	assert.Equal(t, 0, s.Size())
}

func TestInMemoryIdempotencyStore_ConcurrentReserve(t *testing.T) {
	s := NewInMemoryIdempotencyStore(0)
	defer s.Close()

	var wins atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if ok, _ := s.Reserve(context.Background(), "shared", time.Hour); ok {
				wins.Add(1)
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), wins.Load())
}

func TestInMemoryIdempotencyStore_CloseTwice(t *testing.T) {
	s := NewInMemoryIdempotencyStore(0)
	assert.NoError(t, s.Close())
	assert.NoError(t, s.Close())
}

func TestNewIdempotencyStore_FallsBackToMemory(t *testing.T) {
	store := NewIdempotencyStore(nil, zap.NewNop())
	defer store.Close()
	_, ok := store.(*InMemoryIdempotencyStore)
	assert.True(t, ok)
}
