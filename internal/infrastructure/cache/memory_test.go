package cache

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestMemoryStore_ClaimRelease(t *testing.T) {
	store := NewMemoryStore()
	defer store.Close()
	ctx := context.Background()

	ok, err := store.Claim(ctx, "webhook:a:1", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = store.Claim(ctx, "webhook:a:1", time.Minute)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Release(ctx, "webhook:a:1"))
	ok, err = store.Claim(ctx, "webhook:a:1", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestMemoryStore_ExpiredClaimIsReclaimable(t *testing.T) {
	store := NewMemoryStore()
	defer store.Close()
	ctx := context.Background()

	clock := time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return clock }

	ok, _ := store.Claim(ctx, "k", time.Minute)
	require.True(t, ok)

	clock = clock.Add(2 * time.Minute)
	ok, _ = store.Claim(ctx, "k", time.Minute)
	assert.True(t, ok)

	clock = clock.Add(5 * time.Minute)
	store.sweep()
	assert.Zero(t, store.Len())
}

func TestMemoryStore_ConcurrentClaimSingleWinner(t *testing.T) {
	store := NewMemoryStore()
	defer store.Close()

	var wins atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if ok, _ := store.Claim(context.Background(), "same", time.Minute); ok {
				wins.Add(1)
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), wins.Load())
}

func TestMemoryStore_CloseIsIdempotent(t *testing.T) {
	store := NewMemoryStore()
	require.NoError(t, store.Close())
	require.NoError(t, store.Close())
}
