package cache

import (
	"context"
	"sync"
	"time"
)

const cleanupInterval = 5 * time.Minute

// MemoryStore is an in-process key store with expiration. It serves as the
// webhook claim store when no Redis is configured.
type MemoryStore struct {
	mu    sync.Mutex
	items map[string]time.Time
	now   func() time.Time

	stop     chan struct{}
	stopOnce sync.Once
	done     chan struct{}
}

// NewMemoryStore creates a store and starts its expiry sweeper. Call Close
// to stop the sweeper.
func NewMemoryStore() *MemoryStore {
	store := &MemoryStore{
		items: make(map[string]time.Time),
		now:   time.Now,
		stop:  make(chan struct{}),
		done:  make(chan struct{}),
	}

	go store.cleanupExpired(cleanupInterval)

	return store
}

// Claim sets key if it is absent or expired and reports whether it did
func (ms *MemoryStore) Claim(_ context.Context, key string, ttl time.Duration) (bool, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	now := ms.now()
	if expires, ok := ms.items[key]; ok && now.Before(expires) {
		return false, nil
	}
	ms.items[key] = now.Add(ttl)
	return true, nil
}

// Release removes a claim
func (ms *MemoryStore) Release(_ context.Context, key string) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	delete(ms.items, key)
	return nil
}

// Len returns the number of live claims
func (ms *MemoryStore) Len() int {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	return len(ms.items)
}

// Close stops the sweeper goroutine
func (ms *MemoryStore) Close() error {
	ms.stopOnce.Do(func() { close(ms.stop) })
	<-ms.done
	return nil
}

func (ms *MemoryStore) sweep() {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	now := ms.now()
	for key, expires := range ms.items {
		if !now.Before(expires) {
			delete(ms.items, key)
		}
	}
}

// cleanupExpired periodically removes expired items
func (ms *MemoryStore) cleanupExpired(every time.Duration) {
	defer close(ms.done)

	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ms.stop:
			return
		case <-ticker.C:
			ms.sweep()
		}
	}
}
