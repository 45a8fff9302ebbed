package ratelimit

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is an in-memory Store for tests and single-node deployments.
// A background loop drops windows whose newest token aged out, mirroring
// the TTL the Redis store puts on its keys.
type MemoryStore struct {
	mu      sync.Mutex
	windows map[string][]time.Time

	cleanupInterval time.Duration
	stopCleanup     chan struct{}
	cleanupOnce     sync.Once
}

// MemoryStoreOption configures a MemoryStore.
type MemoryStoreOption func(*MemoryStore)

// WithCleanupInterval sets how often aged-out windows are dropped.
func WithCleanupInterval(interval time.Duration) MemoryStoreOption {
	return func(s *MemoryStore) {
		if interval > 0 {
			s.cleanupInterval = interval
		}
	}
}

// NewMemoryStore creates an in-memory store with background cleanup.
func NewMemoryStore(opts ...MemoryStoreOption) *MemoryStore {
	s := &MemoryStore{
		windows:         make(map[string][]time.Time),
		cleanupInterval: time.Minute,
		stopCleanup:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}

	go s.cleanupLoop()

	return s
}

func (s *MemoryStore) ReserveSlot(_ context.Context, key string, limit int, window time.Duration) (bool, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	live := s.evictLocked(key, now, window)

	if len(live) >= limit {
		return false, int64(len(live)), nil
	}

	live = append(live, now)
	s.windows[key] = live
	return true, int64(len(live)), nil
}

func (s *MemoryStore) CountInWindow(_ context.Context, key string, window time.Duration) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	live := s.evictLocked(key, time.Now(), window)
	return int64(len(live)), nil
}

func (s *MemoryStore) Reset(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.windows, key)
	return nil
}

// evictLocked drops tokens older than now-window. Caller holds the lock.
func (s *MemoryStore) evictLocked(key string, now time.Time, window time.Duration) []time.Time {
	cutoff := now.Add(-window)
	tokens := s.windows[key]

	live := tokens[:0]
	for _, ts := range tokens {
		if ts.After(cutoff) {
			live = append(live, ts)
		}
	}

	if len(live) == 0 {
		delete(s.windows, key)
		return nil
	}
	s.windows[key] = live
	return live
}

func (s *MemoryStore) cleanupLoop() {
	ticker := time.NewTicker(s.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.cleanup()
		case <-s.stopCleanup:
			return
		}
	}
}

// cleanup drops windows whose newest token is older than the cleanup
// interval; their effective TTL has long expired for any plausible window.
func (s *MemoryStore) cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := time.Now().Add(-s.cleanupInterval)
	for key, tokens := range s.windows {
		if len(tokens) == 0 || tokens[len(tokens)-1].Before(cutoff) {
			delete(s.windows, key)
		}
	}
}

// Close stops the cleanup goroutine.
func (s *MemoryStore) Close() error {
	s.cleanupOnce.Do(func() {
		close(s.stopCleanup)
	})
	return nil
}
