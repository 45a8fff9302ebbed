package channels

import (
	"context"
	"sync"
)

// MemoryInAppStore is an in-memory InAppStore for tests and local
// development. It applies the same feed cap as the Redis store.
type MemoryInAppStore struct {
	mu     sync.RWMutex
	feeds  map[string][]InAppItem
	unread map[string]map[string]struct{}
}

// NewMemoryInAppStore creates an empty in-memory feed store.
func NewMemoryInAppStore() *MemoryInAppStore {
	return &MemoryInAppStore{
		feeds:  make(map[string][]InAppItem),
		unread: make(map[string]map[string]struct{}),
	}
}

func (s *MemoryInAppStore) Push(_ context.Context, userID string, item InAppItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	feed := append([]InAppItem{item}, s.feeds[userID]...)
	if len(feed) > feedCap {
		feed = feed[:feedCap]
	}
	s.feeds[userID] = feed

	if s.unread[userID] == nil {
		s.unread[userID] = make(map[string]struct{})
	}
	s.unread[userID][item.ID] = struct{}{}
	return nil
}

func (s *MemoryInAppStore) List(_ context.Context, userID string, limit int) ([]InAppItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 || limit > feedCap {
		limit = feedCap
	}

	feed := s.feeds[userID]
	if len(feed) > limit {
		feed = feed[:limit]
	}

	out := make([]InAppItem, len(feed))
	copy(out, feed)
	return out, nil
}

func (s *MemoryInAppStore) UnreadCount(_ context.Context, userID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.unread[userID]), nil
}

func (s *MemoryInAppStore) MarkRead(_ context.Context, userID string, ids ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, id := range ids {
		delete(s.unread[userID], id)
	}
	return nil
}

func (s *MemoryInAppStore) MarkAllRead(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.unread, userID)
	return nil
}
