package notification

import (
	"context"
	"sort"
	"sync"
	"time"
)

const defaultListLimit = 50

// MemoryStorage is an in-memory Storage for tests and local development.
type MemoryStorage struct {
	mu      sync.RWMutex
	byID    map[string]*Notification
	byKey   map[string]string   // idempotency key -> notification ID
	byUser  map[string][]string // userID -> notification IDs, insertion order
}

// NewMemoryStorage creates an empty in-memory storage.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		byID:   make(map[string]*Notification),
		byKey:  make(map[string]string),
		byUser: make(map[string][]string),
	}
}

func (s *MemoryStorage) Reserve(_ context.Context, notif Notification) (Notification, bool, error) {
	if err := notif.Validate(); err != nil {
		return Notification{}, false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if notif.IdempotencyKey != "" {
		if id, ok := s.byKey[notif.IdempotencyKey]; ok {
			return *s.byID[id], false, nil
		}
	}

	now := time.Now().UTC()
	if notif.CreatedAt.IsZero() {
		notif.CreatedAt = now
	}
	notif.UpdatedAt = now

	stored := notif
	s.byID[stored.ID] = &stored
	s.byUser[stored.UserID] = append(s.byUser[stored.UserID], stored.ID)
	if stored.IdempotencyKey != "" {
		s.byKey[stored.IdempotencyKey] = stored.ID
	}

	return stored, true, nil
}

func (s *MemoryStorage) MarkSent(_ context.Context, id string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, ok := s.byID[id]
	if !ok {
		return ErrNotFound
	}
	if n.SentAt != nil {
		return ErrAlreadySent
	}

	at = at.UTC()
	n.SentAt = &at
	n.UpdatedAt = time.Now().UTC()
	return nil
}

func (s *MemoryStorage) Get(_ context.Context, userID, id string) (*Notification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n, ok := s.byID[id]
	if !ok || n.UserID != userID {
		return nil, ErrNotFound
	}

	out := *n
	return &out, nil
}

func (s *MemoryStorage) List(_ context.Context, userID string, opts ListOptions) ([]Notification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := s.byUser[userID]
	matched := make([]Notification, 0, len(ids))
	for _, id := range ids {
		n := s.byID[id]
		if opts.OnlyUnread && n.IsRead {
			continue
		}
		if opts.Type != "" && n.Type != opts.Type {
			continue
		}
		matched = append(matched, *n)
	}

	// Newest first, matching the Postgres ORDER BY.
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	limit := opts.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}

	if opts.Offset >= len(matched) {
		return []Notification{}, nil
	}
	matched = matched[opts.Offset:]
	if len(matched) > limit {
		matched = matched[:limit]
	}

	return matched, nil
}

func (s *MemoryStorage) CountUnread(_ context.Context, userID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, id := range s.byUser[userID] {
		if !s.byID[id].IsRead {
			count++
		}
	}
	return count, nil
}

func (s *MemoryStorage) MarkRead(_ context.Context, userID string, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	for _, id := range ids {
		n, ok := s.byID[id]
		if !ok || n.UserID != userID {
			return ErrNotFound
		}
		if !n.IsRead {
			n.IsRead = true
			n.UpdatedAt = now
		}
	}
	return nil
}

func (s *MemoryStorage) MarkAllRead(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	for _, id := range s.byUser[userID] {
		n := s.byID[id]
		if !n.IsRead {
			n.IsRead = true
			n.UpdatedAt = now
		}
	}
	return nil
}
