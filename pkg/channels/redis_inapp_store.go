package channels

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// feedCap bounds the per-user feed length. Older entries fall off;
	// the full history stays in Postgres.
	feedCap = 100

	// feedTTL expires abandoned feeds.
	feedTTL = 30 * 24 * time.Hour
)

// RedisInAppStore keeps each user's in-app feed in a capped Redis list and
// the unread IDs in a set, both expiring after 30 days of inactivity.
type RedisInAppStore struct {
	client redis.UniversalClient
}

// NewRedisInAppStore creates a feed store over the given Redis client.
func NewRedisInAppStore(client redis.UniversalClient) *RedisInAppStore {
	return &RedisInAppStore{client: client}
}

func feedKey(userID string) string   { return "user:" + userID + ":notifications" }
func unreadKey(userID string) string { return "user:" + userID + ":unread" }

func (s *RedisInAppStore) Push(ctx context.Context, userID string, item InAppItem) error {
	raw, err := json.Marshal(item)
	if err != nil {
		return fmt.Errorf("marshal feed item: %w", err)
	}

	pipe := s.client.TxPipeline()
	pipe.LPush(ctx, feedKey(userID), raw)
	pipe.LTrim(ctx, feedKey(userID), 0, feedCap-1)
	pipe.SAdd(ctx, unreadKey(userID), item.ID)
	pipe.Expire(ctx, feedKey(userID), feedTTL)
	pipe.Expire(ctx, unreadKey(userID), feedTTL)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("push feed item: %w", err)
	}
	return nil
}

func (s *RedisInAppStore) List(ctx context.Context, userID string, limit int) ([]InAppItem, error) {
	if limit <= 0 || limit > feedCap {
		limit = feedCap
	}

	raws, err := s.client.LRange(ctx, feedKey(userID), 0, int64(limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("read feed: %w", err)
	}

	items := make([]InAppItem, 0, len(raws))
	for _, raw := range raws {
		var item InAppItem
		if err := json.Unmarshal([]byte(raw), &item); err != nil {
			// A malformed entry is skipped rather than poisoning the feed.
			continue
		}
		items = append(items, item)
	}
	return items, nil
}

func (s *RedisInAppStore) UnreadCount(ctx context.Context, userID string) (int, error) {
	n, err := s.client.SCard(ctx, unreadKey(userID)).Result()
	if err != nil {
		return 0, fmt.Errorf("count unread: %w", err)
	}
	return int(n), nil
}

func (s *RedisInAppStore) MarkRead(ctx context.Context, userID string, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}

	members := make([]any, 0, len(ids))
	for _, id := range ids {
		members = append(members, id)
	}
	if err := s.client.SRem(ctx, unreadKey(userID), members...).Err(); err != nil {
		return fmt.Errorf("mark read: %w", err)
	}
	return nil
}

func (s *RedisInAppStore) MarkAllRead(ctx context.Context, userID string) error {
	if err := s.client.Del(ctx, unreadKey(userID)).Err(); err != nil {
		return fmt.Errorf("mark all read: %w", err)
	}
	return nil
}
