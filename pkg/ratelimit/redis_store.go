package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// reserveScript performs evict + count + conditional insert as one atomic
// unit on the server, which closes the check-then-act race between
// concurrent callers on different service instances. The key's TTL is
// refreshed to the window on every successful insert.
var reserveScript = redis.NewScript(`
local key = KEYS[1]
local now = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
local limit = tonumber(ARGV[3])
local member = ARGV[4]

redis.call('ZREMRANGEBYSCORE', key, 0, now - window)
local count = redis.call('ZCARD', key)
if count < limit then
	redis.call('ZADD', key, now, member)
	redis.call('PEXPIRE', key, window)
	return {1, count + 1}
end
return {0, count}
`)

// RedisStore keeps each window as a sorted set of timestamped members,
// shared by every service instance.
type RedisStore struct {
	rdb       redis.UniversalClient
	keyPrefix string
}

// RedisStoreOption configures a RedisStore.
type RedisStoreOption func(*RedisStore)

// WithKeyPrefix namespaces all rate limit keys.
func WithKeyPrefix(prefix string) RedisStoreOption {
	return func(s *RedisStore) { s.keyPrefix = prefix }
}

// NewRedisStore creates a store over the given Redis client.
func NewRedisStore(rdb redis.UniversalClient, opts ...RedisStoreOption) *RedisStore {
	s := &RedisStore{
		rdb:       rdb,
		keyPrefix: "rate_limit:",
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *RedisStore) ReserveSlot(ctx context.Context, key string, limit int, window time.Duration) (bool, int64, error) {
	now := time.Now().UnixMilli()
	// A random member suffix keeps two tokens in the same millisecond from
	// collapsing into one sorted-set entry.
	member := fmt.Sprintf("%d-%s", now, uuid.NewString())

	res, err := reserveScript.Run(ctx, s.rdb,
		[]string{s.keyPrefix + key},
		now, window.Milliseconds(), limit, member,
	).Int64Slice()
	if err != nil {
		return false, 0, err
	}
	if len(res) != 2 {
		return false, 0, fmt.Errorf("unexpected script result: %v", res)
	}

	return res[0] == 1, res[1], nil
}

func (s *RedisStore) CountInWindow(ctx context.Context, key string, window time.Duration) (int64, error) {
	now := time.Now().UnixMilli()
	fullKey := s.keyPrefix + key

	pipe := s.rdb.Pipeline()
	pipe.ZRemRangeByScore(ctx, fullKey, "0", fmt.Sprintf("%d", now-window.Milliseconds()))
	card := pipe.ZCard(ctx, fullKey)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, err
	}
	return card.Val(), nil
}

func (s *RedisStore) Reset(ctx context.Context, key string) error {
	return s.rdb.Del(ctx, s.keyPrefix+key).Err()
}
