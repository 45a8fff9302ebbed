package broker

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// StreamConfig tunes the Redis Streams transport.
type StreamConfig struct {
	Group       string        `env:"BROKER_GROUP" envDefault:"notifier"`       // Consumer group shared by all service instances.
	BlockTime   time.Duration `env:"BROKER_BLOCK_TIME" envDefault:"5s"`        // How long one XREADGROUP call blocks waiting for messages.
	StreamMaxLen int64        `env:"BROKER_STREAM_MAXLEN" envDefault:"100000"` // Approximate per-stream retention cap.
}

const (
	fieldKey     = "key"
	fieldPayload = "payload"
	fieldHeaders = "headers"
)

// StreamProducer publishes messages as Redis Stream entries, one stream per
// topic.
type StreamProducer struct {
	rdb    redis.UniversalClient
	maxLen int64
}

// NewStreamProducer creates a producer over the given Redis client.
func NewStreamProducer(rdb redis.UniversalClient, cfg StreamConfig) *StreamProducer {
	return &StreamProducer{rdb: rdb, maxLen: cfg.StreamMaxLen}
}

func (p *StreamProducer) Publish(ctx context.Context, msg Message) error {
	if msg.Topic == "" {
		return ErrEmptyTopic
	}

	values := map[string]any{
		fieldKey:     msg.Key,
		fieldPayload: string(msg.Payload),
	}
	if len(msg.Headers) > 0 {
		headers, err := json.Marshal(msg.Headers)
		if err != nil {
			return errors.Join(ErrPublishFailed, err)
		}
		values[fieldHeaders] = string(headers)
	}

	if err := p.rdb.XAdd(ctx, &redis.XAddArgs{
		Stream: msg.Topic,
		MaxLen: p.maxLen,
		Approx: true,
		Values: values,
	}).Err(); err != nil {
		return errors.Join(ErrPublishFailed, err)
	}
	return nil
}

// StreamConsumer reads subscribed topic streams through a consumer group.
// XACK after a successful handler call is the offset commit; entries left
// in the pending list are reclaimed the next time an instance starts.
type StreamConsumer struct {
	rdb      redis.UniversalClient
	group    string
	consumer string
	block    time.Duration
	topics   []string
	logger   *slog.Logger
}

// StreamConsumerOption configures a StreamConsumer.
type StreamConsumerOption func(*StreamConsumer)

// WithStreamLogger sets the logger used for delivery diagnostics.
func WithStreamLogger(l *slog.Logger) StreamConsumerOption {
	return func(c *StreamConsumer) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewStreamConsumer creates a consumer in cfg.Group with a unique consumer
// name, so multiple instances share the work while each entry is delivered
// to exactly one of them.
func NewStreamConsumer(rdb redis.UniversalClient, cfg StreamConfig, opts ...StreamConsumerOption) *StreamConsumer {
	c := &StreamConsumer{
		rdb:      rdb,
		group:    cfg.Group,
		consumer: cfg.Group + "-" + uuid.NewString(),
		block:    cfg.BlockTime,
		logger:   slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *StreamConsumer) Subscribe(topics ...string) error {
	if len(topics) == 0 {
		return ErrNoTopics
	}
	c.topics = append(c.topics, topics...)
	return nil
}

func (c *StreamConsumer) Run(ctx context.Context, fn HandlerFunc) error {
	if len(c.topics) == 0 {
		return ErrNoTopics
	}

	if err := c.ensureGroups(ctx); err != nil {
		return err
	}

	// Entries delivered to a crashed instance sit in the group's pending
	// list. Drain them first so an unacked message is handled before new
	// traffic; this is the at-least-once redelivery path.
	if err := c.drainPending(ctx, fn); err != nil {
		return err
	}

	streams := make([]string, 0, len(c.topics)*2)
	streams = append(streams, c.topics...)
	for range c.topics {
		streams = append(streams, ">")
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		res, err := c.rdb.XReadGroup(ctx, &redis.XReadGroupArgs{
			Group:    c.group,
			Consumer: c.consumer,
			Streams:  streams,
			Count:    1,
			Block:    c.block,
		}).Result()
		if err != nil {
			if errors.Is(err, redis.Nil) || errors.Is(err, context.Canceled) {
				continue
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			c.logger.ErrorContext(ctx, "stream read failed", slog.Any("error", err))
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(time.Second):
			}
			continue
		}

		for _, stream := range res {
			for _, entry := range stream.Messages {
				c.deliver(ctx, fn, stream.Stream, entry)
			}
		}
	}
}

func (c *StreamConsumer) Close() error { return nil }

// deliver invokes the handler and acks on success. A failed handler leaves
// the entry pending for the next restart's drain.
func (c *StreamConsumer) deliver(ctx context.Context, fn HandlerFunc, stream string, entry redis.XMessage) {
	msg := decodeEntry(stream, entry)

	if err := fn(ctx, msg); err != nil {
		c.logger.WarnContext(ctx, "message left pending",
			slog.String("topic", stream),
			slog.String("entry_id", entry.ID),
			slog.Any("error", err))
		return
	}

	if err := c.rdb.XAck(ctx, stream, c.group, entry.ID).Err(); err != nil {
		c.logger.ErrorContext(ctx, "failed to ack message",
			slog.String("topic", stream),
			slog.String("entry_id", entry.ID),
			slog.Any("error", err))
	}
}

// drainPending claims entries that were delivered to a consumer that never
// acked them (for example an instance that crashed mid-handling) and runs
// them through the handler. MinIdle keeps freshly in-flight entries of
// healthy instances from being stolen.
func (c *StreamConsumer) drainPending(ctx context.Context, fn HandlerFunc) error {
	for _, topic := range c.topics {
		start := "0-0"
		for {
			entries, next, err := c.rdb.XAutoClaim(ctx, &redis.XAutoClaimArgs{
				Stream:   topic,
				Group:    c.group,
				Consumer: c.consumer,
				MinIdle:  time.Minute,
				Start:    start,
				Count:    10,
			}).Result()
			if err != nil {
				if errors.Is(err, redis.Nil) {
					break
				}
				return err
			}
			for _, entry := range entries {
				c.deliver(ctx, fn, topic, entry)
			}
			if len(entries) == 0 || next == "0-0" {
				break
			}
			start = next
		}
	}
	return nil
}

func (c *StreamConsumer) ensureGroups(ctx context.Context) error {
	for _, topic := range c.topics {
		err := c.rdb.XGroupCreateMkStream(ctx, topic, c.group, "0").Err()
		if err != nil && !strings.Contains(err.Error(), "BUSYGROUP") {
			return err
		}
	}
	return nil
}

func decodeEntry(stream string, entry redis.XMessage) Message {
	msg := Message{Topic: stream}

	if key, ok := entry.Values[fieldKey].(string); ok {
		msg.Key = key
	}
	if payload, ok := entry.Values[fieldPayload].(string); ok {
		msg.Payload = []byte(payload)
	}
	if raw, ok := entry.Values[fieldHeaders].(string); ok && raw != "" {
		headers := make(map[string]string)
		if err := json.Unmarshal([]byte(raw), &headers); err == nil {
			msg.Headers = headers
		}
	}
	return msg
}
