package broker

import (
	"context"
	"sync"
	"time"
)

// Memory is a process-local broker for tests and single-node development.
// Each topic is an ordered queue; a message stays at the head of its queue
// until the consumer's handler acknowledges it, so unacked messages are
// redelivered in order.
type Memory struct {
	mu     sync.Mutex
	queues map[string][]Message
	wake   chan struct{}
	closed bool
}

// NewMemory creates an empty in-memory broker.
func NewMemory() *Memory {
	return &Memory{
		queues: make(map[string][]Message),
		wake:   make(chan struct{}, 1),
	}
}

// Publish appends the message to its topic queue.
func (b *Memory) Publish(_ context.Context, msg Message) error {
	if msg.Topic == "" {
		return ErrEmptyTopic
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return ErrClosed
	}

	b.queues[msg.Topic] = append(b.queues[msg.Topic], msg)

	select {
	case b.wake <- struct{}{}:
	default:
	}
	return nil
}

// Close stops accepting publishes and wakes any blocked consumer.
func (b *Memory) Close() error {
	b.mu.Lock()
	b.closed = true
	b.mu.Unlock()

	select {
	case b.wake <- struct{}{}:
	default:
	}
	return nil
}

// Pending reports the number of undelivered messages on a topic.
func (b *Memory) Pending(topic string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.queues[topic])
}

// Consumer returns a consumer over this broker. Multiple consumers compete
// for messages the way members of one consumer group would.
func (b *Memory) Consumer() Consumer {
	return &memoryConsumer{broker: b}
}

type memoryConsumer struct {
	broker *Memory
	topics []string
}

func (c *memoryConsumer) Subscribe(topics ...string) error {
	if len(topics) == 0 {
		return ErrNoTopics
	}
	c.topics = append(c.topics, topics...)
	return nil
}

// Run delivers messages sequentially: one message at a time, popped from
// its queue only after fn returns nil. A failed handler leaves the message
// at the head, and delivery retries after a short backoff.
func (c *memoryConsumer) Run(ctx context.Context, fn HandlerFunc) error {
	if len(c.topics) == 0 {
		return ErrNoTopics
	}

	for {
		msg, ok := c.next()
		if !ok {
			b := c.broker
			b.mu.Lock()
			closed := b.closed
			b.mu.Unlock()
			if closed {
				return nil
			}

			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-b.wake:
			}
			continue
		}

		if err := fn(ctx, msg); err != nil {
			// Leave the message at the head for redelivery. The pause
			// keeps a permanently failing head from spinning the loop.
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(50 * time.Millisecond):
			}
			continue
		}

		c.pop(msg.Topic)
	}
}

func (c *memoryConsumer) Close() error { return nil }

// next peeks the head message of the first subscribed topic with a backlog.
func (c *memoryConsumer) next() (Message, bool) {
	c.broker.mu.Lock()
	defer c.broker.mu.Unlock()

	for _, topic := range c.topics {
		if q := c.broker.queues[topic]; len(q) > 0 {
			return q[0], true
		}
	}
	return Message{}, false
}

func (c *memoryConsumer) pop(topic string) {
	c.broker.mu.Lock()
	defer c.broker.mu.Unlock()

	if q := c.broker.queues[topic]; len(q) > 0 {
		c.broker.queues[topic] = q[1:]
	}
}
