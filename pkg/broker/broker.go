package broker

import "context"

// Producer publishes messages to a topic stream.
type Producer interface {
	Publish(ctx context.Context, msg Message) error
}

// HandlerFunc processes one delivered message. Returning nil acknowledges
// the message (the offset commit); returning an error leaves it pending so
// the broker redelivers it later.
type HandlerFunc func(ctx context.Context, msg Message) error

// Consumer delivers subscribed topics to a handler. Delivery within one
// topic stream is strictly sequential: the next message is not handed to
// the handler until the previous one was acknowledged or parked.
type Consumer interface {
	// Subscribe registers the topics to consume. Must be called before Run.
	Subscribe(topics ...string) error

	// Run blocks, delivering messages to fn until ctx is cancelled.
	Run(ctx context.Context, fn HandlerFunc) error

	// Close releases consumer resources. Safe to call after Run returns.
	Close() error
}
