package broker

import "errors"

var (
	// ErrNoTopics is returned when Run is called before Subscribe.
	ErrNoTopics = errors.New("no topics subscribed")

	// ErrClosed is returned when publishing to or consuming from a closed
	// broker.
	ErrClosed = errors.New("broker is closed")

	// ErrEmptyTopic is returned when a message has no topic.
	ErrEmptyTopic = errors.New("message topic cannot be empty")

	// ErrPublishFailed wraps transport errors from the underlying store.
	ErrPublishFailed = errors.New("failed to publish message")
)
