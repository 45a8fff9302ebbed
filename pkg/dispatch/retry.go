package dispatch

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/a4ad/notifier/pkg/broker"
	"github.com/a4ad/notifier/pkg/event"
)

const maxRetries = 3

// retryDelays is the fixed backoff table; attempts beyond its length fall
// back to exponential growth from the last entry.
var retryDelays = [...]time.Duration{time.Second, 5 * time.Second, 15 * time.Second}

// RetryManager decides the fate of a failed message: delayed re-injection
// through the producer, or publication to the dead-letter topic. Scheduled
// retries live in process memory; a crash before the timer fires drops
// them, matching the at-least-once delivery contract upstream.
type RetryManager struct {
	producer  broker.Producer
	logger    *slog.Logger
	scheduler func(d time.Duration, fn func())
}

// RetryOption configures a RetryManager.
type RetryOption func(*RetryManager)

// WithRetryLogger sets the manager logger.
func WithRetryLogger(l *slog.Logger) RetryOption {
	return func(m *RetryManager) {
		if l != nil {
			m.logger = l
		}
	}
}

// WithScheduler replaces the delay scheduler. Tests use it to fire retries
// synchronously.
func WithScheduler(s func(d time.Duration, fn func())) RetryOption {
	return func(m *RetryManager) {
		if s != nil {
			m.scheduler = s
		}
	}
}

// NewRetryManager creates a manager publishing through the given producer.
func NewRetryManager(producer broker.Producer, opts ...RetryOption) *RetryManager {
	m := &RetryManager{
		producer: producer,
		logger:   slog.New(slog.DiscardHandler),
		scheduler: func(d time.Duration, fn func()) {
			time.AfterFunc(d, fn)
		},
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// HandleFailure classifies the handler error and either schedules a retry
// or dead-letters the message.
func (m *RetryManager) HandleFailure(ctx context.Context, msg broker.Message, handlerErr error) Outcome {
	kind := KindOf(handlerErr)
	retryCount := msg.RetryCount()

	if !kind.Retryable() {
		m.logger.WarnContext(ctx, "non-retryable failure, dead-lettering",
			slog.String("topic", msg.Topic),
			slog.String("kind", string(kind)),
			slog.Int("retry_count", retryCount),
			slog.Any("error", handlerErr))
		m.deadLetter(ctx, msg, handlerErr, kind)
		return DeadLettered
	}

	if retryCount >= maxRetries {
		m.logger.WarnContext(ctx, "retry budget exhausted, dead-lettering",
			slog.String("topic", msg.Topic),
			slog.Int("retry_count", retryCount),
			slog.Any("error", handlerErr))
		m.deadLetter(ctx, msg, handlerErr, kind)
		return DeadLettered
	}

	delay := Delay(retryCount)
	next := msg.WithRetryCount(retryCount + 1)

	m.scheduler(delay, func() {
		// The consuming context is long gone when the timer fires.
		pubCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := m.producer.Publish(pubCtx, next); err != nil {
			m.logger.Error("failed to re-inject message for retry",
				slog.String("topic", next.Topic),
				slog.Int("retry_count", next.RetryCount()),
				slog.Any("error", err))
			m.deadLetter(pubCtx, msg, handlerErr, kind)
		}
	})

	m.logger.InfoContext(ctx, "retry scheduled",
		slog.String("topic", msg.Topic),
		slog.Int("attempt", retryCount+1),
		slog.Duration("delay", delay))
	return RetryScheduled
}

// DeadLetter publishes the message straight to the dead-letter topic,
// bypassing the retry schedule. Used for failures that can never succeed,
// such as a payload that does not parse.
func (m *RetryManager) DeadLetter(ctx context.Context, msg broker.Message, cause error) Outcome {
	m.deadLetter(ctx, msg, cause, KindOf(cause))
	return DeadLettered
}

// Delay returns the backoff before attempt retryCount is retried: the
// fixed table first, then doubling from its last entry.
func Delay(retryCount int) time.Duration {
	if retryCount < len(retryDelays) {
		return retryDelays[retryCount]
	}
	return retryDelays[len(retryDelays)-1] << (retryCount - len(retryDelays) + 1)
}

// deadLetterEvent is the payload published to the dead-letter topic.
type deadLetterEvent struct {
	OriginalTopic   string          `json:"originalTopic"`
	OriginalPayload json.RawMessage `json:"originalPayload"`
	FailedAt        string          `json:"failedAt"`
	Error           struct {
		Message string `json:"message"`
		Kind    string `json:"kind"`
	} `json:"error"`
	RetryCount int `json:"retryCount"`
}

// deadLetter is best-effort: a publish failure is logged and swallowed so
// a broken dead-letter topic cannot create an infinite failure loop.
func (m *RetryManager) deadLetter(ctx context.Context, msg broker.Message, cause error, kind Kind) {
	dl := deadLetterEvent{
		OriginalTopic:   msg.Topic,
		OriginalPayload: json.RawMessage(msg.Payload),
		FailedAt:        time.Now().UTC().Format(time.RFC3339),
		RetryCount:      msg.RetryCount(),
	}
	if !json.Valid(msg.Payload) {
		// Keep the raw bytes inspectable even when they are not JSON.
		quoted, _ := json.Marshal(string(msg.Payload))
		dl.OriginalPayload = quoted
	}
	if cause != nil {
		dl.Error.Message = cause.Error()
	}
	dl.Error.Kind = string(kind)

	payload, err := json.Marshal(dl)
	if err != nil {
		m.logger.ErrorContext(ctx, "failed to marshal dead-letter event", slog.Any("error", err))
		return
	}

	if err := m.producer.Publish(ctx, broker.Message{
		Topic:   event.TopicDeadLetter,
		Key:     msg.Key,
		Payload: payload,
	}); err != nil {
		m.logger.ErrorContext(ctx, "failed to publish dead-letter event, message lost",
			slog.String("original_topic", msg.Topic),
			slog.Any("error", err))
	}
}
