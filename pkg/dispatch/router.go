package dispatch

import (
	"context"
	"log/slog"

	"github.com/a4ad/notifier/pkg/broker"
	"github.com/a4ad/notifier/pkg/event"
)

// Handler processes one parsed event.
type Handler func(ctx context.Context, env event.Envelope) error

// Router maps event types to handlers and reports an Outcome per message.
// Per-topic delivery is sequential upstream, so the commit-after-success
// contract holds without extra synchronization here.
type Router struct {
	handlers map[string]Handler
	retry    *RetryManager
	logger   *slog.Logger
}

// NewRouter creates a router over a fixed handler table.
func NewRouter(handlers map[string]Handler, retry *RetryManager, logger *slog.Logger) *Router {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Router{handlers: handlers, retry: retry, logger: logger}
}

// Dispatch handles one consumed message.
func (r *Router) Dispatch(ctx context.Context, msg broker.Message) Outcome {
	env, err := event.Parse(msg.Payload)
	if err != nil {
		// Malformed input never parses on retry.
		r.logger.ErrorContext(ctx, "unparseable event payload",
			slog.String("topic", msg.Topic),
			slog.Any("error", err))
		return r.retry.DeadLetter(ctx, msg, WithKind(err, KindValidation))
	}

	handler, ok := r.handlers[env.Event]
	if !ok {
		r.logger.InfoContext(ctx, "no handler for event type, skipping",
			slog.String("event", env.Event),
			slog.String("topic", msg.Topic))
		return Committed
	}

	if err := handler(ctx, env); err != nil {
		return r.retry.HandleFailure(ctx, msg, err)
	}

	r.logger.DebugContext(ctx, "event handled",
		slog.String("event", env.Event),
		slog.String("topic", msg.Topic))
	return Committed
}

// AsBrokerHandler adapts the router to the consumer loop. Every outcome
// acks the message: a retry travels as a fresh re-injected copy and a
// dead-lettered message has been handed to its terminal topic, so the
// original offset is safe to commit either way.
func (r *Router) AsBrokerHandler() broker.HandlerFunc {
	return func(ctx context.Context, msg broker.Message) error {
		r.Dispatch(ctx, msg)
		return nil
	}
}
