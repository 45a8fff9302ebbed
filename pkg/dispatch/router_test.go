package dispatch_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/a4ad/notifier/pkg/broker"
	"github.com/a4ad/notifier/pkg/dispatch"
	"github.com/a4ad/notifier/pkg/event"
)

func newTestRouter(handlers map[string]dispatch.Handler, producer broker.Producer) *dispatch.Router {
	mgr := dispatch.NewRetryManager(producer,
		dispatch.WithScheduler(func(_ time.Duration, fn func()) { fn() }))
	return dispatch.NewRouter(handlers, mgr, nil)
}

func TestRouterDispatchCommitsOnSuccess(t *testing.T) {
	t.Parallel()

	var handled []string
	router := newTestRouter(map[string]dispatch.Handler{
		event.TopicRequestCreated: func(_ context.Context, env event.Envelope) error {
			handled = append(handled, env.RequestID)
			return nil
		},
	}, &capturingProducer{})

	outcome := router.Dispatch(context.Background(), broker.Message{
		Topic:   event.TopicRequestCreated,
		Payload: []byte(`{"event":"request.created","requestId":"req-1","initiatorId":"u-1","timestamp":"2026-08-31T10:00:00Z"}`),
	})

	assert.Equal(t, dispatch.Committed, outcome)
	assert.Equal(t, []string{"req-1"}, handled)
}

func TestRouterDispatchDeadLettersUnparseablePayload(t *testing.T) {
	t.Parallel()

	producer := &capturingProducer{}
	router := newTestRouter(map[string]dispatch.Handler{}, producer)

	outcome := router.Dispatch(context.Background(), broker.Message{
		Topic:   event.TopicRequestCreated,
		Payload: []byte(`{not json`),
	})

	// Malformed input is non-retryable: straight to the dead-letter topic.
	assert.Equal(t, dispatch.DeadLettered, outcome)

	published := producer.published()
	require.Len(t, published, 1)
	assert.Equal(t, event.TopicDeadLetter, published[0].Topic)
}

func TestRouterDispatchSkipsUnknownEventType(t *testing.T) {
	t.Parallel()

	producer := &capturingProducer{}
	router := newTestRouter(map[string]dispatch.Handler{}, producer)

	outcome := router.Dispatch(context.Background(), broker.Message{
		Topic:   "user.registered",
		Payload: []byte(`{"event":"user.registered","timestamp":"2026-08-31T10:00:00Z"}`),
	})

	// No handler is a committed no-op, not an error.
	assert.Equal(t, dispatch.Committed, outcome)
	assert.Empty(t, producer.published())
}

func TestRouterDispatchHandsFailureToRetry(t *testing.T) {
	t.Parallel()

	producer := &capturingProducer{}
	router := newTestRouter(map[string]dispatch.Handler{
		event.TopicCommentLiked: func(context.Context, event.Envelope) error {
			return errors.New("redis connection refused")
		},
	}, producer)

	outcome := router.Dispatch(context.Background(), broker.Message{
		Topic:   event.TopicCommentLiked,
		Payload: []byte(`{"event":"comment.liked","userId":"u-1","actorId":"u-2","timestamp":"2026-08-31T10:00:00Z"}`),
	})

	assert.Equal(t, dispatch.RetryScheduled, outcome)

	published := producer.published()
	require.Len(t, published, 1)
	assert.Equal(t, event.TopicCommentLiked, published[0].Topic)
	assert.Equal(t, 1, published[0].RetryCount())
}

func TestRouterAsBrokerHandlerAlwaysAcks(t *testing.T) {
	t.Parallel()

	router := newTestRouter(map[string]dispatch.Handler{
		event.TopicPostLiked: func(context.Context, event.Envelope) error {
			return errors.New("validation failed")
		},
	}, &capturingProducer{})

	fn := router.AsBrokerHandler()

	// Failure outcomes still ack: the message moved to retry or DLQ.
	assert.NoError(t, fn(context.Background(), broker.Message{
		Topic:   event.TopicPostLiked,
		Payload: []byte(`{"event":"post.liked","userId":"u-1","actorId":"u-2","timestamp":"2026-08-31T10:00:00Z"}`),
	}))
	assert.NoError(t, fn(context.Background(), broker.Message{
		Topic:   event.TopicPostLiked,
		Payload: []byte(`not json`),
	}))
}
