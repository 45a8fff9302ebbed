package dispatch_test

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/a4ad/notifier/pkg/broker"
	"github.com/a4ad/notifier/pkg/dispatch"
	"github.com/a4ad/notifier/pkg/event"
)

// capturingProducer records every published message.
type capturingProducer struct {
	mu       sync.Mutex
	messages []broker.Message
	err      error
}

func (p *capturingProducer) Publish(_ context.Context, msg broker.Message) error {
	if p.err != nil {
		return p.err
	}
	p.mu.Lock()
	p.messages = append(p.messages, msg)
	p.mu.Unlock()
	return nil
}

func (p *capturingProducer) published() []broker.Message {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]broker.Message, len(p.messages))
	copy(out, p.messages)
	return out
}

// syncScheduler fires scheduled retries immediately and records delays.
type syncScheduler struct {
	mu     sync.Mutex
	delays []time.Duration
}

func (s *syncScheduler) schedule(d time.Duration, fn func()) {
	s.mu.Lock()
	s.delays = append(s.delays, d)
	s.mu.Unlock()
	fn()
}

func TestDelaySchedule(t *testing.T) {
	t.Parallel()

	tests := []struct {
		retryCount int
		want       time.Duration
	}{
		{0, time.Second},
		{1, 5 * time.Second},
		{2, 15 * time.Second},
		{3, 30 * time.Second},
		{4, 60 * time.Second},
		{5, 120 * time.Second},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, dispatch.Delay(tt.retryCount),
			"retryCount=%d", tt.retryCount)
	}
}

func TestHandleFailureSchedulesRetry(t *testing.T) {
	t.Parallel()

	producer := &capturingProducer{}
	scheduler := &syncScheduler{}
	mgr := dispatch.NewRetryManager(producer, dispatch.WithScheduler(scheduler.schedule))

	msg := broker.Message{Topic: event.TopicRequestSubmitted, Payload: []byte(`{"event":"request.submitted"}`)}

	outcome := mgr.HandleFailure(context.Background(), msg, errors.New("connection timeout"))

	assert.Equal(t, dispatch.RetryScheduled, outcome)
	require.Equal(t, []time.Duration{time.Second}, scheduler.delays)

	published := producer.published()
	require.Len(t, published, 1)
	assert.Equal(t, event.TopicRequestSubmitted, published[0].Topic)
	assert.Equal(t, 1, published[0].RetryCount())
	assert.Equal(t, msg.Payload, published[0].Payload)
}

func TestHandleFailureBackoffPerAttempt(t *testing.T) {
	t.Parallel()

	producer := &capturingProducer{}
	scheduler := &syncScheduler{}
	mgr := dispatch.NewRetryManager(producer, dispatch.WithScheduler(scheduler.schedule))

	msg := broker.Message{Topic: event.TopicCommentCreated, Payload: []byte(`{}`)}
	transient := errors.New("i/o timeout")

	for n := range 3 {
		outcome := mgr.HandleFailure(context.Background(), msg.WithRetryCount(n), transient)
		assert.Equal(t, dispatch.RetryScheduled, outcome)
	}

	assert.Equal(t, []time.Duration{time.Second, 5 * time.Second, 15 * time.Second}, scheduler.delays)
}

func TestHandleFailureDeadLettersAfterMaxRetries(t *testing.T) {
	t.Parallel()

	producer := &capturingProducer{}
	mgr := dispatch.NewRetryManager(producer)

	msg := broker.Message{
		Topic:   event.TopicRequestSubmitted,
		Payload: []byte(`{"event":"request.submitted","requestId":"req-1"}`),
	}
	msg = msg.WithRetryCount(3)

	outcome := mgr.HandleFailure(context.Background(), msg, errors.New("connection timeout"))
	assert.Equal(t, dispatch.DeadLettered, outcome)

	published := producer.published()
	require.Len(t, published, 1)
	assert.Equal(t, event.TopicDeadLetter, published[0].Topic)

	var dl struct {
		OriginalTopic   string          `json:"originalTopic"`
		OriginalPayload json.RawMessage `json:"originalPayload"`
		FailedAt        string          `json:"failedAt"`
		Error           struct {
			Message string `json:"message"`
			Kind    string `json:"kind"`
		} `json:"error"`
		RetryCount int `json:"retryCount"`
	}
	require.NoError(t, json.Unmarshal(published[0].Payload, &dl))
	assert.Equal(t, event.TopicRequestSubmitted, dl.OriginalTopic)
	assert.JSONEq(t, string(msg.Payload), string(dl.OriginalPayload))
	assert.Equal(t, 3, dl.RetryCount)
	assert.Equal(t, "connection timeout", dl.Error.Message)
	assert.NotEmpty(t, dl.FailedAt)
}

func TestHandleFailureNonRetryableShortCircuits(t *testing.T) {
	t.Parallel()

	producer := &capturingProducer{}
	scheduler := &syncScheduler{}
	mgr := dispatch.NewRetryManager(producer, dispatch.WithScheduler(scheduler.schedule))

	msg := broker.Message{Topic: event.TopicRequestCreated, Payload: []byte(`{}`)}

	// retryCount is 0: a retryable error would be scheduled, but a
	// validation failure goes straight to the dead-letter topic.
	outcome := mgr.HandleFailure(context.Background(), msg, errors.New("validation failed: approvers missing"))

	assert.Equal(t, dispatch.DeadLettered, outcome)
	assert.Empty(t, scheduler.delays)

	published := producer.published()
	require.Len(t, published, 1)
	assert.Equal(t, event.TopicDeadLetter, published[0].Topic)
	assert.Contains(t, string(published[0].Payload), `"kind":"validation"`)
}

func TestDeadLetterPublishFailureIsSwallowed(t *testing.T) {
	t.Parallel()

	producer := &capturingProducer{err: errors.New("broker unavailable")}
	mgr := dispatch.NewRetryManager(producer)

	msg := broker.Message{Topic: event.TopicPostLiked, Payload: []byte(`{}`)}

	outcome := mgr.HandleFailure(context.Background(), msg.WithRetryCount(3), errors.New("still failing"))
	assert.Equal(t, dispatch.DeadLettered, outcome)
}

func TestKindOf(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want dispatch.Kind
	}{
		{name: "validation text", err: errors.New("Validation failed"), want: dispatch.KindValidation},
		{name: "authentication text", err: errors.New("authentication required"), want: dispatch.KindAuth},
		{name: "authorization text", err: errors.New("authorization denied"), want: dispatch.KindAuth},
		{name: "permission text", err: errors.New("permission denied"), want: dispatch.KindAuth},
		{name: "not found text", err: errors.New("user not found"), want: dispatch.KindNotFound},
		{name: "bad request text", err: errors.New("Bad Request"), want: dispatch.KindBadRequest},
		{name: "unclassified", err: errors.New("dial tcp: i/o timeout"), want: dispatch.KindUnknown},
		{
			name: "explicit kind wins over text",
			err:  dispatch.WithKind(errors.New("validation-looking message"), dispatch.KindTransient),
			want: dispatch.KindTransient,
		},
		{
			name: "wrapped explicit kind",
			err:  errors.Join(errors.New("outer"), dispatch.WithKind(errors.New("inner"), dispatch.KindNotFound)),
			want: dispatch.KindNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, dispatch.KindOf(tt.err))
		})
	}
}

func TestKindRetryable(t *testing.T) {
	t.Parallel()

	assert.False(t, dispatch.KindValidation.Retryable())
	assert.False(t, dispatch.KindAuth.Retryable())
	assert.False(t, dispatch.KindNotFound.Retryable())
	assert.False(t, dispatch.KindBadRequest.Retryable())
	assert.True(t, dispatch.KindTransient.Retryable())
	assert.True(t, dispatch.KindUnknown.Retryable())
}
