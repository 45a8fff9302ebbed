package dispatch_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/a4ad/notifier/pkg/dispatch"
	"github.com/a4ad/notifier/pkg/event"
	"github.com/a4ad/notifier/pkg/notification"
	"github.com/a4ad/notifier/pkg/notifier"
)

// recordingDeliverer captures every delivery request.
type recordingDeliverer struct {
	calls []notifier.SendParams
}

func (d *recordingDeliverer) Deliver(_ context.Context, params notifier.SendParams) error {
	d.calls = append(d.calls, params)
	return nil
}

func TestHandlersTableCoversAllConsumedTopics(t *testing.T) {
	t.Parallel()

	table := dispatch.NewHandlers(&recordingDeliverer{}, nil).Table()
	for _, topic := range event.ConsumedTopics() {
		assert.Contains(t, table, topic)
	}
}

func TestRequestSubmittedHandler(t *testing.T) {
	t.Parallel()

	deliverer := &recordingDeliverer{}
	h := dispatch.NewHandlers(deliverer, nil)

	env := event.Envelope{
		Event:       "request.submitted",
		RequestID:   "req-1",
		InitiatorID: "I",
		Approvers:   []string{"A", "B"},
		Timestamp:   "2026-08-31T10:00:00Z",
	}

	require.NoError(t, h.RequestSubmitted(context.Background(), env))

	// One multi-channel notification per approver plus one email-only
	// confirmation for the initiator.
	require.Len(t, deliverer.calls, 3)

	approverA := deliverer.calls[0]
	assert.Equal(t, "A", approverA.UserID)
	assert.Equal(t, "request-submitted", approverA.Template)
	assert.ElementsMatch(t,
		[]notification.Channel{notification.ChannelEmail, notification.ChannelInApp},
		approverA.Channels)
	assert.Equal(t, "A", approverA.Data["approverId"])

	approverB := deliverer.calls[1]
	assert.Equal(t, "B", approverB.UserID)

	confirmation := deliverer.calls[2]
	assert.Equal(t, "I", confirmation.UserID)
	assert.Equal(t, "request-submitted-confirmation", confirmation.Template)
	assert.Equal(t, []notification.Channel{notification.ChannelEmail}, confirmation.Channels)
	assert.Equal(t, 2, confirmation.Data["approversCount"])
}

func TestRequestCompletedHandlerPicksVerdictTemplate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		result       string
		wantTemplate string
	}{
		{result: "approved", wantTemplate: "request-approved"},
		{result: "rejected", wantTemplate: "request-rejected"},
	}

	for _, tt := range tests {
		t.Run(tt.result, func(t *testing.T) {
			t.Parallel()

			deliverer := &recordingDeliverer{}
			h := dispatch.NewHandlers(deliverer, nil)

			env := event.Envelope{
				Event:       "request.completed",
				RequestID:   "req-1",
				InitiatorID: "I",
				Approvers:   []string{"A"},
				Result:      tt.result,
				Timestamp:   "2026-08-31T10:00:00Z",
			}

			require.NoError(t, h.RequestCompleted(context.Background(), env))
			require.Len(t, deliverer.calls, 2)
			assert.Equal(t, tt.wantTemplate, deliverer.calls[0].Template)
			assert.Equal(t, "I", deliverer.calls[0].UserID)
			assert.Equal(t, "A", deliverer.calls[1].UserID)
			assert.Equal(t, []notification.Channel{notification.ChannelInApp}, deliverer.calls[1].Channels)
		})
	}
}

func TestStageTimeoutHandler(t *testing.T) {
	t.Parallel()

	deliverer := &recordingDeliverer{}
	h := dispatch.NewHandlers(deliverer, nil)

	env := event.Envelope{
		Event:       "stage.timeout",
		RequestID:   "req-1",
		InitiatorID: "I",
		Approvers:   []string{"A", "B"},
		StageName:   "legal review",
		Deadline:    "2026-08-30T18:00:00Z",
		Timestamp:   "2026-08-31T10:00:00Z",
	}

	require.NoError(t, h.StageTimeout(context.Background(), env))
	require.Len(t, deliverer.calls, 3)

	assert.Equal(t, "stage-timeout", deliverer.calls[0].Template)
	assert.Equal(t, "stage-timeout", deliverer.calls[1].Template)
	assert.Equal(t, "stage-timeout-initiator", deliverer.calls[2].Template)
	assert.Equal(t, "I", deliverer.calls[2].UserID)
}

func TestSocialHandlersSkipSelfAction(t *testing.T) {
	t.Parallel()

	deliverer := &recordingDeliverer{}
	h := dispatch.NewHandlers(deliverer, nil)
	table := h.Table()

	env := event.Envelope{
		Event:     "comment.liked",
		UserID:    "u-1",
		ActorID:   "u-1", // liked their own comment
		TargetID:  "c-9",
		Timestamp: "2026-08-31T10:00:00Z",
	}

	require.NoError(t, table[event.TopicCommentLiked](context.Background(), env))
	assert.Empty(t, deliverer.calls)
}

func TestCommentCreatedHandler(t *testing.T) {
	t.Parallel()

	deliverer := &recordingDeliverer{}
	h := dispatch.NewHandlers(deliverer, nil)

	env := event.Envelope{
		Event:      "comment.created",
		UserID:     "author-1",
		ActorID:    "commenter-1",
		ActorName:  "Alice",
		TargetID:   "post-7",
		TargetType: "post",
		CommentID:  "c-42",
		Timestamp:  "2026-08-31T10:00:00Z",
	}

	require.NoError(t, h.CommentCreated(context.Background(), env))
	require.Len(t, deliverer.calls, 1)

	call := deliverer.calls[0]
	assert.Equal(t, "author-1", call.UserID)
	assert.Equal(t, "comment.created", call.Type)
	assert.Equal(t, "comment:c-42:author-1", call.IdempotencyKey)
	assert.ElementsMatch(t,
		[]notification.Channel{notification.ChannelInApp, notification.ChannelPush},
		call.Channels)
}

func TestMentionCreatedHandlerIdempotencyKey(t *testing.T) {
	t.Parallel()

	deliverer := &recordingDeliverer{}
	h := dispatch.NewHandlers(deliverer, nil)

	env := event.Envelope{
		Event:      "mention.created",
		UserID:     "u-2",
		ActorID:    "u-1",
		TargetID:   "c-5",
		TargetType: "comment",
		Timestamp:  "2026-08-31T10:00:00Z",
	}

	require.NoError(t, h.MentionCreated(context.Background(), env))
	require.Len(t, deliverer.calls, 1)
	assert.Equal(t, "mention:comment:c-5:u-2", deliverer.calls[0].IdempotencyKey)
}
