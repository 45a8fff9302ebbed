package event_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/a4ad/notifier/pkg/event"
)

func TestParse(t *testing.T) {
	t.Parallel()

	t.Run("valid envelope", func(t *testing.T) {
		t.Parallel()

		raw := []byte(`{
			"event": "request.submitted",
			"requestId": "req-42",
			"initiatorId": "user-1",
			"approvers": ["a", "b"],
			"payload": {"priority": "high"},
			"timestamp": "2025-01-15T10:00:00Z"
		}`)

		env, err := event.Parse(raw)
		require.NoError(t, err)
		assert.Equal(t, "request.submitted", env.Event)
		assert.Equal(t, "req-42", env.RequestID)
		assert.Equal(t, []string{"a", "b"}, env.Approvers)
		assert.Equal(t, "high", env.Payload["priority"])
	})

	t.Run("invalid json", func(t *testing.T) {
		t.Parallel()

		_, err := event.Parse([]byte(`{not json`))
		assert.ErrorIs(t, err, event.ErrMalformedEnvelope)
	})

	t.Run("missing event type", func(t *testing.T) {
		t.Parallel()

		_, err := event.Parse([]byte(`{"requestId": "req-1"}`))
		assert.ErrorIs(t, err, event.ErrMalformedEnvelope)
		assert.ErrorIs(t, err, event.ErrMissingEventType)
	})
}

func TestTemplateData(t *testing.T) {
	t.Parallel()

	env := event.Envelope{
		Event:       "stage.timeout",
		RequestID:   "req-7",
		InitiatorID: "user-9",
		StageName:   "legal review",
		Deadline:    "2025-02-01T00:00:00Z",
		Timestamp:   "2025-01-31T00:00:00Z",
		Payload: map[string]any{
			"requestId": "shadowed",
			"extra":     42,
		},
	}

	data := env.TemplateData()

	// Explicit envelope fields take precedence over payload entries.
	assert.Equal(t, "req-7", data["requestId"])
	assert.Equal(t, "legal review", data["stageName"])
	assert.Equal(t, 42, data["extra"])
	assert.NotContains(t, data, "reason")
}
