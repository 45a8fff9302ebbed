package event

import (
	"encoding/json"
	"errors"
	"fmt"
)

var (
	// ErrMalformedEnvelope is returned when the payload is not a valid
	// envelope. Malformed input cannot be fixed by retrying, so the intake
	// router treats this as non-retryable.
	ErrMalformedEnvelope = errors.New("malformed event envelope")

	// ErrMissingEventType is returned when the envelope has no event field.
	ErrMissingEventType = errors.New("envelope has no event type")
)

// Envelope is the wire schema shared by all consumed events. Fields beyond
// the base set are populated only for the event types that carry them.
type Envelope struct {
	Event       string `json:"event"`
	RequestID   string `json:"requestId,omitempty"`
	InitiatorID string `json:"initiatorId,omitempty"`

	CurrentStageID string   `json:"currentStageId,omitempty"`
	Approvers      []string `json:"approvers,omitempty"`

	// Stage timer fields.
	StageID        string `json:"stageId,omitempty"`
	StageName      string `json:"stageName,omitempty"`
	NextStageID    string `json:"nextStageId,omitempty"`
	NextStageName  string `json:"nextStageName,omitempty"`
	Deadline       string `json:"deadline,omitempty"`
	HoursRemaining string `json:"hoursRemaining,omitempty"`

	// Workflow outcome fields.
	Result          string   `json:"result,omitempty"` // approved | rejected
	Reason          string   `json:"reason,omitempty"`
	RequiredChanges []string `json:"requiredChanges,omitempty"`

	// Social fields.
	UserID     string `json:"userId,omitempty"` // recipient of a social notification
	ActorID    string `json:"actorId,omitempty"`
	ActorName  string `json:"actorName,omitempty"`
	TargetID   string `json:"targetId,omitempty"`
	TargetType string `json:"targetType,omitempty"` // post | comment
	CommentID  string `json:"commentId,omitempty"`

	// Payload carries free-form template data merged into the notification.
	Payload map[string]any `json:"payload,omitempty"`

	Timestamp string `json:"timestamp"`
}

// Parse decodes an envelope from raw bytes. Any decode failure is wrapped
// with ErrMalformedEnvelope.
func Parse(raw []byte) (Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return Envelope{}, fmt.Errorf("%w: %w", ErrMalformedEnvelope, err)
	}
	if env.Event == "" {
		return Envelope{}, fmt.Errorf("%w: %w", ErrMalformedEnvelope, ErrMissingEventType)
	}
	return env, nil
}

// TemplateData flattens the envelope into the key/value map consumed by the
// template renderer. Explicit fields win over payload entries with the same
// key.
func (e Envelope) TemplateData() map[string]any {
	data := make(map[string]any, len(e.Payload)+12)
	for k, v := range e.Payload {
		data[k] = v
	}

	set := func(key, val string) {
		if val != "" {
			data[key] = val
		}
	}
	set("requestId", e.RequestID)
	set("initiatorId", e.InitiatorID)
	set("stageName", e.StageName)
	set("nextStageName", e.NextStageName)
	set("deadline", e.Deadline)
	set("hoursRemaining", e.HoursRemaining)
	set("result", e.Result)
	set("reason", e.Reason)
	set("actorName", e.ActorName)
	set("targetType", e.TargetType)
	set("timestamp", e.Timestamp)

	return data
}
