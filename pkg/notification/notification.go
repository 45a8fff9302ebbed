package notification

import (
	"slices"
	"time"

	"github.com/google/uuid"
)

// Channel is a delivery mechanism for a notification.
type Channel string

const (
	ChannelEmail Channel = "email"
	ChannelInApp Channel = "in_app"
	ChannelPush  Channel = "push"
)

// IsValid reports whether c is one of the known channels.
func (c Channel) IsValid() bool {
	switch c {
	case ChannelEmail, ChannelInApp, ChannelPush:
		return true
	}
	return false
}

// Notification is the persistent record of one notification to one user.
// Data carries event-specific fields (actor names, request titles, delivery
// addresses) and is what templates render from.
type Notification struct {
	ID             string         `json:"id"`
	UserID         string         `json:"user_id"`
	ActorID        string         `json:"actor_id,omitempty"`
	TargetID       string         `json:"target_id,omitempty"`
	TargetType     string         `json:"target_type,omitempty"`
	Type           string         `json:"type"`
	Data           map[string]any `json:"data,omitempty"`
	Channels       []Channel      `json:"channels"`
	IsRead         bool           `json:"is_read"`
	SentAt         *time.Time     `json:"sent_at,omitempty"`
	IdempotencyKey string         `json:"idempotency_key,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

// New creates an unsaved notification with a fresh ID and timestamps.
func New(userID, notifType string, channels ...Channel) Notification {
	now := time.Now().UTC()
	return Notification{
		ID:        uuid.NewString(),
		UserID:    userID,
		Type:      notifType,
		Channels:  channels,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Validate checks the fields required before the record may be stored.
func (n *Notification) Validate() error {
	if n.UserID == "" {
		return ErrUserRequired
	}
	if n.Type == "" {
		return ErrTypeRequired
	}
	if len(n.Channels) == 0 {
		return ErrNoChannels
	}
	for _, c := range n.Channels {
		if !c.IsValid() {
			return ErrInvalidChannel
		}
	}
	return nil
}

// HasChannel reports whether the notification targets the given channel.
func (n *Notification) HasChannel(c Channel) bool {
	return slices.Contains(n.Channels, c)
}

// Sent reports whether the notification completed its delivery attempt.
func (n *Notification) Sent() bool {
	return n.SentAt != nil
}
