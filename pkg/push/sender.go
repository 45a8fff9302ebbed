package push

import (
	"context"
	"fmt"
)

// PushSender represents an interface for sending push notifications.
type PushSender interface {
	SendPush(ctx context.Context, params SendPushParams) error
}

// SendPushParams represents the parameters for one push notification.
type SendPushParams struct {
	Token string            `json:"token"`          // Device registration token
	Title string            `json:"title"`          // Notification title
	Body  string            `json:"body"`           // Notification body
	Data  map[string]string `json:"data,omitempty"` // Optional key/value payload for the app
}

// Validate checks the parameters required for any provider to send.
func (p SendPushParams) Validate() error {
	if p.Token == "" {
		return fmt.Errorf("%w: Token is required", ErrInvalidParams)
	}
	if p.Title == "" && p.Body == "" {
		return fmt.Errorf("%w: a title or body is required", ErrInvalidParams)
	}
	return nil
}
