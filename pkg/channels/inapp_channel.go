package channels

import (
	"context"
	"fmt"
	"time"

	"github.com/a4ad/notifier/pkg/notification"
	"github.com/a4ad/notifier/pkg/templates"
)

// InAppItem is the feed entry stored for one in-app notification. It is a
// projection of the full record, kept small because the feed is capped.
type InAppItem struct {
	ID        string         `json:"id"`
	Type      string         `json:"type"`
	Message   string         `json:"message"`
	Data      map[string]any `json:"data,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}

// InAppStore is the fast read model behind the in-app feed.
type InAppStore interface {
	// Push prepends an item to the user's feed and marks it unread.
	Push(ctx context.Context, userID string, item InAppItem) error

	// List returns the newest feed items, up to limit.
	List(ctx context.Context, userID string, limit int) ([]InAppItem, error)

	// UnreadCount returns the number of unread feed items.
	UnreadCount(ctx context.Context, userID string) (int, error)

	// MarkRead removes the given items from the unread set.
	MarkRead(ctx context.Context, userID string, ids ...string) error

	// MarkAllRead empties the unread set.
	MarkAllRead(ctx context.Context, userID string) error
}

// InAppChannel delivers notifications into the in-app feed store.
type InAppChannel struct {
	store InAppStore
}

// NewInAppChannel creates the in-app delivery channel.
func NewInAppChannel(store InAppStore) *InAppChannel {
	return &InAppChannel{store: store}
}

func (c *InAppChannel) Kind() notification.Channel {
	return notification.ChannelInApp
}

func (c *InAppChannel) Send(ctx context.Context, notif notification.Notification, content templates.Rendered) error {
	if content.InAppMessage == "" {
		return fmt.Errorf("%w: in-app for notification %s", ErrEmptyContent, notif.ID)
	}

	return c.store.Push(ctx, notif.UserID, InAppItem{
		ID:        notif.ID,
		Type:      notif.Type,
		Message:   content.InAppMessage,
		Data:      notif.Data,
		CreatedAt: notif.CreatedAt,
	})
}
