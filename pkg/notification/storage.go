package notification

import (
	"context"
	"time"
)

// Storage persists notification records.
type Storage interface {
	// Reserve stores the notification unless its idempotency key was
	// already used. It returns the stored record and whether this call
	// created it; when created is false the returned record is the one
	// that won the key. Records without an idempotency key are always
	// created.
	Reserve(ctx context.Context, notif Notification) (Notification, bool, error)

	// MarkSent records the delivery completion time. It is written at
	// most once; a second call returns ErrAlreadySent.
	MarkSent(ctx context.Context, id string, at time.Time) error

	// Get retrieves a single notification scoped to its recipient.
	Get(ctx context.Context, userID, id string) (*Notification, error)

	// List returns notifications for a user, newest first.
	List(ctx context.Context, userID string, opts ListOptions) ([]Notification, error)

	// CountUnread returns the number of unread notifications for a user.
	CountUnread(ctx context.Context, userID string) (int, error)

	// MarkRead marks the given notifications as read.
	MarkRead(ctx context.Context, userID string, ids ...string) error

	// MarkAllRead marks every notification for the user as read.
	MarkAllRead(ctx context.Context, userID string) error
}

// ListOptions filters and paginates List.
type ListOptions struct {
	Limit      int    // Maximum records to return (0 means the implementation default)
	Offset     int    // Records to skip for pagination
	OnlyUnread bool   // When true, return only unread notifications
	Type       string // When set, return only notifications of this type
}
