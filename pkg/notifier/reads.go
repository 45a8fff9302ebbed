package notifier

import (
	"context"

	"github.com/a4ad/notifier/pkg/notification"
)

// List returns a user's notifications from the durable store, newest first.
func (s *Service) List(ctx context.Context, userID string, opts notification.ListOptions) ([]notification.Notification, error) {
	return s.storage.List(ctx, userID, opts)
}

// UnreadCount returns how many notifications the user has not read.
func (s *Service) UnreadCount(ctx context.Context, userID string) (int, error) {
	return s.storage.CountUnread(ctx, userID)
}

// MarkRead marks one notification as read.
func (s *Service) MarkRead(ctx context.Context, userID, id string) error {
	return s.storage.MarkRead(ctx, userID, id)
}

// MarkAllRead marks every notification of the user as read.
func (s *Service) MarkAllRead(ctx context.Context, userID string) error {
	return s.storage.MarkAllRead(ctx, userID)
}
