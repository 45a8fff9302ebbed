package notification

import "errors"

var (
	// ErrNotFound is returned when a notification does not exist.
	ErrNotFound = errors.New("notification not found")

	// ErrUserRequired is returned when a notification has no recipient.
	ErrUserRequired = errors.New("user ID is required")

	// ErrTypeRequired is returned when a notification has no type.
	ErrTypeRequired = errors.New("notification type is required")

	// ErrNoChannels is returned when a notification names no delivery
	// channels.
	ErrNoChannels = errors.New("at least one channel is required")

	// ErrInvalidChannel is returned when a channel name is not one of the
	// known channels.
	ErrInvalidChannel = errors.New("invalid channel")

	// ErrAlreadySent is returned when MarkSent is called on a record that
	// already carries a sent timestamp.
	ErrAlreadySent = errors.New("notification already sent")
)
