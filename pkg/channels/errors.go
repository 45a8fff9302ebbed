package channels

import "errors"

var (
	// ErrNoRecipientAddress is returned when the email channel finds no
	// address in the notification data.
	ErrNoRecipientAddress = errors.New("no recipient email address in notification data")

	// ErrEmptyContent is returned when a channel is asked to send with no
	// rendered content for it.
	ErrEmptyContent = errors.New("no rendered content for channel")
)
