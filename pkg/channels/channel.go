package channels

import (
	"context"

	"github.com/a4ad/notifier/pkg/notification"
	"github.com/a4ad/notifier/pkg/templates"
)

// Channel delivers a notification over one mechanism.
type Channel interface {
	// Kind reports which notification channel this implementation serves.
	Kind() notification.Channel

	// Send delivers the rendered content to the notification's recipient.
	Send(ctx context.Context, notif notification.Notification, content templates.Rendered) error
}
