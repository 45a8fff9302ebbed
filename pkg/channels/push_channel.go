package channels

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/a4ad/notifier/pkg/notification"
	"github.com/a4ad/notifier/pkg/push"
	"github.com/a4ad/notifier/pkg/templates"
)

// DataKeyDeviceToken is the notification data field carrying the FCM
// device registration token.
const DataKeyDeviceToken = "deviceToken"

// PushChannel delivers notifications over a PushSender. Users without a
// registered device are skipped, not failed: having no device is a normal
// state, not a delivery error.
type PushChannel struct {
	sender push.PushSender
	logger *slog.Logger
}

// NewPushChannel creates the push delivery channel.
func NewPushChannel(sender push.PushSender, logger *slog.Logger) *PushChannel {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &PushChannel{sender: sender, logger: logger}
}

func (c *PushChannel) Kind() notification.Channel {
	return notification.ChannelPush
}

func (c *PushChannel) Send(ctx context.Context, notif notification.Notification, content templates.Rendered) error {
	token, _ := notif.Data[DataKeyDeviceToken].(string)
	if token == "" {
		c.logger.DebugContext(ctx, "skipping push, no device token",
			slog.String("notification_id", notif.ID),
			slog.String("user_id", notif.UserID))
		return nil
	}
	if content.PushTitle == "" && content.PushBody == "" {
		return fmt.Errorf("%w: push for notification %s", ErrEmptyContent, notif.ID)
	}

	return c.sender.SendPush(ctx, push.SendPushParams{
		Token: token,
		Title: content.PushTitle,
		Body:  content.PushBody,
		Data: map[string]string{
			"notificationId": notif.ID,
			"type":           notif.Type,
		},
	})
}
