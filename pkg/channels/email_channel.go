package channels

import (
	"context"
	"fmt"

	"github.com/a4ad/notifier/pkg/email"
	"github.com/a4ad/notifier/pkg/notification"
	"github.com/a4ad/notifier/pkg/templates"
)

// DataKeyEmail is the notification data field carrying the recipient
// address. Events embed it so delivery does not depend on a user service.
const DataKeyEmail = "userEmail"

// EmailChannel delivers notifications over an EmailSender.
type EmailChannel struct {
	sender email.EmailSender
}

// NewEmailChannel creates the email delivery channel.
func NewEmailChannel(sender email.EmailSender) *EmailChannel {
	return &EmailChannel{sender: sender}
}

func (c *EmailChannel) Kind() notification.Channel {
	return notification.ChannelEmail
}

func (c *EmailChannel) Send(ctx context.Context, notif notification.Notification, content templates.Rendered) error {
	addr, _ := notif.Data[DataKeyEmail].(string)
	if addr == "" {
		return fmt.Errorf("%w: notification %s", ErrNoRecipientAddress, notif.ID)
	}
	if content.Subject == "" || content.EmailBody == "" {
		return fmt.Errorf("%w: email for notification %s", ErrEmptyContent, notif.ID)
	}

	return c.sender.SendEmail(ctx, email.SendEmailParams{
		SendTo:   addr,
		Subject:  content.Subject,
		BodyHTML: content.EmailBody,
		BodyText: content.InAppMessage,
		Tag:      notif.Type,
	})
}
