package push

import (
	"context"
	"errors"
	"fmt"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"
)

// FCMClient sends push notifications through Firebase Cloud Messaging.
type FCMClient struct {
	client *messaging.Client
}

// NewFCMClient creates an FCM-backed push sender from a service account
// credentials file.
func NewFCMClient(ctx context.Context, cfg Config) (*FCMClient, error) {
	if cfg.FirebaseCredentialsFile == "" {
		return nil, fmt.Errorf("%w: FirebaseCredentialsFile is required", ErrInvalidConfig)
	}

	app, err := firebase.NewApp(ctx, nil, option.WithCredentialsFile(cfg.FirebaseCredentialsFile))
	if err != nil {
		return nil, errors.Join(ErrInvalidConfig, err)
	}

	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, errors.Join(ErrInvalidConfig, err)
	}

	return &FCMClient{client: client}, nil
}

// SendPush implements PushSender for a single device token.
func (c *FCMClient) SendPush(ctx context.Context, params SendPushParams) error {
	if err := params.Validate(); err != nil {
		return err
	}

	msg := &messaging.Message{
		Token: params.Token,
		Notification: &messaging.Notification{
			Title: params.Title,
			Body:  params.Body,
		},
		Data: params.Data,
	}

	if _, err := c.client.Send(ctx, msg); err != nil {
		return errors.Join(ErrFailedToSendPush, err)
	}
	return nil
}

// IsRetryable reports whether an FCM send failure is worth retrying.
// Unregistered tokens and malformed messages never succeed on retry.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	return messaging.IsQuotaExceeded(err) ||
		messaging.IsInternal(err) ||
		messaging.IsUnavailable(err) ||
		messaging.IsThirdPartyAuthError(err)
}
