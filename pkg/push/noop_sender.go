package push

import (
	"context"
	"log/slog"
)

// NoopSender logs push notifications instead of sending them. Used in
// development and in deployments without Firebase credentials.
type NoopSender struct {
	logger *slog.Logger
}

// NewNoopSender creates a sender that only logs.
func NewNoopSender(logger *slog.Logger) *NoopSender {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &NoopSender{logger: logger}
}

// SendPush validates the parameters and logs the would-be delivery.
func (s *NoopSender) SendPush(ctx context.Context, params SendPushParams) error {
	if err := params.Validate(); err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "push notification skipped, no provider configured",
		slog.String("token", params.Token),
		slog.String("title", params.Title))
	return nil
}
