package notifier

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/a4ad/notifier/pkg/broker"
	"github.com/a4ad/notifier/pkg/channels"
	"github.com/a4ad/notifier/pkg/event"
	"github.com/a4ad/notifier/pkg/notification"
	"github.com/a4ad/notifier/pkg/ratelimit"
	"github.com/a4ad/notifier/pkg/templates"
)

// Service ties storage, rate limiting, rendering, and channel fan-out
// together.
type Service struct {
	storage  notification.Storage
	limiter  *ratelimit.SlidingWindow
	fanout   *channels.Fanout
	registry *templates.Registry
	producer broker.Producer
	logger   *slog.Logger
	rates    RateConfig
}

// Option configures a Service.
type Option func(*Service)

// WithProducer sets the producer used to publish the outbound sent event.
// Without one the event is skipped.
func WithProducer(p broker.Producer) Option {
	return func(s *Service) { s.producer = p }
}

// WithServiceLogger sets the service logger.
func WithServiceLogger(l *slog.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewService creates the orchestration service.
func NewService(
	storage notification.Storage,
	limiter *ratelimit.SlidingWindow,
	fanout *channels.Fanout,
	registry *templates.Registry,
	rates RateConfig,
	opts ...Option,
) (*Service, error) {
	if storage == nil {
		return nil, ErrStorageRequired
	}
	if limiter == nil {
		return nil, ErrLimiterRequired
	}
	if fanout == nil {
		return nil, ErrFanoutRequired
	}
	if registry == nil {
		return nil, ErrRegistryRequired
	}

	if rates.Window <= 0 {
		rates.Window = time.Minute
	}
	if rates.MaxEmails <= 0 {
		rates.MaxEmails = 10
	}
	if rates.MaxInApp <= 0 {
		rates.MaxInApp = 50
	}

	s := &Service{
		storage:  storage,
		limiter:  limiter,
		fanout:   fanout,
		registry: registry,
		logger:   slog.New(slog.DiscardHandler),
		rates:    rates,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// SendParams describes one notification to one user.
type SendParams struct {
	UserID         string
	Type           string
	Template       string
	Channels       []notification.Channel
	Data           map[string]any
	ActorID        string
	TargetID       string
	TargetType     string
	IdempotencyKey string
}

func (p SendParams) toNotification() notification.Notification {
	n := notification.New(p.UserID, p.Type, p.Channels...)
	n.Data = p.Data
	n.ActorID = p.ActorID
	n.TargetID = p.TargetID
	n.TargetType = p.TargetType
	n.IdempotencyKey = p.IdempotencyKey
	return n
}

// Deliver handles a broker-originated notification. Rate-limited channels
// are dropped silently: the consumed event is still considered handled.
// A duplicate idempotency key whose record was already sent is a no-op.
func (s *Service) Deliver(ctx context.Context, params SendParams) error {
	if params.Template == "" {
		params.Template = params.Type
	}

	notif, created, err := s.storage.Reserve(ctx, params.toNotification())
	if err != nil {
		return fmt.Errorf("reserve notification: %w", err)
	}
	if !created && notif.Sent() {
		s.logger.InfoContext(ctx, "duplicate delivery suppressed",
			slog.String("notification_id", notif.ID),
			slog.String("idempotency_key", notif.IdempotencyKey))
		return nil
	}

	allowed := s.allowedChannels(ctx, notif)
	if len(allowed) == 0 {
		s.logger.WarnContext(ctx, "all channels rate limited, delivery skipped",
			slog.String("notification_id", notif.ID),
			slog.String("user_id", notif.UserID))
	}

	s.send(ctx, notif, allowed, params.Template)
	return nil
}

// Create handles an API-originated notification. When every requested
// channel is over budget the caller gets ErrRateLimited and no record is
// delivered; the reserved record stays unsent so a later retry with the
// same key can complete it.
func (s *Service) Create(ctx context.Context, params SendParams) (notification.Notification, error) {
	if params.Template == "" {
		params.Template = params.Type
	}

	notif, created, err := s.storage.Reserve(ctx, params.toNotification())
	if err != nil {
		return notification.Notification{}, fmt.Errorf("reserve notification: %w", err)
	}
	if !created && notif.Sent() {
		return notif, nil
	}

	allowed := s.allowedChannels(ctx, notif)
	if len(allowed) == 0 {
		return notification.Notification{}, ErrRateLimited
	}

	s.send(ctx, notif, allowed, params.Template)

	// Re-read so the caller sees sent_at.
	updated, err := s.storage.Get(ctx, notif.UserID, notif.ID)
	if err != nil {
		return notif, nil
	}
	return *updated, nil
}

// send renders, fans out, stamps the attempt, and publishes the outbound
// event. Channel failures are contained inside the fan-out; sent_at records
// "attempted", not "confirmed delivered".
func (s *Service) send(ctx context.Context, notif notification.Notification, allowed []notification.Channel, templateName string) {
	content, err := s.registry.RenderNamed(templateName, notif.Data)
	if err != nil {
		if errors.Is(err, templates.ErrTemplateNotFound) {
			s.logger.WarnContext(ctx, "template not registered, nothing to send",
				slog.String("template", templateName),
				slog.String("notification_id", notif.ID))
			allowed = nil
		} else {
			s.logger.ErrorContext(ctx, "template rendering failed",
				slog.String("template", templateName),
				slog.Any("error", err))
			allowed = nil
		}
	}

	if len(allowed) > 0 {
		target := notif
		target.Channels = allowed
		s.fanout.Send(ctx, target, content)
	}

	sentAt := time.Now().UTC()
	if err := s.storage.MarkSent(ctx, notif.ID, sentAt); err != nil && !errors.Is(err, notification.ErrAlreadySent) {
		s.logger.ErrorContext(ctx, "failed to record delivery attempt",
			slog.String("notification_id", notif.ID),
			slog.Any("error", err))
	}

	s.publishSent(ctx, notif, sentAt)
}

// allowedChannels applies the per-channel budgets and returns the channels
// that may still send. The limiter fails open, so a degraded store never
// empties the result.
func (s *Service) allowedChannels(ctx context.Context, notif notification.Notification) []notification.Channel {
	allowed := make([]notification.Channel, 0, len(notif.Channels))
	for _, ch := range notif.Channels {
		key, limit := s.budgetFor(ch, notif.UserID)

		res, err := s.limiter.Allow(ctx, key, limit, s.rates.Window)
		if err != nil {
			s.logger.ErrorContext(ctx, "rate limit check failed, allowing channel",
				slog.String("key", key),
				slog.Any("error", err))
			allowed = append(allowed, ch)
			continue
		}
		if !res.Allowed {
			s.logger.WarnContext(ctx, "channel rate limited",
				slog.String("key", key),
				slog.String("user_id", notif.UserID),
				slog.String("channel", string(ch)))
			continue
		}
		allowed = append(allowed, ch)
	}
	return allowed
}

// budgetFor maps a channel to its limiter key and budget. Push rides the
// in-app budget but keeps its own key so one channel cannot starve the
// other.
func (s *Service) budgetFor(ch notification.Channel, userID string) (string, int) {
	switch ch {
	case notification.ChannelEmail:
		return "email:" + userID, s.rates.MaxEmails
	case notification.ChannelPush:
		return "push:" + userID, s.rates.MaxInApp
	default:
		return "in_app:" + userID, s.rates.MaxInApp
	}
}

// sentEvent is the outbound notification.sent payload.
type sentEvent struct {
	ID        string                 `json:"id"`
	UserID    string                 `json:"userId"`
	Type      string                 `json:"type"`
	Channels  []notification.Channel `json:"channels"`
	SentAt    time.Time              `json:"sentAt"`
	Timestamp string                 `json:"timestamp"`
}

// publishSent emits the outbound event. Best-effort: a publish failure is
// logged and never fails the delivery.
func (s *Service) publishSent(ctx context.Context, notif notification.Notification, sentAt time.Time) {
	if s.producer == nil {
		return
	}

	payload, err := json.Marshal(sentEvent{
		ID:        notif.ID,
		UserID:    notif.UserID,
		Type:      notif.Type,
		Channels:  notif.Channels,
		SentAt:    sentAt,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to marshal sent event", slog.Any("error", err))
		return
	}

	if err := s.producer.Publish(ctx, broker.Message{
		Topic:   event.TopicNotificationSent,
		Key:     notif.UserID,
		Payload: payload,
	}); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish sent event",
			slog.String("notification_id", notif.ID),
			slog.Any("error", err))
	}
}
