package dispatch

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/a4ad/notifier/pkg/event"
	"github.com/a4ad/notifier/pkg/notification"
	"github.com/a4ad/notifier/pkg/notifier"
)

// Deliverer is the slice of the notifier service the handlers need.
type Deliverer interface {
	Deliver(ctx context.Context, params notifier.SendParams) error
}

// Handlers holds the event handlers for both notification domains: the
// approval workflow lifecycle and social interactions.
type Handlers struct {
	svc    Deliverer
	logger *slog.Logger
}

// NewHandlers creates the handler set.
func NewHandlers(svc Deliverer, logger *slog.Logger) *Handlers {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Handlers{svc: svc, logger: logger}
}

// Table returns the fixed event-type to handler mapping the router
// dispatches over.
func (h *Handlers) Table() map[string]Handler {
	return map[string]Handler{
		event.TopicRequestCreated:          h.RequestCreated,
		event.TopicRequestSubmitted:        h.RequestSubmitted,
		event.TopicRequestStageAdvanced:    h.RequestStageAdvanced,
		event.TopicRequestCompleted:        h.RequestCompleted,
		event.TopicRequestRejected:         h.RequestRejected,
		event.TopicRequestChangesRequested: h.RequestChangesRequested,
		event.TopicRequestResubmitted:      h.RequestSubmitted,
		event.TopicRequestCancelled:        h.RequestCancelled,
		event.TopicStageTimeout:            h.StageTimeout,
		event.TopicStageReminder:           h.StageReminder,
		event.TopicCommentAdded:            h.CommentCreated,
		event.TopicCommentCreated:          h.CommentCreated,
		event.TopicCommentLiked:            h.social("comment.liked", "comment-like"),
		event.TopicPostLiked:               h.social("post.liked", "post-like"),
		event.TopicMentionCreated:          h.MentionCreated,
	}
}

// RequestCreated confirms the draft to its initiator.
func (h *Handlers) RequestCreated(ctx context.Context, env event.Envelope) error {
	return h.svc.Deliver(ctx, notifier.SendParams{
		UserID:   env.InitiatorID,
		Type:     env.Event,
		Template: "request-created",
		Channels: []notification.Channel{notification.ChannelEmail, notification.ChannelInApp},
		TargetID: env.RequestID,
		Data:     env.TemplateData(),
	})
}

// RequestSubmitted notifies every approver and confirms to the initiator.
// One notification per approver over email and in-app, plus one
// email-only confirmation: five channel sends for two approvers.
func (h *Handlers) RequestSubmitted(ctx context.Context, env event.Envelope) error {
	for _, approverID := range env.Approvers {
		data := env.TemplateData()
		data["approverId"] = approverID

		if err := h.svc.Deliver(ctx, notifier.SendParams{
			UserID:   approverID,
			Type:     env.Event,
			Template: "request-submitted",
			Channels: []notification.Channel{notification.ChannelEmail, notification.ChannelInApp},
			ActorID:  env.InitiatorID,
			TargetID: env.RequestID,
			Data:     data,
		}); err != nil {
			return fmt.Errorf("notify approver %s: %w", approverID, err)
		}
	}

	data := env.TemplateData()
	data["approversCount"] = len(env.Approvers)

	if err := h.svc.Deliver(ctx, notifier.SendParams{
		UserID:   env.InitiatorID,
		Type:     env.Event,
		Template: "request-submitted-confirmation",
		Channels: []notification.Channel{notification.ChannelEmail},
		TargetID: env.RequestID,
		Data:     data,
	}); err != nil {
		return fmt.Errorf("confirm to initiator %s: %w", env.InitiatorID, err)
	}
	return nil
}

// RequestStageAdvanced notifies the next stage's approvers.
func (h *Handlers) RequestStageAdvanced(ctx context.Context, env event.Envelope) error {
	for _, approverID := range env.Approvers {
		if err := h.svc.Deliver(ctx, notifier.SendParams{
			UserID:   approverID,
			Type:     env.Event,
			Template: "request-stage-advanced",
			Channels: []notification.Channel{notification.ChannelEmail, notification.ChannelInApp},
			TargetID: env.RequestID,
			Data:     env.TemplateData(),
		}); err != nil {
			return fmt.Errorf("notify approver %s: %w", approverID, err)
		}
	}
	return nil
}

// RequestCompleted tells the initiator the final verdict and lets the
// approvers know the request left their queue.
func (h *Handlers) RequestCompleted(ctx context.Context, env event.Envelope) error {
	template := "request-rejected"
	if env.Result == "approved" {
		template = "request-approved"
	}

	if err := h.svc.Deliver(ctx, notifier.SendParams{
		UserID:   env.InitiatorID,
		Type:     env.Event,
		Template: template,
		Channels: []notification.Channel{notification.ChannelEmail, notification.ChannelInApp},
		TargetID: env.RequestID,
		Data:     env.TemplateData(),
	}); err != nil {
		return fmt.Errorf("notify initiator %s: %w", env.InitiatorID, err)
	}

	for _, approverID := range env.Approvers {
		if err := h.svc.Deliver(ctx, notifier.SendParams{
			UserID:   approverID,
			Type:     env.Event,
			Template: template,
			Channels: []notification.Channel{notification.ChannelInApp},
			TargetID: env.RequestID,
			Data:     env.TemplateData(),
		}); err != nil {
			return fmt.Errorf("notify approver %s: %w", approverID, err)
		}
	}
	return nil
}

// RequestRejected notifies the initiator with the rejection reason.
func (h *Handlers) RequestRejected(ctx context.Context, env event.Envelope) error {
	return h.svc.Deliver(ctx, notifier.SendParams{
		UserID:   env.InitiatorID,
		Type:     env.Event,
		Template: "request-rejected",
		Channels: []notification.Channel{notification.ChannelEmail, notification.ChannelInApp},
		TargetID: env.RequestID,
		Data:     env.TemplateData(),
	})
}

// RequestChangesRequested asks the initiator to rework the request.
func (h *Handlers) RequestChangesRequested(ctx context.Context, env event.Envelope) error {
	return h.svc.Deliver(ctx, notifier.SendParams{
		UserID:   env.InitiatorID,
		Type:     env.Event,
		Template: "request-changes-requested",
		Channels: []notification.Channel{notification.ChannelEmail, notification.ChannelInApp},
		TargetID: env.RequestID,
		Data:     env.TemplateData(),
	})
}

// RequestCancelled notifies the approvers that the request was withdrawn.
func (h *Handlers) RequestCancelled(ctx context.Context, env event.Envelope) error {
	for _, approverID := range env.Approvers {
		if err := h.svc.Deliver(ctx, notifier.SendParams{
			UserID:   approverID,
			Type:     env.Event,
			Template: "request-cancelled",
			Channels: []notification.Channel{notification.ChannelInApp},
			ActorID:  env.InitiatorID,
			TargetID: env.RequestID,
			Data:     env.TemplateData(),
		}); err != nil {
			return fmt.Errorf("notify approver %s: %w", approverID, err)
		}
	}
	return nil
}

// StageTimeout escalates an expired stage to its approvers and tells the
// initiator the request stalled.
func (h *Handlers) StageTimeout(ctx context.Context, env event.Envelope) error {
	for _, approverID := range env.Approvers {
		if err := h.svc.Deliver(ctx, notifier.SendParams{
			UserID:   approverID,
			Type:     env.Event,
			Template: "stage-timeout",
			Channels: []notification.Channel{notification.ChannelEmail, notification.ChannelInApp},
			TargetID: env.RequestID,
			Data:     env.TemplateData(),
		}); err != nil {
			return fmt.Errorf("notify approver %s: %w", approverID, err)
		}
	}

	if err := h.svc.Deliver(ctx, notifier.SendParams{
		UserID:   env.InitiatorID,
		Type:     env.Event,
		Template: "stage-timeout-initiator",
		Channels: []notification.Channel{notification.ChannelEmail},
		TargetID: env.RequestID,
		Data:     env.TemplateData(),
	}); err != nil {
		return fmt.Errorf("notify initiator %s: %w", env.InitiatorID, err)
	}
	return nil
}

// StageReminder nudges approvers before the deadline.
func (h *Handlers) StageReminder(ctx context.Context, env event.Envelope) error {
	for _, approverID := range env.Approvers {
		if err := h.svc.Deliver(ctx, notifier.SendParams{
			UserID:   approverID,
			Type:     env.Event,
			Template: "stage-reminder",
			Channels: []notification.Channel{notification.ChannelEmail, notification.ChannelInApp},
			TargetID: env.RequestID,
			Data:     env.TemplateData(),
		}); err != nil {
			return fmt.Errorf("remind approver %s: %w", approverID, err)
		}
	}
	return nil
}

// CommentCreated notifies the recipient about a new comment or reply.
// Self-comments produce nothing.
func (h *Handlers) CommentCreated(ctx context.Context, env event.Envelope) error {
	if env.UserID == "" || env.UserID == env.ActorID {
		return nil
	}

	return h.svc.Deliver(ctx, notifier.SendParams{
		UserID:         env.UserID,
		Type:           "comment.created",
		Channels:       []notification.Channel{notification.ChannelInApp, notification.ChannelPush},
		ActorID:        env.ActorID,
		TargetID:       env.TargetID,
		TargetType:     env.TargetType,
		Data:           env.TemplateData(),
		IdempotencyKey: fmt.Sprintf("comment:%s:%s", env.CommentID, env.UserID),
	})
}

// MentionCreated notifies a mentioned user. Self-mentions produce nothing.
func (h *Handlers) MentionCreated(ctx context.Context, env event.Envelope) error {
	if env.UserID == "" || env.UserID == env.ActorID {
		return nil
	}

	return h.svc.Deliver(ctx, notifier.SendParams{
		UserID:         env.UserID,
		Type:           "mention.created",
		Channels:       []notification.Channel{notification.ChannelInApp, notification.ChannelPush},
		ActorID:        env.ActorID,
		TargetID:       env.TargetID,
		TargetType:     env.TargetType,
		Data:           env.TemplateData(),
		IdempotencyKey: fmt.Sprintf("mention:%s:%s:%s", env.TargetType, env.TargetID, env.UserID),
	})
}

// social builds a like-style handler: notify the content author unless
// they acted on their own content, deduplicated per actor and target.
func (h *Handlers) social(notifType, keyPrefix string) Handler {
	return func(ctx context.Context, env event.Envelope) error {
		if env.UserID == "" || env.UserID == env.ActorID {
			return nil
		}

		return h.svc.Deliver(ctx, notifier.SendParams{
			UserID:         env.UserID,
			Type:           notifType,
			Channels:       []notification.Channel{notification.ChannelInApp, notification.ChannelPush},
			ActorID:        env.ActorID,
			TargetID:       env.TargetID,
			TargetType:     env.TargetType,
			Data:           env.TemplateData(),
			IdempotencyKey: fmt.Sprintf("%s:%s:%s", keyPrefix, env.TargetID, env.ActorID),
		})
	}
}
