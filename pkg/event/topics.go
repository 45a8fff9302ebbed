package event

// Broker topics consumed by the notifier.
const (
	TopicRequestCreated          = "request.created"
	TopicRequestSubmitted        = "request.submitted"
	TopicRequestStageAdvanced    = "request.stage_advanced"
	TopicRequestCompleted        = "request.completed"
	TopicRequestRejected         = "request.rejected"
	TopicRequestChangesRequested = "request.changes_requested"
	TopicRequestResubmitted      = "request.resubmitted"
	TopicRequestCancelled        = "request.cancelled"
	TopicStageTimeout            = "stage.timeout"
	TopicStageReminder           = "stage.reminder"
	TopicCommentAdded            = "comment.added"
	TopicCommentCreated          = "comment.created"
	TopicCommentLiked            = "comment.liked"
	TopicPostLiked               = "post.liked"
	TopicMentionCreated          = "mention.created"
)

// Topics the notifier publishes to.
const (
	TopicNotificationSent = "notification.sent"
	TopicDeadLetter       = "notification.dead_letter"
)

// ConsumedTopics returns every inbound topic the intake router subscribes to.
func ConsumedTopics() []string {
	return []string{
		TopicRequestCreated,
		TopicRequestSubmitted,
		TopicRequestStageAdvanced,
		TopicRequestCompleted,
		TopicRequestRejected,
		TopicRequestChangesRequested,
		TopicRequestResubmitted,
		TopicRequestCancelled,
		TopicStageTimeout,
		TopicStageReminder,
		TopicCommentAdded,
		TopicCommentCreated,
		TopicCommentLiked,
		TopicPostLiked,
		TopicMentionCreated,
	}
}
