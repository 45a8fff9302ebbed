package templates

// Defaults returns a registry preloaded with both notification domains:
// the approval workflow (request lifecycle, stage timers) and social
// interactions (comments, likes, mentions).
func Defaults() *Registry {
	r := NewRegistry()

	// Approval workflow.
	r.Register("request-created", Template{
		Subject:      "Your request was created",
		EmailBody:    "Your request #{requestId} was created and sent for approval.\n\nRequest ID: {requestId}\nCreated at: {timestamp}\n",
		InAppMessage: "Request #{requestId} was created",
		PushTitle:    "Request created",
		PushBody:     "Request #{requestId} was created",
	})
	r.Register("request-submitted", Template{
		Subject:      "Your approval is required",
		EmailBody:    "Request #{requestId} is waiting for your approval.\n\nRequest ID: {requestId}\nSubmitted at: {timestamp}\n",
		InAppMessage: "Your approval is required for request #{requestId}",
		PushTitle:    "Approval required",
		PushBody:     "Request #{requestId} is waiting for your approval",
	})
	r.Register("request-submitted-confirmation", Template{
		Subject:      "Request sent for approval",
		EmailBody:    "Your request #{requestId} was sent to {approversCount} approver(s).\n\nRequest ID: {requestId}\nSubmitted at: {timestamp}\n",
		InAppMessage: "Request #{requestId} was sent for approval",
	})
	r.Register("request-stage-advanced", Template{
		Subject:      "Request moved to the next stage",
		EmailBody:    "Request #{requestId} advanced to stage \"{nextStageName}\".\n\nRequest ID: {requestId}\nStage: {nextStageName}\n",
		InAppMessage: "Request #{requestId} advanced to \"{nextStageName}\"",
	})
	r.Register("request-approved", Template{
		Subject:      "Request approved",
		EmailBody:    "Your request #{requestId} was approved.\n\nRequest ID: {requestId}\nApproved at: {timestamp}\n",
		InAppMessage: "Request #{requestId} was approved",
		PushTitle:    "Request approved",
		PushBody:     "Request #{requestId} was approved",
	})
	r.Register("request-rejected", Template{
		Subject:      "Request rejected",
		EmailBody:    "Your request #{requestId} was rejected.\n\nRequest ID: {requestId}\nReason: {reason}\nRejected at: {timestamp}\n",
		InAppMessage: "Request #{requestId} was rejected: {reason}",
		PushTitle:    "Request rejected",
		PushBody:     "Request #{requestId} was rejected",
	})
	r.Register("request-changes-requested", Template{
		Subject:      "Changes requested on your request",
		EmailBody:    "Request #{requestId} needs changes before approval can continue.\n\nRequest ID: {requestId}\nRequested at: {timestamp}\n",
		InAppMessage: "Changes requested on request #{requestId}",
	})
	r.Register("request-cancelled", Template{
		Subject:      "Request cancelled",
		EmailBody:    "Request #{requestId} was cancelled.\n\nRequest ID: {requestId}\nReason: {reason}\n",
		InAppMessage: "Request #{requestId} was cancelled",
	})
	r.Register("stage-timeout", Template{
		Subject:      "Approval deadline passed",
		EmailBody:    "The approval deadline for stage \"{stageName}\" of request #{requestId} has passed.\n\nRequest ID: {requestId}\nStage: {stageName}\nDeadline: {deadline}\n",
		InAppMessage: "Approval deadline passed for request #{requestId}, stage \"{stageName}\"",
		PushTitle:    "Approval overdue",
		PushBody:     "Stage \"{stageName}\" of request #{requestId} is overdue",
	})
	r.Register("stage-timeout-initiator", Template{
		Subject:      "Your request is delayed",
		EmailBody:    "Approval of your request #{requestId} is delayed at stage \"{stageName}\".\n\nRequest ID: {requestId}\nStage: {stageName}\nDeadline: {deadline}\n",
		InAppMessage: "Request #{requestId} is delayed at stage \"{stageName}\"",
	})
	r.Register("stage-reminder", Template{
		Subject:      "Approval reminder",
		EmailBody:    "Reminder: stage \"{stageName}\" of request #{requestId} awaits your approval. {hoursRemaining} hour(s) remaining.\n\nRequest ID: {requestId}\nDeadline: {deadline}\n",
		InAppMessage: "Reminder: request #{requestId} awaits your approval ({hoursRemaining}h remaining)",
		PushTitle:    "Approval reminder",
		PushBody:     "Request #{requestId}: {hoursRemaining}h remaining",
	})

	// Social interactions.
	r.Register("comment.created", Template{
		Subject:      "New comment on your post",
		EmailBody:    "Hello {userName},\n\n{actorName} commented on your post \"{postTitle}\":\n\n{commentSnippet}\n",
		InAppMessage: "{actorName} commented on your post \"{postTitle}\"",
		PushTitle:    "New comment",
		PushBody:     "{actorName} commented on your post",
	})
	r.Register("comment.liked", Template{
		Subject:      "Someone liked your comment",
		EmailBody:    "Hello {userName},\n\n{actorName} liked your comment on \"{postTitle}\".\n",
		InAppMessage: "{actorName} liked your comment on \"{postTitle}\"",
		PushTitle:    "New like",
		PushBody:     "{actorName} liked your comment",
	})
	r.Register("post.liked", Template{
		Subject:      "Someone liked your post",
		EmailBody:    "Hello {userName},\n\n{actorName} liked your post \"{postTitle}\".\n",
		InAppMessage: "{actorName} liked your post \"{postTitle}\"",
		PushTitle:    "New like",
		PushBody:     "{actorName} liked your post",
	})
	r.Register("mention.created", Template{
		Subject:      "You were mentioned in a {targetType}",
		EmailBody:    "Hello {userName},\n\n{actorName} mentioned you in a {targetType} on \"{postTitle}\":\n\n{contentSnippet}\n",
		InAppMessage: "{actorName} mentioned you in a {targetType} on \"{postTitle}\"",
		PushTitle:    "New mention",
		PushBody:     "{actorName} mentioned you",
	})

	return r
}
