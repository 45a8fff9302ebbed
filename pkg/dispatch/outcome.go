package dispatch

// Outcome is the terminal state of one message dispatch.
type Outcome int

const (
	// Committed means the message was handled (or deliberately ignored)
	// and its offset may be committed.
	Committed Outcome = iota

	// RetryScheduled means the handler failed with a retryable error and
	// a delayed re-injection of the message was scheduled.
	RetryScheduled

	// DeadLettered means the message was published to the dead-letter
	// topic and will not be retried.
	DeadLettered
)

func (o Outcome) String() string {
	switch o {
	case Committed:
		return "committed"
	case RetryScheduled:
		return "retry_scheduled"
	case DeadLettered:
		return "dead_lettered"
	default:
		return "unknown"
	}
}
