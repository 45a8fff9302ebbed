// Package dispatch routes consumed broker messages to event handlers and
// owns what happens when a handler fails.
//
// The Router parses the envelope, looks the event type up in a fixed
// handler table, and reports one of three outcomes: Committed,
// RetryScheduled, or DeadLettered. Failures are classified into a small
// taxonomy; non-retryable kinds go straight to the dead-letter topic,
// retryable ones are re-injected through the producer with a growing
// delay until the retry budget runs out.
package dispatch
