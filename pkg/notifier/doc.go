// Package notifier orchestrates the life of one notification: reserve the
// record against the idempotency key, apply per-user per-channel rate
// limits, render the template, fan out to the delivery channels, record
// the attempt, and publish the outbound sent event.
//
// Two entry points differ only in how a rate-limit rejection surfaces.
// Create serves the HTTP API and reports the rejection to the caller as
// ErrRateLimited. Deliver serves broker-originated events and silently
// drops the limited channel, because a limited channel must not fail the
// consumed message.
package notifier
