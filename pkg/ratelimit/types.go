package ratelimit

import (
	"context"
	"time"
)

// Result is the outcome of one rate limit check.
type Result struct {
	// Allowed indicates whether the request may proceed.
	Allowed bool

	// Limit is the maximum number of requests allowed in the window.
	Limit int

	// Remaining is the number of requests left in the current window.
	Remaining int

	// ResetAt is when the current window fully slides past.
	ResetAt time.Time
}

// RetryAfter returns how long to wait before a request could be allowed
// again. Zero when the request was allowed.
func (r *Result) RetryAfter() time.Duration {
	if r.Allowed {
		return 0
	}
	return time.Until(r.ResetAt)
}

// Store is the shared state behind the limiter. Implementations must make
// ReserveSlot atomic per key: evict, count, and conditionally record as one
// unit, with the key expiring after window.
type Store interface {
	// ReserveSlot evicts tokens older than now-window, counts the rest,
	// and records a new token only if the count is below limit. It returns
	// whether the token was recorded and the count of tokens in the window
	// after the call.
	ReserveSlot(ctx context.Context, key string, limit int, window time.Duration) (allowed bool, count int64, err error)

	// CountInWindow returns the number of live tokens without recording one.
	CountInWindow(ctx context.Context, key string, window time.Duration) (int64, error)

	// Reset removes all tokens for the key.
	Reset(ctx context.Context, key string) error
}
