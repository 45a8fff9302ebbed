package notifier

import "errors"

var (
	// ErrRateLimited is returned by Create when every requested channel is
	// over its budget. Surfaced to API callers as a conflict.
	ErrRateLimited = errors.New("notification rate limit exceeded")

	// ErrStorageRequired and friends guard service construction.
	ErrStorageRequired  = errors.New("notification storage is required")
	ErrLimiterRequired  = errors.New("rate limiter is required")
	ErrFanoutRequired   = errors.New("channel fan-out is required")
	ErrRegistryRequired = errors.New("template registry is required")
)
