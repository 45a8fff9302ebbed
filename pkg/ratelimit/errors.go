package ratelimit

import "errors"

var (
	// ErrStoreRequired is returned when a limiter is constructed without a store.
	ErrStoreRequired = errors.New("store is required")

	// ErrKeyRequired is returned when a check is attempted with an empty key.
	ErrKeyRequired = errors.New("key is required")

	// ErrInvalidLimit is returned when the limit is not positive.
	ErrInvalidLimit = errors.New("limit must be greater than zero")

	// ErrInvalidWindow is returned when the window duration is not positive.
	ErrInvalidWindow = errors.New("window must be greater than zero")
)
