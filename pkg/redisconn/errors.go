package redisconn

import "errors"

var (
	// ErrInvalidConnectionURL is returned when the Redis URL cannot be parsed.
	ErrInvalidConnectionURL = errors.New("failed to parse redis connection url")

	// ErrNotReady is returned when the server does not answer PING within
	// the configured attempts.
	ErrNotReady = errors.New("redis is not ready")

	// ErrHealthcheckFailed is returned by the health probe when the
	// connection is no longer usable.
	ErrHealthcheckFailed = errors.New("redis healthcheck failed")
)
