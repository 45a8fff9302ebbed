// Package httpserver wraps net/http with graceful shutdown, configurable
// timeouts, and structured logging.
//
// Run blocks until the context is cancelled or an interrupt/TERM signal
// arrives, then drains in-flight requests within the shutdown timeout.
// Listen errors are wrapped with ErrStart and shutdown errors with
// ErrShutdown so callers can inspect them with errors.Is.
package httpserver
