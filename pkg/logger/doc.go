// Package logger builds the slog.Logger used across the notifier service.
//
// It provides a small factory over log/slog: JSON output for production,
// text output for development, static service attributes, and optional
// context extractors that inject request-scoped values (message IDs,
// event types) into every record logged with a context.
//
// The package also ships typed attribute helpers (Error, UserID, Topic,
// EventType, NotificationID, ...) so that log keys stay consistent across
// packages.
package logger
