package config

import "errors"

var (
	// ErrNilPointer is returned when Load is called with a nil target.
	ErrNilPointer = errors.New("config target cannot be nil")

	// ErrParsingConfig is returned when the environment cannot be parsed
	// into the target struct, usually because a required variable is unset
	// or a value has the wrong type.
	ErrParsingConfig = errors.New("failed to parse config from environment")

	// ErrConfigNotLoaded indicates an internal cache inconsistency where a
	// config type was expected to be cached but was not found.
	ErrConfigNotLoaded = errors.New("config was not loaded")
)
