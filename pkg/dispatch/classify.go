package dispatch

import (
	"errors"
	"regexp"
)

// Kind categorizes a handler failure for the retry decision.
type Kind string

const (
	KindValidation Kind = "validation"
	KindAuth       Kind = "auth"
	KindNotFound   Kind = "not_found"
	KindBadRequest Kind = "bad_request"
	KindTransient  Kind = "transient"
	KindUnknown    Kind = "unknown"
)

// Retryable reports whether a failure of this kind is worth retrying.
// Validation, auth, not-found, and bad-request failures are deterministic:
// the same message fails the same way every time.
func (k Kind) Retryable() bool {
	switch k {
	case KindValidation, KindAuth, KindNotFound, KindBadRequest:
		return false
	}
	return true
}

// Error carries an explicit failure kind through the handler chain.
type Error struct {
	kind Kind
	err  error
}

// WithKind wraps err with an explicit classification.
func WithKind(err error, kind Kind) error {
	if err == nil {
		return nil
	}
	return &Error{kind: kind, err: err}
}

func (e *Error) Error() string { return e.err.Error() }
func (e *Error) Unwrap() error { return e.err }
func (e *Error) Kind() Kind    { return e.kind }

// Message-text fallbacks for errors that arrive unclassified, typically
// from transport or third-party SDKs.
var nonRetryablePatterns = map[Kind]*regexp.Regexp{
	KindValidation: regexp.MustCompile(`(?i)validation`),
	KindAuth:       regexp.MustCompile(`(?i)authentication|authorization|permission`),
	KindNotFound:   regexp.MustCompile(`(?i)not found`),
	KindBadRequest: regexp.MustCompile(`(?i)bad request`),
}

// KindOf classifies err: an explicit Error wrapper wins, otherwise the
// message text is matched against the non-retryable patterns, and anything
// left is unknown (retryable).
func KindOf(err error) Kind {
	if err == nil {
		return KindUnknown
	}

	var classified *Error
	if errors.As(err, &classified) {
		return classified.Kind()
	}

	msg := err.Error()
	for kind, pattern := range nonRetryablePatterns {
		if pattern.MatchString(msg) {
			return kind
		}
	}
	return KindUnknown
}
