package push

import "errors"

var (
	ErrFailedToSendPush = errors.New("push.errors.failed_to_send")
	ErrInvalidConfig    = errors.New("push.errors.invalid_config")
	ErrInvalidParams    = errors.New("push.errors.invalid_params")
)
