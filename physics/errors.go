package physics

import "errors"

// ErrTargetNotFound is returned if a control request references an entity
// that has no matching engine object.
var ErrTargetNotFound = errors.New("target not found")

// ErrInvalidRequest is the error of a RequestRejected result.
var ErrInvalidRequest = errors.New("invalid control request")

// ErrChannelClosed is returned when sending a notification after the
// receiving side of the channel was closed.
var ErrChannelClosed = errors.New("notification channel closed")

// ErrNotSupported can be used with errors.Is to check for a NotSupportedError.
var ErrNotSupported = errors.New("not supported")

// NotSupportedError is returned for operations that have no implementation plugged in.
type NotSupportedError struct {
	Operation string
}

func (e *NotSupportedError) Error() string {
	return e.Operation + ": not supported"
}

func (e *NotSupportedError) Is(target error) bool {
	return target == ErrNotSupported
}
