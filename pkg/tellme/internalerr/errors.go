package internalerr

import "errors"

// Sentinel errors for common cases
var (
	ErrUnknownTopic     = errors.New("unknown topic")
	ErrInvalidInput     = errors.New("invalid input")
	ErrStoreUnavailable = errors.New("store unavailable")
	ErrInvalidConfig    = errors.New("invalid configuration")
)
