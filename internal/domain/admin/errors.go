package admin

import "errors"

// Sentinel kinds for admin errors.
var (
	ErrInvalidDuration    = errors.New("sprint duration out of range")
	ErrRegistrationClosed = errors.New("registration closed")
)
