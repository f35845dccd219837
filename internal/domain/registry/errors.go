package registry

import "errors"

// Sentinel kinds for registry errors.
var (
	ErrInvalidRoster = errors.New("invalid roster")
	ErrInvalidURL    = errors.New("invalid repository url")
	ErrNotFound      = errors.New("team not found")
)
