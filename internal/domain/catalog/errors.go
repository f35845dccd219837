package catalog

import "errors"

// Sentinel kinds for catalog errors.
var (
	ErrNotFound         = errors.New("problem statement not found")
	ErrDuplicateID      = errors.New("duplicate problem statement id")
	ErrInvalidStatement = errors.New("invalid problem statement")
)
