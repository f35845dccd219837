package selection

import "errors"

// Sentinel kinds for selection errors.
var (
	ErrLocked          = errors.New("selection locked")
	ErrPaymentRequired = errors.New("payment required")
	ErrUnknownProblem  = errors.New("unknown problem statement")
)
