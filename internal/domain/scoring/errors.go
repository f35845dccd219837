package scoring

import "errors"

// Sentinel kinds for ledger errors.
var (
	ErrInvalidSubmission = errors.New("invalid score submission")
)
