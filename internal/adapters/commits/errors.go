package commits

import "errors"

// Sentinel kinds for commit-tracking errors.
var (
	ErrNoRepo   = errors.New("no repository url set")
	ErrUpstream = errors.New("upstream commit fetch failed")
)
