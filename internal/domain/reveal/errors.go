package reveal

import "errors"

// Sentinel kinds for reveal errors.
var (
	// ErrNotAvailable means the reveal guard has not been met: results
	// are locked or empty and no podium/leaderboard operation applies.
	ErrNotAvailable = errors.New("results not available")
)
