package leaderboard

import "errors"

// Sentinel kinds for leaderboard errors.
var (
	ErrInvalidRange = errors.New("invalid date range")
)
