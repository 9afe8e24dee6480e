package repository

import "errors"

// Sentinel kinds for store errors.
var (
	ErrStoreUnavailable = errors.New("store unavailable")
	ErrStoreWrite       = errors.New("store write failed")
	ErrUnknownDriver    = errors.New("unknown store driver")
)
