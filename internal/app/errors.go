package service

import "errors"

var (
	// ErrUnknownMember is returned when an event names a member that is not in the catalog.
	ErrUnknownMember = errors.New("unknown member")
	// ErrInvalidRequest is returned when a payload fails validation.
	ErrInvalidRequest = errors.New("invalid request")
	// ErrDuplicateMemberName is returned when a member catalog repeats a name.
	ErrDuplicateMemberName = errors.New("duplicate member name")
)
