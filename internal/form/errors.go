package form

import "errors"

// Sentinel kinds for submissions refused by the in-flight policy.
var (
	ErrInFlight   = errors.New("a submission is already in flight")
	ErrOverloaded = errors.New("too many submissions in flight")
)
