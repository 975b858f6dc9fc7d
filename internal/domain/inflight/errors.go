package inflight

import "errors"

// Sentinel kinds returned by Acquire.
var (
	ErrBusy     = errors.New("submission already in flight")
	ErrCapacity = errors.New("too many submissions in flight")
)
