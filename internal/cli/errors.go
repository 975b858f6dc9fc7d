package cli

import "errors"

// Error constants
var (
	ErrUsage      = errors.New("invalid usage")
	ErrUnknownFmt = errors.New("unknown output format")
)
