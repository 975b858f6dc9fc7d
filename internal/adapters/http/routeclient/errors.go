package routeclient

import "errors"

// Sentinel kinds for route client errors.
var (
	ErrEmptyBaseURL = errors.New("route service base URL must not be empty")
	ErrEncode       = errors.New("encode route request")
	ErrTransport    = errors.New("route service request failed")
	ErrDecode       = errors.New("invalid route service response")
)
