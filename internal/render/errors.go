package render

import "errors"

// Sentinel kinds for render errors.
var (
	ErrParse   = errors.New("template parse failed")
	ErrExecute = errors.New("template execute failed")

	ErrImagePayload = errors.New("image payload is not base64")
)
