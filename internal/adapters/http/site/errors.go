package site

import "errors"

// Error constants
var (
	ErrRender    = errors.New("page render failed")
	ErrParseForm = errors.New("form parse failed")
)
