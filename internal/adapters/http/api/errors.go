package api

import (
	"errors"
	"fmt"
)

// Sentinel kinds for API errors.
var (
	ErrBadRequest = errors.New("bad request")
	ErrUpstream   = errors.New("route service unavailable")
	ErrEncode     = errors.New("response encode failed")
)

// kindError ties an operation to one of the sentinel kinds above while
// keeping the underlying cause in the chain.
type kindError struct {
	op   string
	kind error
	err  error
}

func (e *kindError) Error() string {
	return fmt.Sprintf("%s: %v: %v", e.op, e.kind, e.err)
}

func (e *kindError) Unwrap() []error {
	return []error{e.kind, e.err}
}

// WrapKind tags err with kind. A nil err yields nil.
func WrapKind(op string, kind, err error) error {
	if err == nil {
		return nil
	}
	return &kindError{op: op, kind: kind, err: err}
}
