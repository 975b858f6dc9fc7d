package route

import "errors"

// User-facing messages. They are shown verbatim in the error slot.
const (
	MsgMissingCity = "Please select both start and end cities."
	MsgSameCity    = "Start and end cities must be different."
	MsgNoRoutes    = "No routes found between these cities."
	MsgInFlight    = "A route search is already in progress."
	MsgTransport   = "An error occurred: "
)

// Sentinel validation errors. Their text is the message shown to the user.
var (
	ErrMissingCity = errors.New(MsgMissingCity)
	ErrSameCity    = errors.New(MsgSameCity)
)

// MsgBusy is shown when too many searches are in flight across all sessions.
const MsgBusy = "The route service is busy, please try again shortly."
