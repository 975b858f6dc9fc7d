package route

// Outcome classifies how a submission ended.
type Outcome string

// Outcomes, one per error kind plus success.
const (
	OutcomeInvalid     Outcome = "validation_error"
	OutcomeRejected    Outcome = "rejected"
	OutcomeServerError Outcome = "server_error"
	OutcomeNoRoutes    Outcome = "no_routes"
	OutcomeRoutes      Outcome = "routes"
	OutcomeTransport   Outcome = "transport_error"
)

// Classify decides what a decoded response means. The HTTP status code plays
// no part: an error field wins, then a non-empty path list, else no routes.
func Classify(r Response) Outcome {
	switch {
	case r.HasError():
		return OutcomeServerError
	case r.HasPaths():
		return OutcomeRoutes
	default:
		return OutcomeNoRoutes
	}
}
