// Package route contains the request and response shapes exchanged with the
// route service, plus the client-side rules applied before and after a call.
package route

// Request is the JSON body of POST /api/routes. It is built fresh for every
// submission and sent verbatim.
type Request struct {
	StartCity string `json:"start_city"`
	EndCity   string `json:"end_city"`
}

// Response is the payload returned by the route service. Exactly one of
// Error or AllPaths is meaningfully populated.
type Response struct {
	Error     string `json:"error,omitempty"`
	AllPaths  []Path `json:"all_paths,omitempty"`
	ImageData string `json:"image_data,omitempty"`

	// Echoed by the route service; decoded for completeness, never rendered.
	SelectedStart string   `json:"selected_start,omitempty"`
	SelectedEnd   string   `json:"selected_end,omitempty"`
	Cities        []string `json:"cities,omitempty"`
}

// Path is one candidate route. Difference and Percentage are only meaningful
// for alternatives and may be absent.
type Path struct {
	Number     int      `json:"numero,omitempty"`
	Cities     []string `json:"chemin,omitempty"`
	RouteStr   string   `json:"route_str"`
	Distance   float64  `json:"distance"`
	Optimal    bool     `json:"est_optimal"`
	Difference *float64 `json:"difference,omitempty"`
	Percentage *float64 `json:"pourcentage,omitempty"`
}

// HasError reports whether the route service reported a logical error.
func (r Response) HasError() bool {
	return r.Error != ""
}

// HasPaths reports whether at least one path was returned.
func (r Response) HasPaths() bool {
	return len(r.AllPaths) > 0
}

// HasImage reports whether a visualization payload is attached.
func (r Response) HasImage() bool {
	return r.ImageData != ""
}
