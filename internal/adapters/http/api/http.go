// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/okian/citypath/internal/domain/route"
	"github.com/okian/citypath/pkg/logger"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// FindRoutes forwards a search to the route service.
	FindRoutes(ctx context.Context, req route.Request) (route.Response, error)

	// Cities lists the selectable cities in display order.
	Cities() []string
}

// Server wires HTTP routes for the JSON API.
type Server struct {
	healthHandler *HealthHandler
	statsHandler  *StatsHandler
	routesHandler *RoutesHandler
	citiesHandler *CitiesHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, log logger.Logger) *Server {
	if log == nil {
		log = logger.Discard()
	}
	return &Server{
		healthHandler: NewHealthHandler(),
		statsHandler:  NewStatsHandler(statsProvider, log),
		routesHandler: NewRoutesHandler(deps, log),
		citiesHandler: NewCitiesHandler(deps, log),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/api/routes", MetricsMiddleware(s.routesHandler.HandlePostRoutes, "routes"))
	mux.HandleFunc("/api/cities", MetricsMiddleware(s.citiesHandler.HandleGetCities, "cities"))
}

type errorResponse struct {
	Error string `json:"error"`
}

// writeJSON sends v with status. The header is already out when encoding
// fails, so the failure can only be logged.
func writeJSON(r *http.Request, w http.ResponseWriter, log logger.Logger, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		err = WrapKind("api.writeJSON", ErrEncode, err)
		log.Error(r.Context(), "response could not be written",
			logger.String("path", r.URL.Path), logger.Int("status_code", status), logger.Error(err))
	}
}

// writeError uses the same {"error": ...} shape the route service answers
// with, so callers decode one payload type.
func writeError(r *http.Request, w http.ResponseWriter, log logger.Logger, status int, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(r, w, log, status, errorResponse{Error: msg})
}
