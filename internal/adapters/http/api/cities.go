package api

import (
	"net/http"

	"github.com/okian/citypath/pkg/logger"
)

// CitiesHandler lists the selectable cities.
type CitiesHandler struct {
	deps   Dependencies
	logger logger.Logger
}

// NewCitiesHandler creates a new cities handler.
func NewCitiesHandler(deps Dependencies, log logger.Logger) *CitiesHandler {
	return &CitiesHandler{deps: deps, logger: log}
}

type citiesResponse struct {
	Cities []string `json:"cities"`
}

// HandleGetCities handles GET /api/cities.
func (h *CitiesHandler) HandleGetCities(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	cities := h.deps.Cities()
	if cities == nil {
		cities = []string{}
	}
	writeJSON(r, w, h.logger, http.StatusOK, citiesResponse{Cities: cities})
}
