package api

import (
	"net/http"

	"github.com/okian/citypath/pkg/logger"
)

// StatsProvider reports the running service counters served on /stats.
type StatsProvider interface {
	GetStats() map[string]interface{}
}

// StatsHandler serves the service counters as a JSON object.
type StatsHandler struct {
	stats  StatsProvider
	logger logger.Logger
}

// NewStatsHandler creates a new stats handler.
func NewStatsHandler(stats StatsProvider, log logger.Logger) *StatsHandler {
	return &StatsHandler{stats: stats, logger: log}
}

// HandleStats handles GET /stats. A nil provider yields an empty object.
func (h *StatsHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	stats := map[string]interface{}{}
	if h.stats != nil {
		stats = h.stats.GetStats()
	}
	writeJSON(r, w, h.logger, http.StatusOK, stats)
}
