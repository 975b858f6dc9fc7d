package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/okian/citypath/internal/domain/route"
	"github.com/okian/citypath/pkg/logger"
)

const maxRequestBytes = 4 << 10

// RoutesHandler proxies route searches to the route service.
type RoutesHandler struct {
	deps   Dependencies
	logger logger.Logger
}

// NewRoutesHandler creates a new routes handler.
func NewRoutesHandler(deps Dependencies, log logger.Logger) *RoutesHandler {
	return &RoutesHandler{deps: deps, logger: log}
}

// HandlePostRoutes handles POST /api/routes. The body is forwarded as is;
// the route service does its own validation and its payload is returned
// unchanged. Only a failure to reach or decode the service maps to 502.
func (h *RoutesHandler) HandlePostRoutes(w http.ResponseWriter, r *http.Request) {
	const op = "api.routes"
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(r, w, h.logger, http.StatusMethodNotAllowed, nil)
		return
	}

	var req route.Request
	dec := json.NewDecoder(io.LimitReader(r.Body, maxRequestBytes))
	if err := dec.Decode(&req); err != nil {
		writeError(r, w, h.logger, http.StatusBadRequest, WrapKind(op, ErrBadRequest, errors.New("invalid JSON body")))
		return
	}

	ctx := r.Context()
	if id := r.Header.Get("X-Request-ID"); id != "" {
		ctx = route.WithRequestID(ctx, id)
	}

	resp, err := h.deps.FindRoutes(ctx, req)
	if err != nil {
		err = WrapKind(op, ErrUpstream, err)
		h.logger.Error(ctx, "route service call failed", logger.String("op", op), logger.Error(err))
		writeError(r, w, h.logger, http.StatusBadGateway, ErrUpstream)
		return
	}
	writeJSON(r, w, h.logger, http.StatusOK, resp)
}
