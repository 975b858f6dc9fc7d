// Package site serves the route search page: the form, its submission and
// the embedded stylesheet.
package site

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/okian/citypath/internal/adapters/http/api"
	"github.com/okian/citypath/internal/config"
	"github.com/okian/citypath/internal/domain/inflight"
	"github.com/okian/citypath/internal/domain/route"
	"github.com/okian/citypath/internal/form"
	"github.com/okian/citypath/internal/render"
	"github.com/okian/citypath/pkg/logger"
)

// SessionCookie names the cookie that keys the in-flight guard.
const SessionCookie = "citypath_session"

const sessionMaxAge = 24 * time.Hour

// Handler renders the page and runs form submissions against a Finder.
type Handler struct {
	finder   form.Finder
	renderer *render.Renderer
	guard    inflight.Guard
	cities   []string
	title    string
	logger   logger.Logger
}

// Option applies a configuration option to the Handler.
type Option func(*Handler)

// WithCities sets the selectable cities in display order.
func WithCities(cities []string) Option {
	return func(h *Handler) {
		if len(cities) > 0 {
			h.cities = append([]string(nil), cities...)
		}
	}
}

// WithTitle sets the document title.
func WithTitle(title string) Option {
	return func(h *Handler) {
		if strings.TrimSpace(title) != "" {
			h.title = title
		}
	}
}

// WithGuard sets the guard shared by every session.
func WithGuard(g inflight.Guard) Option {
	return func(h *Handler) {
		if g != nil {
			h.guard = g
		}
	}
}

// WithRenderer sets the template renderer.
func WithRenderer(r *render.Renderer) Option {
	return func(h *Handler) {
		if r != nil {
			h.renderer = r
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(h *Handler) {
		if l != nil {
			h.logger = l
		}
	}
}

// NewHandler creates the page handler.
func NewHandler(finder form.Finder, opts ...Option) *Handler {
	if finder == nil {
		panic("site: finder is nil")
	}
	h := &Handler{
		finder: finder,
		cities: append([]string(nil), config.DefaultCities...),
		title:  "Route Finder",
		logger: logger.Discard(),
	}
	for _, opt := range opts {
		opt(h)
	}
	if h.renderer == nil {
		h.renderer = render.MustNew(render.WithLogger(h.logger))
	}
	if h.guard == nil {
		h.guard = inflight.NewMemoryGuard()
	}
	return h
}

// Register attaches the page and the stylesheet to mux.
func (h *Handler) Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}
	mux.Handle("/static/", http.StripPrefix("/static/", http.FileServer(FS())))
	mux.HandleFunc("/", api.MetricsMiddleware(h.HandleRoot, "root"))
}

// HandleRoot serves GET / with an empty form and POST / with the outcome of
// the submitted selection.
func (h *Handler) HandleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	switch r.Method {
	case http.MethodGet, http.MethodHead:
		h.writePage(w, r, http.StatusOK, render.PageData{})
	case http.MethodPost:
		h.handleSubmit(w, r)
	default:
		w.Header().Set("Allow", "GET, HEAD, POST")
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
	}
}

func (h *Handler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := r.ParseForm(); err != nil {
		h.logger.Warn(ctx, "form parse failed", logger.Error(err))
		http.Error(w, fmt.Errorf("%w: %w", ErrParseForm, err).Error(), http.StatusBadRequest)
		return
	}

	sel := form.Selection{
		Start: r.PostForm.Get("start_city"),
		End:   r.PostForm.Get("end_city"),
	}
	session := h.session(w, r)
	if id := r.Header.Get("X-Request-ID"); id != "" {
		ctx = route.WithRequestID(ctx, id)
	}

	state := &form.State{}
	submitter := form.NewHandler(state, h.finder,
		form.WithRenderer(h.renderer),
		form.WithGuard(h.guard, session),
		form.WithLogger(h.logger),
	)
	outcome, err := submitter.Submit(ctx, sel)

	status := http.StatusOK
	switch {
	case errors.Is(err, form.ErrInFlight), errors.Is(err, form.ErrOverloaded):
		status = http.StatusConflict
	case outcome == route.OutcomeInvalid:
		status = http.StatusBadRequest
	}

	snap := state.Snapshot()
	h.writePage(w, r, status, render.PageData{
		Start:          sel.Start,
		End:            sel.End,
		Loading:        snap.Loading,
		SubmitDisabled: snap.SubmitDisabled,
		Result:         snap.Result,
		Error:          snap.Error,
	})
}

// session returns the caller's session id, issuing a new cookie when absent.
func (h *Handler) session(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(SessionCookie); err == nil {
		if _, perr := uuid.Parse(c.Value); perr == nil {
			return c.Value
		}
	}
	id := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    id,
		Path:     "/",
		MaxAge:   int(sessionMaxAge.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return id
}

func (h *Handler) writePage(w http.ResponseWriter, r *http.Request, status int, data render.PageData) {
	data.Title = h.title
	data.Cities = h.cities

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if r.Method == http.MethodHead {
		return
	}
	if err := h.renderer.Page(w, data); err != nil {
		h.logger.Error(r.Context(), "page render failed", logger.Error(fmt.Errorf("%w: %w", ErrRender, err)))
	}
}
