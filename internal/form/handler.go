// Package form implements the route search form: validate the two selected
// cities, call the route service once, and render the outcome into the view.
//
// The handler never looks anything up globally. Its view slots and its route
// finder are passed to NewHandler, so it runs the same against a server
// rendered page, a terminal, or a test double.
package form

import (
	"context"
	"errors"
	"html/template"
	"time"

	"github.com/google/uuid"

	"github.com/okian/citypath/internal/domain/inflight"
	"github.com/okian/citypath/internal/domain/route"
	"github.com/okian/citypath/internal/render"
	"github.com/okian/citypath/pkg/logger"
	"github.com/okian/citypath/pkg/metrics"
)

// Selection holds the values of the start_city and end_city fields.
type Selection struct {
	Start string
	End   string
}

// View is the set of page slots the handler writes to: the submit control,
// the loading indicator, and the result and error containers. Setting a
// slot replaces its previous content.
type View interface {
	SetSubmitEnabled(enabled bool)
	SetLoading(active bool)
	SetResult(fragment template.HTML)
	SetError(fragment template.HTML)
}

// Finder performs the route search.
type Finder interface {
	FindRoutes(ctx context.Context, req route.Request) (route.Response, error)
}

// Handler handles form submissions for one view.
type Handler struct {
	view     View
	finder   Finder
	renderer *render.Renderer
	guard    inflight.Guard
	key      string
	logger   logger.Logger
}

// Option applies a configuration option to the Handler.
type Option func(*Handler)

// WithRenderer sets the renderer used for results and errors.
func WithRenderer(r *render.Renderer) Option {
	return func(h *Handler) {
		if r != nil {
			h.renderer = r
		}
	}
}

// WithGuard shares an in-flight guard between handlers; key identifies the
// submitter (typically a browser session).
func WithGuard(g inflight.Guard, key string) Option {
	return func(h *Handler) {
		if g != nil {
			h.guard = g
			h.key = key
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

// NewHandler binds a handler to its view and route finder.
func NewHandler(view View, finder Finder, opts ...Option) *Handler {
	if view == nil {
		panic("form: view is nil")
	}
	if finder == nil {
		panic("form: finder is nil")
	}

	h := &Handler{
		view:   view,
		finder: finder,
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
		h.key = uuid.NewString()
	}
	return h
}

// Submit runs one submission. The returned error is non-nil when the
// submission stopped before a payload was rendered: validation (no request
// made), rejection because one is already in flight for this key (no request
// made), or a transport/decode failure. Server-reported errors and empty
// results are outcomes, not errors.
func (h *Handler) Submit(ctx context.Context, sel Selection) (route.Outcome, error) {
	start := time.Now()
	outcome, err := h.submit(ctx, sel)
	metrics.RecordSubmission(string(outcome), float64(time.Since(start).Milliseconds()))
	return outcome, err
}

func (h *Handler) submit(ctx context.Context, sel Selection) (route.Outcome, error) {
	const op = "form.submit"

	if err := route.Validate(sel.Start, sel.End); err != nil {
		metrics.RecordValidationFailure(route.ValidationReason(err))
		h.logger.Debug(ctx, "submission rejected by validation",
			logger.String("op", op), logger.String("reason", route.ValidationReason(err)))
		h.view.SetResult("")
		h.showError(err.Error())
		return route.OutcomeInvalid, err
	}

	// A rejected submission must leave the running search's result slot alone.
	if err := h.guard.Acquire(ctx, h.key); err != nil {
		metrics.RecordRejectedSubmission()
		h.logger.Warn(ctx, "submission rejected while another is in flight",
			logger.String("op", op), logger.Error(err))
		if errors.Is(err, inflight.ErrCapacity) {
			h.showError(route.MsgBusy)
			return route.OutcomeRejected, ErrOverloaded
		}
		h.showError(route.MsgInFlight)
		return route.OutcomeRejected, ErrInFlight
	}
	defer h.guard.Release(ctx, h.key)

	h.view.SetError("")
	h.view.SetResult("")

	id := route.RequestID(ctx)
	ctx = route.WithRequestID(ctx, id)

	h.view.SetSubmitEnabled(false)
	h.view.SetLoading(true)
	metrics.IncInflight()

	resp, err := h.finder.FindRoutes(ctx, route.Request{StartCity: sel.Start, EndCity: sel.End})

	metrics.DecInflight()
	h.view.SetLoading(false)
	defer h.view.SetSubmitEnabled(true)

	if err != nil {
		h.logger.Error(ctx, "route search failed",
			logger.String("op", op), logger.String("request_id", id), logger.Error(err))
		h.showError(route.MsgTransport + err.Error())
		return route.OutcomeTransport, err
	}

	outcome := route.Classify(resp)
	switch outcome {
	case route.OutcomeServerError:
		h.showError(resp.Error)
	case route.OutcomeRoutes:
		fragment, rerr := h.renderer.Results(resp)
		if rerr != nil {
			metrics.RecordRenderError()
			h.logger.Error(ctx, "rendering routes failed",
				logger.String("op", op), logger.String("request_id", id), logger.Error(rerr))
			h.showError(route.MsgTransport + rerr.Error())
			return outcome, rerr
		}
		metrics.RecordPathsRendered(len(resp.AllPaths))
		h.view.SetError("")
		h.view.SetResult(fragment)
	default:
		h.showError(route.MsgNoRoutes)
	}

	h.logger.Info(ctx, "route search finished",
		logger.String("op", op),
		logger.String("request_id", id),
		logger.String("start_city", sel.Start),
		logger.String("end_city", sel.End),
		logger.String("outcome", string(outcome)),
		logger.Int("paths", len(resp.AllPaths)))
	return outcome, nil
}

func (h *Handler) showError(message string) {
	h.view.SetError(h.renderer.Error(message))
}
