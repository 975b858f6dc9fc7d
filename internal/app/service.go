// Package service provides the core service that implements the
// dependencies required by the HTTP API, the page handler and the CLI.
package service

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/citypath/internal/adapters/http/routeclient"
	"github.com/okian/citypath/internal/config"
	"github.com/okian/citypath/internal/domain/inflight"
	"github.com/okian/citypath/internal/domain/route"
	"github.com/okian/citypath/internal/render"
	"github.com/okian/citypath/pkg/logger"
)

// ErrNotStarted is returned by FindRoutes before Start.
var ErrNotStarted = errors.New("service not started")

// Service owns the route service client, the shared in-flight guard and
// the renderer, and keeps counters for /stats.
type Service struct {
	mu sync.RWMutex

	// Core components
	client   *routeclient.Client
	guard    inflight.Guard
	renderer *render.Renderer

	// Configuration
	upstreamURL     string
	upstreamTimeout time.Duration
	maxInFlight     int
	httpClient      *http.Client
	cities          []string
	title           string

	// State
	started bool

	// Counters
	searches        atomic.Int64
	upstreamFailure atomic.Int64
	outcomesMu      sync.Mutex
	outcomes        map[route.Outcome]int64

	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithUpstreamURL sets the base URL of the route service.
func WithUpstreamURL(u string) Option {
	return func(s *Service) {
		if u != "" {
			s.upstreamURL = u
		}
	}
}

// WithUpstreamTimeout bounds each route service call. Zero leaves calls
// bounded by the caller's context only.
func WithUpstreamTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d >= 0 {
			s.upstreamTimeout = d
		}
	}
}

// WithMaxInFlight caps concurrent searches across every session.
func WithMaxInFlight(n int) Option {
	return func(s *Service) {
		if n >= 0 {
			s.maxInFlight = n
		}
	}
}

// WithHTTPClient sets the client used to reach the route service.
func WithHTTPClient(hc *http.Client) Option {
	return func(s *Service) {
		if hc != nil {
			s.httpClient = hc
		}
	}
}

// WithCities sets the selectable cities in display order.
func WithCities(cities []string) Option {
	return func(s *Service) {
		if len(cities) > 0 {
			s.cities = append([]string(nil), cities...)
		}
	}
}

// WithTitle sets the page title.
func WithTitle(title string) Option {
	return func(s *Service) {
		if title != "" {
			s.title = title
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// FromConfig maps a loaded Config onto service options.
func FromConfig(cfg *config.Config) []Option {
	if cfg == nil {
		return nil
	}
	return []Option{
		WithUpstreamURL(cfg.UpstreamURL),
		WithUpstreamTimeout(time.Duration(cfg.UpstreamTimeoutMS) * time.Millisecond),
		WithMaxInFlight(cfg.MaxInFlight),
		WithCities(cfg.Cities),
		WithTitle(cfg.PageTitle),
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	defaults := config.New()
	s := &Service{
		upstreamURL: defaults.UpstreamURL,
		cities:      defaults.Cities,
		title:       defaults.PageTitle,
		outcomes:    make(map[route.Outcome]int64),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start builds the route service client, the guard and the renderer.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get()
	}

	clientOpts := []routeclient.Option{
		routeclient.WithTimeout(s.upstreamTimeout),
		routeclient.WithLogger(s.logger.Named("routeclient")),
	}
	if s.httpClient != nil {
		clientOpts = append(clientOpts, routeclient.WithHTTPClient(s.httpClient))
	}
	client, err := routeclient.New(s.upstreamURL, clientOpts...)
	if err != nil {
		return err
	}

	renderer, err := render.New(render.WithLogger(s.logger.Named("render")))
	if err != nil {
		return err
	}

	s.client = client
	s.renderer = renderer
	s.guard = inflight.NewMemoryGuard(inflight.WithMaxInFlight(s.maxInFlight))
	s.started = true

	s.logger.Info(ctx, "route search service started",
		logger.String("upstream", client.Endpoint()),
		logger.Duration("upstreamTimeout", s.upstreamTimeout),
		logger.Int("maxInFlight", s.maxInFlight),
		logger.Int("cities", len(s.cities)),
	)
	return nil
}

// Stop marks the service stopped. Searches already running finish on their
// own contexts.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	s.started = false
	s.logger.Info(context.Background(), "route search service stopped")
}

// FindRoutes forwards a search to the route service and counts its outcome.
func (s *Service) FindRoutes(ctx context.Context, req route.Request) (route.Response, error) {
	s.mu.RLock()
	client, started := s.client, s.started
	s.mu.RUnlock()
	if !started {
		return route.Response{}, ErrNotStarted
	}

	s.searches.Add(1)
	resp, err := client.FindRoutes(ctx, req)
	if err != nil {
		s.upstreamFailure.Add(1)
		s.count(route.OutcomeTransport)
		return route.Response{}, err
	}
	s.count(route.Classify(resp))
	return resp, nil
}

func (s *Service) count(o route.Outcome) {
	s.outcomesMu.Lock()
	s.outcomes[o]++
	s.outcomesMu.Unlock()
}

// Cities returns the selectable cities in display order.
func (s *Service) Cities() []string {
	return append([]string(nil), s.cities...)
}

// Title returns the page title.
func (s *Service) Title() string { return s.title }

// Guard returns the in-flight guard shared by all sessions. Nil before Start.
func (s *Service) Guard() inflight.Guard {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.guard
}

// Renderer returns the shared renderer. Nil before Start.
func (s *Service) Renderer() *render.Renderer {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.renderer
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":          s.started,
		"upstreamURL":      s.upstreamURL,
		"cities":           len(s.cities),
		"searches":         s.searches.Load(),
		"upstreamFailures": s.upstreamFailure.Load(),
	}

	s.outcomesMu.Lock()
	outcomes := make(map[string]int64, len(s.outcomes))
	for o, n := range s.outcomes {
		outcomes[string(o)] = n
	}
	s.outcomesMu.Unlock()
	stats["outcomes"] = outcomes

	if s.started {
		stats["inFlight"] = s.guard.Size()
	}
	return stats
}
