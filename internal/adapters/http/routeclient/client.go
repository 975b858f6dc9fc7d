// Package routeclient calls the route service: POST {base}/api/routes.
package routeclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/okian/citypath/internal/domain/route"
	"github.com/okian/citypath/pkg/logger"
	"github.com/okian/citypath/pkg/metrics"
)

const (
	// RoutesPath is the route service endpoint.
	RoutesPath = "/api/routes"

	// RequestIDHeader carries the submission id to the route service.
	RequestIDHeader = "X-Request-ID"

	maxResponseBytes = 32 << 20 // visualizations are inlined as base64
)

// Client posts route requests as JSON and decodes the payload. The status
// code is not inspected: only the payload shape decides the outcome.
type Client struct {
	endpoint string
	http     *http.Client
	timeout  time.Duration
	logger   logger.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithTimeout bounds each call. Zero leaves calls bounded only by the context.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// New creates a client for the route service at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, ErrEmptyBaseURL
	}

	c := &Client{
		endpoint: baseURL + RoutesPath,
		http:     &http.Client{},
		logger:   logger.Discard(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.timeout > 0 {
		hc := *c.http
		hc.Timeout = c.timeout
		c.http = &hc
	}
	return c, nil
}

// Endpoint returns the full URL requests are sent to.
func (c *Client) Endpoint() string { return c.endpoint }

// FindRoutes sends one request and waits for its payload.
func (c *Client) FindRoutes(ctx context.Context, req route.Request) (route.Response, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return route.Response{}, fmt.Errorf("%w: %w", ErrEncode, err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return route.Response{}, fmt.Errorf("%w: %w", ErrTransport, err)
	}
	id := route.RequestID(ctx)
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set(RequestIDHeader, id)

	start := time.Now()
	resp, err := c.http.Do(httpReq)
	latencyMs := float64(time.Since(start).Milliseconds())
	if err != nil {
		metrics.RecordUpstreamRequest("error", latencyMs)
		c.logger.Error(ctx, "route service request failed",
			logger.String("request_id", id), logger.String("endpoint", c.endpoint), logger.Error(err))
		return route.Response{}, fmt.Errorf("%w: %w", ErrTransport, err)
	}
	defer resp.Body.Close()

	status := strconv.Itoa(resp.StatusCode)
	metrics.RecordUpstreamRequest(status, latencyMs)

	var out route.Response
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&out); err != nil {
		c.logger.Error(ctx, "route service payload could not be decoded",
			logger.String("request_id", id), logger.String("status_code", status), logger.Error(err))
		return route.Response{}, fmt.Errorf("%w: %w", ErrDecode, err)
	}

	c.logger.Debug(ctx, "route service answered",
		logger.String("request_id", id),
		logger.String("status_code", status),
		logger.Int("paths", len(out.AllPaths)),
		logger.Float64("latency_ms", latencyMs))
	return out, nil
}
