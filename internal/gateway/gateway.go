package gateway

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/Dhoini/billing-gateway/internal/metrics"
	"github.com/Dhoini/billing-gateway/internal/upstream"
	"github.com/Dhoini/billing-gateway/pkg/logger"
	"github.com/Dhoini/billing-gateway/pkg/res"
	"github.com/gin-gonic/gin"
)

const (
	serviceName = "backend"

	// DefaultTimeout bounds every forwarded call when Options.Timeout is zero.
	DefaultTimeout = 5 * time.Second

	maxBodySize = 1 << 20
)

// ForwardedRequest is what goes to the backend for one legacy request.
type ForwardedRequest struct {
	Method string
	URL    string
	Body   []byte
	Header http.Header // authorization and content-type only
}

// Response is the downstream answer relayed to the caller unchanged.
type Response struct {
	Status      int
	ContentType string
	Body        []byte
}

// Options configures a Gateway.
type Options struct {
	BackendBaseURL string
	Timeout        time.Duration
	Production     bool
	HTTPClient     *http.Client // optional, overrides Timeout
}

// Gateway redirects legacy endpoints to their canonical backend paths.
type Gateway struct {
	routes     *RouteTable
	baseURL    string
	client     *http.Client
	production bool
	metrics    metrics.GatewayMetrics
	log        *logger.Logger
}

// New creates a Gateway. A nil metrics argument disables metrics.
func New(routes *RouteTable, opts Options, m metrics.GatewayMetrics, log *logger.Logger) *Gateway {
	client := opts.HTTPClient
	if client == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		client = &http.Client{
			Timeout: timeout,
			// a backend redirect is an answer to relay, not to follow
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		}
	}
	if m == nil {
		m = metrics.NoopGatewayMetrics{}
	}
	return &Gateway{
		routes:     routes,
		baseURL:    strings.TrimRight(opts.BackendBaseURL, "/"),
		client:     client,
		production: opts.Production,
		metrics:    m,
		log:        log,
	}
}

// Handle is mounted as the engine's NoRoute handler, so it only sees paths
// the canonical API does not serve itself.
func (g *Gateway) Handle(c *gin.Context) {
	if c.Request.Method == http.MethodOptions {
		c.AbortWithStatus(http.StatusOK)
		return
	}

	route, err := g.routes.Lookup(c.Request.URL.Path)
	if err != nil {
		g.metrics.IncUnmapped()
		g.log.Warnw("Legacy path not mapped", "method", c.Request.Method, "path", c.Request.URL.Path)
		res.Error(c.Writer, "Endpoint not found or not migrated", nil, http.StatusNotFound)
		c.Abort()
		return
	}

	if c.Request.Method != route.Method {
		c.Header("Allow", route.Method)
		res.Error(c.Writer, "Method not allowed", nil, http.StatusMethodNotAllowed)
		c.Abort()
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxBodySize))
	if err != nil {
		g.log.Warnw("Failed to read legacy request body", "path", route.LegacyPath, "error", err)
		res.Error(c.Writer, "Invalid request body", nil, http.StatusBadRequest)
		c.Abort()
		return
	}

	fwd := g.BuildRequest(route, c.Request, body)

	start := time.Now()
	resp, err := g.Forward(c.Request.Context(), fwd)
	elapsed := time.Since(start)
	if err != nil {
		g.metrics.ObserveForward(route.LegacyPath, 0, elapsed)
		g.log.Errorw("Backend unreachable",
			"legacy_path", route.LegacyPath,
			"canonical_path", route.CanonicalPath,
			"error", err,
		)
		var details any
		if !g.production {
			details = err.Error()
		}
		res.Error(c.Writer, "Backend service unavailable", details, http.StatusBadGateway)
		c.Abort()
		return
	}

	g.metrics.ObserveForward(route.LegacyPath, resp.Status, elapsed)
	g.log.Infow("Legacy request redirected",
		"legacy_path", route.LegacyPath,
		"canonical_path", route.CanonicalPath,
		"status", resp.Status,
		"latency_ms", elapsed.Milliseconds(),
	)

	contentType := resp.ContentType
	if contentType == "" {
		contentType = "application/json"
	}
	c.Data(resp.Status, contentType, resp.Body)
	c.Abort()
}

// BuildRequest assembles the outbound request for route. Only the
// authorization header travels; host and content-length are left to the
// transport.
func (g *Gateway) BuildRequest(route Route, in *http.Request, body []byte) ForwardedRequest {
	target := g.baseURL + route.CanonicalPath
	if in.URL.RawQuery != "" {
		target += "?" + in.URL.RawQuery
	}

	header := make(http.Header, 2)
	header.Set("Content-Type", "application/json")
	if auth := in.Header.Get("Authorization"); auth != "" {
		header.Set("Authorization", auth)
	}

	return ForwardedRequest{
		Method: in.Method,
		URL:    target,
		Body:   body,
		Header: header,
	}
}

// Forward performs the outbound call. Any HTTP answer, whatever its status,
// comes back as a Response; only a failure to get one is an error, and that
// error is always an *upstream.TransportError.
func (g *Gateway) Forward(ctx context.Context, fwd ForwardedRequest) (*Response, error) {
	var body io.Reader
	if len(fwd.Body) > 0 {
		body = bytes.NewReader(fwd.Body)
	}

	req, err := http.NewRequestWithContext(ctx, fwd.Method, fwd.URL, body)
	if err != nil {
		return nil, &upstream.TransportError{Service: serviceName, Cause: err}
	}
	req.Header = fwd.Header.Clone()

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, &upstream.TransportError{Service: serviceName, Cause: err}
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &upstream.TransportError{Service: serviceName, Cause: errors.Join(errors.New("reading backend response"), err)}
	}

	return &Response{
		Status:      resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
		Body:        payload,
	}, nil
}
