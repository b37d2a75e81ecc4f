package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/Dhoini/billing-gateway/pkg/logger"
	"golang.org/x/time/rate"
)

// Config describes one remote JSON API.
type Config struct {
	Service       string            // used in errors and logs
	BaseURL       string            // without trailing slash
	Headers       map[string]string // static auth headers
	Timeout       time.Duration
	Breaker       BreakerConfig
	RatePerMinute int // caps outgoing calls, 0 means unlimited
}

// Client performs JSON calls and sorts every failure into ValidationError,
// UpstreamError or TransportError. It never retries. While the breaker is
// open calls fail fast with a TransportError.
type Client struct {
	cfg     Config
	http    *http.Client
	breaker breaker
	limiter *rate.Limiter
	log     *logger.Logger
}

// New builds a Client with its own http.Client bounded by cfg.Timeout.
// Redirects are never followed.
func New(cfg Config, log *logger.Logger) *Client {
	return NewWithHTTPClient(cfg, &http.Client{
		Timeout: cfg.Timeout,
		// a provider 3xx surfaces as UpstreamError
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}, log)
}

// NewWithHTTPClient is New with a caller supplied transport.
func NewWithHTTPClient(cfg Config, hc *http.Client, log *logger.Logger) *Client {
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	c := &Client{cfg: cfg, http: hc, breaker: newBreaker(cfg.Service, cfg.Breaker), log: log}
	if cfg.RatePerMinute > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RatePerMinute)/60, cfg.RatePerMinute/60+1)
	}
	return c
}

// Service returns the configured service name.
func (c *Client) Service() string {
	return c.cfg.Service
}

// Do sends body (JSON encoded, may be nil) to BaseURL+path and decodes a 2xx
// answer into out (may be nil).
func (c *Client) Do(ctx context.Context, method, path string, body, out any) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return &TransportError{Service: c.cfg.Service, Cause: err}
		}
	}

	err := c.breaker.Execute(func() error {
		return c.do(ctx, method, path, body, out)
	})
	if isBreakerOpen(err) {
		c.log.Warnw("Circuit breaker open, call rejected", "service", c.cfg.Service, "path", path)
		return &TransportError{Service: c.cfg.Service, Cause: err}
	}
	return err
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s: failed to encode request: %w", c.cfg.Service, err)
		}
		reqBody = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.cfg.BaseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("%s: failed to build request: %w", c.cfg.Service, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	for k, v := range c.cfg.Headers {
		req.Header.Set(k, v)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Errorw("Upstream call failed", "service", c.cfg.Service, "method", method, "path", path, "error", err)
		return &TransportError{Service: c.cfg.Service, Cause: err}
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		c.log.Errorw("Failed to read upstream response", "service", c.cfg.Service, "path", path, "error", err)
		return &TransportError{Service: c.cfg.Service, Cause: err}
	}

	c.log.Debugw("Upstream call finished",
		"service", c.cfg.Service,
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"latency_ms", time.Since(start).Milliseconds(),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &UpstreamError{Service: c.cfg.Service, Status: resp.StatusCode, Body: rawBody(payload)}
	}

	if out != nil && len(payload) > 0 {
		if err := json.Unmarshal(payload, out); err != nil {
			return fmt.Errorf("%s: failed to decode response: %w", c.cfg.Service, err)
		}
	}
	return nil
}
