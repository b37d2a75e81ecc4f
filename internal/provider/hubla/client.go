// Package hubla is a pass-through client for the Hubla subscriptions API.
// Responses are kept as raw JSON and relayed to callers untouched.
package hubla

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"time"

	"github.com/Dhoini/billing-gateway/internal/upstream"
	"github.com/Dhoini/billing-gateway/pkg/logger"
)

const (
	serviceName = "hubla"

	DefaultBaseURL = "https://api.hub.la/v1"
)

// Config конфигурация клиента Hubla
type Config struct {
	APIKey        string
	BaseURL       string
	Timeout       time.Duration
	Breaker       upstream.BreakerConfig
	RatePerMinute int // 0 means unlimited
}

// Client представляет клиент для работы с API Hubla
type Client struct {
	api *upstream.Client
}

// NewClient создает новый клиент Hubla
func NewClient(cfg Config, log *logger.Logger) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{api: upstream.New(upstream.Config{
		Service:       serviceName,
		BaseURL:       baseURL,
		Headers:       map[string]string{"X-Api-Key": cfg.APIKey},
		Timeout:       cfg.Timeout,
		Breaker:       cfg.Breaker,
		RatePerMinute: cfg.RatePerMinute,
	}, log.Named(serviceName))}
}

// GetSubscription возвращает подписку Hubla как есть
func (c *Client) GetSubscription(ctx context.Context, id string) (json.RawMessage, error) {
	if id == "" {
		return nil, &upstream.ValidationError{Field: "subscriptionId", Message: "required"}
	}
	var out json.RawMessage
	if err := c.api.Do(ctx, http.MethodGet, "/subscriptions/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CancelSubscription отменяет подписку Hubla
func (c *Client) CancelSubscription(ctx context.Context, id string) (json.RawMessage, error) {
	if id == "" {
		return nil, &upstream.ValidationError{Field: "subscriptionId", Message: "required"}
	}
	var out json.RawMessage
	if err := c.api.Do(ctx, http.MethodPost, "/subscriptions/"+url.PathEscape(id)+"/cancel", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}
