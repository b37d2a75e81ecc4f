// Package asaas is a thin client for the Asaas v3 REST API.
package asaas

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/Dhoini/billing-gateway/internal/upstream"
	"github.com/Dhoini/billing-gateway/pkg/logger"
)

const (
	serviceName = "asaas"

	ProductionURL = "https://api.asaas.com/v3"
	SandboxURL    = "https://sandbox.asaas.com/api/v3"

	dateLayout = "2006-01-02"
)

// Config конфигурация клиента Asaas
type Config struct {
	APIKey        string
	BaseURL       string
	Timeout       time.Duration
	Breaker       upstream.BreakerConfig
	RatePerMinute int // 0 means unlimited
}

// Client представляет клиент для работы с API Asaas
type Client struct {
	api *upstream.Client
}

// NewClient создает новый клиент Asaas
func NewClient(cfg Config, log *logger.Logger) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = ProductionURL
	}
	return &Client{api: upstream.New(upstream.Config{
		Service:       serviceName,
		BaseURL:       baseURL,
		Headers:       map[string]string{"access_token": cfg.APIKey},
		Timeout:       cfg.Timeout,
		Breaker:       cfg.Breaker,
		RatePerMinute: cfg.RatePerMinute,
	}, log.Named(serviceName))}
}

// GetSubscription возвращает подписку по ID
func (c *Client) GetSubscription(ctx context.Context, id string) (*Subscription, error) {
	if id == "" {
		return nil, &upstream.ValidationError{Field: "subscriptionId", Message: "required"}
	}
	var sub Subscription
	if err := c.api.Do(ctx, http.MethodGet, "/subscriptions/"+url.PathEscape(id), nil, &sub); err != nil {
		return nil, err
	}
	return &sub, nil
}

// UpdateSubscription обновляет подписку (стоимость, описание, способ оплаты)
func (c *Client) UpdateSubscription(ctx context.Context, id string, in UpdateSubscriptionRequest) (*Subscription, error) {
	if id == "" {
		return nil, &upstream.ValidationError{Field: "subscriptionId", Message: "required"}
	}
	var sub Subscription
	if err := c.api.Do(ctx, http.MethodPut, "/subscriptions/"+url.PathEscape(id), in, &sub); err != nil {
		return nil, err
	}
	return &sub, nil
}

// CreatePayment создает разовый платеж
func (c *Client) CreatePayment(ctx context.Context, in CreatePaymentRequest) (*Payment, error) {
	if in.Customer == "" {
		return nil, &upstream.ValidationError{Field: "customer", Message: "required"}
	}
	if in.Value <= 0 {
		return nil, &upstream.ValidationError{Field: "value", Message: "must be positive"}
	}
	var p Payment
	if err := c.api.Do(ctx, http.MethodPost, "/payments", in, &p); err != nil {
		return nil, err
	}
	return &p, nil
}
