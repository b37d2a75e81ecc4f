package services

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/Dhoini/billing-gateway/internal/kafka"
	"github.com/Dhoini/billing-gateway/internal/provider/asaas"
)

var (
	ErrSubscriptionNotFound = errors.New("subscription not found")
	ErrInvalidInput         = errors.New("invalid input data")
)

// AsaasClient операции Asaas, используемые сервисами (реализуется *asaas.Client)
type AsaasClient interface {
	GetSubscription(ctx context.Context, id string) (*asaas.Subscription, error)
	UpdateSubscription(ctx context.Context, id string, in asaas.UpdateSubscriptionRequest) (*asaas.Subscription, error)
	CreatePayment(ctx context.Context, in asaas.CreatePaymentRequest) (*asaas.Payment, error)
}

// HublaClient операции Hubla (реализуется *hubla.Client)
type HublaClient interface {
	GetSubscription(ctx context.Context, id string) (json.RawMessage, error)
	CancelSubscription(ctx context.Context, id string) (json.RawMessage, error)
}

// EventPublisher публикует доменные события (реализуется *kafka.Producer)
type EventPublisher interface {
	PublishPlanChanged(ctx context.Context, ev kafka.PlanChangedEvent) error
}

// SessionRunner выдает сессию хранилища на время fn и всегда ее освобождает (реализуется *db.Mongo)
type SessionRunner interface {
	WithSession(ctx context.Context, fn func(ctx context.Context) error) error
}

// withSession runs fn inside a store session when one is configured.
func withSession(ctx context.Context, store SessionRunner, fn func(ctx context.Context) error) error {
	if store == nil {
		return fn(ctx)
	}
	return store.WithSession(ctx, fn)
}
