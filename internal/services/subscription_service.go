package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Dhoini/billing-gateway/internal/models"
	"github.com/Dhoini/billing-gateway/internal/provider/asaas"
	"github.com/Dhoini/billing-gateway/internal/repository"
	"github.com/Dhoini/billing-gateway/internal/upstream"
	"github.com/Dhoini/billing-gateway/pkg/logger"
)

var billingTypes = map[string]bool{
	asaas.BillingTypeBoleto:     true,
	asaas.BillingTypeCreditCard: true,
	asaas.BillingTypePix:        true,
	asaas.BillingTypeUndefined:  true,
}

// SubscriptionService чтение подписок и смена способа оплаты
type SubscriptionService struct {
	asaas AsaasClient
	repo  repository.SubscriptionRepository // может быть nil
	store SessionRunner                     // может быть nil
	now   func() time.Time
	log   *logger.Logger
}

// NewSubscriptionService конструктор сервиса
func NewSubscriptionService(asaasClient AsaasClient, repo repository.SubscriptionRepository, store SessionRunner, log *logger.Logger) *SubscriptionService {
	return &SubscriptionService{
		asaas: asaasClient,
		repo:  repo,
		store: store,
		now:   time.Now,
		log:   log,
	}
}

// GetSubscription читает подписку у провайдера и сохраняет результат.
// Сохраненная копия отдается, только если провайдер недоступен.
func (s *SubscriptionService) GetSubscription(ctx context.Context, id string) (*models.Subscription, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: subscriptionId is required", ErrInvalidInput)
	}

	sub, err := s.asaas.GetSubscription(ctx, id)
	if err != nil {
		if !providerUnavailable(err) {
			return nil, err
		}
		if stored := s.stored(ctx, id); stored != nil {
			s.log.Warnw("Provider unavailable, serving stored subscription", "error", err, "subscriptionID", id)
			return stored, nil
		}
		return nil, err
	}

	model := asaas.ToModelSubscription(sub, s.now())
	s.save(ctx, &model)
	return &model, nil
}

// stored returns the persisted copy or nil
func (s *SubscriptionService) stored(ctx context.Context, id string) *models.Subscription {
	if s.repo == nil {
		return nil
	}
	var stored *models.Subscription
	err := withSession(ctx, s.store, func(ctx context.Context) error {
		var err error
		stored, err = s.repo.GetByID(ctx, id)
		return err
	})
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			s.log.Warnw("Failed to read stored subscription", "error", err, "subscriptionID", id)
		}
		return nil
	}
	return stored
}

// providerUnavailable is true for failures that say nothing about the record itself
func providerUnavailable(err error) bool {
	kind, typed := upstream.Classify(err)
	switch kind {
	case upstream.KindTransport:
		return true
	case upstream.KindUpstream:
		return typed.(*upstream.UpstreamError).Status >= 500
	}
	return false
}

// ChangeBillingType меняет способ оплаты у провайдера и сохраняет результат
func (s *SubscriptionService) ChangeBillingType(ctx context.Context, id, billingType string) (*models.Subscription, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: subscriptionId is required", ErrInvalidInput)
	}
	if !billingTypes[billingType] {
		return nil, fmt.Errorf("%w: unsupported billingType %q", ErrInvalidInput, billingType)
	}

	sub, err := s.asaas.UpdateSubscription(ctx, id, asaas.UpdateSubscriptionRequest{
		BillingType:           billingType,
		UpdatePendingPayments: true,
	})
	if err != nil {
		s.log.Errorw("Failed to change billing type", "error", err, "subscriptionID", id)
		return nil, err
	}
	if sub.ID == "" {
		sub.ID = id
	}

	model := asaas.ToModelSubscription(sub, s.now())
	s.save(ctx, &model)

	s.log.Infow("Subscription billing type changed", "subscriptionID", id, "billingType", billingType)
	return &model, nil
}

func (s *SubscriptionService) save(ctx context.Context, sub *models.Subscription) {
	if s.repo == nil {
		return
	}
	err := withSession(ctx, s.store, func(ctx context.Context) error {
		return s.repo.Save(ctx, sub)
	})
	if err != nil {
		s.log.Errorw("Failed to persist subscription", "error", err, "subscriptionID", sub.ID)
	}
}
