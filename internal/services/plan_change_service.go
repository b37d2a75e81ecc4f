package services

import (
	"context"
	"fmt"
	"time"

	"github.com/Dhoini/billing-gateway/internal/billing"
	"github.com/Dhoini/billing-gateway/internal/kafka"
	"github.com/Dhoini/billing-gateway/internal/metrics"
	"github.com/Dhoini/billing-gateway/internal/models"
	"github.com/Dhoini/billing-gateway/internal/provider/asaas"
	"github.com/Dhoini/billing-gateway/internal/repository"
	"github.com/Dhoini/billing-gateway/pkg/logger"
	"github.com/shopspring/decimal"
)

type PlanChangeInput struct {
	SubscriptionID   string
	NewValue         float64
	Description      string
	ApplyImmediately bool
}

type PlanChangeOutput struct {
	Subscription   *asaas.Subscription
	ProRataPayment *asaas.Payment // nil когда доплата не нужна или не удалась
	Quote          billing.ProRataQuote
}

// PlanChangeService меняет тариф подписки Asaas и при необходимости выставляет доплату pro-rata.
type PlanChangeService struct {
	asaas   AsaasClient
	repo    repository.SubscriptionRepository // может быть nil
	store   SessionRunner                     // может быть nil
	events  EventPublisher                    // может быть nil
	metrics metrics.BillingMetrics
	now     func() time.Time
	log     *logger.Logger
}

// NewPlanChangeService конструктор сервиса
func NewPlanChangeService(
	asaasClient AsaasClient,
	repo repository.SubscriptionRepository,
	store SessionRunner,
	events EventPublisher,
	m metrics.BillingMetrics,
	log *logger.Logger,
) *PlanChangeService {
	if events == nil {
		log.Warnw("Event publisher is nil, plan change events will be skipped")
	}
	if m == nil {
		m = metrics.NoopBillingMetrics{}
	}
	return &PlanChangeService{
		asaas:   asaasClient,
		repo:    repo,
		store:   store,
		events:  events,
		metrics: m,
		now:     time.Now,
		log:     log,
	}
}

// SetClock заменяет источник текущего времени
func (s *PlanChangeService) SetClock(now func() time.Time) {
	s.now = now
}

// ChangePlan always attempts the provider update; its failure is the only
// fatal outcome after validation. The pro-rata charge, persistence and the
// event are best effort.
func (s *PlanChangeService) ChangePlan(ctx context.Context, in PlanChangeInput) (*PlanChangeOutput, error) {
	if in.SubscriptionID == "" {
		return nil, fmt.Errorf("%w: subscriptionId is required", ErrInvalidInput)
	}
	if in.NewValue <= 0 {
		return nil, fmt.Errorf("%w: newValue must be positive", ErrInvalidInput)
	}

	current, err := s.asaas.GetSubscription(ctx, in.SubscriptionID)
	if err != nil {
		s.log.Errorw("Failed to fetch subscription for plan change", "error", err, "subscriptionID", in.SubscriptionID)
		return nil, err
	}

	today := s.now()
	quote := billing.ProRata(billing.ProRataInput{
		CurrentValue:     decimal.NewFromFloat(current.Value),
		NewValue:         decimal.NewFromFloat(in.NewValue),
		NextDueDate:      current.DueDate(),
		ApplyImmediately: in.ApplyImmediately,
		Today:            today,
	})
	s.log.Debugw("Pro-rata quote computed",
		"subscriptionID", in.SubscriptionID,
		"reason", quote.Reason,
		"amount", quote.Amount.String(),
		"remainingDays", quote.RemainingDays,
		"daysInMonth", quote.DaysInMonth,
	)

	description := in.Description
	if description == "" {
		description = current.Description
	}
	updated, err := s.asaas.UpdateSubscription(ctx, in.SubscriptionID, asaas.UpdateSubscriptionRequest{
		Value:       in.NewValue,
		Description: description,
	})
	if err != nil {
		s.metrics.IncPlanChange(metrics.OutcomeUpdateFailed)
		s.log.Errorw("Failed to update subscription value", "error", err, "subscriptionID", in.SubscriptionID)
		return nil, err
	}
	if updated.ID == "" {
		updated.ID = in.SubscriptionID
	}

	out := &PlanChangeOutput{Subscription: updated, Quote: quote}
	outcome := metrics.OutcomeUpdated

	if quote.Chargeable {
		payment, err := s.createProRataPayment(ctx, current, quote, today)
		if err != nil {
			outcome = metrics.OutcomeChargeFailed
			s.log.Warnw("Pro-rata charge failed, plan update kept",
				"error", err,
				"subscriptionID", in.SubscriptionID,
				"amount", quote.Amount.String(),
			)
		} else {
			outcome = metrics.OutcomeUpdatedCharged
			out.ProRataPayment = payment
			s.metrics.ObserveProRataAmount(quote.Amount.InexactFloat64())
		}
	}
	s.metrics.IncPlanChange(outcome)

	s.persist(ctx, updated, out.ProRataPayment, today)
	s.publish(ctx, current, updated, in, out)

	s.log.Infow("Subscription plan changed",
		"subscriptionID", in.SubscriptionID,
		"previousValue", current.Value,
		"newValue", updated.Value,
		"outcome", outcome,
	)
	return out, nil
}

func (s *PlanChangeService) createProRataPayment(ctx context.Context, current *asaas.Subscription, quote billing.ProRataQuote, today time.Time) (*asaas.Payment, error) {
	billingType := current.BillingType
	if billingType == "" {
		billingType = asaas.BillingTypeUndefined
	}
	return s.asaas.CreatePayment(ctx, asaas.CreatePaymentRequest{
		Customer:          current.Customer,
		BillingType:       billingType,
		Value:             quote.Amount.InexactFloat64(),
		DueDate:           asaas.FormatDate(today),
		Description:       fmt.Sprintf("Upgrade difference for the remaining %d of %d days", quote.RemainingDays, quote.DaysInMonth),
		ExternalReference: current.ID,
	})
}

func (s *PlanChangeService) persist(ctx context.Context, sub *asaas.Subscription, payment *asaas.Payment, now time.Time) {
	if s.repo == nil {
		return
	}
	err := withSession(ctx, s.store, func(ctx context.Context) error {
		model := asaas.ToModelSubscription(sub, now)
		if err := s.repo.Save(ctx, &model); err != nil {
			return err
		}
		if payment == nil {
			return nil
		}
		p := asaas.ToModelPayment(payment, sub.ID, now)
		return s.repo.SavePayment(ctx, &p)
	})
	if err != nil {
		s.log.Errorw("Failed to persist plan change", "error", err, "subscriptionID", sub.ID)
	}
}

func (s *PlanChangeService) publish(ctx context.Context, before, after *asaas.Subscription, in PlanChangeInput, out *PlanChangeOutput) {
	if s.events == nil {
		return
	}
	ev := kafka.PlanChangedEvent{
		SubscriptionID:   after.ID,
		Provider:         models.ProviderAsaas,
		PreviousValue:    before.Value,
		NewValue:         after.Value,
		Description:      after.Description,
		ApplyImmediately: in.ApplyImmediately,
	}
	if out.ProRataPayment != nil {
		ev.ProRataAmount = out.ProRataPayment.Value
		ev.ProRataPaymentID = out.ProRataPayment.ID
	}
	if err := s.events.PublishPlanChanged(ctx, ev); err != nil {
		s.log.Warnw("Failed to publish plan change event", "error", err, "subscriptionID", after.ID)
	}
}
