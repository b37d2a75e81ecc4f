package services

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"github.com/Dhoini/billing-gateway/internal/kafka"
	"github.com/Dhoini/billing-gateway/internal/models"
	"github.com/Dhoini/billing-gateway/internal/provider/asaas"
	"github.com/Dhoini/billing-gateway/internal/repository"
)

type fakeAsaas struct {
	sub       *asaas.Subscription
	getErr    error
	updateErr error
	chargeErr error

	updates  []asaas.UpdateSubscriptionRequest
	payments []asaas.CreatePaymentRequest
	gets     int
}

func (f *fakeAsaas) GetSubscription(_ context.Context, id string) (*asaas.Subscription, error) {
	f.gets++
	if f.getErr != nil {
		return nil, f.getErr
	}
	cp := *f.sub
	return &cp, nil
}

func (f *fakeAsaas) UpdateSubscription(_ context.Context, id string, in asaas.UpdateSubscriptionRequest) (*asaas.Subscription, error) {
	f.updates = append(f.updates, in)
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	cp := *f.sub
	cp.ID = id
	if in.Value > 0 {
		cp.Value = in.Value
	}
	if in.Description != "" {
		cp.Description = in.Description
	}
	if in.BillingType != "" {
		cp.BillingType = in.BillingType
	}
	return &cp, nil
}

func (f *fakeAsaas) CreatePayment(_ context.Context, in asaas.CreatePaymentRequest) (*asaas.Payment, error) {
	f.payments = append(f.payments, in)
	if f.chargeErr != nil {
		return nil, f.chargeErr
	}
	return &asaas.Payment{
		ID:          "pay_1",
		Customer:    in.Customer,
		Value:       in.Value,
		BillingType: in.BillingType,
		DueDate:     in.DueDate,
		Description: in.Description,
		Status:      "PENDING",
	}, nil
}

type fakeRepo struct {
	mu       sync.Mutex
	subs     map[string]models.Subscription
	payments map[string]models.Payment
	err      error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{subs: map[string]models.Subscription{}, payments: map[string]models.Payment{}}
}

func (f *fakeRepo) Save(_ context.Context, sub *models.Subscription) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.subs[sub.ID] = *sub
	return nil
}

func (f *fakeRepo) GetByID(_ context.Context, id string) (*models.Subscription, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	sub, ok := f.subs[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &sub, nil
}

func (f *fakeRepo) SavePayment(_ context.Context, p *models.Payment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.payments[p.ID] = *p
	return nil
}

// fakeStore counts sessions and checks each one is released.
type fakeStore struct {
	opened, closed int
}

func (f *fakeStore) WithSession(ctx context.Context, fn func(ctx context.Context) error) error {
	f.opened++
	defer func() { f.closed++ }()
	return fn(ctx)
}

type fakePublisher struct {
	events []kafka.PlanChangedEvent
	err    error
}

func (f *fakePublisher) PublishPlanChanged(_ context.Context, ev kafka.PlanChangedEvent) error {
	if f.err != nil {
		return f.err
	}
	f.events = append(f.events, ev)
	return nil
}

type fakeHubla struct {
	body json.RawMessage
	err  error
	ids  []string
}

func (f *fakeHubla) GetSubscription(_ context.Context, id string) (json.RawMessage, error) {
	f.ids = append(f.ids, id)
	return f.body, f.err
}

func (f *fakeHubla) CancelSubscription(_ context.Context, id string) (json.RawMessage, error) {
	f.ids = append(f.ids, id)
	return f.body, f.err
}

var errBoom = errors.New("boom")

type fakeBillingMetrics struct {
	outcomes []string
	amounts  []float64
}

func (f *fakeBillingMetrics) IncPlanChange(outcome string) {
	f.outcomes = append(f.outcomes, outcome)
}

func (f *fakeBillingMetrics) ObserveProRataAmount(amount float64) {
	f.amounts = append(f.amounts, amount)
}
