package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Dhoini/billing-gateway/internal/models"
	"github.com/Dhoini/billing-gateway/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	subs     map[string]models.Subscription
	payments map[string]models.Payment
	gets     int
	saveErr  error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{subs: map[string]models.Subscription{}, payments: map[string]models.Payment{}}
}

func (f *fakeRepo) Save(_ context.Context, sub *models.Subscription) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.subs[sub.ID] = *sub
	return nil
}

func (f *fakeRepo) GetByID(_ context.Context, id string) (*models.Subscription, error) {
	f.gets++
	sub, ok := f.subs[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &sub, nil
}

func (f *fakeRepo) SavePayment(_ context.Context, p *models.Payment) error {
	f.payments[p.ID] = *p
	return nil
}

type fakeCache struct {
	items  map[string]models.Subscription
	getErr error
	setErr error
}

func newFakeCache() *fakeCache { return &fakeCache{items: map[string]models.Subscription{}} }

func (f *fakeCache) Get(_ context.Context, id string) (*models.Subscription, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	sub, ok := f.items[id]
	if !ok {
		return nil, nil
	}
	return &sub, nil
}

func (f *fakeCache) Set(_ context.Context, sub *models.Subscription) error {
	if f.setErr != nil {
		return f.setErr
	}
	f.items[sub.ID] = *sub
	return nil
}

func (f *fakeCache) Delete(_ context.Context, id string) error {
	delete(f.items, id)
	return nil
}

func sampleSubscription() *models.Subscription {
	return &models.Subscription{
		ID:          "sub_1",
		Provider:    models.ProviderAsaas,
		Value:       39.9,
		NextDueDate: time.Date(2026, time.November, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestCachedRepository_ReadThrough(t *testing.T) {
	repo, cache := newFakeRepo(), newFakeCache()
	cached := NewCachedSubscriptionRepository(repo, cache, logger.NewNop())
	repo.subs["sub_1"] = *sampleSubscription()

	first, err := cached.GetByID(context.Background(), "sub_1")
	require.NoError(t, err)
	second, err := cached.GetByID(context.Background(), "sub_1")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, repo.gets, "second read is served from cache")
	assert.Contains(t, cache.items, "sub_1")
}

func TestCachedRepository_NotFoundPassesThrough(t *testing.T) {
	cached := NewCachedSubscriptionRepository(newFakeRepo(), newFakeCache(), logger.NewNop())
	_, err := cached.GetByID(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCachedRepository_CacheFailuresNeverFailCalls(t *testing.T) {
	repo := newFakeRepo()
	cache := newFakeCache()
	cache.getErr = errors.New("redis down")
	cache.setErr = errors.New("redis down")
	cached := NewCachedSubscriptionRepository(repo, cache, logger.NewNop())

	require.NoError(t, cached.Save(context.Background(), sampleSubscription()))
	sub, err := cached.GetByID(context.Background(), "sub_1")
	require.NoError(t, err)
	assert.Equal(t, 39.9, sub.Value)
}

func TestCachedRepository_FailedSaveInvalidates(t *testing.T) {
	repo, cache := newFakeRepo(), newFakeCache()
	cache.items["sub_1"] = *sampleSubscription()
	repo.saveErr = errors.New("write failed")
	cached := NewCachedSubscriptionRepository(repo, cache, logger.NewNop())

	err := cached.Save(context.Background(), sampleSubscription())
	assert.Error(t, err)
	assert.NotContains(t, cache.items, "sub_1")
}

func TestCachedRepository_SavePaymentGoesToStore(t *testing.T) {
	repo := newFakeRepo()
	cached := NewCachedSubscriptionRepository(repo, newFakeCache(), logger.NewNop())
	require.NoError(t, cached.SavePayment(context.Background(), &models.Payment{ID: "pay_1", SubscriptionID: "sub_1"}))
	assert.Contains(t, repo.payments, "pay_1")
}
