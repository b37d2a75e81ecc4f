package repository

import (
	"context"

	"github.com/Dhoini/billing-gateway/internal/models"
	"github.com/Dhoini/billing-gateway/pkg/logger"
)

// CachedSubscriptionRepository реализует SubscriptionRepository с кешированием.
// Ошибки кеша логируются и никогда не возвращаются вызывающему.
type CachedSubscriptionRepository struct {
	repo  SubscriptionRepository
	cache SubscriptionCache
	log   *logger.Logger
}

// NewCachedSubscriptionRepository создает новый репозиторий с кешированием
func NewCachedSubscriptionRepository(repo SubscriptionRepository, cache SubscriptionCache, log *logger.Logger) SubscriptionRepository {
	return &CachedSubscriptionRepository{
		repo:  repo,
		cache: cache,
		log:   log,
	}
}

// Save сохраняет подписку в БД и обновляет кеш
func (r *CachedSubscriptionRepository) Save(ctx context.Context, sub *models.Subscription) error {
	if err := r.repo.Save(ctx, sub); err != nil {
		// запись в кеше могла устареть
		if derr := r.cache.Delete(ctx, sub.ID); derr != nil {
			r.log.Warnw("Failed to invalidate cached subscription", "error", derr, "subscriptionID", sub.ID)
		}
		return err
	}

	if err := r.cache.Set(ctx, sub); err != nil {
		r.log.Warnw("Failed to cache subscription after save", "error", err, "subscriptionID", sub.ID)
	}
	return nil
}

// GetByID получает подписку по ID (сначала из кеша, потом из БД)
func (r *CachedSubscriptionRepository) GetByID(ctx context.Context, id string) (*models.Subscription, error) {
	cached, err := r.cache.Get(ctx, id)
	if err != nil {
		r.log.Warnw("Error getting subscription from cache", "error", err, "subscriptionID", id)
	}
	if cached != nil {
		r.log.Debugw("Subscription found in cache", "subscriptionID", id)
		return cached, nil
	}

	sub, err := r.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := r.cache.Set(ctx, sub); err != nil {
		r.log.Warnw("Failed to cache subscription after fetching", "error", err, "subscriptionID", id)
	}
	return sub, nil
}

// SavePayment платежи не кешируются
func (r *CachedSubscriptionRepository) SavePayment(ctx context.Context, p *models.Payment) error {
	return r.repo.SavePayment(ctx, p)
}
