package repository

import (
	"context"

	"github.com/Dhoini/billing-gateway/internal/models"
)

// SubscriptionRepository хранилище подписок и созданных для них платежей.
// Записи только создаются и обновляются, удаления нет.
type SubscriptionRepository interface {
	// Save создает или обновляет подписку по ее ID
	Save(ctx context.Context, sub *models.Subscription) error
	// GetByID возвращает ErrNotFound, если подписки нет
	GetByID(ctx context.Context, id string) (*models.Subscription, error)
	// SavePayment сохраняет платеж, повторное сохранение того же ID его перезаписывает
	SavePayment(ctx context.Context, p *models.Payment) error
}

// SubscriptionCache кеш подписок. Get возвращает (nil, nil) при промахе.
type SubscriptionCache interface {
	Get(ctx context.Context, id string) (*models.Subscription, error)
	Set(ctx context.Context, sub *models.Subscription) error
	Delete(ctx context.Context, id string) error
}
