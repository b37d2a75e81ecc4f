package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Dhoini/billing-gateway/internal/models"
	"github.com/Dhoini/billing-gateway/pkg/logger"
	"github.com/redis/go-redis/v9"
)

const (
	// Префикс ключей подписок
	subscriptionKeyPrefix = "subscription:"

	// TTL для кэша
	defaultCacheTTL = 15 * time.Minute
)

// RedisCache реализует SubscriptionCache с использованием Redis
type RedisCache struct {
	client redis.Cmdable
	ttl    time.Duration
	log    *logger.Logger
}

// NewRedisClient создает клиент Redis и проверяет соединение
func NewRedisClient(ctx context.Context, addr, password string, db int, log *logger.Logger) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		log.Errorw("Failed to connect to Redis", "error", err)
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	log.Infow("Connected to Redis successfully", "addr", addr)
	return client, nil
}

// NewRedisCache создает кеш подписок. ttl <= 0 означает TTL по умолчанию.
func NewRedisCache(client redis.Cmdable, ttl time.Duration, log *logger.Logger) *RedisCache {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &RedisCache{client: client, ttl: ttl, log: log}
}

func subscriptionKey(id string) string {
	return subscriptionKeyPrefix + id
}

// Set кеширует подписку
func (r *RedisCache) Set(ctx context.Context, sub *models.Subscription) error {
	data, err := json.Marshal(sub)
	if err != nil {
		return fmt.Errorf("failed to marshal subscription: %w", err)
	}

	if err := r.client.Set(ctx, subscriptionKey(sub.ID), data, r.ttl).Err(); err != nil {
		r.log.Errorw("Failed to cache subscription in Redis", "error", err, "subscriptionID", sub.ID)
		return fmt.Errorf("failed to cache subscription: %w", err)
	}

	r.log.Debugw("Subscription cached successfully", "subscriptionID", sub.ID)
	return nil
}

// Get получает подписку из кеша, (nil, nil) если ключа нет
func (r *RedisCache) Get(ctx context.Context, id string) (*models.Subscription, error) {
	data, err := r.client.Get(ctx, subscriptionKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		r.log.Errorw("Error getting subscription from Redis", "error", err, "subscriptionID", id)
		return nil, fmt.Errorf("failed to get subscription from cache: %w", err)
	}

	var sub models.Subscription
	if err := json.Unmarshal(data, &sub); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached subscription: %w", err)
	}
	return &sub, nil
}

// Delete удаляет подписку из кеша
func (r *RedisCache) Delete(ctx context.Context, id string) error {
	if err := r.client.Del(ctx, subscriptionKey(id)).Err(); err != nil {
		r.log.Errorw("Failed to delete subscription from cache", "error", err, "subscriptionID", id)
		return fmt.Errorf("failed to delete subscription from cache: %w", err)
	}
	return nil
}
