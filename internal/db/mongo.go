package db

import (
	"context"
	"fmt"
	"time"

	"github.com/Dhoini/billing-gateway/pkg/logger"
	"github.com/cenkalti/backoff/v4"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// MongoConfig параметры подключения к MongoDB
type MongoConfig struct {
	URI            string
	Database       string
	ConnectTimeout time.Duration
}

// Mongo владеет пулом соединений MongoDB. Один экземпляр на процесс.
type Mongo struct {
	client   *mongo.Client
	database *mongo.Database
	log      *logger.Logger
}

// NewMongo подключается к MongoDB, повторяя попытки с экспоненциальной
// задержкой до истечения ConnectTimeout. Используется только при старте.
func NewMongo(ctx context.Context, cfg MongoConfig, log *logger.Logger) (*Mongo, error) {
	if cfg.URI == "" {
		return nil, fmt.Errorf("mongo: uri is required")
	}
	if cfg.ConnectTimeout <= 0 {
		cfg.ConnectTimeout = 30 * time.Second
	}

	var client *mongo.Client
	operation := func() error {
		attemptCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()

		c, err := mongo.Connect(attemptCtx, options.Client().ApplyURI(cfg.URI))
		if err != nil {
			// malformed URI will not get better
			return backoff.Permanent(err)
		}
		if err := c.Ping(attemptCtx, readpref.Primary()); err != nil {
			_ = c.Disconnect(context.Background())
			log.Warnw("MongoDB not reachable yet, retrying", "error", err)
			return err
		}
		client = c
		return nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.MaxInterval = 5 * time.Second
	bo.MaxElapsedTime = cfg.ConnectTimeout
	bo.Reset()

	if err := backoff.Retry(operation, backoff.WithContext(bo, ctx)); err != nil {
		log.Errorw("Failed to connect to MongoDB", "error", err)
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	log.Infow("Connected to MongoDB", "database", cfg.Database)
	return &Mongo{
		client:   client,
		database: client.Database(cfg.Database),
		log:      log,
	}, nil
}

// Collection возвращает коллекцию базы данных сервиса.
func (m *Mongo) Collection(name string) *mongo.Collection {
	return m.database.Collection(name)
}

// WithSession acquires a session from the pool for the duration of fn and
// ends it on every exit path, including a panic inside fn.
func (m *Mongo) WithSession(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.client.UseSession(ctx, func(sc mongo.SessionContext) error {
		return fn(sc)
	})
}

// Ping проверяет доступность MongoDB.
func (m *Mongo) Ping(ctx context.Context) error {
	return m.client.Ping(ctx, readpref.Primary())
}

// Close закрывает пул соединений.
func (m *Mongo) Close(ctx context.Context) error {
	if err := m.client.Disconnect(ctx); err != nil {
		m.log.Errorw("Failed to close MongoDB connection", "error", err)
		return fmt.Errorf("failed to close mongodb connection: %w", err)
	}
	return nil
}
