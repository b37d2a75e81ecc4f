package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/Dhoini/billing-gateway/internal/config"
	"github.com/Dhoini/billing-gateway/internal/db"
	"github.com/Dhoini/billing-gateway/internal/gateway"
	"github.com/Dhoini/billing-gateway/internal/http/handlers"
	"github.com/Dhoini/billing-gateway/internal/kafka"
	"github.com/Dhoini/billing-gateway/internal/metrics"
	"github.com/Dhoini/billing-gateway/internal/middleware"
	"github.com/Dhoini/billing-gateway/internal/provider/asaas"
	"github.com/Dhoini/billing-gateway/internal/provider/hubla"
	"github.com/Dhoini/billing-gateway/internal/repository"
	"github.com/Dhoini/billing-gateway/internal/services"
	"github.com/Dhoini/billing-gateway/internal/upstream"
	"github.com/Dhoini/billing-gateway/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
)

// App представляет собой контейнер для всех компонентов приложения
type App struct {
	Config              *config.Config
	Registry            *prometheus.Registry
	Routes              *gateway.RouteTable
	Gateway             *gateway.Gateway
	SubscriptionHandler *handlers.SubscriptionHandler
	HublaHandler        *handlers.HublaHandler
	AuthMiddleware      *middleware.JWTMiddleware // nil, если auth.jwtSecret не задан
	LoggerMiddleware    gin.HandlerFunc
	HealthChecks        map[string]handlers.Pinger
	Logger              *logger.Logger

	closers []func(ctx context.Context) error
}

// NewApp создает и инициализирует новый экземпляр приложения.
// MongoDB, Redis и Kafka опциональны: пустая настройка отключает компонент.
func NewApp(ctx context.Context, cfg *config.Config, log *logger.Logger) (*App, error) {
	a := &App{
		Config:           cfg,
		Registry:         metrics.NewRegistry(),
		LoggerMiddleware: middleware.RequestLogger(log.Named("http")),
		HealthChecks:     map[string]handlers.Pinger{},
		Logger:           log,
	}

	routes, err := buildRouteTable(cfg)
	if err != nil {
		return nil, err
	}
	a.Routes = routes
	a.Gateway = gateway.New(routes, gateway.Options{
		BackendBaseURL: cfg.Gateway.BackendBaseURL,
		Timeout:        cfg.Gateway.Timeout,
		Production:     cfg.IsProduction(),
	}, metrics.NewGatewayMetrics(a.Registry), log.Named("gateway"))

	// Хранилище
	var (
		repo  repository.SubscriptionRepository
		store services.SessionRunner
	)
	if cfg.Mongo.URI != "" {
		mongo, err := db.NewMongo(ctx, db.MongoConfig{
			URI:            cfg.Mongo.URI,
			Database:       cfg.Mongo.Database,
			ConnectTimeout: cfg.Mongo.ConnectTimeout,
		}, log.Named("mongo"))
		if err != nil {
			return nil, a.fail(ctx, err)
		}
		a.onClose(mongo.Close)
		a.HealthChecks["mongo"] = mongo
		store = mongo
		repo = repository.NewMongoSubscriptionRepository(mongo, log.Named("repository"))
	} else {
		log.Warnw("MONGO_URI is empty, persistence is disabled")
	}

	if repo != nil && cfg.Redis.Addr != "" {
		client, err := repository.NewRedisClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, log)
		if err != nil {
			// кеш не обязателен
			log.Warnw("Redis unavailable, continuing without cache", "error", err)
		} else {
			a.onClose(func(context.Context) error { return client.Close() })
			a.HealthChecks["redis"] = redisPinger{client}
			cache := repository.NewRedisCache(client, cfg.Redis.TTL, log.Named("cache"))
			repo = repository.NewCachedSubscriptionRepository(repo, cache, log.Named("repository"))
		}
	}

	// События
	var events services.EventPublisher
	if len(cfg.Kafka.Brokers) > 0 {
		if err := kafka.EnsureTopic(ctx, cfg.Kafka.Brokers, cfg.Kafka.Topic, log); err != nil {
			log.Warnw("Could not ensure Kafka topic", "error", err, "topic", cfg.Kafka.Topic)
		}
		producer, err := kafka.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic, log.Named("kafka"))
		if err != nil {
			return nil, a.fail(ctx, err)
		}
		a.onClose(func(context.Context) error { return producer.Close() })
		events = producer
	}

	// Провайдеры
	breaker := upstream.BreakerConfig{
		FailureThreshold: cfg.Breaker.FailureThreshold,
		RecoveryTime:     cfg.Breaker.RecoveryTime,
	}
	asaasClient := asaas.NewClient(asaas.Config{
		APIKey:        cfg.Asaas.APIKey,
		BaseURL:       cfg.AsaasBaseURL(),
		Timeout:       cfg.Asaas.Timeout,
		Breaker:       breaker,
		RatePerMinute: cfg.Asaas.RatePerMinute,
	}, log)
	hublaClient := hubla.NewClient(hubla.Config{
		APIKey:        cfg.Hubla.APIKey,
		BaseURL:       cfg.Hubla.BaseURL,
		Timeout:       cfg.Hubla.Timeout,
		Breaker:       breaker,
		RatePerMinute: cfg.Hubla.RatePerMinute,
	}, log)

	// Сервисы и обработчики
	planChange := services.NewPlanChangeService(asaasClient, repo, store, events, metrics.NewBillingMetrics(a.Registry), log.Named("plan_change"))
	subscriptions := services.NewSubscriptionService(asaasClient, repo, store, log.Named("subscriptions"))
	hublaService := services.NewHublaService(hublaClient, log.Named("hubla"))

	a.SubscriptionHandler = handlers.NewSubscriptionHandler(planChange, subscriptions, cfg.IsProduction(), log)
	a.HublaHandler = handlers.NewHublaHandler(hublaService, cfg.IsProduction(), log)

	if cfg.Auth.JWTSecret != "" {
		a.AuthMiddleware = middleware.NewJWTMiddleware(cfg.Auth.JWTSecret, log.Named("auth"))
	} else {
		log.Warnw("AUTH_JWTSECRET is empty, canonical API is not authenticated")
	}

	return a, nil
}

func (a *App) onClose(fn func(ctx context.Context) error) {
	a.closers = append(a.closers, fn)
}

// fail освобождает уже захваченные ресурсы и возвращает исходную ошибку
func (a *App) fail(ctx context.Context, err error) error {
	if cerr := a.Close(ctx); cerr != nil {
		a.Logger.Warnw("Failed to release resources after init error", "error", cerr)
	}
	return err
}

// Close освобождает ресурсы в обратном порядке создания
func (a *App) Close(ctx context.Context) error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func buildRouteTable(cfg *config.Config) (*gateway.RouteTable, error) {
	routes := gateway.DefaultRoutes()
	for _, r := range cfg.Gateway.Routes {
		routes = append(routes, gateway.Route{
			LegacyPath:    r.LegacyPath,
			Method:        r.Method,
			CanonicalPath: r.CanonicalPath,
		})
	}
	table, err := gateway.NewRouteTable(routes)
	if err != nil {
		return nil, fmt.Errorf("invalid gateway routes: %w", err)
	}
	return table, nil
}

type redisPinger struct {
	client *redis.Client
}

func (p redisPinger) Ping(ctx context.Context) error {
	return p.client.Ping(ctx).Err()
}
