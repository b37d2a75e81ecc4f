package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/Dhoini/billing-gateway/internal/app"
	"github.com/Dhoini/billing-gateway/internal/config"
	"github.com/Dhoini/billing-gateway/internal/http/routes"
	"github.com/Dhoini/billing-gateway/internal/http/server"
	"github.com/Dhoini/billing-gateway/pkg/logger"
	"github.com/gin-gonic/gin"
)

func main() {
	// Загрузка конфигурации
	cfg, err := config.LoadConfig(".env")
	if err != nil {
		logger.New(logger.INFO).Fatalw("Failed to load configuration", "error", err)
	}

	// Инициализация логгера
	var log *logger.Logger
	if cfg.IsProduction() {
		log = logger.NewProduction(logger.ParseLevel(cfg.Logging.Level))
		gin.SetMode(gin.ReleaseMode)
	} else {
		log = logger.New(logger.ParseLevel(cfg.Logging.Level))
	}
	defer log.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a, err := app.NewApp(ctx, cfg, log)
	if err != nil {
		log.Fatalw("Failed to initialize application", "error", err)
	}

	// Настройка маршрутизатора
	router := gin.New()
	routes.SetupRoutes(router, a, log)

	srv := server.New(router, cfg.App.Port, log)

	// Запуск сервера в горутине
	go func() {
		if err := srv.Start(); err != nil {
			log.Fatalw("Server error", "error", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Infow("Shutting down server")
	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
	defer cancelShutdown()

	if err := srv.Shutdown(ctxShutdown); err != nil {
		log.Errorw("Server forced to shutdown", "error", err)
	}
	if err := a.Close(ctxShutdown); err != nil {
		log.Errorw("Failed to release resources", "error", err)
	}

	log.Infow("Server stopped gracefully")
}
