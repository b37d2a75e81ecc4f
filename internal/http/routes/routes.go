package routes

import (
	"github.com/Dhoini/billing-gateway/internal/app"
	"github.com/Dhoini/billing-gateway/internal/gateway"
	"github.com/Dhoini/billing-gateway/internal/http/handlers"
	"github.com/Dhoini/billing-gateway/internal/middleware"
	"github.com/Dhoini/billing-gateway/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// SetupRoutes настраивает все маршруты API для Gin роутера
func SetupRoutes(router *gin.Engine, a *app.App, log *logger.Logger) {
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(a.LoggerMiddleware)
	router.Use(middleware.CORS(a.Config.CORS.AllowOrigins))

	router.GET("/health", handlers.Health(a.HealthChecks))
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(a.Registry, promhttp.HandlerOpts{})))

	// canonical paths are the same constants the legacy table points at
	api := router.Group("")
	if a.AuthMiddleware != nil {
		api.Use(a.AuthMiddleware.RequireAuth())
	}

	api.POST(gateway.PathPlanChange, a.SubscriptionHandler.ChangePlan)
	api.POST(gateway.PathBillingType, a.SubscriptionHandler.ChangeBillingType)
	api.GET(gateway.PathSubscriptionDetail, a.SubscriptionHandler.GetSubscription)

	api.GET(gateway.PathHublaSubscription, a.HublaHandler.GetSubscription)
	api.POST(gateway.PathHublaCancel, a.HublaHandler.CancelSubscription)

	// everything else is a legacy path or unknown
	router.NoRoute(a.Gateway.Handle)

	log.Infow("API routes successfully configured", "legacy_routes", a.Routes.Len())
}
