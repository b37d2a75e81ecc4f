package app

import (
	"context"
	"errors"
	"testing"

	"github.com/Dhoini/billing-gateway/internal/config"
	"github.com/Dhoini/billing-gateway/internal/gateway"
	"github.com/Dhoini/billing-gateway/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildRouteTableAppendsConfiguredRoutes(t *testing.T) {
	cfg := &config.Config{}
	cfg.Gateway.Routes = []config.RouteConfig{
		{LegacyPath: "/api/asaas-list-payments", Method: "GET", CanonicalPath: "/api/v1/payments"},
	}

	table, err := buildRouteTable(cfg)
	require.NoError(t, err)
	assert.Equal(t, len(gateway.DefaultRoutes())+1, table.Len())
}

func TestBuildRouteTableRejectsDuplicates(t *testing.T) {
	cfg := &config.Config{}
	cfg.Gateway.Routes = []config.RouteConfig{
		{LegacyPath: "/api/asaas-plan-change", Method: "POST", CanonicalPath: "/elsewhere"},
	}

	_, err := buildRouteTable(cfg)
	assert.Error(t, err)
}

func TestNewAppWithoutOptionalBackends(t *testing.T) {
	cfg := &config.Config{}
	cfg.App.Env = "development"
	cfg.Gateway.BackendBaseURL = "http://localhost:8080"

	a, err := NewApp(context.Background(), cfg, logger.NewNop())
	require.NoError(t, err)
	defer a.Close(context.Background())

	assert.NotNil(t, a.Gateway)
	assert.NotNil(t, a.SubscriptionHandler)
	assert.NotNil(t, a.HublaHandler)
	assert.Nil(t, a.AuthMiddleware)
	assert.Empty(t, a.HealthChecks)
}

func TestFailReleasesAcquiredResources(t *testing.T) {
	a := &App{Logger: logger.NewNop()}
	var order []string
	a.onClose(func(context.Context) error { order = append(order, "mongo"); return nil })
	a.onClose(func(context.Context) error { order = append(order, "redis"); return errors.New("already closed") })

	initErr := errors.New("kafka brokers are not configured")
	err := a.fail(context.Background(), initErr)

	assert.Same(t, initErr, err, "the init error wins over close errors")
	assert.Equal(t, []string{"redis", "mongo"}, order)
}

func TestCloseJoinsErrors(t *testing.T) {
	a := &App{Logger: logger.NewNop()}
	first, second := errors.New("first"), errors.New("second")
	a.onClose(func(context.Context) error { return first })
	a.onClose(func(context.Context) error { return second })

	err := a.Close(context.Background())
	assert.ErrorIs(t, err, first)
	assert.ErrorIs(t, err, second)
}
