package config

import (
	"testing"
	"time"

	"github.com/Dhoini/billing-gateway/internal/provider/asaas"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.App.Port)
	assert.Equal(t, 5*time.Second, cfg.Gateway.Timeout)
	assert.Equal(t, "billing", cfg.Mongo.Database)
	assert.Equal(t, "subscription_plan_changed", cfg.Kafka.Topic)
	assert.False(t, cfg.IsProduction())
	assert.Equal(t, asaas.SandboxURL, cfg.AsaasBaseURL())
	assert.EqualValues(t, 5, cfg.Breaker.FailureThreshold)
	assert.Equal(t, 30*time.Second, cfg.Breaker.RecoveryTime)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("GATEWAY_BACKENDBASEURL", "https://backend.example.com/")
	t.Setenv("GATEWAY_TIMEOUT", "3s")
	t.Setenv("ASAAS_SANDBOX", "false")
	t.Setenv("KAFKA_BROKERS", "k1:9092,k2:9092")

	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "https://backend.example.com", cfg.Gateway.BackendBaseURL)
	assert.Equal(t, 3*time.Second, cfg.Gateway.Timeout)
	assert.Equal(t, asaas.ProductionURL, cfg.AsaasBaseURL())
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
}

func TestAsaasBaseURL_ExplicitWins(t *testing.T) {
	var cfg Config
	cfg.Asaas.BaseURL = "http://127.0.0.1:9999/"
	cfg.Asaas.Sandbox = true
	assert.Equal(t, "http://127.0.0.1:9999", cfg.AsaasBaseURL())
}
