package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestGatewayMetrics(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := NewGatewayMetrics(registry).(*gatewayMetrics)

	m.ObserveForward("/api/asaas-plan-change", 200, 10*time.Millisecond)
	m.ObserveForward("/api/asaas-plan-change", 200, 20*time.Millisecond)
	m.ObserveForward("/api/asaas-plan-change", 0, time.Second)
	m.IncUnmapped()

	assert.Equal(t, 2.0, testutil.ToFloat64(m.forwards.WithLabelValues("/api/asaas-plan-change", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.forwards.WithLabelValues("/api/asaas-plan-change", "0")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.unmapped))
}

func TestBillingMetrics(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := NewBillingMetrics(registry).(*billingMetrics)

	m.IncPlanChange(OutcomeUpdatedCharged)
	m.IncPlanChange(OutcomeUpdated)
	m.IncPlanChange(OutcomeUpdated)
	m.ObserveProRataAmount(10)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.planChanges.WithLabelValues(OutcomeUpdated)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.planChanges.WithLabelValues(OutcomeUpdatedCharged)))
	assert.Equal(t, 1, testutil.CollectAndCount(m.proRataAmount))
}

func TestNewRegistryHasRuntimeCollectors(t *testing.T) {
	registry := NewRegistry()
	families, err := registry.Gather()
	assert.NoError(t, err)
	assert.NotEmpty(t, families)
}
