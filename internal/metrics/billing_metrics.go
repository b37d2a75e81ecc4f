package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Plan change outcomes
const (
	OutcomeUpdated        = "updated"
	OutcomeUpdatedCharged = "updated_charged"
	OutcomeChargeFailed   = "charge_failed"
	OutcomeUpdateFailed   = "update_failed"
)

// BillingMetrics интерфейс для метрик смены тарифа
type BillingMetrics interface {
	IncPlanChange(outcome string)
	ObserveProRataAmount(amount float64)
}

type billingMetrics struct {
	planChanges   *prometheus.CounterVec
	proRataAmount prometheus.Histogram
}

// NewBillingMetrics создает метрики смены тарифа
func NewBillingMetrics(registry prometheus.Registerer) BillingMetrics {
	planChanges := promauto.With(registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "plan_change_total",
			Help: "Plan change requests by outcome",
		},
		[]string{"outcome"},
	)

	proRataAmount := promauto.With(registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "prorata_charge_amount",
			Help:    "Pro-rata one-time charge amounts created on upgrade",
			Buckets: prometheus.ExponentialBuckets(1, 4, 6), // 1 .. 1024
		},
	)

	return &billingMetrics{
		planChanges:   planChanges,
		proRataAmount: proRataAmount,
	}
}

func (m *billingMetrics) IncPlanChange(outcome string) {
	m.planChanges.WithLabelValues(outcome).Inc()
}

func (m *billingMetrics) ObserveProRataAmount(amount float64) {
	m.proRataAmount.Observe(amount)
}

// NoopBillingMetrics discards observations.
type NoopBillingMetrics struct{}

func (NoopBillingMetrics) IncPlanChange(string)         {}
func (NoopBillingMetrics) ObserveProRataAmount(float64) {}
