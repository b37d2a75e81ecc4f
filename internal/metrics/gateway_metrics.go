package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// GatewayMetrics интерфейс для метрик редирект-шлюза
type GatewayMetrics interface {
	ObserveForward(legacyPath string, status int, duration time.Duration)
	IncUnmapped()
}

type gatewayMetrics struct {
	forwards  *prometheus.CounterVec
	durations *prometheus.HistogramVec
	unmapped  prometheus.Counter
}

// NewGatewayMetrics регистрирует метрики шлюза в registry
func NewGatewayMetrics(registry prometheus.Registerer) GatewayMetrics {
	forwards := promauto.With(registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "gateway_forward_total",
			Help: "Forwarded legacy requests by legacy path and relayed status (0 = transport failure)",
		},
		[]string{"legacy_path", "status"},
	)

	durations := promauto.With(registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gateway_forward_duration_seconds",
			Help:    "Latency of the outbound call made for a legacy request",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"legacy_path"},
	)

	unmapped := promauto.With(registry).NewCounter(
		prometheus.CounterOpts{
			Name: "gateway_unmapped_total",
			Help: "Requests rejected because their path is not in the route table",
		},
	)

	return &gatewayMetrics{
		forwards:  forwards,
		durations: durations,
		unmapped:  unmapped,
	}
}

func (m *gatewayMetrics) ObserveForward(legacyPath string, status int, duration time.Duration) {
	m.forwards.WithLabelValues(legacyPath, strconv.Itoa(status)).Inc()
	m.durations.WithLabelValues(legacyPath).Observe(duration.Seconds())
}

func (m *gatewayMetrics) IncUnmapped() {
	m.unmapped.Inc()
}

// NoopGatewayMetrics discards observations.
type NoopGatewayMetrics struct{}

func (NoopGatewayMetrics) ObserveForward(string, int, time.Duration) {}
func (NoopGatewayMetrics) IncUnmapped()                              {}
