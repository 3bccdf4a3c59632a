package bloom

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus metrics of a Store.
type Metrics struct {
	Operations *prometheus.CounterVec
	Bytes      *prometheus.CounterVec
}

// NewMetrics creates and registers all metrics with the provided registry.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	operations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "bloom_store_operations_total",
		Help: "Total filter store operations by outcome",
	}, []string{"op", "result"})

	bytes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "bloom_store_bytes_total",
		Help: "Total encoded filter bytes written to or read from the store",
	}, []string{"op"})

	reg.MustRegister(operations, bytes)

	return &Metrics{
		Operations: operations,
		Bytes:      bytes,
	}
}

func (m *Metrics) observe(op string, n int, err error) {
	if m == nil {
		return
	}
	result := "success"
	switch {
	case err == nil:
		m.Bytes.WithLabelValues(op).Add(float64(n))
	case isNotFound(err):
		result = "not_found"
	default:
		result = "error"
	}
	m.Operations.WithLabelValues(op, result).Inc()
}
