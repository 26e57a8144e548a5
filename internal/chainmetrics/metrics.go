package chainmetrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "salespoint"

// metrics holds the per-store counters pushed to the chain's central
// Prometheus. They live on a dedicated registry so the push payload
// never includes process-local collectors.
type metrics struct {
	ordersRegistered *prometheus.CounterVec
	dealsServed      *prometheus.CounterVec
	codeGenFailures  *prometheus.CounterVec
	catalogSize      *prometheus.GaugeVec
	memoryUsage      prometheus.Gauge
}

func newMetrics(registry *prometheus.Registry) *metrics {
	m := &metrics{
		ordersRegistered: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "orders_registered_total",
			Help:      "Orders registered at this store.",
		}, []string{"store"}),
		dealsServed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "deals_served_total",
			Help:      "Mobile deal responses served to sellers.",
		}, []string{"store"}),
		codeGenFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "contract_code_failures_total",
			Help:      "Contract code generation failures by reason.",
		}, []string{"store", "reason"}),
		catalogSize: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "catalog_size",
			Help:      "Rows in the local catalog by table.",
		}, []string{"store", "table"}),
		memoryUsage: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "memory_usage_bytes",
			Help:      "Memory obtained from the OS.",
		}),
	}

	if registry != nil {
		registry.MustRegister(
			m.ordersRegistered,
			m.dealsServed,
			m.codeGenFailures,
			m.catalogSize,
			m.memoryUsage,
		)
	}
	return m
}
