package httpapi

import (
	"github.com/prometheus/client_golang/prometheus"
)

// metrics holds the Prometheus collectors for one server instance. Each
// handler gets its own registry so tests can spin up several servers.
type metrics struct {
	registry  *prometheus.Registry
	mutations *prometheus.CounterVec
	exports   prometheus.Counter
	exportErr prometheus.Counter
}

func newMetrics() *metrics {
	m := &metrics{
		registry: prometheus.NewRegistry(),
		mutations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "storyflow_mutations_total",
				Help: "Total number of graph mutations by operation",
			},
			[]string{"op"},
		),
		exports: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "storyflow_exports_total",
			Help: "Total number of export documents built",
		}),
		exportErr: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "storyflow_export_errors_total",
			Help: "Total number of failed export deliveries",
		}),
	}
	m.registry.MustRegister(m.mutations, m.exports, m.exportErr)
	return m
}
