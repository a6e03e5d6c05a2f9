// Package metrics expone los contadores Prometheus de la aplicación.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics colectores registrados de la aplicación.
type Metrics struct {
	registry *prometheus.Registry

	SnapshotRefreshes prometheus.Counter
	SnapshotFailures  prometheus.Counter
	HTTPRequests      *prometheus.CounterVec
	HTTPDuration      *prometheus.HistogramVec
	AdvisoryCalls     *prometheus.CounterVec
}

// New crea un registro propio con los colectores de la aplicación. Un registro
// dedicado evita colisiones con los colectores globales en los tests.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		SnapshotRefreshes: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "inventario",
			Name:      "snapshot_refreshes_total",
			Help:      "Rondas de polling del snapshot completadas con éxito.",
		}),
		SnapshotFailures: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "inventario",
			Name:      "snapshot_failures_total",
			Help:      "Rondas de polling fallidas (el snapshot anterior se conserva).",
		}),
		HTTPRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "inventario",
			Name:      "http_requests_total",
			Help:      "Peticiones HTTP por ruta, método y código de estado.",
		}, []string{"route", "method", "status"}),
		HTTPDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "inventario",
			Name:      "http_request_duration_seconds",
			Help:      "Latencia de las peticiones HTTP por ruta.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
		AdvisoryCalls: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "inventario",
			Name:      "advisory_calls_total",
			Help:      "Llamadas al asesor de IA por operación y resultado.",
		}, []string{"operation", "result"}),
	}
}

// Registry expone el registro para el handler de /metrics.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }
