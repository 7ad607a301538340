// Package metrics builds the process-wide Prometheus registry.
package metrics

import (
	"database/sql"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRegistry returns a registry carrying the Go runtime, process and build
// info collectors plus a trsync_build_info gauge labelled with version and
// environment.
func NewRegistry(version, environment string) *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewBuildInfoCollector(),
	)
	promauto.With(reg).NewGaugeVec(prometheus.GaugeOpts{
		Name: "trsync_build_info",
		Help: "Build information of the running trsync binary",
	}, []string{"version", "environment"}).WithLabelValues(version, environment).Set(1)
	return reg
}

// RegisterDBStats exports connection pool statistics of db under the given name.
func RegisterDBStats(reg prometheus.Registerer, db *sql.DB, name string) error {
	return reg.Register(collectors.NewDBStatsCollector(db, name))
}

// Handler serves the registry in the Prometheus exposition format.
func Handler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})
}
