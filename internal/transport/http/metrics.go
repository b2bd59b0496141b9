package http

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	importsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "kyc_imports_total",
		Help: "Workbook import attempts by outcome.",
	}, []string{"outcome"})

	dashboardsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "kyc_dashboards_total",
		Help: "Dashboard computations served.",
	})

	exportsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "kyc_exports_total",
		Help: "Exports served by kind.",
	}, []string{"kind"})
)

// MetricsHandler exposes the Prometheus scrape endpoint.
func MetricsHandler() http.Handler {
	return promhttp.Handler()
}
