package telemetry

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsHandler exposes the given gatherer in the Prometheus text format.
func MetricsHandler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}

// StartMetricsServer serves /metrics from the default registry on port.
// It blocks until the server stops.
func StartMetricsServer(port int) error {
	if port <= 0 {
		return errors.New("metrics port must be positive")
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", MetricsHandler(prometheus.DefaultGatherer))

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	LogInfo("Starting metrics server", "addr", srv.Addr)
	return srv.ListenAndServe()
}
