package prometheus

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/ethereum/go-ethereum/log"
	"github.com/ethereum/go-ethereum/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/unicornultrafoundation/go-u2u-proxy/monitoring"
)

var logger = log.New("module", "prometheus")

// Handler returns an http handler exposing every metric of reg, or of the
// default registry if reg is nil, together with the data directory size.
func Handler(namespace string, reg metrics.Registry) http.Handler {
	if reg == nil {
		reg = metrics.DefaultRegistry
	}
	registry := prometheus.NewRegistry()
	registry.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "db_size",
		Help:      "Size of the data directory in bytes",
	}, func() float64 {
		return float64(monitoring.DataDirSize())
	}))
	reg.Each(func(name string, metric interface{}) {
		collect(registry, namespace, name, metric)
	})
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}

// PrometheusListener serves prometheus connections until ctx is done.
func PrometheusListener(ctx context.Context, endpoint, namespace string, reg metrics.Registry) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler(namespace, reg))
	server := &http.Server{
		Addr:              endpoint,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("Metrics server starts", "endpoint", endpoint)
		defer logger.Info("Metrics server is stopped")

		err := server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Warn("Metrics server failed", "err", err)
		}
	}()
	go func() {
		<-ctx.Done()
		_ = server.Close()
	}()
}

func collect(registry *prometheus.Registry, namespace, name string, metric interface{}) {
	collector, ok := convertToPrometheusMetric(namespace, name, metric)
	if !ok {
		return
	}

	err := registry.Register(collector)
	if err != nil {
		var already prometheus.AlreadyRegisteredError
		if errors.As(err, &already) {
			return
		}
		logger.Warn("Failed to register metric", "name", name, "err", err)
	}
}
