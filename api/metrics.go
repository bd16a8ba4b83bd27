package api

import (
	"net/http"
	"strconv"
	"sync"
	"testing"

	"github.com/felixge/httpsnoop"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	namespace = "repquery"
	subsystem = "http"
)

var (
	requestTotal *prometheus.CounterVec
	metricsOnce  sync.Once
)

// initMetrics initializes and registers api metrics with appropriate registry.
// Uses sync.Once to ensure single initialization across parallel tests.
func initMetrics() {
	metricsOnce.Do(func() {
		var registry prometheus.Registerer = prometheus.DefaultRegisterer

		if testing.Testing() {
			// Use isolated registry in tests to avoid metric collisions
			registry = prometheus.NewRegistry()
		}

		requestTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "requests_total",
			Help:      "Total number of HTTP API requests by status code and method.",
		}, []string{"code", "method"})

		registry.MustRegister(requestTotal)
	})
}

// withRequestMetrics wraps a handler with request accounting and access
// logging.
func withRequestMetrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m := httpsnoop.CaptureMetrics(next, w, r)
		if requestTotal != nil {
			requestTotal.WithLabelValues(strconv.Itoa(m.Code), r.Method).Add(1)
		}
		log.Infof("%s %s (status=%d dt=%s ua=%q)", r.Method, r.URL, m.Code, m.Duration, r.UserAgent())
	})
}
