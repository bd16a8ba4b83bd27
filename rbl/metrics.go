package rbl

import (
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	namespace = "repquery"
	subsystem = "rbl"
)

var (
	lookupTotal       *prometheus.CounterVec
	zoneQueryTotal    *prometheus.CounterVec
	zoneQueryDuration *prometheus.HistogramVec
	metricsOnce       sync.Once
)

// initMetrics initializes and registers rbl metrics with appropriate registry.
// Uses sync.Once to ensure single initialization across parallel tests.
func initMetrics() {
	metricsOnce.Do(func() {
		var registry prometheus.Registerer = prometheus.DefaultRegisterer

		if testing.Testing() {
			// Use isolated registry in tests to avoid metric collisions
			registry = prometheus.NewRegistry()
		}

		lookupTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "lookups_total",
			Help:      "Total number of reputation lookups by address family.",
		}, []string{"family"})

		zoneQueryTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "zone_queries_total",
			Help:      "Total number of zone queries by zone and outcome.",
		}, []string{"zone", "outcome"})

		zoneQueryDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "zone_query_duration_seconds",
			Help:      "Time taken by individual zone queries.",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5},
		}, []string{"zone"})

		registry.MustRegister(lookupTotal, zoneQueryTotal, zoneQueryDuration)
	})
}

// incLookup increments the lookup counter for an address family
// ("IPv4", "IPv6" or "invalid").
func incLookup(family string) {
	if lookupTotal != nil {
		lookupTotal.WithLabelValues(family).Inc()
	}
}

// incZoneQuery increments the zone query counter for an outcome.
func incZoneQuery(zone, outcome string) {
	if zoneQueryTotal != nil {
		zoneQueryTotal.WithLabelValues(zone, outcome).Inc()
	}
}

// observeZoneQuery records the duration of one zone query in seconds.
func observeZoneQuery(zone string, seconds float64) {
	if zoneQueryDuration != nil {
		zoneQueryDuration.WithLabelValues(zone).Observe(seconds)
	}
}
