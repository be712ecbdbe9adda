// Package metrics exposes prometheus collectors for the forecast pipeline.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Fetch outcomes.
const (
	OutcomeReady    = "ready"
	OutcomeFailed   = "failed"
	OutcomeNotFound = "not_found"
)

var (
	fetchTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "plant_advisor",
		Name:      "fetch_total",
		Help:      "Forecast fetches by source and outcome.",
	}, []string{"source", "outcome"})

	fetchDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "plant_advisor",
		Name:      "fetch_duration_seconds",
		Help:      "Latency of forecast endpoint requests.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"source"})

	recommendedPlants = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "plant_advisor",
		Name:      "recommended_plants",
		Help:      "Plant count of the current recommendation.",
	})
)

// ObserveFetch records one fetch of source that started at start.
func ObserveFetch(source, outcome string, start time.Time) {
	fetchTotal.WithLabelValues(source, outcome).Inc()
	fetchDuration.WithLabelValues(source).Observe(time.Since(start).Seconds())
}

// SetRecommendedPlants publishes the current plant count.
func SetRecommendedPlants(n int) {
	recommendedPlants.Set(float64(n))
}
