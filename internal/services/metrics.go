package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
)

// RecommendationMetrics tracks recommendation requests.
type RecommendationMetrics struct {
	requests   *prometheus.CounterVec
	latency    prometheus.Histogram
	candidates *prometheus.HistogramVec
	fallbacks  prometheus.Counter
}

func NewRecommendationMetrics(logger *logrus.Logger) *RecommendationMetrics {
	m := &RecommendationMetrics{}

	m.requests = register(logger, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "recommendation_requests_total",
		Help: "Recommendation requests by source and outcome",
	}, []string{"source", "outcome"}))

	m.latency = register(logger, prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "recommendation_duration_seconds",
		Help:    "Time to produce a recommendation list",
		Buckets: prometheus.DefBuckets,
	}))

	m.candidates = register(logger, prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "recommendation_candidates",
		Help:    "Candidates per pipeline stage",
		Buckets: []float64{0, 1, 3, 5, 10, 20, 50, 100},
	}, []string{"stage"}))

	m.fallbacks = register(logger, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "recommendation_catalog_fallbacks_total",
		Help: "Requests served from the sample catalog after a catalog failure",
	}))

	return m
}

// register returns the already registered collector when one exists.
func register[C prometheus.Collector](logger *logrus.Logger, c C) C {
	if err := prometheus.Register(c); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing
			}
		}
		logger.WithError(err).Warn("Failed to register metric")
	}
	return c
}
