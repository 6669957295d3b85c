package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the scoring/ranking Prometheus metrics.
type Metrics struct {
	RecommendationsServed prometheus.Counter
	ScoreDuration         prometheus.Histogram
}

// New creates and registers the matching metrics.
func New() *Metrics {
	return &Metrics{
		RecommendationsServed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "amora_recommendations_served_total",
			Help: "Recommendation lists served",
		}),
		ScoreDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "amora_score_request_duration_seconds",
			Help:    "Latency of on-demand pair scoring requests",
			Buckets: prometheus.DefBuckets,
		}),
	}
}

// RecordRecommendations counts a served recommendation list.
func (m *Metrics) RecordRecommendations() {
	if m == nil {
		return
	}
	m.RecommendationsServed.Inc()
}

// ObserveScoreDuration records one scoring request latency in seconds.
func (m *Metrics) ObserveScoreDuration(seconds float64) {
	if m == nil {
		return
	}
	m.ScoreDuration.Observe(seconds)
}
