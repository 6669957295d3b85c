package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the interest ledger Prometheus metrics.
type Metrics struct {
	EdgesRecorded      *prometheus.CounterVec
	DuplicateInterests prometheus.Counter
	MutualDetections   prometheus.Counter
}

// New creates and registers the ledger metrics.
func New() *Metrics {
	return &Metrics{
		EdgesRecorded: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "amora_interest_edges_recorded_total",
			Help: "Interest edges recorded, by kind",
		}, []string{"kind"}),
		DuplicateInterests: promauto.NewCounter(prometheus.CounterOpts{
			Name: "amora_interest_duplicates_total",
			Help: "Interest submissions rejected as duplicates",
		}),
		MutualDetections: promauto.NewCounter(prometheus.CounterOpts{
			Name: "amora_interest_mutual_detections_total",
			Help: "Edge inserts that observed the reverse edge",
		}),
	}
}

// RecordEdge counts a stored edge.
func (m *Metrics) RecordEdge(kind string) {
	if m == nil {
		return
	}
	m.EdgesRecorded.WithLabelValues(kind).Inc()
}

// RecordDuplicate counts a rejected duplicate submission.
func (m *Metrics) RecordDuplicate() {
	if m == nil {
		return
	}
	m.DuplicateInterests.Inc()
}

// RecordMutual counts a mutual-interest detection.
func (m *Metrics) RecordMutual() {
	if m == nil {
		return
	}
	m.MutualDetections.Inc()
}
