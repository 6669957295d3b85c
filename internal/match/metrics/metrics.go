package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the match-formation Prometheus metrics.
type Metrics struct {
	MatchesFormed  prometheus.Counter
	FormationRaces prometheus.Counter
}

// New creates and registers the match metrics.
func New() *Metrics {
	return &Metrics{
		MatchesFormed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "amora_matches_formed_total",
			Help: "Total number of matches formed from mutual interest",
		}),
		FormationRaces: promauto.NewCounter(prometheus.CounterOpts{
			Name: "amora_match_formation_races_total",
			Help: "Formation attempts that found the match already existed",
		}),
	}
}

// RecordFormed increments the formed-match counter.
func (m *Metrics) RecordFormed() {
	if m == nil {
		return
	}
	m.MatchesFormed.Inc()
}

// RecordRace increments the already-existed counter.
func (m *Metrics) RecordRace() {
	if m == nil {
		return
	}
	m.FormationRaces.Inc()
}
