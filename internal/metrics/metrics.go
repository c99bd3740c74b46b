package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics bundles the engine's Prometheus instruments. A nil *Metrics is
// valid and records nothing, so library consumers can opt out.
type Metrics struct {
	Requests        *prometheus.CounterVec
	CacheLookups    *prometheus.CounterVec
	ScoringDuration *prometheus.HistogramVec
}

func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		Requests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "cinematch",
			Subsystem: "engine",
			Name:      "requests_total",
			Help:      "Ranking requests by operation and the path that produced the result.",
		}, []string{"operation", "outcome"}),
		CacheLookups: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "cinematch",
			Subsystem: "engine",
			Name:      "cache_lookups_total",
			Help:      "Result cache lookups by operation and hit/miss.",
		}, []string{"operation", "result"}),
		ScoringDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "cinematch",
			Subsystem: "engine",
			Name:      "scoring_duration_seconds",
			Help:      "Wall time of uncached ranking computations.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
	}
}

func (m *Metrics) ObserveRequest(operation, outcome string) {
	if m == nil {
		return
	}
	m.Requests.WithLabelValues(operation, outcome).Inc()
}

func (m *Metrics) ObserveCacheLookup(operation string, hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.CacheLookups.WithLabelValues(operation, result).Inc()
}

func (m *Metrics) ObserveScoringDuration(operation string, seconds float64) {
	if m == nil {
		return
	}
	m.ScoringDuration.WithLabelValues(operation).Observe(seconds)
}
