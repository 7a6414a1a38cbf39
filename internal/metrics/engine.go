package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/kailas-cloud/movierec/internal/domain/resolution"
)

// Engine Prometheus metrics.
var (
	EngineBuildDuration = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "engine_build_duration_seconds",
			Help:      "Time spent loading the catalog and building the similarity matrix",
		},
	)

	CatalogItems = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "catalog_items",
			Help:      "Number of items in the loaded catalog",
		},
	)

	VocabularyTerms = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "vocabulary_terms",
			Help:      "Number of retained vocabulary terms",
		},
	)

	QueriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "queries_total",
			Help:      "Total recommendation queries by resolution outcome",
		},
		[]string{"policy", "outcome"},
	)

	QueryDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "query_duration_seconds",
			Help:      "Recommendation query duration in seconds",
			Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		},
		[]string{"policy"},
	)

	CacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "cache_total",
			Help:      "Result cache lookups",
		},
		[]string{"result"}, // "hit" / "miss" / "error"
	)

	CircuitBreakerState = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "circuit_breaker_state",
			Help:      "Circuit breaker state (0 = closed, 1 = half-open, 2 = open)",
		},
		[]string{"name"},
	)
)

var registerEngineOnce sync.Once

// RegisterEngineMetrics registers engine and cache metrics. Safe to call more than once.
func RegisterEngineMetrics() {
	registerEngineOnce.Do(func() {
		prometheus.MustRegister(
			EngineBuildDuration,
			CatalogItems,
			VocabularyTerms,
			QueriesTotal,
			QueryDuration,
			CacheTotal,
			CircuitBreakerState,
		)
	})
}

// EngineObserver records engine measurements into the package metrics.
type EngineObserver struct{}

// ObserveBuild records catalog and vocabulary sizes and the build time.
func (EngineObserver) ObserveBuild(items, terms int, d time.Duration) {
	CatalogItems.Set(float64(items))
	VocabularyTerms.Set(float64(terms))
	EngineBuildDuration.Set(d.Seconds())
}

// ObserveQuery counts the outcome and records the latency of one query.
func (EngineObserver) ObserveQuery(policy resolution.PolicyName, outcome resolution.Outcome, d time.Duration) {
	QueriesTotal.WithLabelValues(string(policy), string(outcome)).Inc()
	QueryDuration.WithLabelValues(string(policy)).Observe(d.Seconds())
}
