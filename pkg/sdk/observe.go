package movierec

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// sdkMetrics holds prometheus metrics registered for the SDK.
type sdkMetrics struct {
	queries  *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

func newSDKMetrics(reg prometheus.Registerer) (*sdkMetrics, error) {
	m := &sdkMetrics{
		queries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "movierec",
			Subsystem: "sdk",
			Name:      "queries_total",
			Help:      "Total SDK recommendation queries by policy and outcome.",
		}, []string{"policy", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "movierec",
			Subsystem: "sdk",
			Name:      "query_duration_seconds",
			Help:      "SDK recommendation query duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"outcome"}),
	}
	if err := registerOrReuse(reg, &m.queries); err != nil {
		return nil, err
	}
	if err := registerOrReuse(reg, &m.duration); err != nil {
		return nil, err
	}
	return m, nil
}

// registerOrReuse registers a collector or reuses an existing one.
func registerOrReuse[T prometheus.Collector](reg prometheus.Registerer, c *T) error {
	if err := reg.Register(*c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			existing, ok := are.ExistingCollector.(T)
			if !ok {
				return fmt.Errorf("movierec: metric already registered with incompatible type: %T", are.ExistingCollector)
			}
			*c = existing
			return nil
		}
		return fmt.Errorf("movierec: register metric: %w", err)
	}
	return nil
}

// outcomeError labels queries that failed with an internal fault.
const outcomeError = "error"

// observer provides logging and metrics for recommendation queries.
type observer struct {
	logger  *slog.Logger
	metrics *sdkMetrics
	policy  string
}

func newObserver(logger *slog.Logger, reg prometheus.Registerer, policy string) (*observer, error) {
	var m *sdkMetrics
	if reg != nil {
		var err error
		m, err = newSDKMetrics(reg)
		if err != nil {
			return nil, err
		}
	}
	return &observer{logger: logger, metrics: m, policy: policy}, nil
}

// observeQuery records one query. A non-nil err overrides outcome.
func (o *observer) observeQuery(outcome Outcome, start time.Time, err error) {
	if o == nil {
		return
	}
	dur := time.Since(start)

	label := string(outcome)
	if err != nil {
		label = outcomeError
	}

	if o.metrics != nil {
		o.metrics.queries.WithLabelValues(o.policy, label).Inc()
		o.metrics.duration.WithLabelValues(label).Observe(dur.Seconds())
	}

	if o.logger == nil {
		return
	}
	switch {
	case err != nil:
		o.logger.Warn("recommendation failed",
			"policy", o.policy,
			"duration", dur,
			"error", err,
		)
	case outcome == OutcomeMatched:
		o.logger.Debug("recommendation served",
			"policy", o.policy,
			"outcome", label,
			"duration", dur,
		)
	default:
		o.logger.Info("query unresolved",
			"policy", o.policy,
			"outcome", label,
			"duration", dur,
		)
	}
}
