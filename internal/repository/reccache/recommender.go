// Package reccache caches recommendation results in a key-value store.
package reccache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	gobreaker "github.com/sony/gobreaker/v2"
	"go.uber.org/zap"

	"github.com/kailas-cloud/movierec/internal/db"
	"github.com/kailas-cloud/movierec/internal/usecase/recommend"
)

// KeyPrefix namespaces every cache key.
const KeyPrefix = "movierec:rec:"

// DefaultTTL applies when Options.TTL is zero.
const DefaultTTL = time.Hour

// store is the consumer interface for the result cache (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// Recommender is the wrapped query path.
type Recommender interface {
	Recommend(ctx context.Context, query string) (recommend.Result, error)
}

// Options configures the cache decorator.
type Options struct {
	// Namespace isolates entries of one catalog and engine variant. See Namespace.
	Namespace string
	TTL       time.Duration
	// CacheTotal is a counter vec with label "result" ("hit"/"miss"/"error").
	CacheTotal *prometheus.CounterVec
	// BreakerState is a gauge vec with label "name". Optional.
	BreakerState *prometheus.GaugeVec
	// FailureThreshold trips the breaker after that many consecutive store errors.
	FailureThreshold uint32
	// OpenTimeout is how long the breaker stays open before probing again.
	OpenTimeout time.Duration
}

// CachedRecommender serves repeated queries from the store. Cache failures
// never fail a query: the inner recommender answers instead.
type CachedRecommender struct {
	inner      Recommender
	store      store
	namespace  string
	ttl        time.Duration
	cacheTotal *prometheus.CounterVec
	breaker    *gobreaker.CircuitBreaker[[]byte]
	logger     *zap.Logger
}

// Namespace builds the key namespace for a catalog fingerprint and engine
// variant (policy, limit, threshold and vectorizer settings), so an engine
// never reads entries written by one configured differently.
func Namespace(fingerprint, variant string) string {
	sum := sha256.Sum256([]byte(variant))
	return fingerprint + ":" + hex.EncodeToString(sum[:8])
}

// New creates a caching decorator.
func New(inner Recommender, s store, opts Options, logger *zap.Logger) *CachedRecommender {
	if opts.TTL <= 0 {
		opts.TTL = DefaultTTL
	}
	if opts.FailureThreshold == 0 {
		opts.FailureThreshold = 5
	}
	if opts.OpenTimeout <= 0 {
		opts.OpenTimeout = 30 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	name := "reccache"
	if opts.BreakerState != nil {
		opts.BreakerState.WithLabelValues(name).Set(0)
	}

	breaker := gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Timeout:     opts.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= opts.FailureThreshold
		},
		// A cache miss is a healthy answer.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, db.ErrKeyNotFound)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("Cache circuit breaker state change",
				zap.String("name", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
			if opts.BreakerState != nil {
				opts.BreakerState.WithLabelValues(name).Set(float64(to))
			}
		},
	})

	return &CachedRecommender{
		inner:      inner,
		store:      s,
		namespace:  opts.Namespace,
		ttl:        opts.TTL,
		cacheTotal: opts.CacheTotal,
		breaker:    breaker,
		logger:     logger,
	}
}

// Recommend returns a cached result or calls the inner recommender.
// Empty queries and errors are never cached.
func (c *CachedRecommender) Recommend(ctx context.Context, query string) (recommend.Result, error) {
	norm := normalize(query)
	if norm == "" {
		return c.inner.Recommend(ctx, query)
	}
	key := c.cacheKey(norm)

	if res, ok := c.getFromCache(ctx, key); ok {
		c.incCache("hit")
		return res, nil
	}

	res, err := c.inner.Recommend(ctx, query)
	if err != nil {
		return recommend.Result{}, fmt.Errorf("recommend: %w", err)
	}

	c.putToCache(ctx, key, res)
	return res, nil
}

// BreakerState reports the circuit breaker state.
func (c *CachedRecommender) BreakerState() gobreaker.State {
	return c.breaker.State()
}

func (c *CachedRecommender) incCache(result string) {
	if c.cacheTotal != nil {
		c.cacheTotal.WithLabelValues(result).Inc()
	}
}

// normalize matches query normalization in the resolution policies, so
// queries that resolve identically share an entry.
func normalize(query string) string {
	return strings.TrimSpace(strings.ToLower(query))
}

func (c *CachedRecommender) cacheKey(norm string) string {
	h := sha256.Sum256([]byte(norm))
	return KeyPrefix + c.namespace + ":" + hex.EncodeToString(h[:])
}

func (c *CachedRecommender) getFromCache(ctx context.Context, key string) (recommend.Result, bool) {
	data, err := c.breaker.Execute(func() ([]byte, error) {
		return c.store.Get(ctx, key)
	})
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			c.incCache("miss")
			return recommend.Result{}, false
		}
		c.incCache("error")
		if !breakerRejected(err) {
			c.logger.Warn("Failed to get cached recommendation", zap.String("key", key), zap.Error(err))
		}
		return recommend.Result{}, false
	}

	res, err := decode(data)
	if err != nil {
		c.incCache("error")
		c.logger.Warn("Failed to parse cached recommendation", zap.String("key", key), zap.Error(err))
		return recommend.Result{}, false
	}
	return res, true
}

func (c *CachedRecommender) putToCache(ctx context.Context, key string, res recommend.Result) {
	data, err := encode(res)
	if err != nil {
		c.logger.Warn("Failed to encode recommendation", zap.String("key", key), zap.Error(err))
		return
	}
	_, err = c.breaker.Execute(func() ([]byte, error) {
		return nil, c.store.SetWithTTL(ctx, key, data, c.ttl)
	})
	if err != nil && !breakerRejected(err) {
		c.logger.Warn("Failed to cache recommendation", zap.String("key", key), zap.Error(err))
	}
}

func breakerRejected(err error) bool {
	return errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests)
}
