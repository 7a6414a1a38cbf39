package main

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/movierec/internal/config"
	"github.com/kailas-cloud/movierec/internal/db"
	dbRedis "github.com/kailas-cloud/movierec/internal/db/redis"
	"github.com/kailas-cloud/movierec/internal/domain/resolution"
	logpkg "github.com/kailas-cloud/movierec/internal/logger"
	"github.com/kailas-cloud/movierec/internal/metrics"
	catalogrepo "github.com/kailas-cloud/movierec/internal/repository/catalog"
	"github.com/kailas-cloud/movierec/internal/repository/reccache"
	healthuc "github.com/kailas-cloud/movierec/internal/usecase/health"
	"github.com/kailas-cloud/movierec/internal/usecase/recommend"
	"github.com/kailas-cloud/movierec/internal/usecase/vectorize"
)

// recommender is what every front end queries: the engine or its cache.
type recommender interface {
	Recommend(ctx context.Context, query string) (recommend.Result, error)
}

// app is the composition root shared by all commands.
type app struct {
	cfg    config.Config
	logger *zap.Logger
	engine *recommend.Engine
	rec    recommender
	store  db.Store
	health *healthuc.Service
}

// newApp builds the engine and, when enabled, connects the result cache.
// A catalog load failure aborts startup.
func newApp(ctx context.Context, cfg config.Config, logger *zap.Logger) (*app, error) {
	metrics.RegisterEngineMetrics()

	policy, err := recommend.NewPolicy(
		resolution.PolicyName(cfg.Engine.Policy),
		policyLimit(cfg.Engine),
		cfg.Engine.FuzzyThreshold,
	)
	if err != nil {
		return nil, err
	}

	ctx = logpkg.ContextWithLogger(ctx, logger)
	engine, err := recommend.Initialize(ctx, newSource(cfg.Catalog), recommend.Options{
		Vectorizer: vectorize.Options{MaxFeatures: cfg.Engine.MaxFeatures, Stem: cfg.Engine.Stem},
		Policy:     policy,
		Observer:   metrics.EngineObserver{},
	})
	if err != nil {
		return nil, err
	}

	a := &app{cfg: cfg, logger: logger, engine: engine, rec: engine}
	if !cfg.Cache.Enabled {
		a.health = healthuc.New(engine, nil)
		return a, nil
	}

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Cache.Addrs,
		Password: cfg.Cache.Password,
		RESP2:    cfg.Cache.Driver == "redis",
	})
	if err != nil {
		return nil, fmt.Errorf("create cache store: %w", err)
	}
	if err := store.WaitForReady(ctx, time.Duration(cfg.Cache.ReadinessTimeout)*time.Second); err != nil {
		store.Close()
		return nil, fmt.Errorf("cache not ready: %w", err)
	}
	logger.Info("Connected to cache",
		zap.String("driver", cfg.Cache.Driver),
		zap.Strings("addrs", cfg.Cache.Addrs),
	)

	a.store = store
	a.rec = reccache.New(engine, store, reccache.Options{
		Namespace:    reccache.Namespace(engine.Catalog().Fingerprint(), engine.Variant()),
		TTL:          time.Duration(cfg.Cache.TTLSec) * time.Second,
		CacheTotal:   metrics.CacheTotal,
		BreakerState: metrics.CircuitBreakerState,
	}, logger)
	a.health = healthuc.New(engine, store)
	return a, nil
}

// Close releases the cache connection.
func (a *app) Close() {
	if a.store != nil {
		a.store.Close()
	}
}

func newSource(cfg config.CatalogConfig) recommend.Source {
	if cfg.Source == "sqlite" {
		return catalogrepo.NewSQLiteSource(cfg.Path, cfg.Table, cfg.MissingValue)
	}
	return catalogrepo.NewCSVSource(cfg.Path, cfg.MissingValue)
}

func policyLimit(cfg config.EngineConfig) int {
	if cfg.Policy == string(resolution.Fuzzy) {
		return cfg.FuzzyLimit
	}
	return cfg.SubstringLimit
}
