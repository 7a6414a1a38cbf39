package movierec

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/movierec/internal/db"
	dbRedis "github.com/kailas-cloud/movierec/internal/db/redis"
	"github.com/kailas-cloud/movierec/internal/domain/catalog"
	"github.com/kailas-cloud/movierec/internal/domain/resolution"
	catalogrepo "github.com/kailas-cloud/movierec/internal/repository/catalog"
	"github.com/kailas-cloud/movierec/internal/repository/reccache"
	healthuc "github.com/kailas-cloud/movierec/internal/usecase/health"
	"github.com/kailas-cloud/movierec/internal/usecase/recommend"
	"github.com/kailas-cloud/movierec/internal/usecase/vectorize"
)

const defaultReadinessTimeout = 10 * time.Second

// recommender is the internal query path, engine or cache decorator.
type recommender interface {
	Recommend(ctx context.Context, query string) (recommend.Result, error)
}

// Client is the movierec SDK entry point.
type Client struct {
	engine    *recommend.Engine
	rec       recommender
	store     db.Store
	healthSvc healthUseCase
	obs       *observer
}

// New loads the catalog, builds the engine and, when a cache is configured,
// connects to it. The provided context bounds loading and the cache readiness check.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{}
	for _, o := range opts {
		o.apply(cfg)
	}

	src, err := createSource(cfg)
	if err != nil {
		return nil, err
	}
	policy, err := recommend.NewPolicy(resolution.PolicyName(cfg.policy), cfg.limit, cfg.fuzzyThreshold)
	if err != nil {
		return nil, fmt.Errorf("movierec: %w", err)
	}

	engine, err := recommend.Initialize(ctx, src, recommend.Options{
		Vectorizer: vectorize.Options{MaxFeatures: cfg.maxFeatures, Stem: cfg.stem},
		Policy:     policy,
	})
	if err != nil {
		return nil, fmt.Errorf("movierec: %w", err)
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg, string(policy.Name()))
	if err != nil {
		return nil, err
	}

	c := &Client{engine: engine, rec: engine, obs: obs}
	if cfg.cacheDriver == "" {
		c.healthSvc = healthuc.New(engine, nil)
		return c, nil
	}

	store, err := createStore(cfg)
	if err != nil {
		return nil, err
	}
	if err := store.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
		store.Close()
		return nil, fmt.Errorf("movierec: cache not ready: %w", err)
	}

	c.store = store
	c.rec = reccache.New(engine, store, reccache.Options{
		Namespace: reccache.Namespace(engine.Catalog().Fingerprint(), engine.Variant()),
		TTL:       cfg.cacheTTL,
	}, zap.NewNop())
	c.healthSvc = healthuc.New(engine, store)
	return c, nil
}

func createSource(cfg *clientConfig) (recommend.Source, error) {
	switch cfg.source {
	case "csv":
		return catalogrepo.NewCSVSource(cfg.path, cfg.missingValue), nil
	case "sqlite":
		return catalogrepo.NewSQLiteSource(cfg.path, cfg.table, cfg.missingValue), nil
	case "reader":
		if cfg.reader == nil {
			return nil, errors.New("movierec: nil catalog reader")
		}
		return &readerSource{name: cfg.path, r: cfg.reader, missing: cfg.missingValue}, nil
	case "":
		return nil, errors.New("movierec: catalog source required (use WithCSV, WithSQLite or WithReader)")
	default:
		return nil, fmt.Errorf("movierec: unknown catalog source %q", cfg.source)
	}
}

func createStore(cfg *clientConfig) (db.Store, error) {
	switch cfg.cacheDriver {
	case "valkey", "redis":
		s, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.cacheAddrs,
			Password: cfg.cachePassword,
			RESP2:    cfg.cacheDriver == "redis",
		})
		if err != nil {
			return nil, fmt.Errorf("movierec: create %s store: %w", cfg.cacheDriver, err)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("movierec: unknown cache driver %q", cfg.cacheDriver)
	}
}

// readerSource parses CSV from an already open reader.
type readerSource struct {
	name    string
	r       io.Reader
	missing string
}

func (s *readerSource) Load(_ context.Context) (*catalog.Catalog, error) {
	cat, err := catalogrepo.ParseCSV(s.name, s.r, s.missing)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", s.name, err)
	}
	return cat, nil
}

// Close releases the cache connection, if any.
func (c *Client) Close() {
	if c.store != nil {
		c.store.Close()
	}
}

// Recommend returns titles similar to movie. An empty or unmatched movie
// yields an empty list and a nil error.
func (c *Client) Recommend(ctx context.Context, movie string) ([]string, error) {
	res, err := c.Explain(ctx, movie)
	if err != nil {
		return nil, err
	}
	return res.Titles(), nil
}

// Explain is Recommend with the resolved title, confidence and scores.
func (c *Client) Explain(ctx context.Context, movie string) (res Result, err error) {
	start := time.Now()
	defer func() { c.obs.observeQuery(res.Outcome, start, err) }()

	r, err := c.rec.Recommend(ctx, movie)
	if err != nil {
		return Result{}, fmt.Errorf("recommend: %w", err)
	}
	return convertResult(r), nil
}

// Catalog describes the loaded catalog.
func (c *Client) Catalog() CatalogInfo {
	return CatalogInfo{
		Items:       c.engine.Catalog().Len(),
		Vocabulary:  c.engine.Vocabulary().Len(),
		Fingerprint: c.engine.Catalog().Fingerprint(),
		Policy:      string(c.engine.Policy().Name()),
	}
}

func convertResult(r recommend.Result) Result {
	items := make([]Recommendation, len(r.Items))
	for i, it := range r.Items {
		items[i] = Recommendation{Title: it.Title, Score: it.Score}
	}
	return Result{
		Outcome:       Outcome(r.Resolution.Outcome()),
		ResolvedTitle: r.ResolvedTitle,
		Confidence:    r.Resolution.Confidence(),
		Items:         items,
	}
}
