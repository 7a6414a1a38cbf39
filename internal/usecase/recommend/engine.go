// Package recommend resolves a title query and ranks similar catalog items.
package recommend

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/movierec/internal/domain"
	"github.com/kailas-cloud/movierec/internal/domain/catalog"
	"github.com/kailas-cloud/movierec/internal/domain/resolution"
	"github.com/kailas-cloud/movierec/internal/domain/similarity"
	"github.com/kailas-cloud/movierec/internal/logger"
	"github.com/kailas-cloud/movierec/internal/usecase/vectorize"
)

// Options configures engine construction.
type Options struct {
	Vectorizer vectorize.Options
	Policy     Policy // nil = substring policy with default limit
	Observer   Observer
}

// Observer receives build and query measurements. Implementations must be
// safe for concurrent use.
type Observer interface {
	ObserveBuild(items, terms int, d time.Duration)
	ObserveQuery(policy resolution.PolicyName, outcome resolution.Outcome, d time.Duration)
}

// Recommendation is one recommended title with its similarity to the query item.
type Recommendation struct {
	Title string
	Score float64
}

// Result is the answer to one query. Items is empty unless the query resolved.
type Result struct {
	Resolution    resolution.Resolution
	ResolvedTitle string
	Items         []Recommendation
}

// Titles returns the recommended titles in rank order. Never nil.
func (r Result) Titles() []string {
	out := make([]string, len(r.Items))
	for i, it := range r.Items {
		out[i] = it.Title
	}
	return out
}

// Engine holds the catalog, vocabulary and similarity matrix. It is built
// once and never mutated, so any number of goroutines may query it.
type Engine struct {
	catalog    *catalog.Catalog
	vocabulary *vectorize.Vocabulary
	matrix     *similarity.Matrix
	policy     Policy
	vectorizer vectorize.Options
	observer   Observer
}

// Initialize loads the catalog and precomputes every structure queries need.
// A load failure is returned as-is and must abort startup.
func Initialize(ctx context.Context, src Source, opts Options) (*Engine, error) {
	log := logger.FromContext(ctx)
	start := time.Now()

	cat, err := src.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}

	e := Build(cat, opts)
	dur := time.Since(start)
	if e.observer != nil {
		e.observer.ObserveBuild(cat.Len(), e.vocabulary.Len(), dur)
	}

	log.Info("Recommendation engine built",
		zap.Int("items", cat.Len()),
		zap.Int("vocabulary", e.vocabulary.Len()),
		zap.String("policy", string(e.policy.Name())),
		zap.String("fingerprint", cat.Fingerprint()),
		zap.Duration("duration", dur),
	)
	return e, nil
}

// Build precomputes an engine over an already loaded catalog.
func Build(cat *catalog.Catalog, opts Options) *Engine {
	policy := opts.Policy
	if policy == nil {
		policy = NewSubstringPolicy(DefaultSubstringLimit)
	}

	fitted := vectorize.New(opts.Vectorizer).Fit(cat.CombinedTexts())

	return &Engine{
		catalog:    cat,
		vocabulary: fitted.Vocabulary,
		matrix:     similarity.Build(fitted.Vectors),
		policy:     policy,
		vectorizer: opts.Vectorizer,
		observer:   opts.Observer,
	}
}

// Ready reports whether the engine is built and can serve queries.
func (e *Engine) Ready() bool { return e != nil && e.matrix != nil }

// Catalog returns the engine catalog.
func (e *Engine) Catalog() *catalog.Catalog { return e.catalog }

// Vocabulary returns the fitted vocabulary.
func (e *Engine) Vocabulary() *vectorize.Vocabulary { return e.vocabulary }

// Matrix returns the similarity matrix.
func (e *Engine) Matrix() *similarity.Matrix { return e.matrix }

// Policy returns the active resolution policy.
func (e *Engine) Policy() Policy { return e.policy }

// Variant identifies the policy and vectorizer settings. Two engines over the
// same catalog return the same results only if their variants are equal.
func (e *Engine) Variant() string {
	return e.policy.Key() + ":" + e.vectorizer.Key()
}

// Recommend resolves query and returns the top similar titles. Empty and
// unmatched queries yield an empty result and a nil error; only unexpected
// faults return an error, wrapping domain.ErrInternalFault.
func (e *Engine) Recommend(ctx context.Context, query string) (res Result, err error) {
	if !e.Ready() {
		return Result{}, domain.ErrEngineNotReady
	}
	start := time.Now()
	log := logger.FromContext(ctx)

	defer func() {
		if r := recover(); r != nil {
			log.Error("recommendation panic", zap.Any("panic", r), zap.String("query", query))
			res, err = Result{}, fmt.Errorf("%w: %v", domain.ErrInternalFault, r)
		}
	}()

	res = e.recommend(query)

	if e.observer != nil {
		e.observer.ObserveQuery(e.policy.Name(), res.Resolution.Outcome(), time.Since(start))
	}
	log.Debug("recommendation",
		zap.String("query", query),
		zap.String("outcome", string(res.Resolution.Outcome())),
		zap.Int("confidence", res.Resolution.Confidence()),
		zap.Int("results", len(res.Items)),
	)
	return res, nil
}

func (e *Engine) recommend(query string) Result {
	r := e.policy.Resolve(query, e.catalog)
	if !r.OK() {
		return Result{Resolution: r, Items: []Recommendation{}}
	}

	ranked := rank(e.matrix, r.Index(), e.policy.Limit())
	items := make([]Recommendation, len(ranked))
	for i, c := range ranked {
		items[i] = Recommendation{Title: e.catalog.Title(c.Index), Score: c.Score}
	}
	return Result{
		Resolution:    r,
		ResolvedTitle: e.catalog.Title(r.Index()),
		Items:         items,
	}
}
