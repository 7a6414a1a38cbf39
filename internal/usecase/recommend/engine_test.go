package recommend

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/kailas-cloud/movierec/internal/domain"
	"github.com/kailas-cloud/movierec/internal/domain/catalog"
	"github.com/kailas-cloud/movierec/internal/domain/resolution"
)

// --- Mocks ---

type staticSource struct {
	cat *catalog.Catalog
	err error
}

func (s *staticSource) Load(_ context.Context) (*catalog.Catalog, error) {
	return s.cat, s.err
}

type panicPolicy struct{}

func (panicPolicy) Name() resolution.PolicyName { return "panic" }
func (panicPolicy) Limit() int                  { return 5 }
func (panicPolicy) Key() string                 { return "panic" }
func (panicPolicy) Resolve(string, *catalog.Catalog) resolution.Resolution {
	panic("corrupted state")
}

type mockObserver struct {
	mu       sync.Mutex
	builds   int
	outcomes []resolution.Outcome
}

func (m *mockObserver) ObserveBuild(_, _ int, _ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.builds++
}

func (m *mockObserver) ObserveQuery(_ resolution.PolicyName, o resolution.Outcome, _ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.outcomes = append(m.outcomes, o)
}

// --- Fixtures ---

func movieCatalog() *catalog.Catalog {
	return catalog.New([]catalog.Item{
		catalog.NewItem(0, "The Matrix", "Action Science Fiction",
			"A hacker discovers reality is a simulation run by machines."),
		catalog.NewItem(1, "The Matrix Reloaded", "Action Science Fiction",
			"The hacker fights the machines to save the last human city."),
		catalog.NewItem(2, "Inception", "Thriller Science Fiction",
			"A thief plants ideas inside dreams."),
		catalog.NewItem(3, "Finding Nemo", "Animation Family",
			"A clownfish searches the ocean for his son."),
		catalog.NewItem(4, "Amelie", "Romance Comedy",
			"A shy waitress in Paris secretly helps strangers."),
	})
}

func newEngine(t *testing.T, policy Policy) *Engine {
	t.Helper()
	e, err := Initialize(context.Background(), &staticSource{cat: movieCatalog()}, Options{Policy: policy})
	if err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	return e
}

func contains(titles []string, title string) bool {
	for _, t := range titles {
		if t == title {
			return true
		}
	}
	return false
}

// --- Tests ---

func TestInitialize_SourceError(t *testing.T) {
	srcErr := domain.NewDataSourceError("movies.csv", errors.New("no such file"))
	_, err := Initialize(context.Background(), &staticSource{err: srcErr}, Options{})
	if !errors.Is(err, domain.ErrDataSource) {
		t.Fatalf("expected ErrDataSource, got %v", err)
	}
}

func TestInitialize_ObserverAndDefaults(t *testing.T) {
	obs := &mockObserver{}
	e, err := Initialize(context.Background(), &staticSource{cat: movieCatalog()}, Options{Observer: obs})
	if err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	if obs.builds != 1 {
		t.Errorf("builds = %d, want 1", obs.builds)
	}
	if e.Policy().Name() != resolution.Substring {
		t.Errorf("default policy = %q, want substring", e.Policy().Name())
	}
	if e.Matrix().Size() != e.Catalog().Len() {
		t.Errorf("matrix size %d != catalog size %d", e.Matrix().Size(), e.Catalog().Len())
	}
	if e.Vocabulary().Len() == 0 {
		t.Error("expected non-empty vocabulary")
	}

	_, _ = e.Recommend(context.Background(), "matrix")
	_, _ = e.Recommend(context.Background(), "zzzz")
	_, _ = e.Recommend(context.Background(), " ")
	want := []resolution.Outcome{resolution.Matched, resolution.NoMatch, resolution.EmptyQuery}
	if !reflect.DeepEqual(obs.outcomes, want) {
		t.Errorf("outcomes = %v, want %v", obs.outcomes, want)
	}
}

func TestRecommend_SubstringScenario(t *testing.T) {
	e := newEngine(t, NewSubstringPolicy(5))

	res, err := e.Recommend(context.Background(), "matrix")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Resolution.Index() != 0 || res.Resolution.Confidence() != 100 {
		t.Fatalf("resolved to %d (%d), want 0 (100)", res.Resolution.Index(), res.Resolution.Confidence())
	}
	if res.ResolvedTitle != "The Matrix" {
		t.Errorf("ResolvedTitle = %q", res.ResolvedTitle)
	}

	titles := res.Titles()
	if len(titles) != 4 {
		t.Fatalf("got %d titles, want 4: %v", len(titles), titles)
	}
	if contains(titles, "The Matrix") {
		t.Error("query item must be excluded from its own recommendations")
	}
	if titles[0] != "The Matrix Reloaded" {
		t.Errorf("top recommendation = %q, want The Matrix Reloaded", titles[0])
	}
	for i := 1; i < len(res.Items); i++ {
		if res.Items[i].Score > res.Items[i-1].Score {
			t.Errorf("scores not descending at %d: %v > %v", i, res.Items[i].Score, res.Items[i-1].Score)
		}
	}
}

func TestRecommend_LimitApplied(t *testing.T) {
	e := newEngine(t, NewSubstringPolicy(2))
	res, _ := e.Recommend(context.Background(), "inception")
	if len(res.Items) != 2 {
		t.Errorf("got %d items, want 2", len(res.Items))
	}
}

func TestRecommend_FuzzyScenario(t *testing.T) {
	e := newEngine(t, NewFuzzyPolicy(24, 60))

	res, err := e.Recommend(context.Background(), "matricks")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Resolution.OK() || res.ResolvedTitle != "The Matrix" {
		t.Fatalf("matricks resolved to %q (%q)", res.ResolvedTitle, res.Resolution.Outcome())
	}
	if res.Resolution.Confidence() < 60 {
		t.Errorf("confidence = %d, want >= 60", res.Resolution.Confidence())
	}
	if contains(res.Titles(), "The Matrix") {
		t.Error("query item must be excluded")
	}

	res, err = e.Recommend(context.Background(), "zzzzxxxx")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Resolution.Outcome() != resolution.NoMatch || len(res.Titles()) != 0 {
		t.Errorf("zzzzxxxx: outcome %q, titles %v", res.Resolution.Outcome(), res.Titles())
	}
}

func TestRecommend_NoMatchUnderBothPolicies(t *testing.T) {
	for _, p := range []Policy{NewSubstringPolicy(0), NewFuzzyPolicy(0, 0)} {
		t.Run(string(p.Name()), func(t *testing.T) {
			e := newEngine(t, p)
			res, err := e.Recommend(context.Background(), "qqqqwwww")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if res.Titles() == nil || len(res.Titles()) != 0 {
				t.Errorf("expected empty non-nil list, got %v", res.Titles())
			}
		})
	}
}

func TestRecommend_EmptyQuery(t *testing.T) {
	for _, p := range []Policy{NewSubstringPolicy(0), NewFuzzyPolicy(0, 0)} {
		e := newEngine(t, p)
		for _, q := range []string{"", "   ", "\t\n"} {
			res, err := e.Recommend(context.Background(), q)
			if err != nil {
				t.Fatalf("%s %q: unexpected error: %v", p.Name(), q, err)
			}
			if res.Resolution.Outcome() != resolution.EmptyQuery || len(res.Items) != 0 {
				t.Errorf("%s %q: outcome %q, %d items", p.Name(), q, res.Resolution.Outcome(), len(res.Items))
			}
		}
	}
}

func TestRecommend_Idempotent(t *testing.T) {
	e := newEngine(t, NewFuzzyPolicy(0, 0))
	first, _ := e.Recommend(context.Background(), "finding nemo")
	second, _ := e.Recommend(context.Background(), "finding nemo")
	if !reflect.DeepEqual(first.Titles(), second.Titles()) {
		t.Errorf("results differ: %v vs %v", first.Titles(), second.Titles())
	}
}

func TestRecommend_ExclusionForEveryItem(t *testing.T) {
	e := newEngine(t, NewSubstringPolicy(10))
	cat := e.Catalog()
	for i := 0; i < cat.Len(); i++ {
		res, _ := e.Recommend(context.Background(), cat.Title(i))
		if res.Resolution.Index() != i {
			t.Fatalf("title %q resolved to %d", cat.Title(i), res.Resolution.Index())
		}
		if contains(res.Titles(), cat.Title(i)) {
			t.Errorf("%q recommends itself", cat.Title(i))
		}
	}
}

func TestRecommend_Concurrent(t *testing.T) {
	e := newEngine(t, NewFuzzyPolicy(0, 0))
	want, _ := e.Recommend(context.Background(), "inception")

	var wg sync.WaitGroup
	errs := make(chan string, 32)
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := e.Recommend(context.Background(), "inception")
			if err != nil || !reflect.DeepEqual(got.Titles(), want.Titles()) {
				errs <- "mismatch"
			}
		}()
	}
	wg.Wait()
	close(errs)
	if len(errs) > 0 {
		t.Errorf("%d concurrent queries diverged", len(errs))
	}
}

func TestRecommend_InternalFault(t *testing.T) {
	e := Build(movieCatalog(), Options{Policy: panicPolicy{}})
	_, err := e.Recommend(context.Background(), "matrix")
	if !errors.Is(err, domain.ErrInternalFault) {
		t.Fatalf("expected ErrInternalFault, got %v", err)
	}
}

func TestRecommend_NilEngine(t *testing.T) {
	var e *Engine
	if _, err := e.Recommend(context.Background(), "x"); !errors.Is(err, domain.ErrEngineNotReady) {
		t.Fatalf("expected ErrEngineNotReady, got %v", err)
	}
}
