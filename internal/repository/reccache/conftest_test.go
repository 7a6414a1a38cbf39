package reccache

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/kailas-cloud/movierec/internal/db"
	"github.com/kailas-cloud/movierec/internal/domain/catalog"
	"github.com/kailas-cloud/movierec/internal/domain/resolution"
	"github.com/kailas-cloud/movierec/internal/usecase/recommend"
)

type mockRecommender struct {
	result recommend.Result
	err    error
	calls  int
}

func (m *mockRecommender) Recommend(_ context.Context, _ string) (recommend.Result, error) {
	m.calls++
	return m.result, m.err
}

// mockKVStore is an in-memory store; getErr/setErr override the behavior.
type mockKVStore struct {
	mu       sync.Mutex
	data     map[string][]byte
	getErr   error
	setErr   error
	getCalls int
	lastTTL  time.Duration
}

func newMockKVStore() *mockKVStore {
	return &mockKVStore{data: make(map[string][]byte)}
}

func (m *mockKVStore) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.getCalls++
	if m.getErr != nil {
		return nil, m.getErr
	}
	v, ok := m.data[key]
	if !ok {
		return nil, db.ErrKeyNotFound
	}
	return v, nil
}

func (m *mockKVStore) SetWithTTL(_ context.Context, key string, value []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.setErr != nil {
		return m.setErr
	}
	m.data[key] = value
	m.lastTTL = ttl
	return nil
}

func matrixResult() recommend.Result {
	return recommend.Result{
		Resolution:    resolution.Match(0, 100),
		ResolvedTitle: "The Matrix",
		Items: []recommend.Recommendation{
			{Title: "The Matrix Reloaded", Score: 0.61},
			{Title: "Inception", Score: 0.12},
		},
	}
}

func newCounter() *prometheus.CounterVec {
	return prometheus.NewCounterVec(prometheus.CounterOpts{Name: "test_cache_total"}, []string{"result"})
}

func newTestCache(t *testing.T, inner *mockRecommender, opts Options) (*CachedRecommender, *mockKVStore) {
	t.Helper()
	ms := newMockKVStore()
	if opts.Namespace == "" {
		opts.Namespace = Namespace("abc123", "substring:k=5:mf=5000:stem=false")
	}
	return New(inner, ms, opts, zap.NewNop()), ms
}

// movieCatalog has six sci-fi-adjacent films so a five-item limit is filled.
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
		catalog.NewItem(5, "Blade Runner", "Science Fiction Thriller",
			"A blade runner hunts machines that look human."),
	})
}
