package mcp

import (
	"context"
	"errors"
	"strings"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/kailas-cloud/movierec/internal/domain"
	"github.com/kailas-cloud/movierec/internal/domain/catalog"
	"github.com/kailas-cloud/movierec/internal/domain/resolution"
	"github.com/kailas-cloud/movierec/internal/usecase/recommend"
)

// --- Mocks ---

type mockRecommender struct {
	result recommend.Result
	err    error
	query  string
}

func (m *mockRecommender) Recommend(_ context.Context, q string) (recommend.Result, error) {
	m.query = q
	return m.result, m.err
}

func testEngine() *recommend.Engine {
	return recommend.Build(catalog.New([]catalog.Item{
		catalog.NewItem(0, "Heat", "Crime", "Bank robbers and police."),
		catalog.NewItem(1, "Alien", "Horror", "A deadly lifeform in space."),
	}), recommend.Options{})
}

func readRequest(uri string) *mcp.ReadResourceRequest {
	return &mcp.ReadResourceRequest{Params: &mcp.ReadResourceParams{URI: uri}}
}

// --- Tests ---

func TestNewServer(t *testing.T) {
	if _, err := NewServer(&Ports{}); !errors.Is(err, ErrMissingRecommender) {
		t.Fatalf("expected ErrMissingRecommender, got %v", err)
	}
	if _, err := NewServer(&Ports{Recommender: &mockRecommender{}}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestHandleRecommend(t *testing.T) {
	rec := &mockRecommender{result: recommend.Result{
		Resolution:    resolution.Match(3, 88),
		ResolvedTitle: "The Matrix",
		Items:         []recommend.Recommendation{{Title: "The Matrix Reloaded", Score: 0.7}},
	}}
	s, err := NewServer(&Ports{Recommender: rec})
	if err != nil {
		t.Fatal(err)
	}

	_, out, err := s.handleRecommend(context.Background(), nil, RecommendInput{Movie: "matrx"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.query != "matrx" {
		t.Errorf("query = %q", rec.query)
	}
	if out.Outcome != "matched" || out.ResolvedTitle != "The Matrix" || out.Confidence != 88 {
		t.Errorf("output = %+v", out)
	}
	if len(out.Recommendations) != 1 || out.Recommendations[0].Score != 0.7 {
		t.Errorf("recommendations = %+v", out.Recommendations)
	}
}

func TestHandleRecommend_NoMatch(t *testing.T) {
	rec := &mockRecommender{result: recommend.Result{Resolution: resolution.None(), Items: []recommend.Recommendation{}}}
	s, _ := NewServer(&Ports{Recommender: rec})

	_, out, err := s.handleRecommend(context.Background(), nil, RecommendInput{Movie: "zzzz"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Outcome != "no_match" || out.Recommendations == nil || len(out.Recommendations) != 0 {
		t.Errorf("output = %+v", out)
	}
}

func TestHandleRecommend_Fault(t *testing.T) {
	s, _ := NewServer(&Ports{Recommender: &mockRecommender{err: domain.ErrInternalFault}})
	_, _, err := s.handleRecommend(context.Background(), nil, RecommendInput{Movie: "heat"})
	if !errors.Is(err, domain.ErrInternalFault) {
		t.Fatalf("expected ErrInternalFault, got %v", err)
	}
}

func TestCatalogResources(t *testing.T) {
	e := testEngine()
	s, _ := NewServer(&Ports{Recommender: e, Catalog: e})

	res, err := s.handleCatalogResource(context.Background(), readRequest("movierec://catalog"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var info catalogInfo
	if err := json.Unmarshal([]byte(res.Contents[0].Text), &info); err != nil {
		t.Fatal(err)
	}
	if info.Items != 2 || info.Policy != "substring" || info.Fingerprint != e.Catalog().Fingerprint() {
		t.Errorf("info = %+v", info)
	}

	res, err = s.handleTitlesResource(context.Background(), readRequest("movierec://titles"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := res.Contents[0].Text; got != `["Heat","Alien"]` {
		t.Errorf("titles = %s", got)
	}
}

func TestCatalogResources_NoCatalog(t *testing.T) {
	s, _ := NewServer(&Ports{Recommender: &mockRecommender{}})
	res, err := s.handleTitlesResource(context.Background(), readRequest("movierec://titles"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Contents[0].Text != "[]" {
		t.Errorf("titles = %s", res.Contents[0].Text)
	}
	if !strings.HasPrefix(res.Contents[0].URI, uriScheme) {
		t.Errorf("uri = %s", res.Contents[0].URI)
	}
}
