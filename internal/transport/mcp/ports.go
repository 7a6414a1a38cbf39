package mcp

import (
	"context"

	"github.com/kailas-cloud/movierec/internal/domain/catalog"
	"github.com/kailas-cloud/movierec/internal/usecase/recommend"
	"github.com/kailas-cloud/movierec/internal/usecase/vectorize"
)

// Recommender answers title queries.
type Recommender interface {
	Recommend(ctx context.Context, query string) (recommend.Result, error)
}

// CatalogReader exposes the built engine state for resources.
type CatalogReader interface {
	Catalog() *catalog.Catalog
	Vocabulary() *vectorize.Vocabulary
	Policy() recommend.Policy
}

// Ports aggregates what the MCP server depends on.
type Ports struct {
	// Recommender serves the recommend tool. Required.
	Recommender Recommender

	// Catalog backs the catalog resources. Optional.
	Catalog CatalogReader
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Recommender == nil {
		return ErrMissingRecommender
	}
	return nil
}
