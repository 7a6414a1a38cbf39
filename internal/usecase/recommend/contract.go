package recommend

import (
	"context"

	"github.com/kailas-cloud/movierec/internal/domain/catalog"
	"github.com/kailas-cloud/movierec/internal/domain/resolution"
)

// Policy maps a raw query to at most one catalog item.
type Policy interface {
	Name() resolution.PolicyName
	Resolve(query string, cat *catalog.Catalog) resolution.Resolution
	// Limit is the maximum number of recommendations returned for a match.
	Limit() int
	// Key identifies the policy together with every parameter that changes
	// its results.
	Key() string
}

// Source loads the catalog once at startup.
type Source interface {
	Load(ctx context.Context) (*catalog.Catalog, error)
}
