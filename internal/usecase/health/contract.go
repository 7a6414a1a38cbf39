package health

import "context"

// EngineChecker reports whether the recommendation engine is built.
type EngineChecker interface {
	Ready() bool
}

// CachePinger checks result cache availability.
type CachePinger interface {
	Ping(ctx context.Context) error
}
