package movierec

import "github.com/kailas-cloud/movierec/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrDataSource     = domain.ErrDataSource
	ErrInternalFault  = domain.ErrInternalFault
	ErrEngineNotReady = domain.ErrEngineNotReady
)

// DataSourceError describes a catalog that could not be loaded.
// Use errors.As() to inspect the source and missing columns.
type DataSourceError = domain.DataSourceError
