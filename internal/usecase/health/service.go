package health

import "context"

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates partial failure.
	Degraded Status = "degraded"
	// Unhealthy indicates total failure.
	Unhealthy Status = "error"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
)

// Report aggregates health check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

// Component names used as Report.Checks keys.
const (
	CheckEngine = "engine"
	CheckCache  = "cache"
)

// Service coordinates health checks.
type Service struct {
	engine EngineChecker
	cache  CachePinger
}

// New creates a Service. cache can be nil when caching is disabled.
func New(engine EngineChecker, cache CachePinger) *Service {
	return &Service{engine: engine, cache: cache}
}

// Check runs health checks against all components. A missing engine makes
// the service unhealthy; a failing cache only degrades it, since queries
// still succeed without it.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult)

	engineOK := s.engine != nil && s.engine.Ready()
	if engineOK {
		checks[CheckEngine] = CheckOK
	} else {
		checks[CheckEngine] = CheckError
	}

	if s.cache != nil {
		if err := s.cache.Ping(ctx); err != nil {
			checks[CheckCache] = CheckError
		} else {
			checks[CheckCache] = CheckOK
		}
	}

	status := Healthy
	switch {
	case !engineOK:
		status = Unhealthy
	case checks[CheckCache] == CheckError:
		status = Degraded
	}

	return Report{Status: status, Checks: checks}
}
