package recommend

import (
	"fmt"
	"strings"

	"github.com/kailas-cloud/movierec/internal/domain/catalog"
	"github.com/kailas-cloud/movierec/internal/domain/fuzzy"
	"github.com/kailas-cloud/movierec/internal/domain/resolution"
)

// Policy defaults.
const (
	DefaultSubstringLimit = 5
	DefaultFuzzyLimit     = 24
	DefaultFuzzyThreshold = 60
)

// normalizeQuery lowercases and trims the raw query.
func normalizeQuery(q string) string {
	return strings.TrimSpace(strings.ToLower(q))
}

// SubstringPolicy resolves to the first title key containing the query.
type SubstringPolicy struct {
	limit int
}

// NewSubstringPolicy creates a substring policy returning up to limit items.
func NewSubstringPolicy(limit int) *SubstringPolicy {
	if limit <= 0 {
		limit = DefaultSubstringLimit
	}
	return &SubstringPolicy{limit: limit}
}

// Name implements Policy.
func (p *SubstringPolicy) Name() resolution.PolicyName { return resolution.Substring }

// Limit implements Policy.
func (p *SubstringPolicy) Limit() int { return p.limit }

// Key implements Policy.
func (p *SubstringPolicy) Key() string { return fmt.Sprintf("%s:k=%d", resolution.Substring, p.limit) }

// Resolve implements Policy.
func (p *SubstringPolicy) Resolve(query string, cat *catalog.Catalog) resolution.Resolution {
	q := normalizeQuery(query)
	if q == "" {
		return resolution.Empty()
	}
	for i := 0; i < cat.Len(); i++ {
		if strings.Contains(cat.TitleKey(i), q) {
			return resolution.Match(i, resolution.FullConfidence)
		}
	}
	return resolution.None()
}

// FuzzyPolicy resolves to the best approximate title match scoring at least threshold.
type FuzzyPolicy struct {
	limit     int
	threshold int
}

// NewFuzzyPolicy creates a fuzzy policy.
func NewFuzzyPolicy(limit, threshold int) *FuzzyPolicy {
	if limit <= 0 {
		limit = DefaultFuzzyLimit
	}
	if threshold <= 0 {
		threshold = DefaultFuzzyThreshold
	}
	return &FuzzyPolicy{limit: limit, threshold: threshold}
}

// Name implements Policy.
func (p *FuzzyPolicy) Name() resolution.PolicyName { return resolution.Fuzzy }

// Limit implements Policy.
func (p *FuzzyPolicy) Limit() int { return p.limit }

// Key implements Policy.
func (p *FuzzyPolicy) Key() string {
	return fmt.Sprintf("%s:k=%d:t=%d", resolution.Fuzzy, p.limit, p.threshold)
}

// Threshold returns the minimum accepted score.
func (p *FuzzyPolicy) Threshold() int { return p.threshold }

// Resolve implements Policy. Equal best scores keep the lowest index, which is
// also the first item carrying the best-scoring title key.
func (p *FuzzyPolicy) Resolve(query string, cat *catalog.Catalog) resolution.Resolution {
	q := normalizeQuery(query)
	if q == "" {
		return resolution.Empty()
	}

	best, bestScore := -1, -1
	scored := make(map[string]int)
	for i := 0; i < cat.Len(); i++ {
		key := cat.TitleKey(i)
		if _, dup := scored[key]; dup {
			continue
		}
		s := fuzzy.Score(q, key)
		scored[key] = s
		if s > bestScore {
			best, bestScore = i, s
		}
	}

	if best < 0 || bestScore < p.threshold {
		return resolution.None()
	}
	return resolution.Match(best, bestScore)
}

// NewPolicy builds the policy selected by name.
func NewPolicy(name resolution.PolicyName, limit, threshold int) (Policy, error) {
	switch name {
	case resolution.Substring, "":
		return NewSubstringPolicy(limit), nil
	case resolution.Fuzzy:
		return NewFuzzyPolicy(limit, threshold), nil
	default:
		return nil, fmt.Errorf("unknown resolution policy %q", name)
	}
}
