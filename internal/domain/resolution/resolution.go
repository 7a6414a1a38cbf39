// Package resolution describes the outcome of mapping a raw query to one catalog item.
package resolution

// Outcome classifies a resolution attempt. EmptyQuery and NoMatch are normal
// results, not failures.
type Outcome string

// Outcome constants.
const (
	Matched    Outcome = "matched"
	EmptyQuery Outcome = "empty_query"
	NoMatch    Outcome = "no_match"
)

// FullConfidence is reported by exact policies.
const FullConfidence = 100

// Resolution is the ephemeral result of resolving one query.
type Resolution struct {
	outcome    Outcome
	index      int
	confidence int
}

// Match creates a resolution pointing at catalog index with a 0-100 confidence.
func Match(index, confidence int) Resolution {
	return Resolution{outcome: Matched, index: index, confidence: confidence}
}

// Empty reports an empty or whitespace-only query.
func Empty() Resolution {
	return Resolution{outcome: EmptyQuery, index: -1}
}

// None reports that no catalog item satisfied the policy.
func None() Resolution {
	return Resolution{outcome: NoMatch, index: -1}
}

// Outcome returns the resolution class.
func (r Resolution) Outcome() Outcome { return r.outcome }

// OK reports whether the query resolved to an item.
func (r Resolution) OK() bool { return r.outcome == Matched }

// Index returns the resolved catalog index, or -1.
func (r Resolution) Index() int { return r.index }

// Confidence returns the 0-100 match confidence (0 unless matched).
func (r Resolution) Confidence() int { return r.confidence }
