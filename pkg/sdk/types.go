package movierec

// Outcome classifies how a query was resolved.
type Outcome string

// Outcome constants.
const (
	OutcomeMatched    Outcome = "matched"
	OutcomeEmptyQuery Outcome = "empty_query"
	OutcomeNoMatch    Outcome = "no_match"
)

// Recommendation is one recommended title.
type Recommendation struct {
	Title string
	Score float64
}

// Result is the detailed answer to a query.
type Result struct {
	Outcome       Outcome
	ResolvedTitle string // empty unless Outcome is OutcomeMatched
	Confidence    int    // 0..100
	Items         []Recommendation
}

// Titles returns the recommended titles in rank order. Never nil.
func (r Result) Titles() []string {
	out := make([]string, len(r.Items))
	for i, it := range r.Items {
		out[i] = it.Title
	}
	return out
}

// CatalogInfo describes the loaded catalog.
type CatalogInfo struct {
	Items       int
	Vocabulary  int
	Fingerprint string
	Policy      string
}
