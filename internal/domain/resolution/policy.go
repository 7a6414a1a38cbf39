package resolution

// PolicyName selects a query resolution strategy.
type PolicyName string

// Policy name constants.
const (
	// Substring resolves to the first title containing the query.
	Substring PolicyName = "substring"
	// Fuzzy resolves to the best approximate title match above a threshold.
	Fuzzy PolicyName = "fuzzy"
)

// IsValid checks if the name is one of the supported policies.
func (p PolicyName) IsValid() bool {
	return p == Substring || p == Fuzzy
}
