// Package fuzzy scores approximate string similarity on a 0-100 scale.
//
// The primitive scorers come from go-fuzzywuzzy: the indel ratio of the whole
// string, of the sorted tokens and of the token-set split. A per-token
// alignment on the same ratio covers misspelled words inside longer titles.
// The highest of these, each with its own scale factor, is the final score.
package fuzzy

import (
	"math"
	"strings"
	"unicode"

	fuzzywuzzy "github.com/paul-mannino/go-fuzzywuzzy"
)

// Scale factors applied to the secondary scorers.
const (
	tokenScale   = 0.95
	partialScale = 0.90
)

// Score returns the approximate similarity of query and target in [0, 100].
// Either side empty after normalization scores 0.
func Score(query, target string) int {
	q, t := normalize(query), normalize(target)
	if q == "" || t == "" {
		return 0
	}
	if q == t {
		return 100
	}

	best := float64(fuzzywuzzy.Ratio(q, t))
	best = math.Max(best, tokenScale*float64(fuzzywuzzy.TokenSortRatio(q, t)))
	best = math.Max(best, tokenScale*float64(fuzzywuzzy.TokenSetRatio(q, t)))
	best = math.Max(best, partialScale*partialTokenRatio(strings.Fields(q), strings.Fields(t)))

	return int(math.Round(best))
}

// partialTokenRatio averages, over query tokens, the best ratio against any
// target token.
func partialTokenRatio(query, target []string) float64 {
	if len(query) == 0 || len(target) == 0 {
		return 0
	}
	var sum float64
	for _, q := range query {
		best := 0
		for _, t := range target {
			best = max(best, fuzzywuzzy.Ratio(q, t))
		}
		sum += float64(best)
	}
	return sum / float64(len(query))
}

// normalize lowercases, replaces non-alphanumerics with spaces and collapses runs.
func normalize(s string) string {
	mapped := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return unicode.ToLower(r)
		}
		return ' '
	}, s)
	return strings.Join(strings.Fields(mapped), " ")
}
