package recommend

import (
	"sort"

	"github.com/kailas-cloud/movierec/internal/domain/similarity"
)

// Ranked is one recommendation candidate.
type Ranked struct {
	Index int
	Score float64
}

// rank orders every item except self by descending similarity to self.
// The sort is stable, so equal scores keep catalog order.
func rank(m *similarity.Matrix, self, limit int) []Ranked {
	row := m.Row(self)

	candidates := make([]Ranked, 0, len(row))
	for j, s := range row {
		if j == self {
			continue
		}
		candidates = append(candidates, Ranked{Index: j, Score: s})
	}

	sort.SliceStable(candidates, func(a, b int) bool {
		return candidates[a].Score > candidates[b].Score
	})

	if len(candidates) > limit {
		candidates = candidates[:limit]
	}
	return candidates
}
