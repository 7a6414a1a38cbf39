// Package vector implements sparse non-negative term-weight vectors.
package vector

import (
	"math"
	"sort"
)

// Sparse is a sparse vector over vocabulary term indexes, stored sorted by index.
type Sparse struct {
	indices []int
	values  []float64
}

// FromMap builds a sparse vector from index→weight pairs. Zero weights are dropped.
func FromMap(weights map[int]float64) Sparse {
	indices := make([]int, 0, len(weights))
	for idx, w := range weights {
		if w != 0 {
			indices = append(indices, idx)
		}
	}
	sort.Ints(indices)

	values := make([]float64, len(indices))
	for i, idx := range indices {
		values[i] = weights[idx]
	}
	return Sparse{indices: indices, values: values}
}

// NNZ returns the number of non-zero entries.
func (v Sparse) NNZ() int { return len(v.indices) }

// IsZero reports whether the vector has no non-zero entries.
func (v Sparse) IsZero() bool { return len(v.indices) == 0 }

// Get returns the weight at term index idx.
func (v Sparse) Get(idx int) float64 {
	i := sort.SearchInts(v.indices, idx)
	if i < len(v.indices) && v.indices[i] == idx {
		return v.values[i]
	}
	return 0
}

// Norm returns the Euclidean length.
func (v Sparse) Norm() float64 {
	var sum float64
	for _, x := range v.values {
		sum += x * x
	}
	return math.Sqrt(sum)
}

// Normalize returns a unit-length copy. A zero vector stays zero.
func (v Sparse) Normalize() Sparse {
	n := v.Norm()
	if n == 0 {
		return Sparse{}
	}
	values := make([]float64, len(v.values))
	for i, x := range v.values {
		values[i] = x / n
	}
	indices := make([]int, len(v.indices))
	copy(indices, v.indices)
	return Sparse{indices: indices, values: values}
}

// Dot returns the inner product of a and b.
func Dot(a, b Sparse) float64 {
	var sum float64
	i, j := 0, 0
	for i < len(a.indices) && j < len(b.indices) {
		switch {
		case a.indices[i] == b.indices[j]:
			sum += a.values[i] * b.values[j]
			i++
			j++
		case a.indices[i] < b.indices[j]:
			i++
		default:
			j++
		}
	}
	return sum
}
