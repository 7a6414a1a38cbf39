// Package similarity holds the precomputed all-pairs cosine similarity matrix.
package similarity

import (
	"runtime"
	"sync"

	"github.com/kailas-cloud/movierec/internal/domain/vector"
)

// Matrix is a dense symmetric n×n similarity matrix. It is read-only once built.
//
// Diagonal convention: 1.0 for items with a non-zero vector, 0.0 for items
// whose vector is zero (they share no vocabulary term with the corpus).
type Matrix struct {
	n    int
	data []float64
}

// Build computes every pair from unit-normalized vectors. Rows of the upper
// triangle are spread across workers; the lower triangle is mirrored.
func Build(vectors []vector.Sparse) *Matrix {
	n := len(vectors)
	m := &Matrix{n: n, data: make([]float64, n*n)}
	if n == 0 {
		return m
	}

	workers := min(runtime.GOMAXPROCS(0), n)
	rows := make(chan int, n)
	for i := 0; i < n; i++ {
		rows <- i
	}
	close(rows)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range rows {
				m.fillRow(vectors, i)
			}
		}()
	}
	wg.Wait()

	return m
}

// fillRow writes entries (i, j) and (j, i) for j >= i. Each cell is written
// by exactly one worker.
func (m *Matrix) fillRow(vectors []vector.Sparse, i int) {
	vi := vectors[i]
	if vi.IsZero() {
		return
	}
	m.data[i*m.n+i] = 1
	for j := i + 1; j < m.n; j++ {
		s := vector.Dot(vi, vectors[j])
		m.data[i*m.n+j] = s
		m.data[j*m.n+i] = s
	}
}

// Size returns the matrix dimension.
func (m *Matrix) Size() int { return m.n }

// At returns entry (i, j).
func (m *Matrix) At(i, j int) float64 { return m.data[i*m.n+j] }

// Row returns a copy of row i.
func (m *Matrix) Row(i int) []float64 {
	out := make([]float64, m.n)
	copy(out, m.data[i*m.n:(i+1)*m.n])
	return out
}
