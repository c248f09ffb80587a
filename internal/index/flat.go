// Package index implements the exact nearest-neighbor index over question
// embeddings. The corpus is small, so a brute-force flat scan with squared
// L2 distance is both sufficient and exact; there is no approximation.
package index

import (
	"errors"
	"fmt"
	"sort"
)

var ErrDimensionMismatch = errors.New("vector dimension mismatch")

// Flat is a flat squared-L2 index. It is immutable after Build or Load and
// safe for concurrent searches.
type Flat struct {
	dim     int
	vectors [][]float32
}

// Build creates an index over the given vectors. All vectors must share one
// dimension. Positions in the index follow the input order.
func Build(vectors [][]float32) (*Flat, error) {
	if len(vectors) == 0 {
		return nil, errors.New("no vectors to index")
	}
	dim := len(vectors[0])
	if dim == 0 {
		return nil, errors.New("zero-dimension vectors")
	}
	for i, v := range vectors {
		if len(v) != dim {
			return nil, fmt.Errorf("vector %d: %w", i, ErrDimensionMismatch)
		}
	}
	return &Flat{dim: dim, vectors: vectors}, nil
}

// Len returns the number of indexed vectors.
func (f *Flat) Len() int { return len(f.vectors) }

// Dimension returns the dimensionality of indexed vectors.
func (f *Flat) Dimension() int { return f.dim }

// Search returns the k nearest positions to query by squared L2 distance,
// ordered ascending. Fewer than k results are returned when the index holds
// fewer vectors.
func (f *Flat) Search(query []float32, k int) ([]float32, []int, error) {
	if len(query) != f.dim {
		return nil, nil, ErrDimensionMismatch
	}
	if k <= 0 {
		k = 1
	}
	type hit struct {
		pos  int
		dist float32
	}
	hits := make([]hit, len(f.vectors))
	for i, v := range f.vectors {
		hits[i] = hit{pos: i, dist: sqL2(query, v)}
	}
	sort.Slice(hits, func(i, j int) bool {
		if hits[i].dist == hits[j].dist {
			return hits[i].pos < hits[j].pos
		}
		return hits[i].dist < hits[j].dist
	})
	if k > len(hits) {
		k = len(hits)
	}
	dists := make([]float32, k)
	positions := make([]int, k)
	for i := 0; i < k; i++ {
		dists[i] = hits[i].dist
		positions[i] = hits[i].pos
	}
	return dists, positions, nil
}

func sqL2(a, b []float32) float32 {
	var sum float32
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}
