package index

import "slices"

// flatIndex is an exact nearest-neighbor index over fixed-dimension vectors.
// Search is brute force over every stored vector, which is fine at the scale
// of a single document's chunk set.
type flatIndex struct {
	dim     int
	vectors [][]float32
}

// neighbor is one search hit: the position of a stored vector and its
// squared L2 distance to the query.
type neighbor struct {
	pos      int
	distance float32
}

func newFlatIndex(dim int) *flatIndex {
	return &flatIndex{dim: dim}
}

// size returns the number of stored vectors.
func (f *flatIndex) size() int {
	return len(f.vectors)
}

// add appends a vector. The caller guarantees the dimension matches.
func (f *flatIndex) add(vector []float32) {
	f.vectors = append(f.vectors, vector)
}

// search returns the k stored vectors closest to query, ordered by
// non-decreasing distance. k is clamped to [1, size].
func (f *flatIndex) search(query []float32, k int) []neighbor {
	if len(f.vectors) == 0 {
		return nil
	}
	if k < 1 {
		k = 1
	}
	if k > len(f.vectors) {
		k = len(f.vectors)
	}

	hits := make([]neighbor, len(f.vectors))
	for i, v := range f.vectors {
		hits[i] = neighbor{pos: i, distance: l2Squared(query, v)}
	}

	slices.SortStableFunc(hits, func(a, b neighbor) int {
		if a.distance < b.distance {
			return -1
		}
		if a.distance > b.distance {
			return 1
		}
		return 0
	})

	return hits[:k]
}

// l2Squared computes squared Euclidean distance. Squared distance preserves
// the ranking of true L2, so the square root is never taken.
func l2Squared(a, b []float32) float32 {
	var sum float32
	minLen := len(a)
	if len(b) < minLen {
		minLen = len(b)
	}
	for i := 0; i < minLen; i++ {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}
