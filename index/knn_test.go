package index

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlatIndexSearch(t *testing.T) {
	idx := newFlatIndex(2)
	idx.add([]float32{0, 0})
	idx.add([]float32{1, 0})
	idx.add([]float32{0, 3})
	idx.add([]float32{5, 5})

	t.Run("orders by ascending distance", func(t *testing.T) {
		hits := idx.search([]float32{0, 0}, 4)
		require.Len(t, hits, 4)
		assert.Equal(t, []int{0, 1, 2, 3}, positions(hits))
		for i := 1; i < len(hits); i++ {
			assert.GreaterOrEqual(t, hits[i].distance, hits[i-1].distance)
		}
	})

	t.Run("clamps k above size", func(t *testing.T) {
		hits := idx.search([]float32{0, 0}, 100)
		assert.Len(t, hits, 4)
	})

	t.Run("clamps k below one", func(t *testing.T) {
		hits := idx.search([]float32{0, 0}, 0)
		require.Len(t, hits, 1)
		assert.Equal(t, 0, hits[0].pos)
	})

	t.Run("empty index returns nothing", func(t *testing.T) {
		empty := newFlatIndex(2)
		assert.Nil(t, empty.search([]float32{1, 1}, 3))
	})

	t.Run("exact match wins", func(t *testing.T) {
		hits := idx.search([]float32{5, 5}, 1)
		require.Len(t, hits, 1)
		assert.Equal(t, 3, hits[0].pos)
		assert.Zero(t, hits[0].distance)
	})
}

func TestL2Squared(t *testing.T) {
	assert.Equal(t, float32(0), l2Squared([]float32{1, 2}, []float32{1, 2}))
	assert.Equal(t, float32(25), l2Squared([]float32{0, 0}, []float32{3, 4}))
	// mismatched lengths compare the shared prefix
	assert.Equal(t, float32(1), l2Squared([]float32{0}, []float32{1, 9}))
}

func positions(hits []neighbor) []int {
	out := make([]int, len(hits))
	for i, h := range hits {
		out[i] = h.pos
	}
	return out
}
