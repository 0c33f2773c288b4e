package bitset

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestJaccardBounds(t *testing.T) {
	a := FromSlice([]uint32{1, 2, 3})
	b := FromSlice([]uint32{2, 3, 4})

	j := Jaccard(a, b)
	assert.GreaterOrEqual(t, j, 0.0)
	assert.LessOrEqual(t, j, 1.0)
}

func TestJaccardSelfIsZero(t *testing.T) {
	a := FromSlice([]uint32{1, 2, 3, 100})
	assert.Equal(t, 0.0, Jaccard(a, a))
}

func TestJaccardSymmetric(t *testing.T) {
	a := FromSlice([]uint32{1, 2, 3})
	b := FromSlice([]uint32{4, 5})
	assert.Equal(t, Jaccard(a, b), Jaccard(b, a))
}

func TestJaccardAgainstEmptyIsOne(t *testing.T) {
	a := FromSlice([]uint32{1, 2, 3})
	empty := New()
	assert.Equal(t, 1.0, Jaccard(a, empty))
}

func TestJaccardBothEmptyIsZero(t *testing.T) {
	assert.Equal(t, 0.0, Jaccard(New(), New()))
}

func TestCardinalityAndContains(t *testing.T) {
	s := FromSlice([]uint32{5, 5, 6, 7})
	assert.Equal(t, uint64(3), s.Cardinality())
	assert.True(t, s.Contains(6))
	assert.False(t, s.Contains(42))
}
