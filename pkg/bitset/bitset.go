// Package bitset wraps a compressed roaring bitmap of 32-bit fingerprints
// and the Jaccard distance computed over two such bitmaps.
package bitset

import "github.com/RoaringBitmap/roaring/v2"

// Set is a compressed, sorted set of 32-bit fingerprints.
type Set struct {
	bm *roaring.Bitmap
}

// New returns an empty Set.
func New() *Set {
	return &Set{bm: roaring.New()}
}

// FromSlice builds a Set containing every value in vs.
func FromSlice(vs []uint32) *Set {
	s := New()
	for _, v := range vs {
		s.Add(v)
	}
	return s
}

// Add inserts v into the set.
func (s *Set) Add(v uint32) {
	s.bm.Add(v)
}

// Contains reports whether v is in the set.
func (s *Set) Contains(v uint32) bool {
	return s.bm.Contains(v)
}

// Cardinality returns the number of distinct elements in the set.
func (s *Set) Cardinality() uint64 {
	return s.bm.GetCardinality()
}

// ToSlice returns every element of the set in ascending order.
func (s *Set) ToSlice() []uint32 {
	return s.bm.ToArray()
}

// Iterator returns an iterator over the set's elements in ascending order.
func (s *Set) Iterator() roaring.IntPeekable {
	return s.bm.Iterator()
}

// AndCardinality returns |s ∩ o| without materialising the intersection.
func (s *Set) AndCardinality(o *Set) uint64 {
	return s.bm.AndCardinality(o.bm)
}

// OrCardinality returns |s ∪ o| without materialising the union.
func (s *Set) OrCardinality(o *Set) uint64 {
	return s.bm.OrCardinality(o.bm)
}

// Jaccard returns the Jaccard DISTANCE between two fingerprint sets:
// 1 - |A∩B|/|A∪B|. By convention the distance between two empty sets is 0
// (they are trivially identical), and the distance from any non-empty set
// to the empty set is 1 (no overlap is possible).
func Jaccard(a, b *Set) float64 {
	union := a.OrCardinality(b)
	if union == 0 {
		return 0
	}
	inter := a.AndCardinality(b)
	return 1 - float64(inter)/float64(union)
}
