package arena

import "github.com/RoaringBitmap/roaring/v2"

// Indices returns the raw indices that currently hold a value.
// The bitmap is a snapshot; later changes to the map are not reflected.
func (m *Map[T, V]) Indices() *roaring.Bitmap {
	bm := roaring.New()
	start := -1
	for i, ok := range m.filled {
		switch {
		case ok && start < 0:
			start = i
		case !ok && start >= 0:
			bm.AddRange(uint64(start), uint64(i))
			start = -1
		}
	}
	if start >= 0 {
		bm.AddRange(uint64(start), uint64(len(m.filled)))
	}
	return bm
}

// RetainIndices removes every value whose raw index is not in keep.
func (m *Map[T, V]) RetainIndices(keep *roaring.Bitmap) {
	for i, ok := range m.filled {
		if ok && !keep.Contains(uint32(i)) {
			m.take(i)
		}
	}
}
