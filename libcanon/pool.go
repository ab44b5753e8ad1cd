package libcanon

import "sync"

// Transient buffer pools, scoped to one canonization call each.
var (
	int32SlicePool = sync.Pool{
		New: func() any { return &[]int32{} },
	}
	wordSlicePool = sync.Pool{
		New: func() any { return &[]uint64{} },
	}
)

// getInt32Slice returns a zeroed slice of the given length and the func that returns it to the pool.
// The caller must call the release func exactly once (typically with defer).
func getInt32Slice(size int) ([]int32, func()) {
	ptr, _ := int32SlicePool.Get().(*[]int32)
	slice := *ptr

	if cap(slice) < size {
		slice = make([]int32, size)
	} else {
		slice = slice[:size]
		for i := range slice {
			slice[i] = 0
		}
	}
	*ptr = slice

	return slice, func() { int32SlicePool.Put(ptr) }
}

// getWordSlice is getInt32Slice for oracle workspace words.
func getWordSlice(size int) ([]uint64, func()) {
	ptr, _ := wordSlicePool.Get().(*[]uint64)
	slice := *ptr

	if cap(slice) < size {
		slice = make([]uint64, size)
	} else {
		slice = slice[:size]
		for i := range slice {
			slice[i] = 0
		}
	}
	*ptr = slice

	return slice, func() { wordSlicePool.Put(ptr) }
}
