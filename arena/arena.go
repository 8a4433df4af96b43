package arena

import (
	"iter"
	"math"
)

const (
	arenaBlockSize = 64
)

// Arena stores values of type T densely and hands out typed indices to them.
// Values are kept in fixed size blocks, so pointers returned by Get and At
// stay valid while further values are allocated.
//
// An Arena is not safe for concurrent use.
type Arena[T any] struct {
	blocks []*[arenaBlockSize]T
	length int
}

// NewArena creates an empty arena.
func NewArena[T any]() *Arena[T] {
	return &Arena[T]{}
}

// NewArenaWithCapacity creates an empty arena with room for at least n values
// before another block has to be allocated.
func NewArenaWithCapacity[T any](n int) *Arena[T] {
	a := &Arena[T]{}
	if n > 0 {
		a.blocks = make([]*[arenaBlockSize]T, 0, (n+arenaBlockSize-1)/arenaBlockSize)
	}
	return a
}

// Alloc appends value to the arena and returns its index.
func (a *Arena[T]) Alloc(value T) Idx[T] {
	if uint64(a.length) > math.MaxUint32 {
		panic("arena: index space exhausted")
	}

	index := a.length
	blockIdx := index / arenaBlockSize
	slotIdx := index % arenaBlockSize

	if blockIdx >= len(a.blocks) {
		a.blocks = append(a.blocks, new([arenaBlockSize]T))
	}

	a.blocks[blockIdx][slotIdx] = value
	a.length++
	return FromRaw[T](RawIdx(index))
}

// NextIdx returns the index the next call to Alloc will return.
func (a *Arena[T]) NextIdx() Idx[T] {
	return FromRaw[T](RawIdx(a.length))
}

// Get returns a pointer to the value at idx, or false if idx was not
// allocated by this arena.
func (a *Arena[T]) Get(idx Idx[T]) (*T, bool) {
	index := int(idx.IntoRaw())
	if index >= a.length {
		return nil, false
	}
	return &a.blocks[index/arenaBlockSize][index%arenaBlockSize], true
}

// At returns a pointer to the value at idx and panics if it is out of range.
func (a *Arena[T]) At(idx Idx[T]) *T {
	ptr, ok := a.Get(idx)
	if !ok {
		panic("arena: index out of range: " + idx.String())
	}
	return ptr
}

// Len returns the number of allocated values.
func (a *Arena[T]) Len() int {
	return a.length
}

// IsEmpty reports whether nothing has been allocated yet.
func (a *Arena[T]) IsEmpty() bool {
	return a.length == 0
}

// Clear drops every value. Indices handed out before are no longer valid.
func (a *Arena[T]) Clear() {
	a.blocks = a.blocks[:0]
	a.length = 0
}

// Iter returns an iterator over all indices and values in allocation order.
func (a *Arena[T]) Iter() iter.Seq2[Idx[T], *T] {
	return func(yield func(Idx[T], *T) bool) {
		for i := 0; i < a.length; i++ {
			if !yield(FromRaw[T](RawIdx(i)), &a.blocks[i/arenaBlockSize][i%arenaBlockSize]) {
				return
			}
		}
	}
}

// Values returns an iterator over all values in allocation order.
func (a *Arena[T]) Values() iter.Seq[*T] {
	return func(yield func(*T) bool) {
		for _, v := range a.Iter() {
			if !yield(v) {
				return
			}
		}
	}
}
