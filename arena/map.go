package arena

import (
	"fmt"
	"iter"
	"strings"
)

// Map associates values of type V with indices of an Arena[T].
//
// Values are kept in a slice addressed by the raw index, so lookups and
// inserts never hash. The slice grows to the highest index seen and never
// shrinks: removing a value leaves an empty slot behind. Space is therefore
// proportional to the highest index, not to the number of values.
//
// Pointers handed out by GetMut, AtMut, ValuesMut, IterMut and the entry
// API stay valid until the next Insert or Entry call that grows the map.
//
// The zero value is an empty map ready to use. A Map is not safe for
// concurrent use.
type Map[T, V any] struct {
	values []V
	filled []bool
	count  int
}

// New creates an empty map.
func New[T, V any]() *Map[T, V] {
	return &Map[T, V]{}
}

// WithCapacity creates an empty map with storage reserved for n slots.
func WithCapacity[T, V any](n int) *Map[T, V] {
	return &Map[T, V]{
		values: make([]V, 0, n),
		filled: make([]bool, 0, n),
	}
}

// Insert associates value with idx, replacing any previous value.
func (m *Map[T, V]) Insert(idx Idx[T], value V) {
	index := m.grow(idx)
	if !m.filled[index] {
		m.filled[index] = true
		m.count++
	}
	m.values[index] = value
}

// Get returns the value associated with idx.
func (m *Map[T, V]) Get(idx Idx[T]) (V, bool) {
	index := toIndex(idx)
	if index >= len(m.filled) || !m.filled[index] {
		var zero V
		return zero, false
	}
	return m.values[index], true
}

// GetMut returns a pointer to the value associated with idx, or nil.
func (m *Map[T, V]) GetMut(idx Idx[T]) *V {
	index := toIndex(idx)
	if index >= len(m.filled) || !m.filled[index] {
		return nil
	}
	return &m.values[index]
}

// Contains reports whether a value is associated with idx.
func (m *Map[T, V]) Contains(idx Idx[T]) bool {
	index := toIndex(idx)
	return index < len(m.filled) && m.filled[index]
}

// At returns the value associated with idx.
// It panics if there is none; use Get when absence is expected.
func (m *Map[T, V]) At(idx Idx[T]) V {
	return *m.AtMut(idx)
}

// AtMut returns a pointer to the value associated with idx.
// It panics if there is none; use GetMut when absence is expected.
func (m *Map[T, V]) AtMut(idx Idx[T]) *V {
	index := toIndex(idx)
	if index >= len(m.filled) {
		panic(fmt.Sprintf("arena: index out of range: %s (len %d)", idx, len(m.filled)))
	}
	if !m.filled[index] {
		panic("arena: no value at " + idx.String())
	}
	return &m.values[index]
}

// Remove clears the slot at idx and returns the value it held.
// The slot stays allocated; the map never shrinks.
func (m *Map[T, V]) Remove(idx Idx[T]) (V, bool) {
	index := toIndex(idx)
	if index >= len(m.filled) || !m.filled[index] {
		var zero V
		return zero, false
	}
	return m.take(index), true
}

// Len returns the number of values in the map.
func (m *Map[T, V]) Len() int {
	return m.count
}

// SlotLen returns the length of the backing slice, one past the highest
// index that was ever inserted or passed to Entry.
func (m *Map[T, V]) SlotLen() int {
	return len(m.filled)
}

// Clear removes every value and resets the slot length to zero.
// Reserved storage is kept.
func (m *Map[T, V]) Clear() {
	clear(m.values)
	m.values = m.values[:0]
	m.filled = m.filled[:0]
	m.count = 0
}

// Clone returns a copy of the map. Values are copied by assignment.
func (m *Map[T, V]) Clone() *Map[T, V] {
	return &Map[T, V]{
		values: append([]V(nil), m.values...),
		filled: append([]bool(nil), m.filled...),
		count:  m.count,
	}
}

// Values returns an iterator over the values in ascending index order.
func (m *Map[T, V]) Values() iter.Seq[V] {
	return func(yield func(V) bool) {
		for i, ok := range m.filled {
			if ok && !yield(m.values[i]) {
				return
			}
		}
	}
}

// ValuesMut returns an iterator over pointers to the values in ascending
// index order.
func (m *Map[T, V]) ValuesMut() iter.Seq[*V] {
	return func(yield func(*V) bool) {
		for i, ok := range m.filled {
			if ok && !yield(&m.values[i]) {
				return
			}
		}
	}
}

// Iter returns an iterator over indices and values in ascending index order.
func (m *Map[T, V]) Iter() iter.Seq2[Idx[T], V] {
	return func(yield func(Idx[T], V) bool) {
		for i, ok := range m.filled {
			if ok && !yield(fromIndex[T](i), m.values[i]) {
				return
			}
		}
	}
}

// IterMut is like Iter but yields pointers to the values.
func (m *Map[T, V]) IterMut() iter.Seq2[Idx[T], *V] {
	return func(yield func(Idx[T], *V) bool) {
		for i, ok := range m.filled {
			if ok && !yield(fromIndex[T](i), &m.values[i]) {
				return
			}
		}
	}
}

// Entry returns the slot for idx for in-place manipulation, growing the map
// to cover idx if needed.
func (m *Map[T, V]) Entry(idx Idx[T]) Entry[T, V] {
	index := m.grow(idx)
	return Entry[T, V]{
		m:        m,
		index:    index,
		occupied: m.filled[index],
	}
}

func (m *Map[T, V]) String() string {
	var sb strings.Builder
	sb.WriteByte('{')
	first := true
	for idx, v := range m.Iter() {
		if !first {
			sb.WriteString(", ")
		}
		first = false
		fmt.Fprintf(&sb, "%d: %v", idx.IntoRaw(), v)
	}
	sb.WriteByte('}')
	return sb.String()
}

// Equal reports whether a and b hold equal values at the same indices.
// Trailing empty slots are ignored.
func Equal[T any, V comparable](a, b *Map[T, V]) bool {
	if a.count != b.count {
		return false
	}
	for i, ok := range a.filled {
		if !ok {
			continue
		}
		if i >= len(b.filled) || !b.filled[i] || a.values[i] != b.values[i] {
			return false
		}
	}
	return true
}

// grow extends the backing slices so that idx is addressable and returns
// its slice position.
func (m *Map[T, V]) grow(idx Idx[T]) int {
	index := toIndex(idx)
	if index < len(m.filled) {
		return index
	}

	oldLen := len(m.filled)
	newLen := index + 1
	if newLen <= cap(m.filled) && newLen <= cap(m.values) {
		m.values = m.values[:newLen]
		m.filled = m.filled[:newLen]
		clear(m.values[oldLen:])
		clear(m.filled[oldLen:])
		return index
	}

	m.values = append(m.values, make([]V, newLen-oldLen)...)
	m.filled = append(m.filled, make([]bool, newLen-oldLen)...)
	return index
}

// take empties the slot at index and returns its previous value.
func (m *Map[T, V]) take(index int) V {
	value := m.values[index]
	var zero V
	m.values[index] = zero
	m.filled[index] = false
	m.count--
	return value
}

func toIndex[T any](idx Idx[T]) int {
	return int(idx.IntoRaw())
}

func fromIndex[T any](index int) Idx[T] {
	return FromRaw[T](RawIdx(uint32(index)))
}
