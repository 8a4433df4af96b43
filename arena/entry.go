package arena

// Entry is a view into a single slot of a Map, which is either vacant or
// occupied. It is obtained from Map.Entry and is classified once, when it is
// created.
//
// The map must not be modified through other paths while an Entry, or a
// VacantEntry/OccupiedEntry derived from it, is in use.
type Entry[T, V any] struct {
	m        *Map[T, V]
	index    int
	occupied bool
}

// Key returns the index this entry refers to.
func (e Entry[T, V]) Key() Idx[T] {
	return fromIndex[T](e.index)
}

// IsOccupied reports whether the slot held a value when the entry was created.
func (e Entry[T, V]) IsOccupied() bool {
	return e.occupied
}

// Occupied returns the occupied view of the entry, if it is occupied.
func (e Entry[T, V]) Occupied() (OccupiedEntry[T, V], bool) {
	if !e.occupied {
		return OccupiedEntry[T, V]{}, false
	}
	return OccupiedEntry[T, V]{m: e.m, index: e.index}, true
}

// Vacant returns the vacant view of the entry, if it is vacant.
func (e Entry[T, V]) Vacant() (VacantEntry[T, V], bool) {
	if e.occupied {
		return VacantEntry[T, V]{}, false
	}
	return VacantEntry[T, V]{m: e.m, index: e.index}, true
}

// OrInsert stores value if the entry is vacant and returns a pointer to the
// value in the slot.
func (e Entry[T, V]) OrInsert(value V) *V {
	if occupied, ok := e.Occupied(); ok {
		return occupied.IntoMut()
	}
	vacant, _ := e.Vacant()
	return vacant.Insert(value)
}

// OrInsertWith is like OrInsert but only calls fn when the entry is vacant.
func (e Entry[T, V]) OrInsertWith(fn func() V) *V {
	if occupied, ok := e.Occupied(); ok {
		return occupied.IntoMut()
	}
	vacant, _ := e.Vacant()
	return vacant.Insert(fn())
}

// OrDefault stores the zero value of V if the entry is vacant and returns a
// pointer to the value in the slot.
func (e Entry[T, V]) OrDefault() *V {
	var zero V
	return e.OrInsert(zero)
}

// AndModify calls fn on the value if the entry is occupied and returns the
// entry unchanged, so it can be chained with OrInsert and friends.
func (e Entry[T, V]) AndModify(fn func(*V)) Entry[T, V] {
	if occupied, ok := e.Occupied(); ok {
		fn(occupied.GetMut())
	}
	return e
}

// VacantEntry is an entry whose slot holds no value.
type VacantEntry[T, V any] struct {
	m     *Map[T, V]
	index int
}

// Key returns the index this entry refers to.
func (e VacantEntry[T, V]) Key() Idx[T] {
	return fromIndex[T](e.index)
}

// Insert stores value in the slot and returns a pointer to it.
func (e VacantEntry[T, V]) Insert(value V) *V {
	m := e.m
	if !m.filled[e.index] {
		m.filled[e.index] = true
		m.count++
	}
	m.values[e.index] = value
	return &m.values[e.index]
}

// OccupiedEntry is an entry whose slot holds a value.
type OccupiedEntry[T, V any] struct {
	m     *Map[T, V]
	index int
}

// Key returns the index this entry refers to.
func (e OccupiedEntry[T, V]) Key() Idx[T] {
	return fromIndex[T](e.index)
}

// Get returns the value in the slot.
func (e OccupiedEntry[T, V]) Get() V {
	return *e.slot()
}

// GetMut returns a pointer to the value in the slot.
func (e OccupiedEntry[T, V]) GetMut() *V {
	return e.slot()
}

// IntoMut returns a pointer to the value in the slot. The entry should not
// be used afterwards.
func (e OccupiedEntry[T, V]) IntoMut() *V {
	return e.slot()
}

// Insert replaces the value in the slot and returns the old one.
func (e OccupiedEntry[T, V]) Insert(value V) V {
	ptr := e.slot()
	old := *ptr
	*ptr = value
	return old
}

// Remove takes the value out of the slot, leaving it vacant.
func (e OccupiedEntry[T, V]) Remove() V {
	e.slot()
	return e.m.take(e.index)
}

func (e OccupiedEntry[T, V]) slot() *V {
	if e.m == nil || !e.m.filled[e.index] {
		panic("arena: occupied entry has no value at " + e.Key().String())
	}
	return &e.m.values[e.index]
}
