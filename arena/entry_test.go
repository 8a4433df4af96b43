package arena_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plus3/arena/arena"
)

func TestEntryClassification(t *testing.T) {
	m := arena.New[Node, string]()
	m.Insert(idx(1), "one")

	e := m.Entry(idx(1))
	assert.True(t, e.IsOccupied())
	assert.Equal(t, idx(1), e.Key())
	_, ok := e.Vacant()
	assert.False(t, ok)

	e = m.Entry(idx(4))
	assert.False(t, e.IsOccupied())
	_, ok = e.Occupied()
	assert.False(t, ok)
	assert.Equal(t, 5, m.SlotLen(), "entry grows the map to cover its index")
	assert.Equal(t, 1, m.Len())
}

func TestEntryOrInsertKeepsFirstValue(t *testing.T) {
	m := arena.New[Node, string]()

	v := m.Entry(idx(2)).OrInsert("v1")
	assert.Equal(t, "v1", *v)

	v = m.Entry(idx(2)).OrInsert("v2")
	assert.Equal(t, "v1", *v)
	assert.Equal(t, "v1", m.At(idx(2)))
}

func TestEntryOrInsertReturnsSlotPointer(t *testing.T) {
	m := arena.New[Node, Visits]()

	*m.Entry(idx(0)).OrInsert(0) += 1
	*m.Entry(idx(0)).OrInsert(0) += 1

	assert.Equal(t, Visits(2), m.At(idx(0)))
}

func TestEntryOrInsertWithIsLazy(t *testing.T) {
	m := arena.New[Node, string]()
	calls := 0
	build := func() string {
		calls++
		return "built"
	}

	assert.Equal(t, "built", *m.Entry(idx(0)).OrInsertWith(build))
	assert.Equal(t, "built", *m.Entry(idx(0)).OrInsertWith(build))
	assert.Equal(t, 1, calls)
}

func TestEntryOrDefault(t *testing.T) {
	m := arena.New[Node, []string]()

	list := m.Entry(idx(3)).OrDefault()
	assert.Nil(t, *list)
	*list = append(*list, "a")

	list = m.Entry(idx(3)).OrDefault()
	*list = append(*list, "b")

	assert.Equal(t, []string{"a", "b"}, m.At(idx(3)))
}

func TestEntryAndModify(t *testing.T) {
	m := arena.New[Node, int]()
	inc := func(v *int) { *v++ }

	v := m.Entry(idx(1)).AndModify(inc).OrInsert(10)
	assert.Equal(t, 10, *v, "vacant entries are not modified")

	v = m.Entry(idx(1)).AndModify(inc).OrInsert(10)
	assert.Equal(t, 11, *v)

	e := m.Entry(idx(1)).AndModify(inc)
	assert.True(t, e.IsOccupied())
	assert.Equal(t, 12, m.At(idx(1)))
}

func TestOccupiedEntry(t *testing.T) {
	m := arena.New[Node, string]()
	m.Insert(idx(0), "old")

	occupied, ok := m.Entry(idx(0)).Occupied()
	require.True(t, ok)
	assert.Equal(t, idx(0), occupied.Key())
	assert.Equal(t, "old", occupied.Get())

	*occupied.GetMut() = "mutated"
	assert.Equal(t, "mutated", m.At(idx(0)))

	prev := occupied.Insert("new")
	assert.Equal(t, "mutated", prev)
	assert.Equal(t, "new", *occupied.IntoMut())
	assert.Equal(t, 1, m.Len())
}

func TestOccupiedEntryRemove(t *testing.T) {
	m := arena.New[Node, string]()
	m.Insert(idx(3), "gone")

	occupied, ok := m.Entry(idx(3)).Occupied()
	require.True(t, ok)
	assert.Equal(t, "gone", occupied.Remove())

	_, ok = m.Get(idx(3))
	assert.False(t, ok)
	assert.False(t, m.Entry(idx(3)).IsOccupied())
	assert.Equal(t, 0, m.Len())
	assert.Equal(t, 4, m.SlotLen())
}

func TestOccupiedEntryPanicsWhenSlotEmptied(t *testing.T) {
	m := arena.New[Node, string]()
	m.Insert(idx(0), "x")

	occupied, ok := m.Entry(idx(0)).Occupied()
	require.True(t, ok)
	occupied.Remove()

	assert.PanicsWithValue(t, "arena: occupied entry has no value at Idx::<Node>(0)", func() {
		occupied.Get()
	})
	assert.Panics(t, func() { occupied.Remove() })

	var zero arena.OccupiedEntry[Node, string]
	assert.Panics(t, func() { zero.Get() })
}

func TestVacantEntryInsert(t *testing.T) {
	m := arena.New[Node, Span]()

	vacant, ok := m.Entry(idx(6)).Vacant()
	require.True(t, ok)
	assert.Equal(t, idx(6), vacant.Key())

	span := vacant.Insert(Span{Start: 1})
	span.End = 4

	assert.Equal(t, Span{Start: 1, End: 4}, m.At(idx(6)))
	assert.Equal(t, 1, m.Len())
	assert.True(t, m.Entry(idx(6)).IsOccupied())
}

func TestEntriesAcrossArenaIndices(t *testing.T) {
	nodes := arena.NewArena[Node]()
	depth := arena.New[Node, int]()

	root := nodes.Alloc(Node{Name: "root"})
	child := nodes.Alloc(Node{Name: "child"})
	grandchild := nodes.Alloc(Node{Name: "grandchild"})

	parents := map[arena.Idx[Node]]arena.Idx[Node]{child: root, grandchild: child}
	for i := range nodes.Iter() {
		d := 0
		for p, ok := parents[i]; ok; p, ok = parents[p] {
			d++
		}
		depth.Entry(i).OrInsert(d)
	}

	assert.Equal(t, 0, depth.At(root))
	assert.Equal(t, 1, depth.At(child))
	assert.Equal(t, 2, depth.At(grandchild))
	assert.Equal(t, nodes.Len(), depth.Len())
}
