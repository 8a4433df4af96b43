package arena_test

import "github.com/plus3/arena/arena"

// Common arena element types
type Node struct {
	Name string
}

type Expr struct {
	Op string
}

// Side data attached to nodes
type Span struct {
	Start, End int
}

type Visits int

func idx(raw uint32) arena.Idx[Node] {
	return arena.FromRaw[Node](arena.RawIdx(raw))
}
