package arena

import (
	"fmt"
	"reflect"
	"strconv"
)

// RawIdx is the untyped position of a value inside an Arena.
type RawIdx uint32

func (r RawIdx) String() string {
	return strconv.FormatUint(uint64(r), 10)
}

// Idx is a typed handle to a value allocated in an Arena[T].
// The type parameter only exists to keep indices of different arenas apart;
// two indices are equal when their raw values are equal.
type Idx[T any] struct {
	raw RawIdx
}

// FromRaw creates a typed index from a raw index
func FromRaw[T any](raw RawIdx) Idx[T] {
	return Idx[T]{raw: raw}
}

// IntoRaw extracts the raw index
func (i Idx[T]) IntoRaw() RawIdx {
	return i.raw
}

func (i Idx[T]) String() string {
	return fmt.Sprintf("Idx::<%s>(%d)", typeName[T](), i.raw)
}

func typeName[T any]() string {
	t := reflect.TypeFor[T]()
	if name := t.Name(); name != "" {
		return name
	}
	return t.String()
}
