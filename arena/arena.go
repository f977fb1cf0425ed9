// Package arena provides an append-only store that hands out stable integer
// handles instead of pointers.
package arena

import "github.com/rami3l/blox/debug"

// Arena owns every item pushed into it. Indices returned by Push stay valid
// for the Arena's whole lifetime since nothing is ever removed or moved.
type Arena[T any] struct {
	items []T
}

func New[T any]() *Arena[T] { return &Arena[T]{} }

// Push appends item and returns its index.
func (a *Arena[T]) Push(item T) (idx int) {
	idx = len(a.items)
	a.items = append(a.items, item)
	return
}

func (a *Arena[T]) Get(idx int) T {
	debug.Assertf(0 <= idx && idx < len(a.items), "arena index %d out of bounds (len %d)", idx, len(a.items))
	return a.items[idx]
}

func (a *Arena[T]) Len() int { return len(a.items) }
