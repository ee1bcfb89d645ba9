package sizes

import (
	"cmp"
	"slices"
)

type sized interface {
	bytes() int64
}

func (f FileAggregate) bytes() int64      { return f.Size }
func (d DirectoryAggregate) bytes() int64 { return d.Size }

// rankBySize sorts items by size, largest first, keeping encounter order
// among equal sizes, and keeps at most limit items. A limit of zero or
// less keeps everything.
func rankBySize[T sized](items []T, limit int) []T {
	slices.SortStableFunc(items, func(a, b T) int {
		return cmp.Compare(b.bytes(), a.bytes())
	})

	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}

	return items
}

// orderedIndex remembers the position at which each path was first seen.
type orderedIndex[T any] struct {
	items []T
	pos   map[string]int
}

func newOrderedIndex[T any]() *orderedIndex[T] {
	return &orderedIndex[T]{pos: make(map[string]int)}
}

// get returns a pointer to the item stored for path, or nil.
func (o *orderedIndex[T]) get(path string) *T {
	i, ok := o.pos[path]
	if !ok {
		return nil
	}

	return &o.items[i]
}

func (o *orderedIndex[T]) add(path string, item T) {
	o.pos[path] = len(o.items)
	o.items = append(o.items, item)
}
