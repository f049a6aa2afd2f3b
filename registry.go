package vault

import "fmt"

var _ Registry[any] = &SimpleRegistry[any]{}

// SimpleRegistry is a capacity-bounded, string-keyed index of items. Each
// item gets a stable index at registration, retrievable alongside the key,
// so callers can resolve names once and use indices on hot paths. Used for
// data-driven lookups such as component descriptors by name.
type SimpleRegistry[T any] struct {
	items       []T
	itemIndices map[string]int
	maxCapacity int
}

func (r *SimpleRegistry[T]) GetIndex(key string) (int, bool) {
	index, ok := r.itemIndices[key]
	return index, ok
}

func (r *SimpleRegistry[T]) GetItem(index int) *T {
	return &r.items[index]
}

func (r *SimpleRegistry[T]) GetItem32(index uint32) *T {
	return &r.items[index]
}

func (r *SimpleRegistry[T]) Register(key string, item T) (int, error) {
	if len(r.itemIndices) >= r.maxCapacity {
		return -1, fmt.Errorf("registry at maximum capacity (%d)", r.maxCapacity)
	}
	if idx, exists := r.itemIndices[key]; exists {
		r.items[idx] = item
		return idx, nil
	}

	idx := len(r.items)
	r.itemIndices[key] = idx
	r.items = append(r.items, item)

	return idx, nil
}

func (r *SimpleRegistry[T]) Clear() {
	r.items = r.items[:0]
	r.itemIndices = make(map[string]int)
}
