package vault

import "github.com/TheBitDrifter/table"

type factory struct{}

var Factory factory

func (f factory) NewStorage(schema table.Schema) Storage {
	return newStorage(schema)
}

func (f factory) NewQuery() Query {
	return newQuery()
}

func (f factory) NewCursor(query QueryNode, storage Storage) *Cursor {
	return newCursor(query, storage)
}

// NewView builds an entity view from an archetype and a slot index. Only
// archetypes produced by this package carry borrow counters; anything else
// yields the empty view.
func (f factory) NewView(a Archetype, index int) EntityRef {
	if arch, ok := a.(*archetype); ok {
		return newView(arch, index)
	}
	return EntityRef{}
}

// NewEmptyView builds a view of an entity with zero components.
func (f factory) NewEmptyView() EntityRef {
	return EntityRef{}
}

func FactoryNewComponent[T any]() AccessibleComponent[T] {
	iden := table.FactoryNewElementType[T]()
	return AccessibleComponent[T]{
		Component: iden,
		Accessor:  table.FactoryNewAccessor[T](iden),
	}
}

func FactoryNewRegistry[T any](cap int) Registry[T] {
	return &SimpleRegistry[T]{
		itemIndices: make(map[string]int),
		maxCapacity: cap,
	}
}
