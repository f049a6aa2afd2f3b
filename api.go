package vault

import (
	"iter"

	"github.com/TheBitDrifter/table"
)

type Storage interface {
	Entity(id int) (Entity, error)
	NewEntities(int, ...Component) ([]Entity, error)
	NewOrExistingArchetype(...Component) (Archetype, error)
	EnqueueNewEntities(int, ...Component) error
	DestroyEntities(...Entity) error
	EnqueueDestroyEntities(...Entity) error
	RowIndexFor(Component) uint32
	Locked() bool
	Lock()
	Unlock()
}

type EntityDestroyCallback func(Entity)

type Entity interface {
	table.Entry
	View() EntityRef
	SetParent(parent Entity, callback EntityDestroyCallback) error
	SetDestroyCallback(EntityDestroyCallback) error
	AddComponent(Component) error
	RemoveComponent(Component) error
	EnqueueAddComponent(Component) error
	EnqueueRemoveComponent(Component) error
}

// Archetype is the owning group of the borrow model: it owns the component
// columns and one BorrowCounter per resident component type. The grant
// methods delegate to that type's counter; acquires report the grant
// outcome and never block.
type Archetype interface {
	ID() uint32
	Table() table.Table
	AcquireShared(Component) bool
	AcquireExclusive(Component) bool
	ReleaseShared(Component)
	ReleaseExclusive(Component)
	ResidentTypes() iter.Seq[table.ElementType]
}

type Query interface {
	QueryNode
	And(items ...interface{}) QueryNode
	Or(items ...interface{}) QueryNode
	Not(items ...interface{}) QueryNode
}

type QueryNode interface {
	Evaluate(archetype Archetype, storage Storage) bool
}

type iCursor interface {
	Entities() iter.Seq2[int, table.Table]
	Next() bool
}

type Registry[T any] interface {
	GetIndex(string) (int, bool)
	GetItem(int) *T
	GetItem32(uint32) *T
	Register(string, T) (int, error)
}
