package vault

import (
	"iter"

	"github.com/TheBitDrifter/table"
)

// EntityRef is a view of one entity: an optional owning archetype plus the
// entity's slot index. The zero value views an entity that carries no
// components. EntityRef is immutable, freely copyable, and holds no grant
// of its own; grants are taken only when a handle is requested through a
// component descriptor.
type EntityRef struct {
	arch  *archetype
	index int
}

// newView builds a view backed by an archetype and slot. A nil archetype
// yields the empty view; index is meaningless in that case.
func newView(a *archetype, index int) EntityRef {
	return EntityRef{arch: a, index: index}
}

// Empty reports whether the view has no owning archetype.
func (e EntityRef) Empty() bool {
	return e.arch == nil
}

// ComponentTypes yields the descriptors of every component type resident in
// the view's archetype, in registration order, or nothing for the empty
// view. The sequence is restartable: repeated calls yield the same
// descriptors again without mutating any state.
func (e EntityRef) ComponentTypes() iter.Seq[table.ElementType] {
	if e.arch == nil {
		return func(yield func(table.ElementType) bool) {}
	}
	return e.arch.ResidentTypes()
}

// GetFromView takes a shared handle on the component at the view's slot.
// An empty view or an absent column yields MissingComponentError; a denied
// grant yields BorrowConflictError.
func (c AccessibleComponent[T]) GetFromView(view EntityRef) (*Ref[T], error) {
	if view.arch == nil {
		return nil, MissingComponentError{Component: c.Component}
	}
	return newRef(c, view.arch, view.index)
}

// GetMutFromView takes an exclusive handle on the component at the view's
// slot. Failure modes match GetFromView, with the grant denied while any
// other grant on the column is live.
func (c AccessibleComponent[T]) GetMutFromView(view EntityRef) (*RefMut[T], error) {
	if view.arch == nil {
		return nil, MissingComponentError{Component: c.Component}
	}
	return newRefMut(c, view.arch, view.index)
}

// GetFromViewUnchecked is the legacy shared accessor: the grant outcome is
// discarded, so a handle is returned even when the column is exclusively
// borrowed. Only an empty view or absent column fails.
func (c AccessibleComponent[T]) GetFromViewUnchecked(view EntityRef) (*Ref[T], error) {
	if view.arch == nil {
		return nil, MissingComponentError{Component: c.Component}
	}
	return newRefUnchecked(c, view.arch, view.index)
}

// GetMutFromViewUnchecked is the legacy exclusive accessor; see
// GetFromViewUnchecked.
func (c AccessibleComponent[T]) GetMutFromViewUnchecked(view EntityRef) (*RefMut[T], error) {
	if view.arch == nil {
		return nil, MissingComponentError{Component: c.Component}
	}
	return newRefMutUnchecked(c, view.arch, view.index)
}
