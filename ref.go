package vault

// Ref is a shared borrow of one entity's component: a live shared grant on
// the owning archetype's BorrowCounter for the component's column, coupled
// to that entity's slot. The column owns the pointee; the handle owns
// nothing but the grant.
//
// A Ref may be handed to another goroutine and read from several goroutines
// at once. The sole justification is the BorrowCounter invariant: while any
// shared grant is live the exclusive flag cannot be set, so no writer can
// reach the column. Writing through Get breaks that argument; callers must
// treat the pointee as read-only.
//
// Release must be called exactly once, normally deferred at the acquisition
// site. Dropping a Ref without using it is fine as long as it is released.
type Ref[T any] struct {
	counter *BorrowCounter
	target  *T
}

// newRef takes a shared grant and wraps the slot pointer. The column must
// exist; callers route absence through MissingComponentError before getting
// here.
func newRef[T any](c AccessibleComponent[T], a *archetype, index int) (*Ref[T], error) {
	ctr := a.counterFor(c.Component)
	if ctr == nil {
		return nil, MissingComponentError{Component: c.Component}
	}
	if !ctr.AcquireShared() {
		return nil, BorrowConflictError{Component: c.Component}
	}
	return &Ref[T]{counter: ctr, target: c.Get(index, a.table)}, nil
}

// newRefUnchecked is the legacy construction path: the grant outcome is
// discarded and the handle is built regardless. A denied grant here means
// the handle aliases an exclusive borrow, surfacing only as an unbalanced
// release in checked builds. Kept for callers that already serialize access
// to the archetype.
func newRefUnchecked[T any](c AccessibleComponent[T], a *archetype, index int) (*Ref[T], error) {
	ctr := a.counterFor(c.Component)
	if ctr == nil {
		return nil, MissingComponentError{Component: c.Component}
	}
	ctr.AcquireShared()
	return &Ref[T]{counter: ctr, target: c.Get(index, a.table)}, nil
}

// Get returns the component value at the handle's slot. The pointee must
// not be written through a Ref.
func (r *Ref[T]) Get() *T {
	return r.target
}

// Clone returns a second handle to the same slot holding its own
// independent shared grant, released separately from r's.
func (r *Ref[T]) Clone() *Ref[T] {
	ok := r.counter.AcquireShared()
	if borrowChecks && !ok {
		// Unreachable while r's own grant is live.
		panic("vault: clone of released ref")
	}
	return &Ref[T]{counter: r.counter, target: r.target}
}

// Release returns the shared grant. Exactly once per handle.
func (r *Ref[T]) Release() {
	r.counter.ReleaseShared()
}

// RefMut is an exclusive borrow of one entity's component. Structurally a
// Ref, but its grant is the exclusive kind and mutation through Get is
// permitted.
//
// A RefMut may be moved to another goroutine, but never used from two at
// once; the BorrowCounter guarantees no other grant of any kind coexists
// with it, and that guarantee is what makes the single holder's writes safe.
type RefMut[T any] struct {
	counter *BorrowCounter
	target  *T
}

// newRefMut takes the exclusive grant and wraps the slot pointer.
func newRefMut[T any](c AccessibleComponent[T], a *archetype, index int) (*RefMut[T], error) {
	ctr := a.counterFor(c.Component)
	if ctr == nil {
		return nil, MissingComponentError{Component: c.Component}
	}
	if !ctr.AcquireExclusive() {
		return nil, BorrowConflictError{Component: c.Component, Exclusive: true}
	}
	return &RefMut[T]{counter: ctr, target: c.Get(index, a.table)}, nil
}

// newRefMutUnchecked is the legacy construction path for exclusive handles;
// see newRefUnchecked.
func newRefMutUnchecked[T any](c AccessibleComponent[T], a *archetype, index int) (*RefMut[T], error) {
	ctr := a.counterFor(c.Component)
	if ctr == nil {
		return nil, MissingComponentError{Component: c.Component}
	}
	ctr.AcquireExclusive()
	return &RefMut[T]{counter: ctr, target: c.Get(index, a.table)}, nil
}

// Get returns the component value at the handle's slot for reading or
// writing.
func (r *RefMut[T]) Get() *T {
	return r.target
}

// Release returns the exclusive grant. Exactly once per handle.
func (r *RefMut[T]) Release() {
	r.counter.ReleaseExclusive()
}
