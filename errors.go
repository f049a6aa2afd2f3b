package vault

import "fmt"

type LockedStorageError struct{}

func (e LockedStorageError) Error() string {
	return "storage is currently locked"
}

type EntityRelationError struct {
	child, parent Entity
}

func (e EntityRelationError) Error() string {
	return fmt.Sprintf("child (%v) already has parent %v", e.child, e.parent)
}

type ComponentExistsError struct {
	Component Component
}

func (e ComponentExistsError) Error() string {
	return fmt.Sprintf("component already exists on entity: %T", e.Component)
}

type ComponentNotFoundError struct {
	Component Component
}

func (e ComponentNotFoundError) Error() string {
	return fmt.Sprintf("component does not exist on entity: %T", e.Component)
}

// MissingComponentError reports a borrow request for a component type the
// view's archetype has no column for. It is a recoverable value, not a
// fatal condition.
type MissingComponentError struct {
	Component Component
}

func (e MissingComponentError) Error() string {
	return fmt.Sprintf("component not present in archetype: %T", e.Component)
}

// BorrowConflictError reports a denied grant: an exclusive grant was
// requested while any grant is outstanding, or a shared grant was requested
// while the exclusive grant is held.
type BorrowConflictError struct {
	Component Component
	Exclusive bool
}

func (e BorrowConflictError) Error() string {
	if e.Exclusive {
		return fmt.Sprintf("component %T is borrowed: exclusive grant denied", e.Component)
	}
	return fmt.Sprintf("component %T is exclusively borrowed: shared grant denied", e.Component)
}

// GrantsOutstandingError reports a structural operation (column growth, row
// transfer, row deletion) refused because grants are live on the archetype.
// Column base addresses must stay stable for the lifetime of every
// outstanding grant.
type GrantsOutstandingError struct {
	ArchetypeID uint32
}

func (e GrantsOutstandingError) Error() string {
	return fmt.Sprintf("archetype %d has outstanding borrow grants", e.ArchetypeID)
}
