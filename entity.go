package vault

import (
	"fmt"

	"github.com/TheBitDrifter/table"
	iter_util "github.com/TheBitDrifter/util/iter"
)

var _ Entity = &entity{}

type entity struct {
	sto *storage
	table.Entry
	pos           int // position in sto.entities; stable for the entity's lifetime
	relationships relationships
}

type relationships struct {
	parent    Entity
	onDestroy EntityDestroyCallback
}

// View returns the borrow-model view of this entity: its owning archetype
// plus its slot. A destroyed or zero entity yields the empty view.
func (e *entity) View() EntityRef {
	if e.Entry == nil || !e.Valid() {
		return EntityRef{}
	}
	arch, ok := e.sto.archetypeFor(e.Table())
	if !ok {
		return EntityRef{}
	}
	return newView(arch, e.Index())
}

func (e *entity) SetParent(parent Entity, callback EntityDestroyCallback) error {
	if e.relationships.parent != nil {
		return EntityRelationError{e, e.relationships.parent}
	}
	e.relationships.parent = parent
	err := parent.SetDestroyCallback(callback)
	if err != nil {
		return err
	}
	return nil
}

func (e *entity) SetDestroyCallback(callback EntityDestroyCallback) error {
	e.relationships.onDestroy = callback
	return nil
}

func (e *entity) AddComponent(c Component) error {
	if e.sto.locked {
		return LockedStorageError{}
	}
	originTable := e.Table()
	if originTable.Contains(c) {
		return ComponentExistsError{Component: c}
	}

	originalComps := iter_util.Collect(originTable.ElementTypes())
	newComps := make([]Component, 0, len(originalComps)+1)
	for _, ogComp := range originalComps {
		newComps = append(newComps, ogComp)
	}
	newComps = append(newComps, c)

	return e.migrate(newComps)
}

func (e *entity) RemoveComponent(c Component) error {
	if e.sto.locked {
		return LockedStorageError{}
	}
	originTable := e.Table()
	if !originTable.Contains(c) {
		return ComponentNotFoundError{Component: c}
	}

	originalComps := iter_util.Collect(originTable.ElementTypes())
	newComps := make([]Component, 0, len(originalComps)-1)
	for _, comp := range originalComps {
		if comp != c {
			newComps = append(newComps, comp)
		}
	}

	return e.migrate(newComps)
}

// migrate moves the entity's row into the archetype for the given component
// set. Both ends must be free of outstanding grants: the transfer deletes
// the row from the origin columns and appends to the destination's.
func (e *entity) migrate(components []Component) error {
	originTable := e.Table()
	if origin, ok := e.sto.archetypeFor(originTable); ok && origin.grantsOutstanding() {
		return GrantsOutstandingError{ArchetypeID: origin.ID()}
	}

	dest, err := e.sto.newOrExistingArchetype(components...)
	if err != nil {
		return fmt.Errorf("failed to get/create archetype: %w", err)
	}
	if dest.grantsOutstanding() {
		return GrantsOutstandingError{ArchetypeID: dest.ID()}
	}

	if err := originTable.TransferEntries(dest.table, e.Index()); err != nil {
		return fmt.Errorf("failed to transfer entity: %w", err)
	}
	return nil
}

func (e *entity) EnqueueAddComponent(c Component) error {
	if !e.sto.locked {
		return e.AddComponent(c)
	}
	e.sto.opQueue.enqueueComponentOp(opAddComponent, e, c)
	return nil
}

func (e *entity) EnqueueRemoveComponent(c Component) error {
	if !e.sto.locked {
		return e.RemoveComponent(c)
	}
	e.sto.opQueue.enqueueComponentOp(opRemoveComponent, e, c)
	return nil
}
