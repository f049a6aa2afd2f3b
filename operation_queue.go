package vault

import (
	"fmt"
)

type operation struct {
	typ      operationType
	amount   int
	comps    []Component
	entities []Entity
	sto      Storage
}

type operationType int

const (
	opCreate operationType = iota
	opDestroy
	opAddComponent
	opRemoveComponent

	// opNone marks an operation cancelled by a later enqueue (e.g. a
	// component op on an entity that was then queued for destruction).
	opNone operationType = -1
)

type opKey struct {
	entity Entity
}

type opQueue struct {
	createOps      []operation
	componentOps   []operation
	destroyOps     []operation
	pendingDestroy map[opKey]struct{}
	pendingMods    map[opKey]int
}

func newOpQueue() opQueue {
	return opQueue{
		pendingDestroy: make(map[opKey]struct{}),
		pendingMods:    make(map[opKey]int),
	}
}

func (q *opQueue) enqueueCreate(amount int, comps []Component) {
	q.createOps = append(q.createOps, operation{
		typ:    opCreate,
		amount: amount,
		comps:  comps,
	})
}

func (q *opQueue) enqueueDestroy(sto Storage, entries []Entity) {
	// Filter out already queued entities
	var newEntities []Entity
	for _, entity := range entries {
		key := opKey{entity: entity}
		if _, exists := q.pendingDestroy[key]; !exists {
			newEntities = append(newEntities, entity)
			q.pendingDestroy[key] = struct{}{}

			// Cancel any pending component operations for this entity
			if idx, hasMods := q.pendingMods[key]; hasMods {
				q.componentOps[idx].typ = opNone
				delete(q.pendingMods, key)
			}
		}
	}

	if len(newEntities) > 0 {
		q.destroyOps = append(q.destroyOps, operation{
			typ:      opDestroy,
			entities: newEntities,
			sto:      sto,
		})
	}
}

func (q *opQueue) enqueueComponentOp(typ operationType, en Entity, comp Component) {
	key := opKey{entity: en}

	// If entity is pending destroy, ignore component operations
	if _, isDestroyed := q.pendingDestroy[key]; isDestroyed {
		return
	}

	// If entity already has a pending component operation, overwrite it
	if existingIdx, exists := q.pendingMods[key]; exists {
		existingOp := &q.componentOps[existingIdx]
		existingOp.comps = []Component{comp}
		existingOp.typ = typ
		return
	}

	q.pendingMods[key] = len(q.componentOps)
	q.componentOps = append(q.componentOps, operation{
		typ:      typ,
		entities: []Entity{en},
		comps:    []Component{comp},
	})
}

// processOperationQueue drains deferred operations after an unlock: creates
// first, then component modifications, then destroys.
func (s *storage) processOperationQueue() error {
	if len(s.opQueue.createOps) == 0 &&
		len(s.opQueue.componentOps) == 0 &&
		len(s.opQueue.destroyOps) == 0 {
		return nil
	}

	for _, op := range s.opQueue.createOps {
		if _, err := s.NewEntities(op.amount, op.comps...); err != nil {
			return fmt.Errorf("failed to process queued entity creation: %w", err)
		}
	}

	for _, op := range s.opQueue.componentOps {
		if op.typ == opNone {
			continue
		}
		entity := op.entities[0]

		// Verify entry hasn't been recycled
		if entity.ID() == 0 {
			continue
		}
		switch op.typ {
		case opAddComponent:
			if err := entity.AddComponent(op.comps[0]); err != nil {
				return fmt.Errorf("failed to add queued component: %w", err)
			}
		case opRemoveComponent:
			if err := entity.RemoveComponent(op.comps[0]); err != nil {
				return fmt.Errorf("failed to remove queued component: %w", err)
			}
		}
	}

	for _, op := range s.opQueue.destroyOps {
		if len(op.entities) > 0 {
			if err := op.sto.DestroyEntities(op.entities...); err != nil {
				return fmt.Errorf("failed to delete queued entries: %w", err)
			}
		}
	}

	s.opQueue.createOps = s.opQueue.createOps[:0]
	s.opQueue.componentOps = s.opQueue.componentOps[:0]
	s.opQueue.destroyOps = s.opQueue.destroyOps[:0]
	clear(s.opQueue.pendingDestroy)
	clear(s.opQueue.pendingMods)
	return nil
}
