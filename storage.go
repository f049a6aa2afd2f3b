package vault

import (
	"fmt"

	"github.com/TheBitDrifter/mask"
	"github.com/TheBitDrifter/table"
)

var _ Storage = &storage{}

var mainIndex = table.Factory.NewEntryIndex()

type storage struct {
	locked     bool
	schema     table.Schema
	archetypes *archetypes
	opQueue    opQueue
	entities   []*entity
}

type archetypes struct {
	nextID           archetypeID
	asSlice          []*archetype
	idsGroupedByMask map[mask.Mask]archetypeID
	byTable          map[table.Table]*archetype
}

func newStorage(schema table.Schema) Storage {
	archetypes := &archetypes{
		nextID:           1,
		idsGroupedByMask: make(map[mask.Mask]archetypeID),
		byTable:          make(map[table.Table]*archetype),
	}
	storage := &storage{
		archetypes: archetypes,
		schema:     schema,
		opQueue:    newOpQueue(),
	}
	return storage
}

// Entity returns the entity at the 1-based creation position id. Destroyed
// entities leave a zero entity behind, which views as empty.
func (sto *storage) Entity(id int) (Entity, error) {
	if id < 1 || id > len(sto.entities) {
		return nil, fmt.Errorf("no entity with id %d", id)
	}
	return sto.entities[id-1], nil
}

// NewOrExistingArchetype returns the archetype for the given component set,
// creating and registering it on first sight. Lookup is by component mask,
// so component order does not matter.
func (sto *storage) NewOrExistingArchetype(components ...Component) (Archetype, error) {
	return sto.newOrExistingArchetype(components...)
}

func (sto *storage) newOrExistingArchetype(components ...Component) (*archetype, error) {
	var entityMask mask.Mask
	for _, component := range components {
		sto.schema.Register(component)
		bit := sto.schema.RowIndexFor(component)
		entityMask.Mark(bit)
	}
	if id, found := sto.archetypes.idsGroupedByMask[entityMask]; found {
		return sto.archetypes.asSlice[id-1], nil
	}
	created, err := newArchetype(sto.schema, mainIndex, sto.archetypes.nextID, components...)
	if err != nil {
		return nil, err
	}
	sto.archetypes.asSlice = append(sto.archetypes.asSlice, created)
	sto.archetypes.idsGroupedByMask[entityMask] = sto.archetypes.nextID
	sto.archetypes.byTable[created.table] = created
	sto.archetypes.nextID++
	return created, nil
}

// archetypeFor maps an entity's table back to its owning archetype.
func (sto *storage) archetypeFor(tbl table.Table) (*archetype, bool) {
	arch, ok := sto.archetypes.byTable[tbl]
	return arch, ok
}

func (sto *storage) NewEntities(n int, components ...Component) ([]Entity, error) {
	if sto.locked {
		return nil, LockedStorageError{}
	}
	entityArchetype, err := sto.newOrExistingArchetype(components...)
	if err != nil {
		return nil, err
	}
	// Growing the table may move its columns, which is forbidden while any
	// grant on them is live.
	if entityArchetype.grantsOutstanding() {
		return nil, GrantsOutstandingError{ArchetypeID: entityArchetype.ID()}
	}
	entries, err := entityArchetype.table.NewEntries(n)
	if err != nil {
		return nil, err
	}

	entities := make([]Entity, n)
	for i, entry := range entries {
		en := &entity{
			Entry: entry,
			sto:   sto,
			pos:   len(sto.entities),
		}
		sto.entities = append(sto.entities, en)
		entities[i] = en
	}

	return entities, nil
}

func (sto *storage) RowIndexFor(c Component) uint32 {
	return sto.schema.RowIndexFor(c)
}

func (sto *storage) Locked() bool {
	return sto.locked
}

func (sto *storage) Lock() {
	sto.locked = true
}

func (sto *storage) Unlock() {
	sto.locked = false
	err := sto.processOperationQueue()
	if err != nil {
		panic(err)
	}
}

func (s *storage) EnqueueNewEntities(amount int, components ...Component) error {
	if !s.locked {
		_, err := s.NewEntities(amount, components...)
		if err != nil {
			return fmt.Errorf("failed to create entities directly: %w", err)
		}
		return nil
	}

	s.opQueue.enqueueCreate(amount, components)
	return nil
}

func (s *storage) DestroyEntities(entities ...Entity) error {
	if s.locked {
		return LockedStorageError{}
	}
	tableGroups := make(map[table.Table][]int)
	for _, en := range entities {
		if en == nil {
			continue
		}
		if impl, ok := en.(*entity); ok && impl.Entry == nil {
			continue
		}
		tableGroups[en.Table()] = append(tableGroups[en.Table()], int(en.ID()))
	}
	// Deleting rows reshuffles columns; refuse while grants are live on any
	// affected archetype.
	for tbl := range tableGroups {
		if arch, ok := s.archetypeFor(tbl); ok && arch.grantsOutstanding() {
			return GrantsOutstandingError{ArchetypeID: arch.ID()}
		}
	}
	for tbl, ids := range tableGroups {
		_, err := tbl.DeleteEntries(ids...)
		if err != nil {
			return fmt.Errorf("failed to delete entries: %w", err)
		}
	}
	for _, en := range entities {
		impl, ok := en.(*entity)
		if !ok || impl.Entry == nil {
			continue
		}
		if cb := impl.relationships.onDestroy; cb != nil {
			cb(en)
		}
		if impl.pos >= 0 && impl.pos < len(s.entities) {
			s.entities[impl.pos] = &entity{}
		}
	}
	return nil
}

func (s *storage) EnqueueDestroyEntities(entities ...Entity) error {
	if !s.locked {
		return s.DestroyEntities(entities...)
	}

	s.opQueue.enqueueDestroy(s, entities)

	return nil
}
