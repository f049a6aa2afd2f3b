package vault

import (
	"iter"

	"github.com/TheBitDrifter/table"
)

// Config holds global configuration for the table system
var Config config

type config struct {
	tableEvents table.TableEvents
}

// SetTableEvents configures the table event callbacks wired into every new
// archetype's table.
func (c *config) SetTableEvents(te table.TableEvents) {
	c.tableEvents = te
}

type archetypeID uint32

var _ Archetype = &archetype{}

// archetype owns one table of component columns and one BorrowCounter per
// resident component type, created with the archetype and living as long as
// it does. Archetypes are always handled by pointer; copying one would copy
// its counters.
type archetype struct {
	id         archetypeID
	schema     table.Schema
	table      table.Table
	components []Component
	borrows    []BorrowCounter
	rows       map[uint32]int // schema row index -> borrows/components slot
}

func newArchetype(schema table.Schema, entryIndex table.EntryIndex, id archetypeID, components ...Component) (*archetype, error) {
	elementTypes := make([]table.ElementType, len(components))
	for i, comp := range components {
		elementTypes[i] = comp
	}
	tbl, err := table.NewTableBuilder().
		WithSchema(schema).
		WithEntryIndex(entryIndex).
		WithElementTypes(elementTypes...).
		WithEvents(Config.tableEvents).
		Build()
	if err != nil {
		return nil, err
	}
	a := &archetype{
		id:         id,
		schema:     schema,
		table:      tbl,
		components: components,
		borrows:    make([]BorrowCounter, len(components)),
		rows:       make(map[uint32]int, len(components)),
	}
	for i, comp := range components {
		a.rows[schema.RowIndexFor(comp)] = i
	}
	return a, nil
}

func (a *archetype) ID() uint32 {
	return uint32(a.id)
}

func (a *archetype) Table() table.Table {
	return a.table
}

// counterFor returns the BorrowCounter guarding c's column, or nil when the
// archetype has no column for c.
func (a *archetype) counterFor(c Component) *BorrowCounter {
	slot, ok := a.rows[a.schema.RowIndexFor(c)]
	if !ok {
		return nil
	}
	return &a.borrows[slot]
}

// AcquireShared requests a shared grant on c's column. It reports false for
// a denied grant or an absent column.
func (a *archetype) AcquireShared(c Component) bool {
	ctr := a.counterFor(c)
	return ctr != nil && ctr.AcquireShared()
}

// AcquireExclusive requests the exclusive grant on c's column. It reports
// false for a denied grant or an absent column.
func (a *archetype) AcquireExclusive(c Component) bool {
	ctr := a.counterFor(c)
	return ctr != nil && ctr.AcquireExclusive()
}

// ReleaseShared returns a shared grant on c's column.
func (a *archetype) ReleaseShared(c Component) {
	if ctr := a.counterFor(c); ctr != nil {
		ctr.ReleaseShared()
	}
}

// ReleaseExclusive returns the exclusive grant on c's column.
func (a *archetype) ReleaseExclusive(c Component) {
	if ctr := a.counterFor(c); ctr != nil {
		ctr.ReleaseExclusive()
	}
}

// ResidentTypes yields the archetype's component descriptors in registration
// order. The sequence is finite and restartable; ranging over it mutates
// nothing, so repeated calls yield the same descriptors in the same order.
func (a *archetype) ResidentTypes() iter.Seq[table.ElementType] {
	return func(yield func(table.ElementType) bool) {
		for _, c := range a.components {
			if !yield(c) {
				return
			}
		}
	}
}

// grantsOutstanding reports whether any grant of either kind is live on any
// of the archetype's columns. Structural operations consult this before
// growing, transferring, or deleting rows: a column's base address must not
// move while a grant on it is outstanding.
func (a *archetype) grantsOutstanding() bool {
	for i := range a.borrows {
		if a.borrows[i].Outstanding() {
			return true
		}
	}
	return false
}
