package vault

import (
	"iter"

	"github.com/TheBitDrifter/table"
)

var _ iCursor = &Cursor{}

// Cursor iterates the entities of every archetype matched by a query. The
// storage is locked for the duration of the iteration so no structural
// change can move columns underneath it; Reset (reached automatically on
// exhaustion) unlocks and drains the storage's deferred operations.
type Cursor struct {
	query   QueryNode
	storage Storage

	// Current iteration state. entityIndex is 1-based while iterating;
	// the slot under the cursor is entityIndex-1.
	current     *archetype
	archIndex   int
	entityIndex int
	remaining   int

	initialized bool
	matched     []*archetype
}

func newCursor(query QueryNode, storage Storage) *Cursor {
	return &Cursor{
		query:   query,
		storage: storage,
	}
}

func (c *Cursor) Next() bool {
	if c.entityIndex < c.remaining {
		c.entityIndex++
		return true
	}
	if !c.initialized {
		c.initialize()
	}
	for c.archIndex < len(c.matched) {
		c.current = c.matched[c.archIndex]
		c.remaining = c.current.table.Length()

		if c.entityIndex < c.remaining {
			c.entityIndex++
			return true
		}
		c.archIndex++
		c.entityIndex = 0
	}
	c.Reset()
	return false
}

// CurrentView returns the borrow-model view of the entity under the cursor,
// from which Ref/RefMut handles can be taken mid-iteration.
func (c *Cursor) CurrentView() EntityRef {
	if c.current == nil {
		return EntityRef{}
	}
	return newView(c.current, c.entityIndex-1)
}

func (c *Cursor) Entities() iter.Seq2[int, table.Table] {
	return func(yield func(int, table.Table) bool) {
		if !c.initialized {
			c.initialize()
		}

		for c.archIndex < len(c.matched) {
			c.current = c.matched[c.archIndex]
			c.remaining = c.current.table.Length()

			for c.entityIndex < c.remaining {
				if !yield(c.entityIndex, c.current.table) {
					c.Reset()
					return
				}
				c.entityIndex++
			}
			c.entityIndex = 0
			c.archIndex++
		}
		c.Reset()
	}
}

func (c *Cursor) initialize() {
	c.storage.Lock()
	c.matched = c.matched[:0]

	for _, arch := range c.storage.(*storage).archetypes.asSlice {
		if c.query.Evaluate(arch, c.storage) {
			c.matched = append(c.matched, arch)
		}
	}
	if len(c.matched) > 0 {
		c.archIndex = 0
		c.current = c.matched[0]
		c.remaining = c.current.table.Length()
	}
	c.initialized = true
}

func (c *Cursor) Reset() {
	c.archIndex = 0
	c.entityIndex = 0
	c.remaining = 0
	c.current = nil
	c.matched = nil
	c.initialized = false
	c.storage.Unlock()
}

func (c *Cursor) CurrentEntity() (int, table.Table) {
	return c.entityIndex, c.current.table
}

func (c *Cursor) RemainingInArchetype() int {
	return c.remaining - c.entityIndex
}

// TotalMatched counts entities in matching archetypes without starting an
// iteration, so it neither locks nor unlocks the storage.
func (c *Cursor) TotalMatched() int {
	total := 0
	for _, arch := range c.storage.(*storage).archetypes.asSlice {
		if c.query.Evaluate(arch, c.storage) {
			total += arch.table.Length()
		}
	}
	return total
}
