/*
Package vault provides borrow-checked archetype storage for entities and
components.

Vault stores entities with identical component sets together in archetypes,
one contiguous column per component type, and layers runtime aliasing
enforcement on top: every column is guarded by a lock-free borrow counter
that admits either many shared readers or a single exclusive writer. Scoped
handles (Ref and RefMut) couple a counter grant to one entity's slot in a
column, so access that the type system cannot police statically is
adjudicated at run time instead.

Core Concepts:

  - Entity: A unique identifier that represents one row across an archetype's columns.
  - Component: A data container that defines entity attributes.
  - Archetype: A collection of entities sharing the same component types, and the owner of their borrow counters.
  - EntityRef: A grant-free view of one entity, the factory for Ref/RefMut handles.
  - Ref / RefMut: Shared and exclusive handles to one component value; releasing returns the grant.

Basic Usage:

	// Create storage with schema
	schema := table.Factory.NewSchema()
	storage := vault.Factory.NewStorage(schema)

	// Define components
	position := vault.FactoryNewComponent[Position]()
	velocity := vault.FactoryNewComponent[Velocity]()

	// Create entities
	entities, _ := storage.NewEntities(100, position, velocity)

	// Borrow one entity's position for reading
	view := entities[0].View()
	ref, err := position.GetFromView(view)
	if err != nil {
		// absent column or conflicting exclusive grant
	}
	defer ref.Release()
	fmt.Println(ref.Get().X)

Grant granularity is per (archetype, component type), not per entity: two
entities in the same archetype contend on the same counter when the same
component type is requested. Release is the caller's responsibility and must
happen exactly once per handle; build with -tags unsafe to compile out the
release-time consistency checks.
*/
package vault
