package vault

import (
	"testing"

	"github.com/TheBitDrifter/table"
	iter_util "github.com/TheBitDrifter/util/iter"
)

func TestEmptyViewComponentTypes(t *testing.T) {
	views := map[string]EntityRef{
		"zero value":   {},
		"factory made": Factory.NewEmptyView(),
	}
	for name, view := range views {
		if !view.Empty() {
			t.Errorf("%s view is not empty", name)
		}
		if types := iter_util.Collect(view.ComponentTypes()); len(types) != 0 {
			t.Errorf("%s view yields %d component types, want 0", name, len(types))
		}
	}
}

func TestComponentTypesOrderAndRestart(t *testing.T) {
	posComp := FactoryNewComponent[Position]()
	velComp := FactoryNewComponent[Velocity]()
	storage := newTestStorage(t)

	entities, err := storage.NewEntities(1, posComp, velComp)
	if err != nil {
		t.Fatalf("failed to create entities: %v", err)
	}
	view := entities[0].View()

	want := []table.ElementType{posComp.Component, velComp.Component}

	first := iter_util.Collect(view.ComponentTypes())
	if len(first) != len(want) {
		t.Fatalf("yielded %d component types, want %d", len(first), len(want))
	}
	for i := range want {
		if first[i] != want[i] {
			t.Errorf("component type %d out of registration order", i)
		}
	}

	// Breaking out of the sequence early must not affect later runs.
	for range view.ComponentTypes() {
		break
	}

	second := iter_util.Collect(view.ComponentTypes())
	if len(second) != len(first) {
		t.Fatalf("re-invocation yielded %d component types, want %d", len(second), len(first))
	}
	for i := range first {
		if second[i] != first[i] {
			t.Errorf("re-invocation changed component type order at %d", i)
		}
	}
}

func TestViewFromArchetypeFactory(t *testing.T) {
	posComp := FactoryNewComponent[Position]()
	storage := newTestStorage(t)

	arch, err := storage.NewOrExistingArchetype(posComp)
	if err != nil {
		t.Fatalf("failed to create archetype: %v", err)
	}

	view := Factory.NewView(arch, 0)
	if view.Empty() {
		t.Error("view built from an archetype reports empty")
	}
	if types := iter_util.Collect(view.ComponentTypes()); len(types) != 1 {
		t.Errorf("view yields %d component types, want 1", len(types))
	}
}

func TestViewOfDestroyedEntityIsEmpty(t *testing.T) {
	posComp := FactoryNewComponent[Position]()
	storage := newTestStorage(t)

	entities, err := storage.NewEntities(1, posComp)
	if err != nil {
		t.Fatalf("failed to create entities: %v", err)
	}
	if err := storage.DestroyEntities(entities[0]); err != nil {
		t.Fatalf("failed to destroy entity: %v", err)
	}

	stored, err := storage.Entity(1)
	if err != nil {
		t.Fatalf("failed to look up entity slot: %v", err)
	}
	if !stored.View().Empty() {
		t.Error("view of a destroyed entity is not empty")
	}
}
