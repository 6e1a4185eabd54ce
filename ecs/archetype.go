package ecs

import (
	"reflect"
	"slices"
	"weak"

	"github.com/kamstrup/intmap"
)

type byTypeName []reflect.Type

func (a byTypeName) Len() int           { return len(a) }
func (a byTypeName) Swap(i, j int)      { a[i], a[j] = a[j], a[i] }
func (a byTypeName) Less(i, j int) bool { return a[i].String() < a[j].String() }

// Archetype holds every entity sharing one exact component set. Components
// live in parallel columns, one store per type, indexed by the entity's slot.
// The refs map tracks live EntityRefs so deletions and compaction can patch
// them in place.
type Archetype struct {
	id       uint32
	types    []reflect.Type
	storages []componentStore
	refs     *intmap.Map[EntityId, weak.Pointer[EntityRef]]
}

// NewArchetype builds an archetype for the given sorted component types.
// Panics if any type is missing from the registry.
func NewArchetype(id uint32, types []reflect.Type, registry *ComponentRegistry) *Archetype {
	a := &Archetype{
		id:       id,
		types:    types,
		storages: make([]componentStore, len(types)),
		refs:     intmap.New[EntityId, weak.Pointer[EntityRef]](256),
	}

	for i, typ := range types {
		factory := registry.getFactory(typ)
		if factory == nil {
			panic("component type " + typ.String() + " not registered")
		}
		a.storages[i] = factory()
	}

	return a
}

// typeIndex returns the column for compType, or -1.
func (a *Archetype) typeIndex(compType reflect.Type) int {
	for i, typ := range a.types {
		if typ == compType {
			return i
		}
	}
	return -1
}

// Spawn appends the components as a new entity and returns its slot index.
// Every column hands out the same index because they share a free-list
// discipline and are only ever mutated together.
func (a *Archetype) Spawn(components []any) uint32 {
	var slot int
	for _, comp := range components {
		compType := reflect.TypeOf(comp)
		if compType.Kind() == reflect.Ptr {
			compType = compType.Elem()
		}

		if i := a.typeIndex(compType); i >= 0 {
			slot = a.storages[i].Append(comp)
		}
	}

	return uint32(slot)
}

// GetComponent returns a pointer to the entity's component of the given type,
// or nil if the archetype has no such column or the slot is empty.
func (a *Archetype) GetComponent(entityIndex uint32, compType reflect.Type) any {
	i := a.typeIndex(compType)
	if i < 0 {
		return nil
	}
	return a.storages[i].Get(int(entityIndex))
}

// Delete frees the entity's slot in every column. Other slots keep their
// indices. Any EntityRef still pointing at the entity is invalidated.
func (a *Archetype) Delete(entityIndex uint32) {
	entityId := NewEntityId(a.id, entityIndex)

	if weakPtr, ok := a.refs.Get(entityId); ok {
		if ref := weakPtr.Value(); ref != nil {
			ref.Id = 0
			ref.Archetype = nil
		}
		a.refs.Del(entityId)
	}

	for _, store := range a.storages {
		store.Delete(int(entityIndex))
	}
}

// HasComponent reports whether this archetype carries the given type.
func (a *Archetype) HasComponent(compType reflect.Type) bool {
	return slices.Contains(a.types, compType)
}

// ID returns the archetype's identifier.
func (a *Archetype) ID() uint32 {
	return a.id
}

// Types returns the archetype's sorted component types.
func (a *Archetype) Types() []reflect.Type {
	return a.types
}

// Compact squeezes the holes out of every column and re-keys surviving
// EntityRefs to their new slots. Plain EntityIds held elsewhere are NOT
// forwarded; callers that hand out raw ids must not compact underneath them.
func (a *Archetype) Compact() {
	if len(a.storages) == 0 {
		return
	}

	// All columns move identically, so the first column's mapping stands for
	// the whole archetype.
	moved := a.storages[0].Compact()
	for i := 1; i < len(a.storages); i++ {
		a.storages[i].Compact()
	}

	rekeyed := make(map[EntityId]weak.Pointer[EntityRef])
	for oldSlot, newSlot := range moved {
		oldId := NewEntityId(a.id, uint32(oldSlot))
		weakPtr, ok := a.refs.Get(oldId)
		if !ok {
			continue
		}
		if ref := weakPtr.Value(); ref != nil {
			newId := NewEntityId(a.id, uint32(newSlot))
			ref.Id = newId
			rekeyed[newId] = weakPtr
		}
	}

	// Rebuilding from scratch also drops entries whose weak pointer died.
	a.refs.Clear()
	for id, weakPtr := range rekeyed {
		a.refs.Put(id, weakPtr)
	}
}

// Iter yields the EntityId of every live entity in this archetype.
func (a *Archetype) Iter() func(yield func(EntityId) bool) {
	return func(yield func(EntityId) bool) {
		if len(a.storages) == 0 {
			return
		}

		for slot := range a.storages[0].Iter() {
			if !yield(NewEntityId(a.id, uint32(slot))) {
				return
			}
		}
	}
}
