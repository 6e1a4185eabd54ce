package ecs

import (
	"iter"
	"reflect"
	"sort"
	"unsafe"
)

// View matches entities by a component combination described with a struct
// type. Each field of T is a pointer to a component; embedded fields are
// required, named fields may carry an `ecs:"optional"` tag, and an
// `ecs:"exclude"` tag turns the field into a negative filter (archetypes
// holding that component never match, and the field stays nil). A plain
// ecs.EntityId field receives the entity's own id.
type View[T any] struct {
	storage   *Storage
	compTypes []reflect.Type
	optional  []bool
	excluded  []bool
	offsets   []uintptr
	idSlots   []uintptr

	// archetype id for the all-required spawn shape, filled on first Spawn
	spawnShape *uint32
}

// NewView builds a view over the given storage. It panics if T is not a
// struct of component pointers (plus optional EntityId fields).
func NewView[T any](storage *Storage) *View[T] {
	var zero T
	structType := reflect.TypeOf(zero)

	if structType.Kind() != reflect.Struct {
		panic("View type parameter must be a struct")
	}

	v := &View[T]{
		storage:   storage,
		compTypes: make([]reflect.Type, 0, structType.NumField()),
		optional:  make([]bool, 0, structType.NumField()),
		excluded:  make([]bool, 0, structType.NumField()),
		offsets:   make([]uintptr, 0, structType.NumField()),
	}

	for i := 0; i < structType.NumField(); i++ {
		field := structType.Field(i)

		if field.Type == reflect.TypeOf(EntityId(0)) {
			v.idSlots = append(v.idSlots, field.Offset)
			continue
		}

		if field.Type.Kind() != reflect.Ptr {
			panic("View struct fields must be pointer types or ecs.EntityId")
		}

		v.compTypes = append(v.compTypes, field.Type.Elem())
		v.offsets = append(v.offsets, field.Offset)

		// Embedded fields ignore tags and are always required
		isOptional := false
		isExcluded := false
		if !field.Anonymous {
			switch tag := field.Tag.Get("ecs"); tag {
			case "":
			case "optional":
				isOptional = true
			case "exclude":
				isExcluded = true
			default:
				panic("invalid ecs tag value: \"" + tag + "\" (only \"optional\" and \"exclude\" are supported)")
			}
		}
		v.optional = append(v.optional, isOptional)
		v.excluded = append(v.excluded, isExcluded)
	}

	return v
}

func (v *View[T]) writeIds(structPtr unsafe.Pointer, id EntityId) {
	for _, offset := range v.idSlots {
		*(*EntityId)(unsafe.Pointer(uintptr(structPtr) + offset)) = id
	}
}

// Fill populates ptr with the entity's components. It returns false when a
// required component is missing or an excluded one is present; optional
// fields are nilled out instead. Field writes go through precomputed offsets
// to keep reflection off the per-entity path.
func (v *View[T]) Fill(id EntityId, ptr *T) bool {
	archetype, ok := v.storage.archetypes[id.ArchetypeId()]
	if !ok {
		return false
	}

	structPtr := unsafe.Pointer(ptr)
	v.writeIds(structPtr, id)

	for i, compType := range v.compTypes {
		fieldPtr := unsafe.Pointer(uintptr(structPtr) + v.offsets[i])

		if v.excluded[i] {
			if archetype.HasComponent(compType) {
				return false
			}
			*(*unsafe.Pointer)(fieldPtr) = nil
			continue
		}

		component := archetype.GetComponent(id.Index(), compType)
		if component == nil {
			if !v.optional[i] {
				return false
			}
			*(*unsafe.Pointer)(fieldPtr) = nil
			continue
		}

		*(*unsafe.Pointer)(fieldPtr) = (*eface)(unsafe.Pointer(&component)).data
	}

	return true
}

// Get returns a populated view struct, or nil if the entity does not match.
func (v *View[T]) Get(id EntityId) *T {
	var result T
	if !v.Fill(id, &result) {
		return nil
	}
	return &result
}

// GetRef resolves the ref and returns the populated view struct, or nil if
// the ref is dead or the entity does not match.
func (v *View[T]) GetRef(ref *EntityRef) *T {
	id, ok := v.storage.ResolveEntityRef(ref)
	if !ok {
		return nil
	}
	return v.Get(id)
}

func (v *View[T]) matchesArchetype(archetype *Archetype) bool {
	for i, compType := range v.compTypes {
		switch {
		case v.excluded[i]:
			if archetype.HasComponent(compType) {
				return false
			}
		case v.optional[i]:
			// may or may not be present
		case !archetype.HasComponent(compType):
			return false
		}
	}
	return true
}

// columnMap resolves each view field to its column index within the
// archetype, -1 for columns the archetype does not carry.
func (v *View[T]) columnMap(archetype *Archetype) []int {
	columns := make([]int, len(v.compTypes))
	for i, compType := range v.compTypes {
		columns[i] = archetype.typeIndex(compType)
	}
	return columns
}

func (v *View[T]) fillFromColumns(resultPtr unsafe.Pointer, archetype *Archetype, slot int, columns []int) bool {
	v.writeIds(resultPtr, NewEntityId(archetype.id, uint32(slot)))

	for i, column := range columns {
		fieldPtr := unsafe.Pointer(uintptr(resultPtr) + v.offsets[i])

		if column == -1 {
			if v.optional[i] || v.excluded[i] {
				*(*unsafe.Pointer)(fieldPtr) = nil
				continue
			}
			return false
		}

		component := archetype.storages[column].Get(slot)
		if component == nil {
			if v.optional[i] {
				*(*unsafe.Pointer)(fieldPtr) = nil
				continue
			}
			return false
		}

		*(*unsafe.Pointer)(fieldPtr) = (*eface)(unsafe.Pointer(&component)).data
	}
	return true
}

// Iter walks every matching entity, yielding (EntityId, T) pairs. Optional
// fields are nil where absent. The walk re-matches archetypes on every call,
// so spawns and deletes between calls are always visible.
func (v *View[T]) Iter() iter.Seq2[EntityId, T] {
	return func(yield func(EntityId, T) bool) {
		for archetypeId, archetype := range v.storage.archetypes {
			if !v.matchesArchetype(archetype) || len(archetype.storages) == 0 {
				continue
			}

			columns := v.columnMap(archetype)
			occupancy := archetype.storages[0]

			var result T
			resultPtr := unsafe.Pointer(&result)

			for slot := range occupancy.Iter() {
				if !v.fillFromColumns(resultPtr, archetype, slot, columns) {
					continue
				}
				if !yield(NewEntityId(archetypeId, uint32(slot)), result) {
					return
				}
			}
		}
	}
}

// Values iterates the view structs alone, for callers that do not need ids.
func (v *View[T]) Values() iter.Seq[T] {
	return func(yield func(T) bool) {
		for _, value := range v.Iter() {
			if !yield(value) {
				return
			}
		}
	}
}

// Spawn creates an entity from the component values the view struct points
// at. Required fields must be non-nil, excluded fields must be nil, and nil
// optional fields are simply left off the new entity.
func (v *View[T]) Spawn(data T) EntityId {
	structPtr := unsafe.Pointer(&data)

	components := make([]any, 0, len(v.compTypes))
	compTypes := make([]reflect.Type, 0, len(v.compTypes))
	for i, compType := range v.compTypes {
		fieldPtr := unsafe.Pointer(uintptr(structPtr) + v.offsets[i])
		componentPtr := *(*unsafe.Pointer)(fieldPtr)

		if v.excluded[i] {
			if componentPtr != nil {
				panic("excluded component must be nil in View.Spawn")
			}
			continue
		}

		if componentPtr == nil {
			if !v.optional[i] {
				panic("required component is nil in View.Spawn")
			}
			continue
		}

		components = append(components, reflect.NewAt(compType, componentPtr).Elem().Interface())
		compTypes = append(compTypes, compType)
	}

	if len(components) == 0 {
		panic("cannot spawn entity without components")
	}

	// Same canonical type ordering Storage.Spawn applies, so both paths
	// land in the same archetype. Archetype.Spawn matches components by
	// type, so only the type slice needs sorting.
	sort.Sort(byTypeName(compTypes))

	var archetypeId uint32
	allRequired := len(compTypes) == v.requiredCount()
	if v.spawnShape != nil && allRequired {
		archetypeId = *v.spawnShape
	} else {
		archetypeId = hashTypesToUint32(compTypes)
		if allRequired {
			v.spawnShape = &archetypeId
		}
	}

	archetype, exists := v.storage.archetypes[archetypeId]
	if !exists {
		archetype = NewArchetype(archetypeId, compTypes, v.storage.registry)
		v.storage.archetypes[archetypeId] = archetype
	}

	slot := archetype.Spawn(components)
	id := NewEntityId(archetypeId, slot)
	v.storage.noteLive(id)
	return id
}

func (v *View[T]) requiredCount() int {
	count := 0
	for i := range v.compTypes {
		if !v.optional[i] && !v.excluded[i] {
			count++
		}
	}
	return count
}
