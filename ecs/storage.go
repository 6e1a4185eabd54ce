package ecs

import (
	"reflect"
	"sort"
	"unsafe"
	"weak"
)

// Storage is the main ECS storage interface
type Storage struct {
	archetypes map[uint32]*Archetype
	registry   *ComponentRegistry
	singletons map[reflect.Type]*singletonEntry

	// moved forwards stale entity ids across structural moves: old id -> new
	// id, with 0 marking a destroyed entity. Entries are cleared when a slot
	// is reoccupied, so the table stays bounded by the number of free slots.
	moved map[EntityId]EntityId
}

// NewStorage creates a new ECS storage system with the given component registry
func NewStorage(registry *ComponentRegistry) *Storage {
	return &Storage{
		archetypes: make(map[uint32]*Archetype),
		registry:   registry,
		singletons: make(map[reflect.Type]*singletonEntry),
		moved:      make(map[EntityId]EntityId),
	}
}

func (s *Storage) noteMoved(old, current EntityId) {
	s.moved[old] = current
	delete(s.moved, current)
}

func (s *Storage) noteDeleted(id EntityId) {
	s.moved[id] = 0
}

func (s *Storage) noteLive(id EntityId) {
	delete(s.moved, id)
}

// Locate follows structural moves to an entity's current id. Returns false if
// the entity has been destroyed. Ids never recorded in the forwarding table
// resolve to themselves.
func (s *Storage) Locate(id EntityId) (EntityId, bool) {
	for hops := 0; ; hops++ {
		next, ok := s.moved[id]
		if !ok {
			return id, true
		}
		if next == 0 {
			return 0, false
		}
		id = next
		if hops > len(s.moved) {
			return id, true
		}
	}
}

// singletonEntry holds a singleton component outside any archetype.
// dataPtr stays stable for the lifetime of the storage.
type singletonEntry struct {
	dataPtr unsafe.Pointer
	value   any
}

// AddSingleton stores a single component instance that is not associated with
// any entity. A later AddSingleton with the same type overwrites the value but
// keeps the existing pointer, so cached Singleton accessors stay valid.
func (s *Storage) AddSingleton(component any) {
	v := reflect.ValueOf(component)
	t := v.Type()
	if t.Kind() == reflect.Ptr {
		v = v.Elem()
		t = t.Elem()
	}

	if entry, ok := s.singletons[t]; ok {
		reflect.NewAt(t, entry.dataPtr).Elem().Set(v)
		return
	}

	boxed := reflect.New(t)
	boxed.Elem().Set(v)
	s.singletons[t] = &singletonEntry{
		dataPtr: boxed.UnsafePointer(),
		value:   boxed.Interface(),
	}
}

func (s *Storage) getSingletonEntry(t reflect.Type) *singletonEntry {
	return s.singletons[t]
}

// ReadSingleton fills out, which must be a pointer to a pointer to the
// singleton type (e.g. **Config), with the stored singleton. Returns false
// and leaves out untouched when no singleton of that type exists.
func (s *Storage) ReadSingleton(out any) bool {
	v := reflect.ValueOf(out)
	if v.Kind() != reflect.Ptr || v.Elem().Kind() != reflect.Ptr {
		panic("ReadSingleton requires a pointer to a pointer")
	}

	t := v.Elem().Type().Elem()
	entry, ok := s.singletons[t]
	if !ok {
		return false
	}

	v.Elem().Set(reflect.NewAt(t, entry.dataPtr))
	return true
}

func (s *Storage) CreateEntityRef(id EntityId) *EntityRef {
	current, alive := s.Locate(id)
	if !alive {
		return nil
	}
	id = current

	archetype := s.archetypes[id.ArchetypeId()]
	if archetype == nil {
		return nil
	}

	// Check if we already have a ref for this entity
	if weakPtr, ok := archetype.refs.Get(id); ok {
		if ref := weakPtr.Value(); ref != nil {
			return ref
		}
		// Weak pointer is dead, remove it
		archetype.refs.Del(id)
	}

	// Create new EntityRef
	ref := &EntityRef{
		Id:        id,
		Archetype: archetype,
	}

	// Store weak pointer in archetype
	weakPtr := weak.Make(ref)
	archetype.refs.Put(id, weakPtr)

	return ref
}

func (s *Storage) ResolveEntityRef(ref *EntityRef) (EntityId, bool) {
	if ref == nil {
		return 0, false
	}
	// Check if the ref has been invalidated (Id == 0 means deleted)
	if ref.Id == 0 {
		return 0, false
	}
	return ref.Id, true
}

func (s *Storage) InvalidateEntityRef(ref *EntityRef) bool {
	if ref == nil || ref.Id == 0 {
		return false
	}

	// Mark the ref as deleted
	archetype := s.archetypes[ref.Id.ArchetypeId()]
	if archetype != nil {
		archetype.refs.Del(ref.Id)
	}

	ref.Id = 0
	ref.Archetype = nil
	return true
}

// GetArchetype returns an archetype storage (if one exists)
func (s *Storage) GetArchetype(components ...any) *Archetype {
	types := extractComponentTypes(components)
	archetypeId := hashTypesToUint32(types)
	return s.archetypes[archetypeId]
}

// GetArchetypeByTypes returns an archetype storage (if one exists) based on reflect.Type
func (s *Storage) GetArchetypeByTypes(types []reflect.Type) *Archetype {
	sort.Sort(byTypeName(types))
	archetypeId := hashTypesToUint32(types)
	return s.archetypes[archetypeId]
}

// Spawn creates a new entity with the provided components
func (s *Storage) Spawn(components ...any) EntityId {
	if len(components) == 0 {
		panic("cannot spawn entity without components")
	}

	types := extractComponentTypes(components)
	archetypeId := hashTypesToUint32(types)

	archetype, exists := s.archetypes[archetypeId]
	if !exists {
		archetype = NewArchetype(archetypeId, types, s.registry)
		s.archetypes[archetypeId] = archetype
	}

	entityIndex := archetype.Spawn(components)
	id := NewEntityId(archetypeId, entityIndex)
	s.noteLive(id)
	return id
}

// Delete removes all data related to the entity ID
func (s *Storage) Delete(id EntityId) {
	archetypeId := id.ArchetypeId()
	entityIndex := id.Index()

	archetype, ok := s.archetypes[archetypeId]
	if !ok {
		return
	}

	archetype.Delete(entityIndex)
	s.noteDeleted(id)
}

func (s *Storage) AddComponent(id EntityId, component any) EntityId {
	oldArchetype := s.archetypes[id.ArchetypeId()]

	compType := reflect.TypeOf(component)
	if compType.Kind() == reflect.Ptr {
		compType = compType.Elem()
	}

	newTypes := make([]reflect.Type, 0, len(oldArchetype.types)+1)
	newTypes = append(newTypes, oldArchetype.types...)
	newTypes = append(newTypes, compType)
	sort.Sort(byTypeName(newTypes))

	newArchetypeId := hashTypesToUint32(newTypes)
	newArchetype, exists := s.archetypes[newArchetypeId]
	if !exists {
		newArchetype = NewArchetype(newArchetypeId, newTypes, s.registry)
		s.archetypes[newArchetypeId] = newArchetype
	}

	// Get the weak pointer if it exists
	weakPtr, hasRef := oldArchetype.refs.Get(id)

	components := make([]any, 0, len(newTypes))
	for _, typ := range newTypes {
		if typ == compType {
			components = append(components, component)
		} else {
			comp := oldArchetype.GetComponent(id.Index(), typ)
			components = append(components, comp)
		}
	}

	newIndex := newArchetype.Spawn(components)
	newId := NewEntityId(newArchetypeId, newIndex)

	// Update EntityRef if it exists
	if hasRef {
		if ref := weakPtr.Value(); ref != nil {
			ref.Id = newId
			ref.Archetype = newArchetype
		}
		oldArchetype.refs.Del(id)
		newArchetype.refs.Put(newId, weakPtr)
	}

	oldArchetype.Delete(id.Index())
	s.noteMoved(id, newId)
	return newId
}

// AddComponents moves the entity to an archetype that additionally contains
// all of the given components, paying the structural cost of a single move.
func (s *Storage) AddComponents(id EntityId, components ...any) EntityId {
	if len(components) == 0 {
		return id
	}

	oldArchetype := s.archetypes[id.ArchetypeId()]

	added := make(map[reflect.Type]any, len(components))
	newTypes := make([]reflect.Type, 0, len(oldArchetype.types)+len(components))
	newTypes = append(newTypes, oldArchetype.types...)
	for _, component := range components {
		compType := reflect.TypeOf(component)
		if compType.Kind() == reflect.Ptr {
			compType = compType.Elem()
		}
		added[compType] = component
		newTypes = append(newTypes, compType)
	}
	sort.Sort(byTypeName(newTypes))

	newArchetypeId := hashTypesToUint32(newTypes)
	newArchetype, exists := s.archetypes[newArchetypeId]
	if !exists {
		newArchetype = NewArchetype(newArchetypeId, newTypes, s.registry)
		s.archetypes[newArchetypeId] = newArchetype
	}

	weakPtr, hasRef := oldArchetype.refs.Get(id)

	comps := make([]any, 0, len(newTypes))
	for _, typ := range newTypes {
		if comp, ok := added[typ]; ok {
			comps = append(comps, comp)
		} else {
			comps = append(comps, oldArchetype.GetComponent(id.Index(), typ))
		}
	}

	newIndex := newArchetype.Spawn(comps)
	newId := NewEntityId(newArchetypeId, newIndex)

	// Update EntityRef if it exists
	if hasRef {
		if ref := weakPtr.Value(); ref != nil {
			ref.Id = newId
			ref.Archetype = newArchetype
		}
		oldArchetype.refs.Del(id)
		newArchetype.refs.Put(newId, weakPtr)
	}

	oldArchetype.Delete(id.Index())
	s.noteMoved(id, newId)
	return newId
}

// SetComponent overwrites the value of a component the entity already has.
// No archetype move occurs. Returns false if the entity's archetype does not
// contain the component type.
func (s *Storage) SetComponent(id EntityId, component any) bool {
	v := reflect.ValueOf(component)
	compType := v.Type()
	if compType.Kind() == reflect.Ptr {
		v = v.Elem()
		compType = compType.Elem()
	}

	existing := s.GetComponent(id, compType)
	if existing == nil {
		return false
	}

	reflect.ValueOf(existing).Elem().Set(v)
	return true
}

func (s *Storage) RemoveComponent(id EntityId, compType reflect.Type) EntityId {
	oldArchetype := s.archetypes[id.ArchetypeId()]

	newTypes := make([]reflect.Type, 0, len(oldArchetype.types)-1)
	for _, typ := range oldArchetype.types {
		if typ != compType {
			newTypes = append(newTypes, typ)
		}
	}

	weakPtr, hasRef := oldArchetype.refs.Get(id)

	if len(newTypes) == 0 {
		// Entity has no components left, delete it
		if hasRef {
			if ref := weakPtr.Value(); ref != nil {
				ref.Id = 0
				ref.Archetype = nil
			}
			oldArchetype.refs.Del(id)
		}
		oldArchetype.Delete(id.Index())
		s.noteDeleted(id)
		return 0
	}

	newArchetypeId := hashTypesToUint32(newTypes)
	newArchetype, exists := s.archetypes[newArchetypeId]
	if !exists {
		newArchetype = NewArchetype(newArchetypeId, newTypes, s.registry)
		s.archetypes[newArchetypeId] = newArchetype
	}

	components := make([]any, 0, len(newTypes))
	for _, typ := range newTypes {
		comp := oldArchetype.GetComponent(id.Index(), typ)
		components = append(components, comp)
	}

	newIndex := newArchetype.Spawn(components)
	newId := NewEntityId(newArchetypeId, newIndex)

	// Update EntityRef if it exists
	if hasRef {
		if ref := weakPtr.Value(); ref != nil {
			ref.Id = newId
			ref.Archetype = newArchetype
		}
		oldArchetype.refs.Del(id)
		newArchetype.refs.Put(newId, weakPtr)
	}

	oldArchetype.Delete(id.Index())
	s.noteMoved(id, newId)
	return newId
}

// GetComponent returns the component for the given entity ID and component type
func (s *Storage) GetComponent(id EntityId, compType reflect.Type) any {
	archetypeId := id.ArchetypeId()
	entityIndex := id.Index()

	archetype, ok := s.archetypes[archetypeId]
	if !ok {
		return nil
	}

	return archetype.GetComponent(entityIndex, compType)
}

// HasComponent checks if an entity has a specific component type
func (s *Storage) HasComponent(id EntityId, compType reflect.Type) bool {
	archetypeId := id.ArchetypeId()
	archetype, ok := s.archetypes[archetypeId]
	if !ok {
		return false
	}
	return archetype.HasComponent(compType)
}

// extractComponentTypes extracts and sorts component types from a slice of components
func extractComponentTypes(components []any) []reflect.Type {
	types := make([]reflect.Type, 0, len(components))
	for _, comp := range components {
		compType := reflect.TypeOf(comp)

		// If it's a pointer, get the underlying type
		if compType.Kind() == reflect.Ptr {
			compType = compType.Elem()
		}

		// Components can be structs or primitives (int, string, etc.)
		// But not pointers, maps, channels, or functions (those aren't value types)
		if compType.Kind() == reflect.Ptr || compType.Kind() == reflect.Map ||
			compType.Kind() == reflect.Chan || compType.Kind() == reflect.Func {
			panic("components cannot be pointers, maps, channels, or functions")
		}

		types = append(types, compType)
	}
	sort.Sort(byTypeName(types))
	return types
}

func typeId(t reflect.Type) int {
	ptr := (*eface)(unsafe.Pointer(&t)).data
	return int(uintptr(ptr))
}

// hashTypesToUint32 generates a uint32 hash for a sorted slice of types
func hashTypesToUint32(types []reflect.Type) uint32 {
	var h uint32 = 2166136261     // FNV-1a 32-bit offset basis
	const prime uint32 = 16777619 // FNV-1a 32-bit prime

	for _, t := range types {
		// Use the type's pointer as a unique identifier
		ptr := (*eface)(unsafe.Pointer(&t)).data
		val := uint32(uintptr(ptr))

		// Mix in all 4 bytes if on 64-bit system
		if unsafe.Sizeof(uintptr(0)) == 8 {
			val ^= uint32(uintptr(ptr) >> 32)
		}

		h ^= val
		h *= prime
	}

	return h
}

type ComponentReader interface {
	GetComponent(EntityId, reflect.Type) any
}

func ReadComponent[T any](reader ComponentReader, entityId EntityId) *T {
	return reader.GetComponent(entityId, reflect.TypeFor[T]()).(*T)
}
