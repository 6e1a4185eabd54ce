package ecs

// EntityId packs an entity's location into one word: the archetype id in the
// upper 32 bits, the slot index in the lower 32. Moving an entity between
// archetypes therefore changes its id; use an EntityRef or Storage.Locate to
// follow it.
type EntityId uint64

// NewEntityId combines an archetype id and slot index.
func NewEntityId(archetypeId uint32, index uint32) EntityId {
	return EntityId(uint64(archetypeId)<<32 | uint64(index))
}

// ArchetypeId returns the archetype half of the id.
func (e EntityId) ArchetypeId() uint32 {
	return uint32(e >> 32)
}

// Index returns the slot half of the id.
func (e EntityId) Index() uint32 {
	return uint32(e & 0xFFFFFFFF)
}

// EntityRef is a stable handle to an entity. The storage patches Id in place
// when the entity moves to another archetype and zeroes it on deletion.
type EntityRef struct {
	Id        EntityId
	Archetype *Archetype
}
