package ecs

import (
	"iter"
	"unsafe"
)

// Query is the cached form of a View for systems that run every tick. Execute
// snapshots the matching entities into flat arrays; Iter and Values then walk
// the snapshot without touching the archetype maps. The scheduler calls
// Execute for a system's Query fields right before the system runs, so within
// one stage the snapshot is stable even while the command buffer queues
// structural changes.
type Query[T any] struct {
	view    *View[T]
	storage *Storage

	matched        []*Archetype
	archetypeCount int

	ids      []EntityId
	items    []T
	prepared bool
}

// NewQuery creates a query over the given storage.
func NewQuery[T any](storage *Storage) *Query[T] {
	return &Query[T]{
		view:           NewView[T](storage),
		storage:        storage,
		archetypeCount: -1,
	}
}

// Init binds the query to a storage. The Scheduler calls this for Query
// fields during system registration.
func (q *Query[T]) Init(storage *Storage) {
	q.view = NewView[T](storage)
	q.storage = storage
	q.archetypeCount = -1
	q.prepared = false
}

// Execute rebuilds the snapshot. Until the next Execute, Iter and Values
// replay exactly this set of entities.
func (q *Query[T]) Execute() {
	if len(q.storage.archetypes) != q.archetypeCount {
		q.matched = nil
		q.archetypeCount = len(q.storage.archetypes)
	}
	if q.matched == nil {
		q.matched = make([]*Archetype, 0)
		for _, archetype := range q.storage.archetypes {
			if q.view.matchesArchetype(archetype) {
				q.matched = append(q.matched, archetype)
			}
		}
	}

	q.ids = q.ids[:0]
	q.items = q.items[:0]

	for _, archetype := range q.matched {
		q.snapshotArchetype(archetype)
	}

	q.prepared = true
}

func (q *Query[T]) snapshotArchetype(archetype *Archetype) {
	if len(archetype.storages) == 0 {
		return
	}

	columns := q.view.columnMap(archetype)
	occupancy := archetype.storages[0]

	var result T
	resultPtr := unsafe.Pointer(&result)

	for slot := range occupancy.Iter() {
		if !q.view.fillFromColumns(resultPtr, archetype, slot, columns) {
			continue
		}
		q.ids = append(q.ids, NewEntityId(archetype.id, uint32(slot)))
		q.items = append(q.items, result)
	}
}

// Iter returns an iterator over (EntityId, T) pairs from the snapshot.
// Panics if Execute has not run yet.
func (q *Query[T]) Iter() iter.Seq2[EntityId, T] {
	if !q.prepared {
		panic("Query.Iter() called before Query.Execute()")
	}

	return func(yield func(EntityId, T) bool) {
		for i := range q.ids {
			if !yield(q.ids[i], q.items[i]) {
				return
			}
		}
	}
}

// Values returns an iterator over just the view structs from the snapshot.
// Panics if Execute has not run yet.
func (q *Query[T]) Values() iter.Seq[T] {
	if !q.prepared {
		panic("Query.Values() called before Query.Execute()")
	}

	return func(yield func(T) bool) {
		for i := range q.items {
			if !yield(q.items[i]) {
				return
			}
		}
	}
}
