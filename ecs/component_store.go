package ecs

import (
	"iter"
	"reflect"
)

// componentStore is the type-erased storage an archetype keeps per component
// column. Indices handed out by Append stay stable until Compact runs.
type componentStore interface {
	Append(item any) int
	Delete(index int)
	Get(index int) any
	Has(index int) bool
	Compact() map[int]int
	Iter() iter.Seq[int]
}

// ComponentRegistry maps component types to their store constructors. Every
// Storage carries its own registry, so independent worlds never share type
// state.
type ComponentRegistry struct {
	stores map[reflect.Type]func() componentStore
}

// NewComponentRegistry creates an empty registry.
func NewComponentRegistry() *ComponentRegistry {
	return &ComponentRegistry{
		stores: make(map[reflect.Type]func() componentStore),
	}
}

// RegisterComponent makes T usable as a component in storages built on r.
// Spawning an unregistered type panics when its archetype is materialized.
func RegisterComponent[T any](r *ComponentRegistry) {
	t := reflect.TypeOf((*T)(nil)).Elem()
	r.stores[t] = func() componentStore {
		return &blockStore[T]{}
	}
}

func (r *ComponentRegistry) getFactory(t reflect.Type) func() componentStore {
	return r.stores[t]
}
