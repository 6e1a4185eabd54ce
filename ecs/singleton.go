package ecs

import (
	"reflect"
	"unsafe"
)

// Singleton caches a pointer to storage-owned data that exists once per
// world rather than per entity. Systems declare Singleton fields the same way
// they declare Query fields; the scheduler wires them up at registration.
type Singleton[T any] struct {
	storage *Storage
	ptr     unsafe.Pointer
	typ     reflect.Type
}

// NewSingleton returns an accessor for T, creating the singleton in storage
// if it does not exist yet. An optional initializer seeds the created value;
// without one, the zero value is stored.
func NewSingleton[T any](storage *Storage, initializer ...T) *Singleton[T] {
	var zero T
	typ := reflect.TypeOf(zero)

	entry := storage.getSingletonEntry(typ)
	if entry == nil {
		var value T
		if len(initializer) > 0 {
			value = initializer[0]
		}
		storage.AddSingleton(value)
		entry = storage.getSingletonEntry(typ)
	}

	return &Singleton[T]{
		storage: storage,
		ptr:     entry.dataPtr,
		typ:     typ,
	}
}

// Init binds the accessor to a storage. The Scheduler calls this for
// Singleton fields during system registration.
func (s *Singleton[T]) Init(storage *Storage) {
	var zero T
	s.storage = storage
	s.typ = reflect.TypeOf(zero)
	s.refresh()
}

// Get returns the singleton, or nil if it was never added to storage.
func (s *Singleton[T]) Get() *T {
	if s.ptr == nil {
		s.refresh()
	}
	if s.ptr == nil {
		return nil
	}
	return (*T)(s.ptr)
}

// Exists reports whether the singleton is present in storage.
func (s *Singleton[T]) Exists() bool {
	if s.ptr == nil {
		s.refresh()
	}
	return s.ptr != nil
}

func (s *Singleton[T]) refresh() {
	if s.storage == nil {
		return
	}
	if entry := s.storage.getSingletonEntry(s.typ); entry != nil {
		s.ptr = entry.dataPtr
	} else {
		s.ptr = nil
	}
}
