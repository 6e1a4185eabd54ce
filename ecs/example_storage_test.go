package ecs_test

import (
	"fmt"
	"reflect"

	"github.com/plus3/skirmish/ecs"
)

// ExampleStorage demonstrates the basic entity and component API. Entities
// with the same component set share an archetype, which keeps their columns
// dense for iteration.
func ExampleStorage() {
	registry := ecs.NewComponentRegistry()
	ecs.RegisterComponent[Pos](registry)
	ecs.RegisterComponent[Facing](registry)
	ecs.RegisterComponent[Vitals](registry)
	storage := ecs.NewStorage(registry)

	scout := storage.Spawn(
		Pos{X: 10, Y: 20},
		Facing{DX: 1, DY: 0},
		Vitals{HP: 100, MaxHP: 100},
	)

	pos := ecs.ReadComponent[Pos](storage, scout)
	fmt.Printf("Scout spawned at (%.0f, %.0f)\n", pos.X, pos.Y)

	pos.X = 15
	pos.Y = 25
	fmt.Printf("Scout moved to (%.0f, %.0f)\n", pos.X, pos.Y)

	storage.Delete(scout)
	fmt.Println("Scout removed")

	// Output:
	// Scout spawned at (10, 20)
	// Scout moved to (15, 25)
	// Scout removed
}

// ExampleStorage_addRemoveComponents shows an entity migrating between
// archetypes as components are added and removed.
func ExampleStorage_addRemoveComponents() {
	registry := ecs.NewComponentRegistry()
	ecs.RegisterComponent[Pos](registry)
	ecs.RegisterComponent[Facing](registry)
	ecs.RegisterComponent[Vitals](registry)
	storage := ecs.NewStorage(registry)

	unit := storage.Spawn(Pos{X: 0, Y: 0})

	hasFacing := storage.HasComponent(unit, reflect.TypeOf(Facing{}))
	fmt.Printf("Has facing: %v\n", hasFacing)

	unit = storage.AddComponent(unit, Facing{DX: 5, DY: 3})
	facing := ecs.ReadComponent[Facing](storage, unit)
	fmt.Printf("Has facing: %v (%.0f, %.0f)\n", facing != nil, facing.DX, facing.DY)

	unit = storage.AddComponent(unit, Vitals{HP: 50, MaxHP: 50})
	vitals := ecs.ReadComponent[Vitals](storage, unit)
	fmt.Printf("Has vitals: %v (%d/%d)\n", vitals != nil, vitals.HP, vitals.MaxHP)

	unit = storage.RemoveComponent(unit, reflect.TypeOf(Facing{}))
	hasFacing = storage.HasComponent(unit, reflect.TypeOf(Facing{}))
	fmt.Printf("Has facing: %v\n", hasFacing)

	// Output:
	// Has facing: false
	// Has facing: true (5, 3)
	// Has vitals: true (50/50)
	// Has facing: false
}
