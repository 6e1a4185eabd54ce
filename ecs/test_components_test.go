package ecs_test

import "github.com/plus3/skirmish/ecs"

// Component types shared by the package tests. They mirror the shape of a
// small combat sim: a position, a facing vector, hit points, and a handful of
// tags and oddball layouts to stress the storage.
type Pos struct {
	X, Y float32
}

type Facing struct {
	DX, DY float32
}

type Callsign struct {
	Label string
}

type Vitals struct {
	HP    int
	MaxHP int
}

type Stunned struct{}

type Squad struct {
	Number int
}

// Primitive component types; the store must not require structs.
type Morale int32
type Rank string
type Heat float64

type MarkA string
type MarkB string

// Components with interior pointers, slices, and maps.
type Escort struct {
	Ward *Pos
}
type Loadout struct {
	Items []string
}
type Bounty struct {
	Rewards map[string]int
}
type Quarry struct {
	Foe *Callsign
}
type Chain struct {
	Next *Pos
}
type Core struct {
	Value int
}
type Shell struct {
	Data *Core
	List []*Core
}
type WardRef struct {
	Ref *Pos
}

func newTestRegistry() *ecs.ComponentRegistry {
	registry := ecs.NewComponentRegistry()
	ecs.RegisterComponent[Pos](registry)
	ecs.RegisterComponent[Facing](registry)
	ecs.RegisterComponent[Callsign](registry)
	ecs.RegisterComponent[Vitals](registry)
	ecs.RegisterComponent[Stunned](registry)
	ecs.RegisterComponent[Squad](registry)
	ecs.RegisterComponent[Morale](registry)
	ecs.RegisterComponent[Rank](registry)
	ecs.RegisterComponent[Heat](registry)
	ecs.RegisterComponent[MarkA](registry)
	ecs.RegisterComponent[MarkB](registry)
	ecs.RegisterComponent[int32](registry)
	ecs.RegisterComponent[float64](registry)
	ecs.RegisterComponent[string](registry)
	ecs.RegisterComponent[Escort](registry)
	ecs.RegisterComponent[Loadout](registry)
	ecs.RegisterComponent[Bounty](registry)
	ecs.RegisterComponent[Quarry](registry)
	ecs.RegisterComponent[Chain](registry)
	ecs.RegisterComponent[Core](registry)
	ecs.RegisterComponent[Shell](registry)
	ecs.RegisterComponent[WardRef](registry)
	return registry
}
