// Package sim implements a deterministic tick-driven unit combat simulation:
// units spawn, pick targets, exchange travel-delayed strikes, die and respawn,
// and are rendered to a character surface. All randomness is counter-based and
// carried in component data, so a run is fully reproducible from its seeds.
package sim

import (
	"reflect"

	"github.com/plus3/skirmish/ecs"
)

// Unit carries a unit's identity and its counter-based RNG state. Counter only
// ever increases, so the per-unit random sequence never repeats within a run.
type Unit struct {
	ID          uint32
	Seed        uint32
	Counter     uint32
	SpawnTick   uint32
	RespawnTick uint32
}

// Data is the current simulation tick, copied into every entity for
// stage-local access.
type Data struct {
	Tick uint32
}

type Position struct {
	X, Y float32
}

type Velocity struct {
	DX, DY float32
}

type Health struct {
	HP int32
}

// Damage holds a unit's combat stats. Cooldown is the tick interval between
// attacks; a unit with Cooldown 0 never attacks.
type Damage struct {
	Attack   int32
	Defence  int32
	Cooldown uint32
}

// Sprite is a render cache: the display character is re-derived from tags
// every tick, never persisted intent.
type Sprite struct {
	Char rune
}

// Attack is a transient entity representing an in-flight strike. Target is a
// weak reference and must be liveness-checked before damage is applied, since
// the victim may die or despawn mid-flight.
type Attack struct {
	Target *ecs.EntityRef
	Damage int32
	Ticks  int32
}

// Role tags, mutually exclusive, assigned once at spawn.
type NPC struct{}
type Hero struct{}
type Monster struct{}

// SpawnTag marks an entity as spawn-pending. Present only until the spawn
// stage has filled in the unit's components.
type SpawnTag struct{}

// Dead marks a unit from death until respawn. Never present together with
// SpawnTag.
type Dead struct{}

var (
	spawnTagType = reflect.TypeOf(SpawnTag{})
	deadType     = reflect.TypeOf(Dead{})
	healthType   = reflect.TypeOf(Health{})
	damageType   = reflect.TypeOf(Damage{})
)

// NewRegistry returns a component registry with every simulation component
// type registered.
func NewRegistry() *ecs.ComponentRegistry {
	registry := ecs.NewComponentRegistry()
	ecs.RegisterComponent[Unit](registry)
	ecs.RegisterComponent[Data](registry)
	ecs.RegisterComponent[Position](registry)
	ecs.RegisterComponent[Velocity](registry)
	ecs.RegisterComponent[Health](registry)
	ecs.RegisterComponent[Damage](registry)
	ecs.RegisterComponent[Sprite](registry)
	ecs.RegisterComponent[Attack](registry)
	ecs.RegisterComponent[NPC](registry)
	ecs.RegisterComponent[Hero](registry)
	ecs.RegisterComponent[Monster](registry)
	ecs.RegisterComponent[SpawnTag](registry)
	ecs.RegisterComponent[Dead](registry)
	return registry
}
