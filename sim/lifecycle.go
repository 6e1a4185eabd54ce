package sim

import (
	"github.com/plus3/skirmish/ecs"
	"github.com/plus3/skirmish/mathx"
)

// SpawnSystem initializes spawn-pending units: it rolls role, stats, position
// and velocity from the unit's RNG state, then removes the SpawnTag. It runs
// first in the tick so later stages see the materialized unit.
type SpawnSystem struct {
	Params  ecs.Singleton[Params]
	Pending ecs.Query[struct {
		ecs.EntityId
		*Unit
		*Data
		*SpawnTag
	}]
}

func (s *SpawnSystem) Execute(frame *ecs.UpdateFrame) {
	cfg := &s.Params.Get().Config

	for item := range s.Pending.Values() {
		item.Unit.SpawnTick = item.Data.Tick

		role, health, damage, sprite, pos, vel := rollUnit(item.Unit, cfg)
		frame.Commands.AddComponents(item.EntityId, role, health, damage, sprite, pos, vel)
		frame.Commands.RemoveComponent(item.EntityId, spawnTagType)
	}
}

// KillSystem tags units whose health has dropped to or below zero as Dead and
// schedules their respawn tick. It runs before the render stages so a unit
// killed this tick already displays as dead.
type KillSystem struct {
	Params ecs.Singleton[Params]
	Alive  ecs.Query[struct {
		ecs.EntityId
		*Unit
		*Health
		*Data
		NotDead *Dead `ecs:"exclude"`
	}]
}

func (s *KillSystem) Execute(frame *ecs.UpdateFrame) {
	delay := s.Params.Get().RespawnDelay

	for item := range s.Alive.Values() {
		if item.Health.HP > 0 {
			continue
		}

		item.Unit.RespawnTick = item.Data.Tick + delay
		frame.Commands.AddComponent(item.EntityId, Dead{})
	}
}

// RespawnSystem destroys Dead units whose respawn tick has been reached and
// creates a fresh spawn-pending entity in their place. The replacement id
// folds the respawn tick into the high bits, and the seed derives from the
// dying unit's final RNG state, so no two lives replay the same sequence.
type RespawnSystem struct {
	Expired ecs.Query[struct {
		ecs.EntityId
		*Unit
		*Data
		*Dead
	}]
}

func (s *RespawnSystem) Execute(frame *ecs.UpdateFrame) {
	for item := range s.Expired.Values() {
		if item.Data.Tick < item.Unit.RespawnTick {
			continue
		}

		frame.Commands.Delete(item.EntityId)
		frame.Commands.Spawn(
			Unit{
				ID:   item.Unit.ID | item.Data.Tick<<16,
				Seed: mathx.Hash(item.Unit.Seed, item.Unit.Counter),
			},
			Data{Tick: item.Data.Tick},
			SpawnTag{},
		)
	}
}
