package sim

import (
	"math"

	"github.com/plus3/skirmish/ecs"
	"github.com/plus3/skirmish/mathx"
)

// MovementSystem advances every living unit's position by its velocity,
// clamped to the field.
type MovementSystem struct {
	Params ecs.Singleton[Params]
	Moving ecs.Query[struct {
		*Position
		*Velocity
		NotDead *Dead `ecs:"exclude"`
	}]
}

func (s *MovementSystem) Execute(frame *ecs.UpdateFrame) {
	cfg := &s.Params.Get().Config
	maxX := float32(cfg.Width - 1)
	maxY := float32(cfg.Height - 1)

	for item := range s.Moving.Values() {
		item.Position.X = clamp(item.Position.X+item.Velocity.DX, 0, maxX)
		item.Position.Y = clamp(item.Position.Y+item.Velocity.DY, 0, maxY)
	}
}

func clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// SteeringSystem recomputes every living unit's velocity as a pure function of
// its current position, identity and tick: a hash of that state picks a
// heading, scaled by the configured unit speed. No RNG counters advance here,
// so steering never perturbs the combat sequence.
type SteeringSystem struct {
	Params ecs.Singleton[Params]
	Units  ecs.Query[struct {
		*Velocity
		*Position
		*Unit
		*Data
		NotDead *Dead `ecs:"exclude"`
	}]
}

func (s *SteeringSystem) Execute(frame *ecs.UpdateFrame) {
	speed := s.Params.Get().UnitSpeed

	for item := range s.Units.Values() {
		h := mathx.Hash2(item.Unit.Seed, int32(item.Data.Tick), int32(item.Position.X)^int32(item.Position.Y)<<8)
		angle := float64(mathx.Unit(h)) * 2 * math.Pi
		item.Velocity.DX = float32(math.Cos(angle)) * speed
		item.Velocity.DY = float32(math.Sin(angle)) * speed
	}
}

// TickSystem advances the tick counter copied into every entity's Data. It is
// the last stage, so all other stages within a tick observe the same value.
type TickSystem struct {
	Ticks ecs.Query[struct {
		*Data
	}]
}

func (s *TickSystem) Execute(frame *ecs.UpdateFrame) {
	for item := range s.Ticks.Values() {
		item.Data.Tick++
	}
}
