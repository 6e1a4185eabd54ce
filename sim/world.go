package sim

import (
	"github.com/plus3/skirmish/display"
	"github.com/plus3/skirmish/ecs"
	"github.com/plus3/skirmish/mathx"
)

// World owns the storage and pipeline for one simulation run. It is
// single-threaded: the driver calls Setup once, Tick once per simulation
// step, and Teardown when done.
type World struct {
	cfg       *Config
	registry  *ecs.ComponentRegistry
	storage   *ecs.Storage
	scheduler *ecs.Scheduler
}

// NewWorld builds a world rendering to the given surface. A nil surface runs
// the simulation headless.
func NewWorld(cfg *Config, surface display.Surface) *World {
	registry := NewRegistry()
	storage := ecs.NewStorage(registry)
	storage.AddSingleton(Params{Config: *cfg})
	storage.AddSingleton(Canvas{Surface: surface})

	scheduler := ecs.NewScheduler(storage)

	// Stage order is fixed. Spawn materializes units before anything queries
	// them; Kill tags deaths before the render stages so a unit killed this
	// tick already displays dead; Damage resolves before Attack issues new
	// strikes; Tick advances last.
	scheduler.Register(&SpawnSystem{})
	scheduler.Register(&RespawnSystem{})
	scheduler.Register(&KillSystem{})
	scheduler.Register(&RenderSystem{})
	scheduler.Register(&SpriteClassifySystem{})
	scheduler.Register(&DamageSystem{})
	scheduler.Register(&AttackSystem{})
	scheduler.Register(&MovementSystem{})
	scheduler.Register(&SteeringSystem{})
	scheduler.Register(&TickSystem{})

	return &World{
		cfg:       cfg,
		registry:  registry,
		storage:   storage,
		scheduler: scheduler,
	}
}

// Setup creates entityCount spawn-pending units with seeds derived from the
// master seed. The units materialize on the first tick.
func (w *World) Setup(entityCount int) {
	for i := 0; i < entityCount; i++ {
		w.storage.Spawn(
			Unit{ID: uint32(i), Seed: mathx.Hash(w.cfg.Seed, uint32(i))},
			Data{},
			SpawnTag{},
		)
	}
}

// Tick runs one full pipeline pass. The per-entity Data counters are the only
// tick authority; drivers just call Tick once per step.
func (w *World) Tick() {
	w.scheduler.Once(1)
}

// Teardown releases the world's storage. The world must not be ticked again.
func (w *World) Teardown() {
	w.storage = nil
	w.scheduler = nil
}

// Storage exposes the backing store for inspection and tests.
func (w *World) Storage() *ecs.Storage {
	return w.storage
}

// Stats returns per-stage execution statistics.
func (w *World) Stats() *ecs.SchedulerStats {
	return w.scheduler.GetStats()
}
