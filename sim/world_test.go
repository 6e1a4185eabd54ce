package sim_test

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plus3/skirmish/display"
	"github.com/plus3/skirmish/ecs"
	"github.com/plus3/skirmish/sim"
)

type unitSnapshot struct {
	hp      int32
	counter uint32
	x, y    float32
	char    rune
}

func snapshotUnits(storage *ecs.Storage) map[uint32]unitSnapshot {
	view := ecs.NewView[struct {
		*sim.Unit
		*sim.Health
		*sim.Position
		*sim.Sprite
	}](storage)

	snap := make(map[uint32]unitSnapshot)
	for item := range view.Values() {
		snap[item.Unit.ID] = unitSnapshot{
			hp:      item.Health.HP,
			counter: item.Unit.Counter,
			x:       item.Position.X,
			y:       item.Position.Y,
			char:    item.Sprite.Char,
		}
	}
	return snap
}

func TestWorldDeterminism(t *testing.T) {
	cfg := sim.DefaultConfig()

	run := func() map[uint32]unitSnapshot {
		world := sim.NewWorld(cfg, nil)
		defer world.Teardown()
		world.Setup(20)
		for tick := 0; tick < 50; tick++ {
			world.Tick()
		}
		return snapshotUnits(world.Storage())
	}

	first := run()
	second := run()

	require.NotEmpty(t, first)
	assert.Equal(t, first, second)
}

func TestWorldDivergesAcrossSeeds(t *testing.T) {
	run := func(seed uint32) map[uint32]unitSnapshot {
		cfg := sim.DefaultConfig()
		cfg.Seed = seed
		world := sim.NewWorld(cfg, nil)
		defer world.Teardown()
		world.Setup(20)
		for tick := 0; tick < 20; tick++ {
			world.Tick()
		}
		return snapshotUnits(world.Storage())
	}

	assert.NotEqual(t, run(1), run(2))
}

func TestWorldRendersWithinBounds(t *testing.T) {
	cfg := sim.DefaultConfig()
	buf := display.NewBuffer(cfg.Width, cfg.Height)
	world := sim.NewWorld(cfg, buf)
	defer world.Teardown()

	world.Setup(30)

	valid := map[rune]bool{
		' ':             true,
		sim.CharSpawn:   true,
		sim.CharDead:    true,
		sim.CharNPC:     true,
		sim.CharHero:    true,
		sim.CharMonster: true,
	}

	for tick := 0; tick < 25; tick++ {
		buf.Clear()
		world.Tick()

		drawn := 0
		for y := 0; y < cfg.Height; y++ {
			for x := 0; x < cfg.Width; x++ {
				ch := buf.Rune(x, y)
				if !valid[ch] {
					t.Fatalf("unexpected char %q at (%d,%d) on tick %d", ch, x, y, tick)
				}
				if ch != ' ' {
					drawn++
				}
			}
		}
		assert.Greater(t, drawn, 0, "tick %d rendered nothing", tick)
	}
}

func TestWorldUnitCountIsStable(t *testing.T) {
	cfg := sim.DefaultConfig()
	cfg.RespawnDelay = 3
	world := sim.NewWorld(cfg, nil)
	defer world.Teardown()

	world.Setup(15)

	units := ecs.NewView[struct{ *sim.Unit }](world.Storage())

	// Death always schedules a respawn, so the unit population never shrinks
	for tick := 0; tick < 60; tick++ {
		world.Tick()

		count := 0
		for range units.Iter() {
			count++
		}
		require.Equal(t, 15, count, "unit population changed at tick %d", tick)
	}
}

func TestWorldStatsCoverAllStages(t *testing.T) {
	cfg := sim.DefaultConfig()
	world := sim.NewWorld(cfg, nil)
	defer world.Teardown()

	world.Setup(5)
	world.Tick()
	world.Tick()

	stats := world.Stats()
	assert.Equal(t, 10, stats.SystemCount)
	assert.Equal(t, int64(20), stats.TotalExecutions)
	for _, sys := range stats.Systems {
		assert.Equal(t, int64(2), sys.ExecutionCount, "stage %s", sys.Name)
	}
}

func TestLoadConfigOverlaysDefaults(t *testing.T) {
	path := t.TempDir() + "/sim.yaml"
	require.NoError(t, os.WriteFile(path, []byte("width: 40\nseed: 7\n"), 0o644))

	cfg, err := sim.LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 40, cfg.Width)
	assert.Equal(t, uint32(7), cfg.Seed)
	// Untouched keys keep their defaults
	assert.Equal(t, sim.DefaultConfig().Height, cfg.Height)
	assert.Equal(t, sim.DefaultConfig().RespawnDelay, cfg.RespawnDelay)
}

func TestLoadConfigRejectsInvalid(t *testing.T) {
	path := t.TempDir() + "/bad.yaml"
	require.NoError(t, os.WriteFile(path, []byte("width: 0\n"), 0o644))

	_, err := sim.LoadConfig(path)
	assert.Error(t, err)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := sim.LoadConfig(t.TempDir() + "/nope.yaml")
	assert.Error(t, err)
}
