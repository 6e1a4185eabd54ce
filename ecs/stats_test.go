package ecs

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type gridCell struct{ Col, Row int }
type banner struct{ Text string }
type fuel struct{ Liters float64 }

func TestStorageStats(t *testing.T) {
	registry := NewComponentRegistry()
	RegisterComponent[gridCell](registry)
	RegisterComponent[banner](registry)
	RegisterComponent[fuel](registry)

	storage := NewStorage(registry)

	stats := storage.CollectStats()
	assert.Equal(t, 0, stats.ArchetypeCount)
	assert.Equal(t, 0, stats.TotalEntityCount)
	assert.Equal(t, 0, stats.SingletonCount)

	storage.Spawn(gridCell{Col: 1, Row: 1}, banner{Text: "alpha"})
	storage.Spawn(gridCell{Col: 2, Row: 2}, banner{Text: "bravo"})
	storage.Spawn(fuel{Liters: 12.5}, banner{Text: "carrier"})

	NewSingleton[fuel](storage, fuel{Liters: 3.14})
	NewSingleton[banner](storage, banner{Text: "hq"})

	stats = storage.CollectStats()

	assert.Equal(t, 2, stats.ArchetypeCount)
	assert.Equal(t, 3, stats.TotalEntityCount)
	assert.Equal(t, 2, stats.SingletonCount)
	require.Len(t, stats.ArchetypeBreakdown, 2)
	assert.Len(t, stats.SingletonTypes, 2)

	counts := make(map[int]bool)
	for _, arch := range stats.ArchetypeBreakdown {
		counts[arch.EntityCount] = true
	}
	assert.True(t, counts[2] && counts[1], "breakdown must split 2+1: %+v", stats.ArchetypeBreakdown)
}

type pausingSystem struct {
	executeCount int
	sleepDur     time.Duration
}

func (s *pausingSystem) Execute(frame *UpdateFrame) {
	s.executeCount++
	if s.sleepDur > 0 {
		time.Sleep(s.sleepDur)
	}
}

func TestSchedulerStats(t *testing.T) {
	registry := NewComponentRegistry()
	storage := NewStorage(registry)
	scheduler := NewScheduler(storage)

	stats := scheduler.GetStats()
	assert.Equal(t, 0, stats.SystemCount)
	assert.Equal(t, int64(0), stats.TotalExecutions)

	sys1 := &pausingSystem{sleepDur: 1 * time.Millisecond}
	sys2 := &pausingSystem{sleepDur: 2 * time.Millisecond}
	scheduler.Register(sys1)
	scheduler.Register(sys2)

	stats = scheduler.GetStats()
	assert.Equal(t, 2, stats.SystemCount)

	scheduler.Once(0.016)
	scheduler.Once(0.016)
	scheduler.Once(0.016)

	stats = scheduler.GetStats()

	assert.Equal(t, int64(6), stats.TotalExecutions, "2 systems over 3 runs")
	require.Len(t, stats.Systems, 2)

	for _, sysStats := range stats.Systems {
		assert.Equal(t, "pausingSystem", sysStats.Name)
		assert.Equal(t, int64(3), sysStats.ExecutionCount)

		// The systems sleep, so every timing field must be populated
		assert.NotZero(t, sysStats.MinDuration)
		assert.NotZero(t, sysStats.MaxDuration)
		assert.NotZero(t, sysStats.AvgDuration)
		assert.NotZero(t, sysStats.LastDuration)
		assert.NotZero(t, sysStats.TotalDuration)

		assert.LessOrEqual(t, sysStats.MinDuration, sysStats.AvgDuration)
		assert.LessOrEqual(t, sysStats.AvgDuration, sysStats.MaxDuration)
	}

	assert.Equal(t, 3, sys1.executeCount)
	assert.Equal(t, 3, sys2.executeCount)
}
