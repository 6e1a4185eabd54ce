package ecs

import (
	"context"
	"math"
	"reflect"
	"strings"
	"time"
)

// SchedulerStats summarizes execution across all registered systems.
type SchedulerStats struct {
	SystemCount     int
	TotalExecutions int64
	Systems         []SystemStats
}

// SystemStats carries the timing record of a single system.
type SystemStats struct {
	Name           string
	ExecutionCount int64
	MinDuration    time.Duration
	MaxDuration    time.Duration
	AvgDuration    time.Duration
	LastDuration   time.Duration
	TotalDuration  time.Duration
}

type systemTimings struct {
	name       string
	executions int64
	min        time.Duration
	max        time.Duration
	total      time.Duration
	last       time.Duration
}

func (t *systemTimings) record(d time.Duration) {
	t.executions++
	t.last = d
	t.total += d
	if d < t.min {
		t.min = d
	}
	if d > t.max {
		t.max = d
	}
}

func (t *systemTimings) snapshot() SystemStats {
	avg := time.Duration(0)
	if t.executions > 0 {
		avg = t.total / time.Duration(t.executions)
	}
	return SystemStats{
		Name:           t.name,
		ExecutionCount: t.executions,
		MinDuration:    t.min,
		MaxDuration:    t.max,
		AvgDuration:    avg,
		LastDuration:   t.last,
		TotalDuration:  t.total,
	}
}

// queryPreparer is implemented by Query[T]. The scheduler snapshots each
// system's queries right before the system runs.
type queryPreparer interface {
	Execute()
}

// Scheduler runs systems in registration order, one stage per system.
type Scheduler struct {
	storage   *Storage
	systems   []System
	preparers [][]queryPreparer
	timings   []*systemTimings
}

// NewScheduler creates a scheduler over the given storage.
func NewScheduler(storage *Storage) *Scheduler {
	return &Scheduler{storage: storage}
}

// Register appends a system and wires up its Query and Singleton fields.
func (s *Scheduler) Register(system System) {
	s.preparers = append(s.preparers, s.wireFields(system))
	s.systems = append(s.systems, system)

	systemType := reflect.TypeOf(system)
	if systemType.Kind() == reflect.Ptr {
		systemType = systemType.Elem()
	}

	s.timings = append(s.timings, &systemTimings{
		name: systemType.Name(),
		min:  time.Duration(math.MaxInt64),
	})
}

// wireFields calls Init(storage) on every Query and Singleton field of the
// system struct and collects the queries for per-stage refresh.
func (s *Scheduler) wireFields(system System) []queryPreparer {
	systemValue := reflect.ValueOf(system)
	if systemValue.Kind() == reflect.Ptr {
		systemValue = systemValue.Elem()
	}
	if systemValue.Kind() != reflect.Struct {
		return nil
	}

	systemType := systemValue.Type()

	var preparers []queryPreparer
	for i := 0; i < systemValue.NumField(); i++ {
		field := systemValue.Field(i)
		if !field.CanSet() || field.Kind() != reflect.Struct {
			continue
		}

		typeName := field.Type().Name()
		isQuery := strings.HasPrefix(typeName, "Query[")
		if !isQuery && !strings.HasPrefix(typeName, "Singleton[") {
			continue
		}

		initMethod := field.Addr().MethodByName("Init")
		if !initMethod.IsValid() {
			if isQuery {
				panic("Init method not found on Query field: " + systemType.Field(i).Name)
			}
			panic("Init method not found on Singleton field: " + systemType.Field(i).Name)
		}
		initMethod.Call([]reflect.Value{reflect.ValueOf(s.storage)})

		if isQuery {
			if preparer, ok := field.Addr().Interface().(queryPreparer); ok {
				preparers = append(preparers, preparer)
			}
		}
	}

	return preparers
}

// Once executes all registered systems once with the given delta time.
// Each system's queries are snapshotted immediately before it runs and its
// queued commands are flushed immediately after, so every system observes all
// structural changes of the systems before it and none of its own.
func (s *Scheduler) Once(dt float64) {
	frame := newUpdateFrame(dt, s.storage)

	for i, system := range s.systems {
		start := time.Now()

		for _, preparer := range s.preparers[i] {
			preparer.Execute()
		}
		system.Execute(frame)
		frame.Commands.Flush(s.storage)

		s.timings[i].record(time.Since(start))
	}
}

// Run executes all systems at the given interval until ctx is cancelled.
func (s *Scheduler) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	lastTime := time.Now()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			dt := now.Sub(lastTime).Seconds()
			lastTime = now
			s.Once(dt)
		}
	}
}

// GetStats reports per-system and aggregate execution statistics.
func (s *Scheduler) GetStats() *SchedulerStats {
	stats := &SchedulerStats{
		SystemCount: len(s.systems),
		Systems:     make([]SystemStats, len(s.timings)),
	}

	for i, timing := range s.timings {
		stats.Systems[i] = timing.snapshot()
		stats.TotalExecutions += timing.executions
	}

	return stats
}
