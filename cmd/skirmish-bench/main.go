package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"runtime"
	"time"

	"github.com/plus3/skirmish/display"
	"github.com/plus3/skirmish/sim"
)

func main() {
	tickCount := flag.Int("ticks", 1000, "The number of simulation ticks to run.")
	entityCount := flag.Int("entities", 10000, "The initial number of units to create.")
	gcPauseMetrics := flag.Bool("gc-pause-metrics", false, "Enable detailed GC pause metrics in the report.")
	flag.Parse()

	log.Println("Starting simulation benchmark...")

	// 1. Setup the world against an off-screen buffer
	cfg := sim.DefaultConfig()
	buf := display.NewBuffer(cfg.Width, cfg.Height)
	world := sim.NewWorld(cfg, buf)

	log.Printf("Populating world with %d units...\n", *entityCount)
	world.Setup(*entityCount)
	log.Println("Population complete.")

	// 2. Run the simulation loop
	report := &Report{
		Ticks:          *tickCount,
		Entities:       *entityCount,
		GCPauseMetrics: *gcPauseMetrics,
		TickTime: Stats{
			Samples: make([]time.Duration, 0, *tickCount),
		},
	}

	runtime.ReadMemStats(&report.MemStatsStart)

	log.Printf("Running simulation for %d ticks...\n", *tickCount)
	startTime := time.Now()

	for tick := 0; tick < *tickCount; tick++ {
		buf.Clear()

		tickStart := time.Now()
		world.Tick()
		report.TickTime.Samples = append(report.TickTime.Samples, time.Since(tickStart))
	}

	report.TotalTime = time.Since(startTime)
	report.TickTime.Finalize()
	report.SchedulerStats = world.Stats()
	runtime.ReadMemStats(&report.MemStatsEnd)

	world.Teardown()
	log.Println("Simulation finished.")

	// 3. Generate Report to Console
	fmt.Println("\n\n--- Benchmark Report ---")
	if err := report.Generate(os.Stdout); err != nil {
		log.Fatalf("Failed to generate report: %v", err)
	}
	fmt.Println("--- End of Report ---")

	log.Println("Benchmark complete.")
}
