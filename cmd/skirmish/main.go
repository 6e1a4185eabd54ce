package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/pkg/profile"

	"github.com/plus3/skirmish/display"
	"github.com/plus3/skirmish/sim"
)

func main() {
	entityCount := flag.Int("entities", 100, "Number of units to simulate.")
	tickCount := flag.Int("ticks", 0, "Stop after this many ticks (0 = run until quit).")
	interval := flag.Duration("interval", 50*time.Millisecond, "Wall-clock time per simulation tick.")
	configPath := flag.String("config", "", "Optional yaml parameter file.")
	headless := flag.Bool("headless", false, "Run without a terminal UI and print the final frame.")
	profileMode := flag.String("profile", "", "Enable profiling: cpu or mem.")
	flag.Parse()

	switch *profileMode {
	case "":
	case "cpu":
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(".")).Stop()
	case "mem":
		defer profile.Start(profile.MemProfile, profile.ProfilePath(".")).Stop()
	default:
		log.Fatalf("unknown profile mode %q (want cpu or mem)", *profileMode)
	}

	cfg := sim.DefaultConfig()
	if *configPath != "" {
		loaded, err := sim.LoadConfig(*configPath)
		if err != nil {
			log.Fatalf("load config: %v", err)
		}
		cfg = loaded
	}

	if *headless {
		runHeadless(cfg, *entityCount, *tickCount)
		return
	}

	if err := runTerminal(cfg, *entityCount, *tickCount, *interval); err != nil {
		log.Fatalf("terminal: %v", err)
	}
}

func runHeadless(cfg *sim.Config, entityCount, tickCount int) {
	if tickCount <= 0 {
		tickCount = int(cfg.RespawnDelay) * 10
	}

	buf := display.NewBuffer(cfg.Width, cfg.Height)
	world := sim.NewWorld(cfg, buf)
	world.Setup(entityCount)

	start := time.Now()
	for tick := 0; tick < tickCount; tick++ {
		buf.Clear()
		world.Tick()
	}
	elapsed := time.Since(start)

	fmt.Print(buf.String())
	log.Printf("%d units, %d ticks in %s (%.1f ticks/s)",
		entityCount, tickCount, elapsed, float64(tickCount)/elapsed.Seconds())

	world.Teardown()
}

func runTerminal(cfg *sim.Config, entityCount, tickCount int, interval time.Duration) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	defer screen.Fini()

	world := sim.NewWorld(cfg, display.NewScreen(screen))
	world.Setup(entityCount)
	defer world.Teardown()

	quit := make(chan struct{})
	go func() {
		defer close(quit)
		for {
			switch ev := screen.PollEvent().(type) {
			case *tcell.EventKey:
				if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC || ev.Rune() == 'q' {
					return
				}
			case nil:
				return
			}
		}
	}()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for tick := 0; tickCount <= 0 || tick < tickCount; tick++ {
		select {
		case <-quit:
			return nil
		case <-ticker.C:
			screen.Clear()
			world.Tick()
			screen.Show()
		}
	}

	return nil
}
