package main

import (
	"flag"
	"time"

	"github.com/EngoEngine/engo"
	colorable "github.com/mattn/go-colorable"
	log "github.com/sirupsen/logrus"

	"github.com/ScottBrooks/broadphase/system"
)

func main() {
	entities := flag.Int("entities", 2000, "number of circles to simulate")
	radius := flag.Float64("radius", 8, "circle radius")
	speed := flag.Float64("speed", 80, "max circle speed per axis, units per second")
	width := flag.Float64("width", 2048, "world width")
	height := flag.Float64("height", 1024, "world height")
	rebuild := flag.Duration("rebuild", 250*time.Millisecond, "rebuild the tree this often, 0 rebuilds every tick")
	depth := flag.Float64("depth", 3, "rebuild once the tree is this many times deeper than balanced, 0 to disable")
	workers := flag.Int("workers", 0, "query goroutines, 0 uses every CPU")
	fps := flag.Int("fps", 30, "ticks per second")
	seconds := flag.Float64("seconds", 10, "simulated seconds before exiting")
	seed := flag.Int64("seed", time.Now().Unix(), "random seed")
	verbose := flag.Bool("v", false, "debug logging")
	flag.Parse()

	log.SetOutput(colorable.NewColorableStdout())
	log.SetFormatter(&log.TextFormatter{ForceColors: true})
	if *verbose {
		system.SetLogLevel(log.DebugLevel)
	}

	cfg := system.DefaultConfig()
	cfg.RebuildInterval = *rebuild
	cfg.DepthFactor = *depth
	cfg.Workers = *workers
	if err := cfg.Validate(); err != nil {
		log.WithError(err).Fatal("Bad flags")
	}

	opts := engo.RunOptions{
		Title:        "BroadPhase",
		HeadlessMode: true,
		FPSLimit:     *fps,
	}
	ss := system.SimScene{
		Config:   cfg,
		Entities: *entities,
		Radius:   float32(*radius),
		Speed:    float32(*speed),
		Duration: time.Duration(*seconds * float64(time.Second)),
		Seed:     *seed,
		Bounds:   engo.AABB{Max: engo.Point{X: float32(*width), Y: float32(*height)}},
	}
	log.Printf("Simulating %d circles in %vx%v, seed %d", *entities, *width, *height, *seed)

	engo.Run(opts, &ss)
}
