package system

import (
	"runtime"
	"time"

	"github.com/pkg/errors"
)

// Config drives BroadPhaseSystem.
type Config struct {
	// RebuildInterval is how long a tree lives before it is rebuilt from
	// scratch. Zero rebuilds every tick.
	RebuildInterval time.Duration
	// DepthFactor also forces a rebuild once the deepest fruit is this many
	// times deeper than a balanced tree would be. Zero disables the check.
	DepthFactor float64
	// ShrinkEveryTick re-tightens boxes after the per tick updates.
	ShrinkEveryTick bool
	// Workers caps the goroutines of the query phase, zero means NumCPU.
	Workers int
	// EntitiesPerWorker is how many entities one query goroutine handles
	// before another one is worth starting.
	EntitiesPerWorker int
}

func DefaultConfig() Config {
	return Config{
		RebuildInterval:   250 * time.Millisecond,
		DepthFactor:       3,
		ShrinkEveryTick:   true,
		Workers:           0,
		EntitiesPerWorker: 256,
	}
}

func (c Config) Validate() error {
	if c.RebuildInterval < 0 {
		return errors.Errorf("rebuild interval must not be negative, got %v", c.RebuildInterval)
	}
	if c.DepthFactor != 0 && c.DepthFactor < 1 {
		return errors.Errorf("depth factor must be 0 or at least 1, got %v", c.DepthFactor)
	}
	if c.Workers < 0 {
		return errors.Errorf("workers must not be negative, got %d", c.Workers)
	}
	if c.EntitiesPerWorker <= 0 {
		return errors.Errorf("entities per worker must be positive, got %d", c.EntitiesPerWorker)
	}
	return nil
}

func (c Config) maxWorkers() int {
	if c.Workers > 0 {
		return c.Workers
	}
	return runtime.NumCPU()
}

// calcQueryWorkers splits the query phase so that every goroutine gets at
// least perWorker entities, never exceeding max goroutines.
func calcQueryWorkers(entities, perWorker, max int) int {
	n := entities / perWorker
	if n < 1 {
		return 1
	}
	if n > max {
		return max
	}
	return n
}
