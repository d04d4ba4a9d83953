package system

import (
	"time"

	"github.com/benbjohnson/clock"

	"github.com/ScottBrooks/broadphase"
)

// RebuildPolicy decides when incremental maintenance of a tree has gone on
// long enough. The tree itself never rebuilds.
type RebuildPolicy struct {
	Interval    time.Duration
	DepthFactor float64

	clock clock.Clock
	built time.Time
}

func NewRebuildPolicy(clk clock.Clock, interval time.Duration, depthFactor float64) *RebuildPolicy {
	return &RebuildPolicy{
		Interval:    interval,
		DepthFactor: depthFactor,
		clock:       clk,
		built:       clk.Now(),
	}
}

// Due reports whether tree should be thrown away and built again.
func (p *RebuildPolicy) Due(tree *broadphase.Tree) bool {
	if tree == nil || tree.Empty() {
		return true
	}
	if p.clock.Since(p.built) >= p.Interval {
		return true
	}
	if p.DepthFactor > 0 {
		s, err := broadphase.TreeStats(tree)
		if err != nil {
			log.WithError(err).Warn("Unable to measure tree")
			return true
		}
		if s.Degraded(p.DepthFactor) {
			log.Debugf("Tree degraded: %+v", s)
			return true
		}
	}
	return false
}

// Built records that a fresh tree was just made.
func (p *RebuildPolicy) Built() {
	p.built = p.clock.Now()
}
