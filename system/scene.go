package system

import (
	"math/rand"
	"time"

	"github.com/EngoEngine/ecs"
	"github.com/EngoEngine/engo"
	"github.com/EngoEngine/engo/common"
	"github.com/benbjohnson/clock"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"

	"github.com/ScottBrooks/broadphase"
)

const (
	LayerShips  = 0
	LayerDebris = 1
)

// ReportSystem logs what the broad phase did once per second of simulated
// time and ends the run after Duration.
type ReportSystem struct {
	SS *SimScene

	Duration time.Duration

	elapsed  float32
	interval float32
	ticks    int
}

func (rs *ReportSystem) Remove(ecs.BasicEntity) {}
func (rs *ReportSystem) Update(dt float32) {
	rs.elapsed += dt
	rs.interval += dt
	rs.ticks++

	if rs.interval >= 1 {
		rs.report()
		rs.probeCenter()
		rs.interval = 0
	}
	if rs.Duration > 0 && rs.elapsed >= float32(rs.Duration.Seconds()) {
		log.Printf("Simulated %.1fs in %d ticks, %d pairs", rs.elapsed, rs.ticks, rs.SS.Pairs)
		engo.Exit()
	}
}

func (rs *ReportSystem) report() {
	l := log.WithField("ticks", rs.ticks).WithField("pairs", rs.SS.Pairs)
	tree := rs.SS.BroadPhase.Tree()
	if tree == nil {
		l.Info("No tree")
		return
	}
	s, err := broadphase.TreeStats(tree)
	if err != nil {
		l.WithError(err).Warn("Unable to measure tree")
		return
	}
	l.WithField("leaves", s.Leaves).
		WithField("maxDepth", s.MaxDepth).
		WithField("meanDepth", s.MeanDepth).
		Info("Broad phase")
}

func (rs *ReportSystem) probeCenter() {
	b := rs.SS.Bounds
	center := mgl64.Vec2{float64(b.Min.X+b.Max.X) / 2, float64(b.Min.Y+b.Max.Y) / 2}
	rs.SS.Probes.Probe(ProbeMessage{
		Point: center,
		Reply: func(ids []uint32) {
			log.Debugf("%d entities cover the center", len(ids))
		},
	})
}

// SimScene bounces circles around a box and counts the pairs the broad phase
// reports.
type SimScene struct {
	Config   Config
	Clock    clock.Clock
	Entities int
	Radius   float32
	Speed    float32
	Duration time.Duration
	Seed     int64

	Bounds engo.AABB

	BroadPhase *BroadPhaseSystem
	Movement   MovementSystem
	Probes     ProbeSystem

	// Pairs counts every collision message seen since Setup.
	Pairs int
}

func (*SimScene) Preload() {}
func (ss *SimScene) Setup(u engo.Updater) {
	w, _ := u.(*ecs.World)

	if ss.Clock == nil {
		ss.Clock = clock.New()
	}
	if ss.Bounds.Max == (engo.Point{}) {
		ss.Bounds = engo.AABB{Max: engo.Point{X: 2048, Y: 1024}}
	}

	bps, err := NewBroadPhaseSystem(ss.Config, ss.Clock)
	if err != nil {
		log.WithError(err).Fatal("Unable to create broad phase")
	}
	ss.BroadPhase = bps
	ss.Movement.Bounds = ss.Bounds
	ss.Probes.BroadPhase = bps

	if engo.Mailbox != nil {
		engo.Mailbox.Listen(CollisionMessage{}.Type(), func(msg engo.Message) {
			if _, ok := msg.(CollisionMessage); ok {
				ss.Pairs++
			}
		})
	} else {
		bps.Dispatch = func(engo.Message) { ss.Pairs++ }
	}

	rng := rand.New(rand.NewSource(ss.Seed))
	for i := 0; i < ss.Entities; i++ {
		ss.Spawn(rng, i%2)
	}

	w.AddSystem(&ss.Movement)
	w.AddSystem(ss.BroadPhase)
	w.AddSystem(&ss.Probes)
	w.AddSystem(&ReportSystem{SS: ss, Duration: ss.Duration})
}
func (*SimScene) Type() string { return "BroadPhaseSim" }

// Spawn adds a circle at a random spot of the scene. Ships hear about
// everything, debris only about ships.
func (ss *SimScene) Spawn(rng *rand.Rand, layer int) *ecs.BasicEntity {
	ent := ecs.NewBasic()
	d := 2 * ss.Radius
	sc := &common.SpaceComponent{
		Position: engo.Point{
			X: ss.Bounds.Min.X + rng.Float32()*(ss.Bounds.Max.X-ss.Bounds.Min.X-d),
			Y: ss.Bounds.Min.Y + rng.Float32()*(ss.Bounds.Max.Y-ss.Bounds.Min.Y-d),
		},
		Width:  d,
		Height: d,
	}
	vel := mgl32.Vec2{rng.Float32()*2 - 1, rng.Float32()*2 - 1}.Mul(ss.Speed)

	mask := broadphase.AllLayers()
	if layer == LayerDebris {
		mask = broadphase.NewLayerMask(LayerShips)
	}
	ss.Movement.Add(&ent, sc, vel)
	ss.BroadPhase.Add(&ent, sc, broadphase.NewLayerMask(layer), mask)
	return &ent
}

// Despawn takes ent out of every system of the scene.
func (ss *SimScene) Despawn(ent ecs.BasicEntity) {
	ss.Movement.Remove(ent)
	ss.BroadPhase.Remove(ent)
}

func (ss *SimScene) InBounds(pos engo.Point) bool {
	if pos.X < ss.Bounds.Min.X {
		return false
	}
	if pos.X > ss.Bounds.Max.X {
		return false
	}
	if pos.Y < ss.Bounds.Min.Y {
		return false
	}
	if pos.Y > ss.Bounds.Max.Y {
		return false
	}
	return true
}
