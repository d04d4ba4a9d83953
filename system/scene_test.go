package system

import (
	"slices"
	"testing"

	"github.com/EngoEngine/ecs"
	"github.com/EngoEngine/engo"
	"github.com/benbjohnson/clock"
	"github.com/go-gl/mathgl/mgl64"
)

func TestSimScene(t *testing.T) {
	w := &ecs.World{}
	ss := SimScene{
		Config:   DefaultConfig(),
		Clock:    clock.NewMock(),
		Entities: 200,
		Radius:   10,
		Speed:    60,
		Seed:     1,
	}
	ss.Setup(w)

	if got := ss.BroadPhase.Len(); got != 200 {
		t.Fatalf("got %d entities, want 200", got)
	}
	for i := 0; i < 30; i++ {
		w.Update(1.0 / 30)
	}
	if got := ss.BroadPhase.Tree().Len(); got != 200 {
		t.Errorf("got %d entities in the tree, want 200", got)
	}
	if ss.Pairs == 0 {
		t.Errorf("no pairs reported for 200 circles in 30 ticks")
	}
	for _, e := range ss.Movement.Entities {
		if !ss.InBounds(e.Position) {
			t.Errorf("entity %d left the scene at %v", e.ID(), e.Position)
		}
	}
}

func TestSimSceneDespawn(t *testing.T) {
	w := &ecs.World{}
	ss := SimScene{Config: DefaultConfig(), Clock: clock.NewMock(), Entities: 10, Radius: 5, Seed: 2}
	ss.Setup(w)
	w.Update(1.0 / 30)

	ent := ss.Movement.Entities[0].BasicEntity
	ss.Despawn(*ent)
	w.Update(1.0 / 30)
	if ss.BroadPhase.Len() != 9 || len(ss.Movement.Entities) != 9 {
		t.Errorf("got %d tracked and %d moving, want 9", ss.BroadPhase.Len(), len(ss.Movement.Entities))
	}
	if got := ss.BroadPhase.Tree().Len(); got != 9 {
		t.Errorf("got %d entities in the tree, want 9", got)
	}
}

func TestSimSceneInBounds(t *testing.T) {
	ss := SimScene{Bounds: engo.AABB{Max: engo.Point{X: 10, Y: 10}}}
	if !ss.InBounds(engo.Point{X: 10, Y: 0}) {
		t.Errorf("edge point out of bounds")
	}
	if ss.InBounds(engo.Point{X: -1, Y: 5}) {
		t.Errorf("point left of the scene in bounds")
	}
}

func TestSimSceneProbe(t *testing.T) {
	w := &ecs.World{}
	ss := SimScene{Config: DefaultConfig(), Clock: clock.NewMock(), Entities: 50, Radius: 5, Seed: 3}
	ss.Setup(w)
	w.Update(1.0 / 30)

	first := ss.Movement.Entities[0]
	var got []uint32
	ss.Probes.Probe(ProbeMessage{
		Point: mgl64.Vec2{float64(first.Position.X + 1), float64(first.Position.Y + 1)},
		Reply: func(ids []uint32) { got = ids },
	})
	ss.Probes.Update(1.0 / 30)
	if !slices.Contains(got, treeID(first.ID())) {
		t.Errorf("probe inside entity %d returned %v", first.ID(), got)
	}
}
