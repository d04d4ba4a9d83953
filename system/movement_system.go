package system

import (
	"github.com/EngoEngine/ecs"
	"github.com/EngoEngine/engo"
	"github.com/EngoEngine/engo/common"
	"github.com/go-gl/mathgl/mgl32"
)

type MovingEntity struct {
	*ecs.BasicEntity
	*common.SpaceComponent

	Velocity mgl32.Vec2
}

// Step moves the entity by its velocity and reflects it off the walls of
// bounds.
func (me *MovingEntity) Step(dt float32, bounds engo.AABB) {
	me.Position.X += me.Velocity[0] * dt
	me.Position.Y += me.Velocity[1] * dt

	if me.Position.X < bounds.Min.X {
		me.Position.X = bounds.Min.X
		me.Velocity[0] = -me.Velocity[0]
	}
	if me.Position.X+me.Width > bounds.Max.X {
		me.Position.X = bounds.Max.X - me.Width
		me.Velocity[0] = -me.Velocity[0]
	}
	if me.Position.Y < bounds.Min.Y {
		me.Position.Y = bounds.Min.Y
		me.Velocity[1] = -me.Velocity[1]
	}
	if me.Position.Y+me.Height > bounds.Max.Y {
		me.Position.Y = bounds.Max.Y - me.Height
		me.Velocity[1] = -me.Velocity[1]
	}
}

type MovementSystem struct {
	Bounds   engo.AABB
	Entities []*MovingEntity
}

func (ms *MovementSystem) Add(ent *ecs.BasicEntity, sc *common.SpaceComponent, vel mgl32.Vec2) {
	ms.Entities = append(ms.Entities, &MovingEntity{ent, sc, vel})
}

func (ms *MovementSystem) Remove(ent ecs.BasicEntity) {
	idx := -1
	for i, e := range ms.Entities {
		if ent.ID() == e.ID() {
			idx = i
		}
	}
	if idx != -1 {
		ms.Entities = append(ms.Entities[:idx], ms.Entities[idx+1:]...)
	}
}

func (ms *MovementSystem) Update(dt float32) {
	for _, e := range ms.Entities {
		e.Step(dt, ms.Bounds)
	}
}
