package system

import (
	"github.com/EngoEngine/ecs"
	"github.com/EngoEngine/engo"
	"github.com/go-gl/mathgl/mgl64"

	"github.com/ScottBrooks/broadphase"
)

// ProbeMessage asks which entities cover Point, or overlap Box when it is
// set. Reply is called from the probe system's Update with the ids found.
type ProbeMessage struct {
	Point mgl64.Vec2
	Box   *broadphase.AABB
	Mask  *broadphase.LayerMask

	Reply func(ids []uint32)
}

func (ProbeMessage) Type() string {
	return "ProbeMessage"
}

// ProbeSystem answers point and box queries against the broad phase tree
// once per tick.
type ProbeSystem struct {
	BroadPhase *BroadPhaseSystem

	queue []ProbeMessage
}

func (ps *ProbeSystem) New(w *ecs.World) {
	if engo.Mailbox == nil {
		return
	}
	engo.Mailbox.Listen(ProbeMessage{}.Type(), func(msg engo.Message) {
		pm, ok := msg.(ProbeMessage)
		if !ok {
			return
		}
		ps.Probe(pm)
	})
}

// Probe queues pm for the next Update.
func (ps *ProbeSystem) Probe(pm ProbeMessage) {
	ps.queue = append(ps.queue, pm)
}

func (ps *ProbeSystem) Remove(ecs.BasicEntity) {}
func (ps *ProbeSystem) Update(dt float32) {
	if len(ps.queue) == 0 {
		return
	}
	tree := ps.BroadPhase.Tree()
	for _, pm := range ps.queue {
		if pm.Reply == nil {
			continue
		}
		var ids []uint32
		switch {
		case tree == nil:
		case pm.Box != nil:
			ids = tree.QueryRect(*pm.Box, pm.Mask)
		default:
			ids = tree.QueryPoint(pm.Point, pm.Mask)
		}
		pm.Reply(ids)
	}
	ps.queue = nil
}
