package system

import (
	"context"
	"slices"

	"github.com/EngoEngine/ecs"
	"github.com/EngoEngine/engo"
	"github.com/EngoEngine/engo/common"
	"github.com/benbjohnson/clock"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/ScottBrooks/broadphase"
)

// BroadPhaseEntity is what the system tracks per entity. Layers are the
// layers the entity is in, Mask the layers it wants to hear about.
type BroadPhaseEntity struct {
	*ecs.BasicEntity
	*common.SpaceComponent

	Layers broadphase.LayerMask
	Mask   broadphase.LayerMask

	// Candidates holds the ids whose boxes overlapped this one on the last
	// tick, without the entity itself.
	Candidates []uint32

	box     broadphase.AABB
	indexed bool
}

// TreeID is the id an entity has inside the tree.
func (e *BroadPhaseEntity) TreeID() uint32 {
	return treeID(e.BasicEntity.ID())
}

// ecs ids are a process wide counter starting at 1, they stay well below
// 2^32 for the life of a simulation.
func treeID(id uint64) uint32 { return uint32(id) }

// CollisionMessage is dispatched once per overlapping pair per tick. It only
// says the boxes overlap; exact tests are up to the listener.
type CollisionMessage struct {
	A *BroadPhaseEntity
	B *BroadPhaseEntity
}

func (CollisionMessage) Type() string {
	return "CollisionMessage"
}

// BroadPhaseSystem keeps a BVH over its entities. Each Update first applies
// every mutation on a single goroutine (rebuild, or moves, inserts and a
// shrink), then queries the tree for every entity from a pool of goroutines,
// then dispatches the overlapping pairs.
type BroadPhaseSystem struct {
	Config Config
	Policy *RebuildPolicy

	// Dispatch receives collision messages, engo.Mailbox when left nil.
	Dispatch func(engo.Message)

	tree     *broadphase.Tree
	entities []*BroadPhaseEntity
	byID     map[uint32]*BroadPhaseEntity
	pending  []*BroadPhaseEntity
	dirty    bool
}

func NewBroadPhaseSystem(cfg Config, clk clock.Clock) (*BroadPhaseSystem, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid broad phase config")
	}
	return &BroadPhaseSystem{
		Config: cfg,
		Policy: NewRebuildPolicy(clk, cfg.RebuildInterval, cfg.DepthFactor),
		byID:   map[uint32]*BroadPhaseEntity{},
	}, nil
}

func (bps *BroadPhaseSystem) Add(ent *ecs.BasicEntity, sc *common.SpaceComponent, layers, mask broadphase.LayerMask) *BroadPhaseEntity {
	e := &BroadPhaseEntity{BasicEntity: ent, SpaceComponent: sc, Layers: layers, Mask: mask}
	bps.entities = append(bps.entities, e)
	bps.byID[e.TreeID()] = e
	bps.pending = append(bps.pending, e)
	return e
}

func (bps *BroadPhaseSystem) Remove(ent ecs.BasicEntity) {
	id := treeID(ent.ID())
	e, ok := bps.byID[id]
	if !ok {
		return
	}
	delete(bps.byID, id)
	bps.entities = slices.DeleteFunc(bps.entities, func(o *BroadPhaseEntity) bool { return o == e })
	bps.pending = slices.DeleteFunc(bps.pending, func(o *BroadPhaseEntity) bool { return o == e })

	if bps.tree == nil || !e.indexed {
		return
	}
	if !bps.tree.DeleteAt(id, e.box) && !bps.tree.Delete(id) {
		log.Debugf("Entity %d was not in the tree", id)
	}
	if bps.tree.Empty() {
		bps.tree = nil
	}
}

func (bps *BroadPhaseSystem) Update(dt float32) {
	bps.index()
	if err := bps.query(context.Background()); err != nil {
		log.WithError(err).Error("Query phase failed")
		return
	}
	bps.dispatchPairs()
}

// Tree is the current index, nil while there are no entities.
func (bps *BroadPhaseSystem) Tree() *broadphase.Tree { return bps.tree }

func (bps *BroadPhaseSystem) Entity(id uint32) (*BroadPhaseEntity, bool) {
	e, ok := bps.byID[id]
	return e, ok
}

func (bps *BroadPhaseSystem) Len() int { return len(bps.entities) }

func boxOf(sc *common.SpaceComponent) broadphase.AABB {
	aabb := sc.AABB()
	return broadphase.AABB{
		Lx: float64(aabb.Min.X),
		Rx: float64(aabb.Max.X),
		Ly: float64(aabb.Min.Y),
		Ry: float64(aabb.Max.Y),
	}
}

func (bps *BroadPhaseSystem) index() {
	if len(bps.entities) == 0 {
		bps.tree = nil
		bps.pending = nil
		return
	}
	if bps.dirty || bps.Policy.Due(bps.tree) {
		bps.rebuild()
		return
	}

	for _, e := range bps.entities {
		if !e.indexed {
			continue
		}
		box := boxOf(e.SpaceComponent)
		if box == e.box {
			continue
		}
		if !bps.tree.Update(e.TreeID(), e.box, box) {
			log.Debugf("Update missed entity %d, rebuilding next tick", e.TreeID())
			bps.dirty = true
		}
		e.box = box
	}
	for _, e := range bps.pending {
		e.box = boxOf(e.SpaceComponent)
		bps.tree.Insert(bps.entityData(e))
		e.indexed = true
	}
	bps.pending = nil

	if bps.Config.ShrinkEveryTick {
		bps.tree.Shrink()
	}
}

func (bps *BroadPhaseSystem) entityData(e *BroadPhaseEntity) broadphase.Entity {
	return broadphase.Entity{
		Box:      e.box,
		Position: mgl64.Vec2{float64(e.Position.X), float64(e.Position.Y)},
		ID:       e.TreeID(),
		Layers:   e.Layers,
	}
}

func (bps *BroadPhaseSystem) rebuild() {
	data := make([]broadphase.Entity, len(bps.entities))
	for i, e := range bps.entities {
		e.box = boxOf(e.SpaceComponent)
		e.indexed = true
		data[i] = bps.entityData(e)
	}
	tree, err := broadphase.New(data)
	if err != nil {
		log.WithError(err).Error("Unable to build tree")
		bps.tree = nil
		return
	}
	log.Debugf("Rebuilt tree with %d entities", len(data))
	bps.tree = tree
	bps.pending = nil
	bps.dirty = false
	bps.Policy.Built()
}

// query fills every entity's Candidates. The tree is only read here.
func (bps *BroadPhaseSystem) query(ctx context.Context) error {
	if bps.tree == nil {
		return nil
	}
	workers := calcQueryWorkers(len(bps.entities), bps.Config.EntitiesPerWorker, bps.Config.maxWorkers())
	chunk := (len(bps.entities) + workers - 1) / workers

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for start := 0; start < len(bps.entities); start += chunk {
		part := bps.entities[start:min(start+chunk, len(bps.entities))]
		g.Go(func() error {
			for _, e := range part {
				if err := ctx.Err(); err != nil {
					return err
				}
				self := e.TreeID()
				ids := bps.tree.QueryRect(e.box, &e.Mask)
				e.Candidates = slices.DeleteFunc(ids, func(id uint32) bool { return id == self })
			}
			return nil
		})
	}
	return g.Wait()
}

func (bps *BroadPhaseSystem) dispatchPairs() {
	dispatch := bps.Dispatch
	if dispatch == nil {
		if engo.Mailbox == nil {
			return
		}
		dispatch = engo.Mailbox.Dispatch
	}

	for _, a := range bps.entities {
		aid := a.TreeID()
		for _, bid := range a.Candidates {
			b, ok := bps.byID[bid]
			if !ok {
				continue
			}
			// b reports the pair itself when it also sees a and has the lower id
			if bid < aid && slices.Contains(b.Candidates, aid) {
				continue
			}
			dispatch(CollisionMessage{A: a, B: b})
		}
	}
}
