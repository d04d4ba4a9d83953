package broadphase

import "github.com/go-gl/mathgl/mgl64"

// Visit is what a walk reports for every node it tests. For a branch Matched
// means the walk descended into it, for a fruit that it passed both the
// layer filter and the predicate.
type Visit struct {
	Node    Node
	Depth   int
	Matched bool
}

// Predicate decides whether a query shape q touches a node box.
type Predicate[Q any] func(bb AABB, q Q) bool

// Visitor folds a Visit into the caller's accumulator and returns the new one.
type Visitor[S any] func(v Visit, acc S) S

func PointInBox(bb AABB, p mgl64.Vec2) bool { return bb.ContainsPoint(p) }

func BoxOverlapsBox(bb AABB, r AABB) bool { return bb.IsColliding(r) }

// Walk runs a top-down pruning traversal from the root. A branch whose box
// fails hit is skipped along with its whole subtree. visit is called for
// every node tested, in depth first order, threading acc through.
func Walk[Q, S any](tree *Tree, q Q, mask *LayerMask, hit Predicate[Q], visit Visitor[S], acc S) S {
	if tree.root == nilHandle {
		return acc
	}
	w := walker[Q, S]{tree: tree, q: q, mask: mask, hit: hit, visit: visit}
	return w.walk(tree.root, 0, acc)
}

type walker[Q, S any] struct {
	tree  *Tree
	q     Q
	mask  *LayerMask
	hit   Predicate[Q]
	visit Visitor[S]
}

func (w *walker[Q, S]) walk(h handle, depth int, acc S) S {
	n := &w.tree.nodes[h]
	switch n.kind {
	case branchNode:
		ok := w.hit(n.bb, w.q)
		acc = w.visit(Visit{Node{w.tree, h}, depth, ok}, acc)
		if ok {
			acc = w.walk(n.children[0], depth+1, acc)
			acc = w.walk(n.children[1], depth+1, acc)
		}
	case fruitNode:
		ok := compatible(w.mask, n.layers) && w.hit(n.bb, w.q)
		acc = w.visit(Visit{Node{w.tree, h}, depth, ok}, acc)
	}
	return acc
}

func collectMatches(v Visit, ids []uint32) []uint32 {
	if v.Matched && v.Node.IsFruit() {
		return append(ids, v.Node.ID())
	}
	return ids
}

type debugResult struct {
	ids     []uint32
	visited []Visit
}

func collectDebug(v Visit, acc debugResult) debugResult {
	acc.ids = collectMatches(v, acc.ids)
	acc.visited = append(acc.visited, v)
	return acc
}

// DebugQueryPoint is QueryPoint that also returns every node the walk
// tested, with its depth.
func (tree *Tree) DebugQueryPoint(p mgl64.Vec2, mask *LayerMask) ([]uint32, []Visit) {
	res := Walk(tree, p, mask, PointInBox, collectDebug, debugResult{})
	return res.ids, res.visited
}

func (tree *Tree) DebugQueryRect(r AABB, mask *LayerMask) ([]uint32, []Visit) {
	res := Walk(tree, r, mask, BoxOverlapsBox, collectDebug, debugResult{})
	return res.ids, res.visited
}
