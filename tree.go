package broadphase

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/pkg/errors"
)

// ErrEmptyTree is returned by New when it is given no entities.
var ErrEmptyTree = errors.New("broadphase: cannot build a tree from zero entities")

// Tree is a bounding volume hierarchy over 2D boxes. Nodes live in an arena
// owned by the tree and are addressed by handle.
//
// Queries never mutate the tree and may run concurrently with each other.
// Update, Insert, Delete and Shrink need exclusive access.
type Tree struct {
	nodes  []node
	free   handle
	root   handle
	leaves int
}

// New builds a tree balanced by count: every level splits the remaining
// entities at the median position along the axis where the positions spread
// the most. entities is not modified.
func New(entities []Entity) (*Tree, error) {
	if len(entities) == 0 {
		return nil, ErrEmptyTree
	}

	tree := &Tree{
		nodes: make([]node, 0, 2*len(entities)-1),
		free:  nilHandle,
		root:  nilHandle,
	}
	items := make([]Entity, len(entities))
	copy(items, entities)
	tree.root = tree.build(items)
	return tree, nil
}

func (tree *Tree) build(items []Entity) handle {
	if len(items) == 1 {
		e := items[0]
		return tree.newFruit(e.Box, e.ID, e.Layers)
	}

	p := items[0].Position
	spread := AABB{Lx: p[0], Rx: p[0], Ly: p[1], Ry: p[1]}
	for _, e := range items[1:] {
		spread = spread.WithPoint(e.Position)
	}
	axis := 1
	if spread.Width() > spread.Height() {
		axis = 0
	}

	half := (len(items) + 1) / 2
	selectNth(items, half-1, axis)

	a := tree.build(items[:half])
	b := tree.build(items[half:])
	return tree.newBranch(a, b)
}

// selectNth reorders items so that items[k] holds the element that would be
// there if items were sorted by Position[axis], with nothing greater before it
// and nothing smaller after it.
func selectNth(items []Entity, k, axis int) {
	lo, hi := 0, len(items)-1
	for lo < hi {
		lt, gt := partition3(items, lo, hi, axis)
		switch {
		case k < lt:
			hi = lt - 1
		case k > gt:
			lo = gt + 1
		default:
			return
		}
	}
}

// partition3 splits items[lo:hi+1] around the middle element's coordinate and
// returns the inclusive range holding keys equal to it.
func partition3(items []Entity, lo, hi, axis int) (int, int) {
	pivot := items[lo+(hi-lo)/2].Position[axis]
	lt, i, gt := lo, lo, hi
	for i <= gt {
		v := items[i].Position[axis]
		switch {
		case v < pivot:
			items[lt], items[i] = items[i], items[lt]
			lt++
			i++
		case v > pivot:
			items[i], items[gt] = items[gt], items[i]
			gt--
		default:
			i++
		}
	}
	return lt, gt
}

// Len is the number of entities in the tree.
func (tree *Tree) Len() int { return tree.leaves }

func (tree *Tree) Empty() bool { return tree.root == nilHandle }

// Root returns the root node, ok is false for an emptied tree.
func (tree *Tree) Root() (Node, bool) {
	if tree.root == nilHandle {
		return Node{}, false
	}
	return Node{tree, tree.root}, true
}

// Bounds is the root box.
func (tree *Tree) Bounds() (AABB, bool) {
	if tree.root == nilHandle {
		return AABB{}, false
	}
	return tree.nodes[tree.root].bb, true
}

// IDs returns the id of every entity in the tree, each exactly once.
func (tree *Tree) IDs() []uint32 {
	ids := make([]uint32, 0, tree.leaves)
	if tree.root == nilHandle {
		return ids
	}
	return tree.collectIDs(tree.root, ids)
}

func (tree *Tree) collectIDs(h handle, ids []uint32) []uint32 {
	n := &tree.nodes[h]
	switch n.kind {
	case branchNode:
		ids = tree.collectIDs(n.children[0], ids)
		ids = tree.collectIDs(n.children[1], ids)
	case fruitNode:
		ids = append(ids, n.id)
	}
	return ids
}

// Nodes returns every node of the tree, children before their parent.
func (tree *Tree) Nodes() []Node {
	if tree.root == nilHandle {
		return nil
	}
	out := make([]Node, 0, 2*tree.leaves-1)
	return tree.collectNodes(tree.root, out)
}

func (tree *Tree) collectNodes(h handle, out []Node) []Node {
	n := &tree.nodes[h]
	if n.kind == branchNode {
		out = tree.collectNodes(n.children[0], out)
		out = tree.collectNodes(n.children[1], out)
	}
	return append(out, Node{tree, h})
}

// QueryPoint returns the ids of entities whose box contains p and whose
// layers are compatible with mask. A nil mask matches every layer. The
// result is nil when nothing matched; its order is unspecified.
func (tree *Tree) QueryPoint(p mgl64.Vec2, mask *LayerMask) []uint32 {
	return Walk(tree, p, mask, PointInBox, collectMatches, nil)
}

// QueryRect is QueryPoint for a box, using the closed overlap test.
func (tree *Tree) QueryRect(r AABB, mask *LayerMask) []uint32 {
	return Walk(tree, r, mask, BoxOverlapsBox, collectMatches, nil)
}
