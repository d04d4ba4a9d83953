package broadphase

type nodeKind uint8

const (
	branchNode nodeKind = iota
	fruitNode
)

type handle int32

const nilHandle handle = -1

// node is a slot in the tree's arena. A branch uses bb and children, a fruit
// uses bb, id and layers. Free slots are chained through next.
type node struct {
	kind     nodeKind
	bb       AABB
	children [2]handle
	id       uint32
	layers   LayerMask
	next     handle
}

func (tree *Tree) allocNode() handle {
	if tree.free != nilHandle {
		h := tree.free
		tree.free = tree.nodes[h].next
		tree.nodes[h] = node{next: nilHandle}
		return h
	}
	tree.nodes = append(tree.nodes, node{next: nilHandle})
	return handle(len(tree.nodes) - 1)
}

func (tree *Tree) freeNode(h handle) {
	tree.nodes[h] = node{children: [2]handle{nilHandle, nilHandle}, next: tree.free}
	tree.free = h
}

func (tree *Tree) newFruit(bb AABB, id uint32, layers LayerMask) handle {
	h := tree.allocNode()
	n := &tree.nodes[h]
	n.kind = fruitNode
	n.bb = bb
	n.children = [2]handle{nilHandle, nilHandle}
	n.id = id
	n.layers = layers
	tree.leaves++
	return h
}

func (tree *Tree) newBranch(a, b handle) handle {
	h := tree.allocNode()
	n := &tree.nodes[h]
	n.kind = branchNode
	n.bb = tree.nodes[a].bb.Union(tree.nodes[b].bb)
	n.children = [2]handle{a, b}
	return h
}

// Node is a read only view of a tree node, handed out by Nodes, Root and the
// debug queries. It is invalidated by any mutation of the tree.
type Node struct {
	tree *Tree
	h    handle
}

func (n Node) IsBranch() bool { return n.tree.nodes[n.h].kind == branchNode }
func (n Node) IsFruit() bool  { return n.tree.nodes[n.h].kind == fruitNode }
func (n Node) Box() AABB      { return n.tree.nodes[n.h].bb }

// ID is the entity id of a fruit. It is zero for branches.
func (n Node) ID() uint32 { return n.tree.nodes[n.h].id }

func (n Node) Layers() LayerMask { return n.tree.nodes[n.h].layers }

// Children returns the two children of a branch. ok is false for fruits.
func (n Node) Children() (children [2]Node, ok bool) {
	nd := &n.tree.nodes[n.h]
	if nd.kind != branchNode {
		return children, false
	}
	return [2]Node{{n.tree, nd.children[0]}, {n.tree, nd.children[1]}}, true
}
