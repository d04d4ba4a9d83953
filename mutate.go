package broadphase

// Update moves entity id from oldBox to newBox. The search only enters
// branches that contain oldBox, so oldBox must be the box the tree last saw
// for id. Every branch on the path to the entity grows to include newBox;
// nothing shrinks here, see Shrink.
//
// It returns false when id was not found, which includes a stale oldBox
// steering the search away from the entity.
func (tree *Tree) Update(id uint32, oldBox, newBox AABB) bool {
	if tree.root == nilHandle {
		return false
	}
	return tree.update(tree.root, id, oldBox, newBox)
}

func (tree *Tree) update(h handle, id uint32, oldBox, newBox AABB) bool {
	n := &tree.nodes[h]
	switch n.kind {
	case branchNode:
		if !n.bb.Contains(oldBox) {
			return false
		}
		for _, c := range n.children {
			if tree.update(c, id, oldBox, newBox) {
				n.bb = n.bb.Union(newBox)
				return true
			}
		}
	case fruitNode:
		if n.id == id {
			n.bb = newBox
			return true
		}
	}
	return false
}

// Insert adds e without rebuilding. Each branch on the way down grows to
// include e.Box and the walk follows the child with the smallest
// SignedGapDistance to it, the first child on ties. The fruit it lands on is
// replaced by a branch holding the new fruit and the old one.
//
// Nothing is rebalanced; many inserts without a rebuild deepen the tree.
func (tree *Tree) Insert(e Entity) {
	if tree.root == nilHandle {
		tree.root = tree.newFruit(e.Box, e.ID, e.Layers)
		return
	}

	h := tree.root
	for tree.nodes[h].kind == branchNode {
		n := &tree.nodes[h]
		n.bb = n.bb.Union(e.Box)

		best := n.children[0]
		bestDist := tree.nodes[best].bb.SignedGapDistance(e.Box)
		if d := tree.nodes[n.children[1]].bb.SignedGapDistance(e.Box); d < bestDist {
			best = n.children[1]
		}
		h = best
	}

	old := tree.nodes[h]
	fresh := tree.newFruit(e.Box, e.ID, e.Layers)
	moved := tree.allocNode()
	tree.nodes[moved] = old
	tree.nodes[moved].next = nilHandle

	tree.nodes[h] = node{
		kind:     branchNode,
		bb:       e.Box.Union(old.bb),
		children: [2]handle{fresh, moved},
		next:     nilHandle,
	}
}

type deleteResult uint8

const (
	deleteNotFound deleteResult = iota
	// the fruit was found at this node, the parent has to collapse
	deleteCollapse
	deleteDone
)

// Delete removes entity id. Its parent branch is replaced by the sibling
// subtree. Ancestor boxes are left as they are until the next Shrink.
// Deleting the last entity leaves an empty tree. It returns false when id
// was not found.
func (tree *Tree) Delete(id uint32) bool {
	return tree.deleteFrom(id, nil)
}

// DeleteAt is Delete with a hint: only branches containing bb are searched.
// bb must be the box the tree currently holds for id.
func (tree *Tree) DeleteAt(id uint32, bb AABB) bool {
	return tree.deleteFrom(id, &bb)
}

func (tree *Tree) deleteFrom(id uint32, hint *AABB) bool {
	if tree.root == nilHandle {
		return false
	}
	switch tree.delete(tree.root, id, hint) {
	case deleteNotFound:
		return false
	case deleteCollapse:
		tree.freeFruit(tree.root)
		tree.root = nilHandle
	}
	return true
}

func (tree *Tree) delete(h handle, id uint32, hint *AABB) deleteResult {
	n := &tree.nodes[h]
	switch n.kind {
	case fruitNode:
		if n.id == id {
			return deleteCollapse
		}
	case branchNode:
		if hint != nil && !n.bb.Contains(*hint) {
			return deleteNotFound
		}
		for i, c := range n.children {
			switch tree.delete(c, id, hint) {
			case deleteCollapse:
				sibling := n.children[1-i]
				tree.freeFruit(c)
				tree.nodes[h] = tree.nodes[sibling]
				tree.nodes[h].next = nilHandle
				tree.freeNode(sibling)
				return deleteDone
			case deleteDone:
				return deleteDone
			}
		}
	}
	return deleteNotFound
}

func (tree *Tree) freeFruit(h handle) {
	tree.leaves--
	tree.freeNode(h)
}

// Shrink recomputes every branch box bottom up as the exact union of its
// children, undoing the growth left behind by Update and Delete.
func (tree *Tree) Shrink() {
	if tree.root == nilHandle {
		return
	}
	tree.shrink(tree.root)
}

func (tree *Tree) shrink(h handle) AABB {
	n := &tree.nodes[h]
	if n.kind == branchNode {
		n.bb = tree.shrink(n.children[0]).Union(tree.shrink(n.children[1]))
	}
	return n.bb
}
