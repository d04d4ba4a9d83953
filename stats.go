package broadphase

import (
	"math"

	"github.com/montanaflynn/stats"
	"github.com/pkg/errors"
)

// Stats describes the shape of a tree. A tree fresh out of New has
// MaxDepth == ceil(log2(Leaves)); greedy inserts push it up.
type Stats struct {
	Leaves    int
	Branches  int
	MaxDepth  int
	MeanDepth float64
}

// TreeStats walks the whole tree and measures fruit depths.
func TreeStats(tree *Tree) (Stats, error) {
	var s Stats
	if tree.root == nilHandle {
		return s, nil
	}

	depths := make(stats.Float64Data, 0, tree.leaves)
	depths = tree.fruitDepths(tree.root, 0, depths, &s)

	max, err := depths.Max()
	if err != nil {
		return s, errors.Wrap(err, "max fruit depth")
	}
	mean, err := depths.Mean()
	if err != nil {
		return s, errors.Wrap(err, "mean fruit depth")
	}
	s.MaxDepth = int(max)
	s.MeanDepth = mean
	return s, nil
}

func (tree *Tree) fruitDepths(h handle, depth int, out stats.Float64Data, s *Stats) stats.Float64Data {
	n := &tree.nodes[h]
	switch n.kind {
	case branchNode:
		s.Branches++
		out = tree.fruitDepths(n.children[0], depth+1, out, s)
		out = tree.fruitDepths(n.children[1], depth+1, out, s)
	case fruitNode:
		s.Leaves++
		out = append(out, float64(depth))
	}
	return out
}

// BalancedDepth is the depth of a count balanced tree over the same leaves.
func (s Stats) BalancedDepth() int {
	if s.Leaves <= 1 {
		return 0
	}
	return int(math.Ceil(math.Log2(float64(s.Leaves))))
}

// Degraded reports whether MaxDepth has grown past factor times the
// balanced depth.
func (s Stats) Degraded(factor float64) bool {
	if s.Leaves <= 2 {
		return false
	}
	return float64(s.MaxDepth) > factor*float64(s.BalancedDepth())
}
