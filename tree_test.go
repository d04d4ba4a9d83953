package broadphase

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/pkg/errors"
)

var (
	sortIDs = cmpopts.SortSlices(func(a, b uint32) bool { return a < b })
	sameIDs = cmp.Options{sortIDs, cmpopts.EquateEmpty()}
)

func circleEntity(id uint32, x, y, r float64, layers ...int) Entity {
	pos := mgl64.Vec2{x, y}
	return Entity{
		Box:      NewAABBForCircle(pos, r),
		Position: pos,
		ID:       id,
		Layers:   NewLayerMask(layers...),
	}
}

func randomEntities(rng *rand.Rand, n int) []Entity {
	ents := make([]Entity, n)
	for i := range ents {
		ents[i] = circleEntity(uint32(i+1), rng.Float64()*1000, rng.Float64()*500, 1+rng.Float64()*10, rng.Intn(3))
	}
	return ents
}

func entityIDs(ents []Entity) []uint32 {
	ids := make([]uint32, len(ents))
	for i, e := range ents {
		ids[i] = e.ID
	}
	return ids
}

// fruitBoxes maps every id in the tree to its stored box.
func fruitBoxes(tree *Tree) map[uint32]AABB {
	out := map[uint32]AABB{}
	for _, n := range tree.Nodes() {
		if n.IsFruit() {
			out[n.ID()] = n.Box()
		}
	}
	return out
}

func checkTight(t *testing.T, tree *Tree) {
	t.Helper()
	for _, n := range tree.Nodes() {
		children, ok := n.Children()
		if !ok {
			continue
		}
		if want := children[0].Box().Union(children[1].Box()); n.Box() != want {
			t.Fatalf("branch box %v is not the union of its children %v", n.Box(), want)
		}
	}
}

func checkEncloses(t *testing.T, tree *Tree) {
	t.Helper()
	root, ok := tree.Root()
	if !ok {
		return
	}
	var walk func(n Node, ancestors []AABB)
	walk = func(n Node, ancestors []AABB) {
		if n.IsFruit() {
			for _, a := range ancestors {
				if !a.Contains(n.Box()) {
					t.Fatalf("ancestor %v does not enclose fruit %d %v", a, n.ID(), n.Box())
				}
			}
			return
		}
		children, _ := n.Children()
		next := append(ancestors[:len(ancestors):len(ancestors)], n.Box())
		walk(children[0], next)
		walk(children[1], next)
	}
	walk(root, nil)
}

func TestNewEmpty(t *testing.T) {
	tree, err := New(nil)
	if tree != nil || !errors.Is(err, ErrEmptyTree) {
		t.Fatalf("got %v %v, want ErrEmptyTree", tree, err)
	}
}

func TestNewCompleteness(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for _, n := range []int{1, 2, 3, 5, 8, 33, 100, 1000} {
		t.Run(fmt.Sprintf("%d entities", n), func(t *testing.T) {
			ents := randomEntities(rng, n)
			tree, err := New(ents)
			if err != nil {
				t.Fatal(err)
			}

			if diff := cmp.Diff(entityIDs(ents), tree.IDs(), sortIDs); diff != "" {
				t.Errorf("ids mismatch (-want +got):\n%s", diff)
			}
			if tree.Len() != n {
				t.Errorf("got len %d, want %d", tree.Len(), n)
			}
			if got, want := len(tree.Nodes()), 2*n-1; got != want {
				t.Errorf("got %d nodes, want %d", got, want)
			}
			checkTight(t, tree)

			s, err := TreeStats(tree)
			if err != nil {
				t.Fatal(err)
			}
			if s.MaxDepth != s.BalancedDepth() {
				t.Errorf("got max depth %d, want %d", s.MaxDepth, s.BalancedDepth())
			}
		})
	}
}

func TestNewDoesNotReorderInput(t *testing.T) {
	ents := randomEntities(rand.New(rand.NewSource(2)), 50)
	before := entityIDs(ents)
	if _, err := New(ents); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(before, entityIDs(ents)); diff != "" {
		t.Errorf("input was reordered:\n%s", diff)
	}
}

func TestNewSplitsAtMedian(t *testing.T) {
	// Spread along x, the lower half by x must end up under the first child.
	var ents []Entity
	for i, x := range []float64{90, 10, 70, 30, 50, 20, 80} {
		ents = append(ents, circleEntity(uint32(i+1), x, 0, 1, 0))
	}
	tree, err := New(ents)
	if err != nil {
		t.Fatal(err)
	}
	root, _ := tree.Root()
	children, ok := root.Children()
	if !ok {
		t.Fatal("root should be a branch")
	}
	first := children[0].Box()
	second := children[1].Box()
	if first.Lx != 10 || first.Rx != 52 {
		t.Errorf("got first half %v, want x in [10, 52]", first)
	}
	if second.Lx != 70 || second.Rx != 92 {
		t.Errorf("got second half %v, want x in [70, 92]", second)
	}
}

func TestNewDuplicatePositions(t *testing.T) {
	var ents []Entity
	for i := 0; i < 64; i++ {
		ents = append(ents, circleEntity(uint32(i), 5, 5, 1, 0))
	}
	tree, err := New(ents)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(entityIDs(ents), tree.IDs(), sortIDs); diff != "" {
		t.Errorf("ids mismatch (-want +got):\n%s", diff)
	}
	s, _ := TreeStats(tree)
	if s.MaxDepth != 6 {
		t.Errorf("got depth %d, want 6", s.MaxDepth)
	}
}

func TestFiveCircles(t *testing.T) {
	ents := []Entity{
		circleEntity(1, 0, 0, 1, 0),
		circleEntity(2, 10, 0, 1, 0),
		circleEntity(3, 0, 10, 1, 0),
		circleEntity(4, 10, 10, 1, 0),
		circleEntity(5, 5, 5, 1, 0),
	}
	tree, err := New(ents)
	if err != nil {
		t.Fatal(err)
	}
	layer0 := NewLayerMask(0)

	if diff := cmp.Diff([]uint32{5}, tree.QueryPoint(mgl64.Vec2{5, 5}, &layer0)); diff != "" {
		t.Errorf("point query mismatch (-want +got):\n%s", diff)
	}
	all := tree.QueryRect(box(0, 12, 0, 12), &layer0)
	if diff := cmp.Diff([]uint32{1, 2, 3, 4, 5}, all, sortIDs); diff != "" {
		t.Errorf("rect query mismatch (-want +got):\n%s", diff)
	}

	layer1 := NewLayerMask(1)
	if got := tree.QueryRect(box(0, 12, 0, 12), &layer1); got != nil {
		t.Errorf("got %v for a layer nobody is in, want nil", got)
	}
	if got := tree.QueryPoint(mgl64.Vec2{3.5, 3.5}, nil); got != nil {
		t.Errorf("got %v in the empty middle, want nil", got)
	}
}
