package broadphase

import (
	"fmt"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func box(lx, rx, ly, ry float64) AABB {
	return AABB{Lx: lx, Rx: rx, Ly: ly, Ry: ry}
}

func TestAABBIsColliding(t *testing.T) {
	var tests = []struct {
		a, b AABB
		want bool
	}{
		{box(0, 1, 0, 1), box(0.5, 2, 0.5, 2), true},
		{box(0, 1, 0, 1), box(1, 2, 0, 1), true},
		{box(0, 1, 0, 1), box(1, 2, 1, 2), true},
		{box(0, 1, 0, 1), box(1.01, 2, 0, 1), false},
		{box(0, 1, 0, 1), box(0, 1, -2, -0.5), false},
		{box(0, 10, 0, 10), box(4, 4, 5, 5), true},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%v vs %v", tt.a, tt.b), func(t *testing.T) {
			if got := tt.a.IsColliding(tt.b); got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
			if got := tt.b.IsColliding(tt.a); got != tt.want {
				t.Errorf("reversed: got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAABBContains(t *testing.T) {
	outer := box(0, 10, 0, 10)
	var tests = []struct {
		inner AABB
		want  bool
	}{
		{box(0, 10, 0, 10), true},
		{box(2, 3, 2, 3), true},
		{box(5, 5, 5, 5), true},
		{box(-1, 3, 2, 3), false},
		{box(2, 11, 2, 3), false},
		{box(2, 3, 9, 10.5), false},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%v", tt.inner), func(t *testing.T) {
			if got := outer.Contains(tt.inner); got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAABBContainsPoint(t *testing.T) {
	b := box(5, 7, 5, 7)
	if !b.ContainsPoint(mgl64.Vec2{5, 5}) {
		t.Errorf("corner should be inside")
	}
	if !b.ContainsPoint(mgl64.Vec2{6, 7}) {
		t.Errorf("edge should be inside")
	}
	if b.ContainsPoint(mgl64.Vec2{4.99, 6}) {
		t.Errorf("point left of the box should be outside")
	}
}

func TestAABBUnionIntersection(t *testing.T) {
	a := box(0, 4, 0, 4)
	b := box(2, 6, -1, 3)

	if got, want := a.Union(b), box(0, 6, -1, 4); got != want {
		t.Errorf("union: got %v, want %v", got, want)
	}
	if got, want := a.Intersection(b), box(2, 4, 0, 3); got != want {
		t.Errorf("intersection: got %v, want %v", got, want)
	}
	if a.Intersection(box(10, 11, 10, 11)).Valid() {
		t.Errorf("intersection of disjoint boxes should be inverted")
	}
	if got, want := a.WithPoint(mgl64.Vec2{-3, 9}), box(-3, 4, 0, 9); got != want {
		t.Errorf("with point: got %v, want %v", got, want)
	}
}

func TestAABBSignedGapDistance(t *testing.T) {
	unit := box(0, 1, 0, 1)
	var tests = []struct {
		name string
		b    AABB
		want float64
	}{
		{"separated on x", box(3, 4, 0, 1), 4 - 1},
		{"separated on both", box(3, 4, 3, 4), 4 + 4},
		{"touching", box(1, 2, 1, 2), 0},
		{"same box", box(0, 1, 0, 1), -2},
		{"half overlap", box(0.5, 1.5, 0, 1), -0.25 - 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := unit.SignedGapDistance(tt.b)
			if got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
			if rev := tt.b.SignedGapDistance(unit); rev != got {
				t.Errorf("not symmetric: %v vs %v", rev, got)
			}
		})
	}

	near := unit.SignedGapDistance(box(2, 3, 0, 1))
	far := unit.SignedGapDistance(box(20, 21, 0, 1))
	if !(near < far) {
		t.Errorf("nearer box should score lower: near %v, far %v", near, far)
	}
}

func TestNewAABBForShapes(t *testing.T) {
	if got, want := NewAABBForCircle(mgl64.Vec2{10, 20}, 1.5), box(10, 13, 20, 23); got != want {
		t.Errorf("circle: got %v, want %v", got, want)
	}
	if got, want := NewAABBForRect(mgl64.Vec2{1, 2}, mgl64.Vec2{3, 4}), box(1, 4, 2, 6); got != want {
		t.Errorf("rect: got %v, want %v", got, want)
	}
	if got, want := box(0, 4, 2, 4).Center(), (mgl64.Vec2{2, 3}); got != want {
		t.Errorf("center: got %v, want %v", got, want)
	}
}
