package broadphase

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// AABB is an axis aligned box. Lx/Rx are the left and right edges, Ly/Ry the
// low and high edges on the y axis.
type AABB struct {
	Lx, Rx, Ly, Ry float64
}

// NewAABBForCircle returns the box of a circle whose top-left corner sits at pos.
func NewAABBForCircle(pos mgl64.Vec2, radius float64) AABB {
	return AABB{
		Lx: pos[0],
		Rx: pos[0] + 2*radius,
		Ly: pos[1],
		Ry: pos[1] + 2*radius,
	}
}

func NewAABBForRect(pos, size mgl64.Vec2) AABB {
	return AABB{
		Lx: pos[0],
		Rx: pos[0] + size[0],
		Ly: pos[1],
		Ry: pos[1] + size[1],
	}
}

func (a AABB) Valid() bool {
	return a.Lx <= a.Rx && a.Ly <= a.Ry
}

func (a AABB) Width() float64  { return a.Rx - a.Lx }
func (a AABB) Height() float64 { return a.Ry - a.Ly }

func (a AABB) Center() mgl64.Vec2 {
	return mgl64.Vec2{(a.Lx + a.Rx) / 2, (a.Ly + a.Ry) / 2}
}

func (a AABB) Union(b AABB) AABB {
	return AABB{
		Lx: math.Min(a.Lx, b.Lx),
		Rx: math.Max(a.Rx, b.Rx),
		Ly: math.Min(a.Ly, b.Ly),
		Ry: math.Max(a.Ry, b.Ry),
	}
}

// Intersection is only meaningful when a and b collide; otherwise the result
// is inverted on at least one axis.
func (a AABB) Intersection(b AABB) AABB {
	return AABB{
		Lx: math.Max(a.Lx, b.Lx),
		Rx: math.Min(a.Rx, b.Rx),
		Ly: math.Max(a.Ly, b.Ly),
		Ry: math.Min(a.Ry, b.Ry),
	}
}

// WithPoint grows a to include p.
func (a AABB) WithPoint(p mgl64.Vec2) AABB {
	return AABB{
		Lx: math.Min(a.Lx, p[0]),
		Rx: math.Max(a.Rx, p[0]),
		Ly: math.Min(a.Ly, p[1]),
		Ry: math.Max(a.Ry, p[1]),
	}
}

// IsColliding is a closed interval test, touching edges collide.
func (a AABB) IsColliding(b AABB) bool {
	return a.Rx >= b.Lx && a.Lx <= b.Rx && a.Ry >= b.Ly && a.Ly <= b.Ry
}

func (a AABB) Contains(b AABB) bool {
	return a.Lx <= b.Lx && a.Rx >= b.Rx && a.Ly <= b.Ly && a.Ry >= b.Ry
}

func (a AABB) ContainsPoint(p mgl64.Vec2) bool {
	return a.Lx <= p[0] && a.Rx >= p[0] && a.Ly <= p[1] && a.Ry >= p[1]
}

// SignedGapDistance measures the gap between the two boxes per axis, squares
// it and keeps the sign. Negative values mean the boxes overlap, the more
// negative the deeper. It is only an ordering heuristic for Insert, not a
// geometric distance.
func (a AABB) SignedGapDistance(b AABB) float64 {
	dx := math.Abs((a.Lx+a.Rx)/2-(b.Lx+b.Rx)/2) - (a.Width()/2 + b.Width()/2)
	dy := math.Abs((a.Ly+a.Ry)/2-(b.Ly+b.Ry)/2) - (a.Height()/2 + b.Height()/2)
	return math.Copysign(dx*dx, dx) + math.Copysign(dy*dy, dy)
}
