package broadphase

import "github.com/go-gl/mathgl/mgl64"

// Entity is what the tree is built from and what Insert takes. Position only
// drives the split axis and the median during construction; Box is what gets
// stored and queried.
type Entity struct {
	Box      AABB
	Position mgl64.Vec2
	ID       uint32
	Layers   LayerMask
}
