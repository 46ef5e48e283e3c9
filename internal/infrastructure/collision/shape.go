package collision

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/younwookim/kinematic/internal/domain/entity"
	"github.com/younwookim/kinematic/internal/domain/mathx"
)

// Shape is a collider. Every shape is a convex core, optionally rounded by a
// radius, split into one or more sub-colliders
type Shape interface {
	// Bounds returns the world-space bounds of the whole shape under t
	Bounds(t entity.Transform) AABB
	// SubColliders returns the number of addressable sub-colliders
	SubColliders() int

	subBounds(t entity.Transform, sub int) AABB
	// closest returns the point of sub-collider sub's core nearest to p
	closest(t entity.Transform, sub int, p mgl64.Vec3) mgl64.Vec3
	// normalAt returns an outward normal for a point lying on or inside the core
	normalAt(t entity.Transform, sub int, p mgl64.Vec3) mgl64.Vec3
	radius() float64
}

// Caster is a shape that can be swept: a segment core rounded by a radius
type Caster interface {
	Shape
	segment(t entity.Transform) (a, b mgl64.Vec3)
}

var (
	_ Caster = Sphere{}
	_ Caster = Capsule{}
	_ Shape  = Box{}
	_ Shape  = (*TriMesh)(nil)
)

func toWorld(t entity.Transform, p mgl64.Vec3) mgl64.Vec3 {
	return t.Position.Add(t.Rotation.Rotate(p))
}

func toLocal(t entity.Transform, p mgl64.Vec3) mgl64.Vec3 {
	return mathx.InverseRotate(t.Rotation, p.Sub(t.Position))
}

// Sphere is a point core with a radius
type Sphere struct {
	Center mgl64.Vec3
	Radius float64
}

func (s Sphere) Bounds(t entity.Transform) AABB {
	return AABBFromPoints(toWorld(t, s.Center)).Expand(s.Radius)
}

func (s Sphere) SubColliders() int { return 1 }

func (s Sphere) subBounds(t entity.Transform, _ int) AABB { return s.Bounds(t) }

func (s Sphere) closest(t entity.Transform, _ int, _ mgl64.Vec3) mgl64.Vec3 {
	return toWorld(t, s.Center)
}

func (s Sphere) normalAt(_ entity.Transform, _ int, _ mgl64.Vec3) mgl64.Vec3 { return mathx.UnitY }

func (s Sphere) radius() float64 { return s.Radius }

func (s Sphere) segment(t entity.Transform) (mgl64.Vec3, mgl64.Vec3) {
	c := toWorld(t, s.Center)
	return c, c
}

// Capsule is a segment core from A to B with a radius
type Capsule struct {
	A, B   mgl64.Vec3
	Radius float64
}

// NewCharacterCapsule returns an upright capsule whose bottom touches the origin
func NewCharacterCapsule(radius, height float64) Capsule {
	return Capsule{
		A:      mgl64.Vec3{0, radius, 0},
		B:      mgl64.Vec3{0, math.Max(radius, height-radius), 0},
		Radius: radius,
	}
}

func (c Capsule) Bounds(t entity.Transform) AABB {
	return AABBFromPoints(toWorld(t, c.A), toWorld(t, c.B)).Expand(c.Radius)
}

func (c Capsule) SubColliders() int { return 1 }

func (c Capsule) subBounds(t entity.Transform, _ int) AABB { return c.Bounds(t) }

func (c Capsule) closest(t entity.Transform, _ int, p mgl64.Vec3) mgl64.Vec3 {
	a, b := c.segment(t)
	return closestPointOnSegment(a, b, p)
}

func (c Capsule) normalAt(t entity.Transform, _ int, _ mgl64.Vec3) mgl64.Vec3 {
	a, b := c.segment(t)
	return mathx.Perpendicular(mathx.NormalizeSafe(b.Sub(a), mathx.UnitY))
}

func (c Capsule) radius() float64 { return c.Radius }

func (c Capsule) segment(t entity.Transform) (mgl64.Vec3, mgl64.Vec3) {
	return toWorld(t, c.A), toWorld(t, c.B)
}

// Box is an oriented box; the body transform supplies the orientation
type Box struct {
	Center      mgl64.Vec3
	HalfExtents mgl64.Vec3
}

func (b Box) Bounds(t entity.Transform) AABB {
	box := EmptyAABB()
	for i := 0; i < 8; i++ {
		corner := b.HalfExtents
		if i&1 != 0 {
			corner[0] = -corner[0]
		}
		if i&2 != 0 {
			corner[1] = -corner[1]
		}
		if i&4 != 0 {
			corner[2] = -corner[2]
		}
		box = box.Include(toWorld(t, b.Center.Add(corner)))
	}
	return box
}

func (b Box) SubColliders() int { return 1 }

func (b Box) subBounds(t entity.Transform, _ int) AABB { return b.Bounds(t) }

func (b Box) closest(t entity.Transform, _ int, p mgl64.Vec3) mgl64.Vec3 {
	local := toLocal(t, p).Sub(b.Center)
	for i := 0; i < 3; i++ {
		local[i] = mathx.Clamp(local[i], -b.HalfExtents[i], b.HalfExtents[i])
	}
	return toWorld(t, local.Add(b.Center))
}

// normalAt picks the face of least penetration
func (b Box) normalAt(t entity.Transform, _ int, p mgl64.Vec3) mgl64.Vec3 {
	local := toLocal(t, p).Sub(b.Center)
	axis, best := 1, math.Inf(1)
	for i := 0; i < 3; i++ {
		if depth := b.HalfExtents[i] - math.Abs(local[i]); depth < best {
			axis, best = i, depth
		}
	}
	var n mgl64.Vec3
	n[axis] = 1
	if local[axis] < 0 {
		n[axis] = -1
	}
	return t.Rotation.Rotate(n)
}

func (b Box) radius() float64 { return 0 }

// Triangle is a single face; its front side follows (V1-V0)×(V2-V0)
type Triangle [3]mgl64.Vec3

// Normal returns the unit face normal
func (tr Triangle) Normal() mgl64.Vec3 {
	return mathx.NormalizeSafe(tr[1].Sub(tr[0]).Cross(tr[2].Sub(tr[0])), mathx.UnitY)
}

// TriMesh is a triangle soup; every triangle is its own sub-collider
type TriMesh struct {
	Triangles []Triangle
}

func (m *TriMesh) Bounds(t entity.Transform) AABB {
	box := EmptyAABB()
	for i := range m.Triangles {
		box = box.Union(m.subBounds(t, i))
	}
	return box
}

func (m *TriMesh) SubColliders() int { return len(m.Triangles) }

func (m *TriMesh) subBounds(t entity.Transform, sub int) AABB {
	tr := m.Triangles[sub]
	return AABBFromPoints(toWorld(t, tr[0]), toWorld(t, tr[1]), toWorld(t, tr[2]))
}

func (m *TriMesh) closest(t entity.Transform, sub int, p mgl64.Vec3) mgl64.Vec3 {
	tr := m.Triangles[sub]
	return closestPointOnTriangle(p, toWorld(t, tr[0]), toWorld(t, tr[1]), toWorld(t, tr[2]))
}

func (m *TriMesh) normalAt(t entity.Transform, sub int, _ mgl64.Vec3) mgl64.Vec3 {
	return t.Rotation.Rotate(m.Triangles[sub].Normal())
}

func (m *TriMesh) radius() float64 { return 0 }
