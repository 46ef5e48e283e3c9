package collision

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// AABB is an axis-aligned bounding box
type AABB struct {
	Min, Max mgl64.Vec3
}

// EmptyAABB returns a box that contains nothing and absorbs any Union
func EmptyAABB() AABB {
	inf := math.Inf(1)
	return AABB{
		Min: mgl64.Vec3{inf, inf, inf},
		Max: mgl64.Vec3{-inf, -inf, -inf},
	}
}

// AABBFromPoints returns the smallest box containing all points
func AABBFromPoints(points ...mgl64.Vec3) AABB {
	box := EmptyAABB()
	for _, p := range points {
		box = box.Include(p)
	}
	return box
}

// Include grows the box to contain p
func (b AABB) Include(p mgl64.Vec3) AABB {
	for i := 0; i < 3; i++ {
		b.Min[i] = math.Min(b.Min[i], p[i])
		b.Max[i] = math.Max(b.Max[i], p[i])
	}
	return b
}

// Union returns the box containing both boxes
func (b AABB) Union(o AABB) AABB {
	for i := 0; i < 3; i++ {
		b.Min[i] = math.Min(b.Min[i], o.Min[i])
		b.Max[i] = math.Max(b.Max[i], o.Max[i])
	}
	return b
}

// Expand grows the box by d on every side
func (b AABB) Expand(d float64) AABB {
	e := mgl64.Vec3{d, d, d}
	return AABB{Min: b.Min.Sub(e), Max: b.Max.Add(e)}
}

// Translate moves the box by v
func (b AABB) Translate(v mgl64.Vec3) AABB {
	return AABB{Min: b.Min.Add(v), Max: b.Max.Add(v)}
}

// Overlaps checks if two boxes intersect (touching counts)
func (b AABB) Overlaps(o AABB) bool {
	return b.Min[0] <= o.Max[0] && b.Max[0] >= o.Min[0] &&
		b.Min[1] <= o.Max[1] && b.Max[1] >= o.Min[1] &&
		b.Min[2] <= o.Max[2] && b.Max[2] >= o.Min[2]
}

// Contains checks if p lies inside the box
func (b AABB) Contains(p mgl64.Vec3) bool {
	return p[0] >= b.Min[0] && p[0] <= b.Max[0] &&
		p[1] >= b.Min[1] && p[1] <= b.Max[1] &&
		p[2] >= b.Min[2] && p[2] <= b.Max[2]
}

// IsEmpty returns true if the box contains nothing
func (b AABB) IsEmpty() bool {
	return b.Min[0] > b.Max[0] || b.Min[1] > b.Max[1] || b.Min[2] > b.Max[2]
}

// Center returns the box center
func (b AABB) Center() mgl64.Vec3 {
	return b.Min.Add(b.Max).Mul(0.5)
}
