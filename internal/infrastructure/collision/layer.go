// Package collision provides the static collision layer the character
// controller queries: swept casts, bounded neighborhood lookups and
// all-pairs distance queries
//
// A Layer is built once and never mutated afterwards, so any number of
// goroutines may query it at the same time without synchronization
package collision

import (
	"iter"
	"math"
	"slices"

	"github.com/younwookim/kinematic/internal/domain/entity"
)

// DefaultCellSize is the grid cell edge used when none is configured
const DefaultCellSize = 4.0

// maxCellsPerQuery bounds grid walking; larger queries scan the body list and
// larger bodies skip the grid
const maxCellsPerQuery = 512

// Body is a static collider placed in the world
type Body struct {
	Index     int
	Shape     Shape
	Transform entity.Transform
	Bounds    AABB
}

// FoundObject is a body reported by FindObjects
type FoundObject struct {
	BodyIndex int
	Shape     Shape
	Transform entity.Transform
}

type cellKey struct {
	x, y, z int32
}

// Layer is an immutable spatial index over static bodies
type Layer struct {
	bodies   []Body
	cellSize float64
	cells    map[cellKey][]int32
	large    []int32 // bodies spanning more than maxCellsPerQuery cells, checked on every query
	bounds   AABB
}

// BodyDef describes a body to add when building a layer
type BodyDef struct {
	Shape     Shape
	Transform entity.Transform
}

// NewLayer builds the spatial index. cellSize <= 0 selects DefaultCellSize
func NewLayer(defs []BodyDef, cellSize float64) *Layer {
	if cellSize <= 0 {
		cellSize = DefaultCellSize
	}

	l := &Layer{
		bodies:   make([]Body, 0, len(defs)),
		cellSize: cellSize,
		cells:    make(map[cellKey][]int32),
		bounds:   EmptyAABB(),
	}

	for i, def := range defs {
		bounds := def.Shape.Bounds(def.Transform)
		l.bodies = append(l.bodies, Body{
			Index:     i,
			Shape:     def.Shape,
			Transform: def.Transform,
			Bounds:    bounds,
		})
		l.bounds = l.bounds.Union(bounds)

		lo, hi := l.cellRange(bounds)
		if cellCount(lo, hi) > maxCellsPerQuery {
			l.large = append(l.large, int32(i))
			continue
		}
		for x := lo.x; x <= hi.x; x++ {
			for y := lo.y; y <= hi.y; y++ {
				for z := lo.z; z <= hi.z; z++ {
					key := cellKey{x, y, z}
					l.cells[key] = append(l.cells[key], int32(i))
				}
			}
		}
	}

	return l
}

// Len returns the number of bodies
func (l *Layer) Len() int { return len(l.bodies) }

// Body returns the body at index i
func (l *Layer) Body(i int) Body { return l.bodies[i] }

// Bodies iterates all bodies in index order
func (l *Layer) Bodies() iter.Seq[Body] {
	return func(yield func(Body) bool) {
		for _, b := range l.bodies {
			if !yield(b) {
				return
			}
		}
	}
}

// Bounds returns the bounds of all bodies
func (l *Layer) Bounds() AABB { return l.bounds }

// FindObjects iterates the bodies whose bounds overlap aabb, in ascending index order
func (l *Layer) FindObjects(aabb AABB) iter.Seq[FoundObject] {
	return func(yield func(FoundObject) bool) {
		for _, i := range l.candidates(aabb) {
			b := &l.bodies[i]
			if !yield(FoundObject{BodyIndex: b.Index, Shape: b.Shape, Transform: b.Transform}) {
				return
			}
		}
	}
}

// candidates returns sorted unique indices of bodies overlapping aabb
func (l *Layer) candidates(aabb AABB) []int32 {
	if l == nil || len(l.bodies) == 0 || !aabb.Overlaps(l.bounds) {
		return nil
	}

	lo, hi := l.cellRange(aabb)
	cells := cellCount(lo, hi)

	var found []int32
	if cells > maxCellsPerQuery || cells > int64(len(l.bodies)) {
		for i := range l.bodies {
			if l.bodies[i].Bounds.Overlaps(aabb) {
				found = append(found, int32(i))
			}
		}
		return found
	}

	for _, i := range l.large {
		if l.bodies[i].Bounds.Overlaps(aabb) {
			found = append(found, i)
		}
	}
	for x := lo.x; x <= hi.x; x++ {
		for y := lo.y; y <= hi.y; y++ {
			for z := lo.z; z <= hi.z; z++ {
				for _, i := range l.cells[cellKey{x, y, z}] {
					if l.bodies[i].Bounds.Overlaps(aabb) {
						found = append(found, i)
					}
				}
			}
		}
	}
	slices.Sort(found)
	return slices.Compact(found)
}

// cellCount is the number of cells in the inclusive range, computed without overflow
func cellCount(lo, hi cellKey) int64 {
	return (int64(hi.x-lo.x) + 1) * (int64(hi.y-lo.y) + 1) * (int64(hi.z-lo.z) + 1)
}

func (l *Layer) cellRange(b AABB) (lo, hi cellKey) {
	return l.cellOf(b.Min[0], b.Min[1], b.Min[2]), l.cellOf(b.Max[0], b.Max[1], b.Max[2])
}

func (l *Layer) cellOf(x, y, z float64) cellKey {
	return cellKey{l.coord(x), l.coord(y), l.coord(z)}
}

func (l *Layer) coord(v float64) int32 {
	c := math.Floor(v / l.cellSize)
	return int32(math.Max(math.MinInt32, math.Min(math.MaxInt32, c)))
}
