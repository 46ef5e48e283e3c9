package playing

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/younwookim/kinematic/internal/domain/entity"
	"github.com/younwookim/kinematic/internal/infrastructure/collision"
)

// axis selects a world axis for a view
type axis int

const (
	axisX axis = iota
	axisY
	axisZ
)

// view is an orthographic projection of two world axes onto a screen region
type view struct {
	// screen region
	x, y, w, h float64
	// world axes shown horizontally (growing right) and vertically (growing up)
	horizontal, vertical axis
	center               mgl64.Vec3
	ppm                  float64
}

// project maps a world point to screen coordinates
func (v view) project(p mgl64.Vec3) (float64, float64) {
	d := p.Sub(v.center)
	sx := v.x + v.w/2 + d[v.horizontal]*v.ppm
	sy := v.y + v.h/2 - d[v.vertical]*v.ppm
	return sx, sy
}

// contains reports whether a screen point lies in the view region
func (v view) contains(sx, sy float64) bool {
	return sx >= v.x && sx < v.x+v.w && sy >= v.y && sy < v.y+v.h
}

// clip limits a screen segment to the view region, Liang-Barsky style
func (v view) clip(x0, y0, x1, y1 float64) (float64, float64, float64, float64, bool) {
	t0, t1 := 0.0, 1.0
	dx, dy := x1-x0, y1-y0
	edges := [4][2]float64{
		{-dx, x0 - v.x},
		{dx, v.x + v.w - x0},
		{-dy, y0 - v.y},
		{dy, v.y + v.h - y0},
	}
	for _, e := range edges {
		p, q := e[0], e[1]
		if p == 0 {
			if q < 0 {
				return 0, 0, 0, 0, false
			}
			continue
		}
		r := q / p
		if p < 0 {
			t0 = max(t0, r)
		} else {
			t1 = min(t1, r)
		}
		if t0 > t1 {
			return 0, 0, 0, 0, false
		}
	}
	return x0 + t0*dx, y0 + t0*dy, x0 + t1*dx, y0 + t1*dy, true
}

// edge is a world-space line segment
type edge [2]mgl64.Vec3

var boxEdges = [12][2]int{
	{0, 1}, {2, 3}, {4, 5}, {6, 7}, // along x
	{0, 2}, {1, 3}, {4, 6}, {5, 7}, // along y
	{0, 4}, {1, 5}, {2, 6}, {3, 7}, // along z
}

// shapeEdges returns the wireframe of a static shape. Spheres have none and
// are drawn as circles.
func shapeEdges(shape collision.Shape, t entity.Transform) []edge {
	switch s := shape.(type) {
	case collision.Box:
		var corners [8]mgl64.Vec3
		for i := range corners {
			c := s.HalfExtents
			if i&1 == 0 {
				c[0] = -c[0]
			}
			if i&2 == 0 {
				c[1] = -c[1]
			}
			if i&4 == 0 {
				c[2] = -c[2]
			}
			corners[i] = t.Position.Add(t.Rotation.Rotate(s.Center.Add(c)))
		}
		edges := make([]edge, 0, len(boxEdges))
		for _, e := range boxEdges {
			edges = append(edges, edge{corners[e[0]], corners[e[1]]})
		}
		return edges
	case *collision.TriMesh:
		edges := make([]edge, 0, 3*len(s.Triangles))
		for _, tr := range s.Triangles {
			a := t.Position.Add(t.Rotation.Rotate(tr[0]))
			b := t.Position.Add(t.Rotation.Rotate(tr[1]))
			c := t.Position.Add(t.Rotation.Rotate(tr[2]))
			edges = append(edges, edge{a, b}, edge{b, c}, edge{c, a})
		}
		return edges
	}
	return nil
}
