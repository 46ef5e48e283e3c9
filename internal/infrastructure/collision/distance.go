package collision

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/younwookim/kinematic/internal/domain/entity"
	"github.com/younwookim/kinematic/internal/domain/mathx"
)

// goldenIterations shrinks the search interval to ~1e-10 of the segment
const goldenIterations = 48

var invPhi = (math.Sqrt(5) - 1) / 2

// pairResult is the separation between a caster and one target sub-collider
type pairResult struct {
	distance       float64    // negative when overlapping
	normalOnTarget mgl64.Vec3 // points from the target toward the caster
}

// pairDistance measures the caster at ct against sub-collider sub of target at tt
// Distance from a point to a convex core is convex along a segment, so a golden
// section search over the caster segment finds the closest pair
func pairDistance(caster Caster, ct entity.Transform, target Shape, tt entity.Transform, sub int) pairResult {
	a, b := caster.segment(ct)
	ab := b.Sub(a)

	distAt := func(s float64) (float64, mgl64.Vec3, mgl64.Vec3) {
		p := a.Add(ab.Mul(s))
		q := target.closest(tt, sub, p)
		return p.Sub(q).Len(), p, q
	}

	s := 0.0
	if ab.LenSqr() > mathx.Epsilon*mathx.Epsilon {
		s = minimizeUnit(func(x float64) float64 {
			d, _, _ := distAt(x)
			return d
		})
	}

	d, p, q := distAt(s)
	n := p.Sub(q)
	if d > mathx.Epsilon {
		n = n.Mul(1 / d)
	} else {
		n = target.normalAt(tt, sub, q)
	}

	return pairResult{
		distance:       d - caster.radius() - target.radius(),
		normalOnTarget: n,
	}
}

// minimizeUnit finds the minimum of a convex function on [0, 1]
func minimizeUnit(f func(float64) float64) float64 {
	lo, hi := 0.0, 1.0
	x1 := hi - invPhi*(hi-lo)
	x2 := lo + invPhi*(hi-lo)
	f1, f2 := f(x1), f(x2)
	for i := 0; i < goldenIterations; i++ {
		if f1 < f2 {
			hi, x2, f2 = x2, x1, f1
			x1 = hi - invPhi*(hi-lo)
			f1 = f(x1)
		} else {
			lo, x1, f1 = x1, x2, f2
			x2 = lo + invPhi*(hi-lo)
			f2 = f(x2)
		}
	}

	best, bestF := (lo+hi)/2, f((lo+hi)/2)
	if f0 := f(0); f0 < bestF {
		best, bestF = 0, f0
	}
	if f(1) < bestF {
		best = 1
	}
	return best
}

func closestPointOnSegment(a, b, p mgl64.Vec3) mgl64.Vec3 {
	ab := b.Sub(a)
	denom := ab.LenSqr()
	if denom < mathx.Epsilon*mathx.Epsilon {
		return a
	}
	s := mathx.Clamp(p.Sub(a).Dot(ab)/denom, 0, 1)
	return a.Add(ab.Mul(s))
}

// closestPointOnTriangle uses the Voronoi region walk from Ericson's
// Real-Time Collision Detection, 5.1.5
func closestPointOnTriangle(p, a, b, c mgl64.Vec3) mgl64.Vec3 {
	ab := b.Sub(a)
	ac := c.Sub(a)
	ap := p.Sub(a)
	d1 := ab.Dot(ap)
	d2 := ac.Dot(ap)
	if d1 <= 0 && d2 <= 0 {
		return a
	}

	bp := p.Sub(b)
	d3 := ab.Dot(bp)
	d4 := ac.Dot(bp)
	if d3 >= 0 && d4 <= d3 {
		return b
	}

	vc := d1*d4 - d3*d2
	if vc <= 0 && d1 >= 0 && d3 <= 0 {
		v := d1 / (d1 - d3)
		return a.Add(ab.Mul(v))
	}

	cp := p.Sub(c)
	d5 := ab.Dot(cp)
	d6 := ac.Dot(cp)
	if d6 >= 0 && d5 <= d6 {
		return c
	}

	vb := d5*d2 - d1*d6
	if vb <= 0 && d2 >= 0 && d6 <= 0 {
		w := d2 / (d2 - d6)
		return a.Add(ac.Mul(w))
	}

	va := d3*d6 - d5*d4
	if va <= 0 && d4-d3 >= 0 && d5-d6 >= 0 {
		w := (d4 - d3) / ((d4 - d3) + (d5 - d6))
		return b.Add(c.Sub(b).Mul(w))
	}

	denom := 1 / (va + vb + vc)
	v := vb * denom
	w := vc * denom
	return a.Add(ab.Mul(v)).Add(ac.Mul(w))
}
