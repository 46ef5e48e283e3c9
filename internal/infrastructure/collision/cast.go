package collision

import (
	"iter"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/younwookim/kinematic/internal/domain/entity"
	"github.com/younwookim/kinematic/internal/domain/mathx"
)

const (
	// castTolerance is the separation at which a sweep counts as touching
	castTolerance = 1e-5
	// maxAdvanceIterations bounds conservative advancement per sub-collider
	maxAdvanceIterations = 64
)

// Hit describes the first contact of a collider cast
type Hit struct {
	Distance         float64    // travel along the cast direction until contact
	NormalOnCaster   mgl64.Vec3 // caster surface normal at contact, pointing at the target
	NormalOnTarget   mgl64.Vec3 // target surface normal at contact, pointing at the caster
	SubColliderIndex int        // sub-collider of the target that was hit
	BodyIndex        int
}

// DistanceResult is one sub-collider reported by DistanceBetweenAll
type DistanceResult struct {
	NormalA           mgl64.Vec3 // outward normal of A pointing toward B
	SubColliderIndexB int
	Distance          float64
}

// ColliderCast sweeps caster from start toward end and returns the closest hit
// Bodies the caster overlaps at start are ignored
func (l *Layer) ColliderCast(caster Caster, start entity.Transform, end mgl64.Vec3) (Hit, bool) {
	delta := end.Sub(start.Position)
	length := delta.Len()
	if length < mathx.Epsilon {
		return Hit{}, false
	}
	dir := delta.Mul(1 / length)

	swept := caster.Bounds(start).Union(caster.Bounds(entity.Transform{Position: end, Rotation: start.Rotation}))

	var best Hit
	found := false
	for _, bi := range l.candidates(swept) {
		body := &l.bodies[bi]
		for sub := 0; sub < body.Shape.SubColliders(); sub++ {
			if !body.Shape.subBounds(body.Transform, sub).Overlaps(swept) {
				continue
			}
			t, n, ok := advance(caster, start, dir, length, body.Shape, body.Transform, sub)
			if !ok || (found && t >= best.Distance) {
				continue
			}
			best = Hit{
				Distance:         t,
				NormalOnCaster:   n.Mul(-1),
				NormalOnTarget:   n,
				SubColliderIndex: sub,
				BodyIndex:        body.Index,
			}
			found = true
		}
	}
	return best, found
}

// advance runs conservative advancement of the caster along dir against one
// convex sub-collider. Separation of two convex shapes is convex along a
// straight sweep, so a Newton step on it never passes the first contact and a
// separation that stops shrinking never shrinks again
func advance(caster Caster, start entity.Transform, dir mgl64.Vec3, length float64, target Shape, tt entity.Transform, sub int) (float64, mgl64.Vec3, bool) {
	ct := start
	t := 0.0
	var r pairResult
	for i := 0; i < maxAdvanceIterations; i++ {
		ct.Position = start.Position.Add(dir.Mul(t))
		r = pairDistance(caster, ct, target, tt, sub)
		if i == 0 && r.distance < 0 {
			return 0, mgl64.Vec3{}, false
		}
		if r.distance < castTolerance {
			// moving away from a touching surface is not a hit
			if r.normalOnTarget.Dot(dir) >= 0 && i == 0 {
				return 0, mgl64.Vec3{}, false
			}
			return t, r.normalOnTarget, true
		}
		approach := -r.normalOnTarget.Dot(dir)
		if approach <= mathx.Epsilon {
			return 0, mgl64.Vec3{}, false
		}
		t += r.distance / approach
		if t > length {
			return 0, mgl64.Vec3{}, false
		}
	}
	// not converged within budget: report contact at the last proven-safe distance
	return t, r.normalOnTarget, true
}

// DistanceBetweenAll reports every sub-collider of b within maxDistance of a
func DistanceBetweenAll(a Caster, ta entity.Transform, b Shape, tb entity.Transform, maxDistance float64) iter.Seq[DistanceResult] {
	return func(yield func(DistanceResult) bool) {
		reach := a.Bounds(ta).Expand(maxDistance)
		for sub := 0; sub < b.SubColliders(); sub++ {
			if !b.subBounds(tb, sub).Overlaps(reach) {
				continue
			}
			r := pairDistance(a, ta, b, tb, sub)
			if r.distance > maxDistance {
				continue
			}
			res := DistanceResult{
				NormalA:           r.normalOnTarget.Mul(-1),
				SubColliderIndexB: sub,
				Distance:          r.distance,
			}
			if !yield(res) {
				return
			}
		}
	}
}
