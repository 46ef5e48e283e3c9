package system

import (
	"iter"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/younwookim/kinematic/internal/domain/entity"
	"github.com/younwookim/kinematic/internal/domain/mathx"
	"github.com/younwookim/kinematic/internal/infrastructure/collision"
)

// GroundResult is the outcome of a ground probe
type GroundResult struct {
	Normal   mgl64.Vec3 // stabilized ground normal
	Distance float64    // probe travel until contact
	Found    bool       // contact with a walkable normal
	Hit      bool       // contact of any slope
}

// groundAccumulator sums contact normals around the first ground hit
type groundAccumulator struct {
	normal    mgl64.Vec3
	firstBody int
	firstSub  int
}

// add subtracts the normals of every contact except the first-hit sub-collider,
// which is already part of the sum
func (a *groundAccumulator) add(bodyIndex int, contacts iter.Seq[collision.DistanceResult]) {
	sameBody := bodyIndex == a.firstBody
	for c := range contacts {
		if sameBody && c.SubColliderIndexB == a.firstSub {
			continue
		}
		a.normal = a.normal.Sub(c.NormalA)
	}
}

// CheckGround probes for ground below position by sweeping a capsule-radius
// sphere down by checkDistance. While ascending from a jump nothing is reported.
func CheckGround(layer *collision.Layer, position mgl64.Vec3, checkDistance float64, stats *entity.ControllerStats, accumulatedJumpTime float64) GroundResult {
	if accumulatedJumpTime > 0 || layer == nil {
		return GroundResult{}
	}

	sphere := collision.Sphere{Radius: stats.CapsuleRadius}
	start := position.Add(mgl64.Vec3{0, stats.CapsuleRadius + stats.SkinWidth, 0})
	end := start.Sub(mgl64.Vec3{0, checkDistance + stats.SkinWidth, 0})

	hit, ok := layer.ColliderCast(sphere, entity.NewTransform(start), end)
	if !ok {
		return GroundResult{}
	}

	probe := entity.NewTransform(start.Sub(mgl64.Vec3{0, hit.Distance, 0}))
	acc := groundAccumulator{
		normal:    hit.NormalOnCaster.Mul(-1),
		firstBody: hit.BodyIndex,
		firstSub:  hit.SubColliderIndex,
	}
	for obj := range layer.FindObjects(sphere.Bounds(probe).Expand(stats.SkinWidth)) {
		acc.add(obj.BodyIndex, collision.DistanceBetweenAll(sphere, probe, obj.Shape, obj.Transform, stats.SkinWidth))
	}

	normal := mathx.NormalizeSafe(acc.normal, mathx.Down)
	return GroundResult{
		Normal:   normal,
		Distance: hit.Distance,
		Found:    normal.Y() >= stats.MinSlopeY,
		Hit:      true,
	}
}
