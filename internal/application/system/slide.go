package system

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/younwookim/kinematic/internal/domain/entity"
	"github.com/younwookim/kinematic/internal/domain/mathx"
	"github.com/younwookim/kinematic/internal/infrastructure/collision"
)

const (
	// MaxSlideIterations bounds the sweeps per character per step
	MaxSlideIterations = 32
	// headOnThreshold is the normal·direction below which a hit stops the slide
	headOnThreshold = -0.9
)

// SlideResult is the outcome of CollideAndSlide
type SlideResult struct {
	Position   mgl64.Vec3
	Velocity   mgl64.Vec3 // effective velocity, (Position-start)/dt
	Iterations int        // sweeps performed
	Consumed   float64    // travel distance used, never above |velocity*dt|
}

// CollideAndSlide moves the character capsule from start by velocity*dt,
// deflecting along every surface it hits. Head-on hits stop the move.
func CollideAndSlide(layer *collision.Layer, start, velocity mgl64.Vec3, stats *entity.ControllerStats, dt float64) SlideResult {
	res := SlideResult{Position: start}
	if dt <= 0 {
		return res
	}

	move := velocity.Mul(dt)
	remaining := move.Len()
	if remaining < mathx.Epsilon || !mathx.IsFinite(move) {
		return res
	}
	dir := move.Mul(1 / remaining)
	capsule := collision.NewCharacterCapsule(stats.CapsuleRadius, stats.CapsuleHeight)

	pos := start
	for ; res.Iterations < MaxSlideIterations; res.Iterations++ {
		if remaining < mathx.Epsilon {
			break
		}

		var hit collision.Hit
		ok := false
		if layer != nil {
			hit, ok = layer.ColliderCast(capsule, entity.NewTransform(pos), pos.Add(dir.Mul(remaining)))
		}
		if !ok {
			pos = pos.Add(dir.Mul(remaining))
			res.Consumed += remaining
			remaining = 0
			continue
		}

		pos = pos.Add(dir.Mul(hit.Distance - stats.SkinWidth))
		remaining -= hit.Distance
		res.Consumed += hit.Distance
		if hit.NormalOnTarget.Dot(dir) < headOnThreshold {
			res.Iterations++
			break
		}

		// keep moving along the hit plane
		dir = mathx.NormalizeSafe(mathx.Up(mathx.LookRotation(hit.NormalOnCaster, dir)), mgl64.Vec3{})
		if dir.LenSqr() == 0 {
			res.Iterations++
			break
		}
	}

	res.Position = pos
	displacement := pos.Sub(start)
	if displacement.Len() >= mathx.Epsilon {
		res.Velocity = displacement.Mul(1 / dt)
	}
	return res
}
