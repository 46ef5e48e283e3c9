package system

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/younwookim/kinematic/internal/domain/entity"
	"github.com/younwookim/kinematic/internal/domain/mathx"
)

// AxisStats shapes one direction of one movement axis
type AxisStats struct {
	Acceleration float64
	Deceleration float64
	TopSpeed     float64
}

func forwardAxis(m *entity.MovementStats) AxisStats {
	return AxisStats{m.ForwardAcceleration, m.ForwardDeceleration, m.ForwardTopSpeed}
}

func reverseAxis(m *entity.MovementStats) AxisStats {
	return AxisStats{m.ReverseAcceleration, m.ReverseDeceleration, m.ReverseTopSpeed}
}

func strafeAxis(m *entity.MovementStats) AxisStats {
	return AxisStats{m.StrafeAcceleration, m.StrafeDeceleration, m.StrafeTopSpeed}
}

// StepVelocityWithInput moves a 1D velocity toward input*topSpeed. positive
// applies while the velocity points along +axis, negative while it points
// along -axis. Input pushing further along the current direction uses the
// acceleration; anything else uses the deceleration, which stops at zero
// before the velocity may change sign.
func StepVelocityWithInput(input, velocity float64, positive, negative AxisStats, dt float64) float64 {
	input = mathx.Clamp(input, -1, 1)
	target := input * positive.TopSpeed
	if input < 0 {
		target = input * negative.TopSpeed
	}

	if velocity > 0 || (velocity == 0 && target >= 0) {
		return stepSpeed(velocity, target, positive, dt)
	}
	return -stepSpeed(-velocity, -target, negative, dt)
}

// stepSpeed moves a non-negative speed toward target
func stepSpeed(speed, target float64, s AxisStats, dt float64) float64 {
	if target > speed {
		return math.Min(target, speed+s.Acceleration*dt)
	}
	return math.Max(math.Max(target, 0), speed-s.Deceleration*dt)
}

// ApplyRotation yaws rotation by the horizontal look offset
func ApplyRotation(rotation mgl64.Quat, lookX float64) mgl64.Quat {
	dx := mathx.Clamp(lookX, -1, 1)
	if dx == 0 || math.IsNaN(dx) {
		return rotation
	}
	delta := mathx.LookRotation(mgl64.Vec3{dx, 0, math.Sqrt(1 - dx*dx)}, mathx.UnitY)
	return delta.Mul(rotation).Normalize()
}

// ApplyMoveInput shapes velocity from move input. In the air the yaw frame
// is used and vertical velocity is kept; on the ground the frame follows the
// slope so input tracks the surface.
func ApplyMoveInput(move mgl64.Vec2, rotation mgl64.Quat, ground GroundResult, velocity mgl64.Vec3, stats *entity.ControllerStats, dt float64) mgl64.Vec3 {
	if !ground.Found {
		air := &stats.Air
		forward := StepVelocityWithInput(move.Y(), mathx.Forward(rotation).Dot(velocity), forwardAxis(air), reverseAxis(air), dt)
		right := StepVelocityWithInput(move.X(), mathx.Right(rotation).Dot(velocity), strafeAxis(air), strafeAxis(air), dt)

		planar := rotation.Rotate(mgl64.Vec3{right, 0, forward})
		return mgl64.Vec3{planar.X(), velocity.Y(), planar.Z()}
	}

	slope := SlopeRotation(rotation, ground.Normal)
	local := mathx.InverseRotate(slope, velocity)
	if mathx.HorizontalLength(velocity) < mathx.Epsilon {
		// keeps spring-driven drift from turning into slope motion
		local[0], local[2] = 0, 0
	}

	walk := &stats.Walk
	local[2] = StepVelocityWithInput(move.Y(), local.Z(), forwardAxis(walk), reverseAxis(walk), dt)
	local[0] = StepVelocityWithInput(move.X(), local.X(), strafeAxis(walk), strafeAxis(walk), dt)
	return slope.Rotate(local)
}

// SlopeRotation builds a frame whose forward and right follow the surface with
// the given normal while keeping the heading of rotation
func SlopeRotation(rotation mgl64.Quat, normal mgl64.Vec3) mgl64.Quat {
	down := normal.Mul(-1)
	forward := mathx.Up(mathx.LookRotation(down, mathx.Forward(rotation)))
	right := mathx.Up(mathx.LookRotation(down, mathx.Right(rotation)))
	return mathx.LookRotation(forward, forward.Cross(right))
}
