package system

import (
	"math"

	"github.com/younwookim/kinematic/internal/domain/entity"
	"github.com/younwookim/kinematic/internal/domain/mathx"
)

// JumpStartEpsilon is the jump time recorded on the step a jump starts, so
// the ascent is observable before any time has elapsed
const JumpStartEpsilon = mathx.Epsilon

// ApplyJump advances the coyote and jump-ascent timers and starts a jump when
// requested inside the coyote window. A jump cannot restart while ascending.
func ApplyJump(jump bool, state *entity.ControllerState, stats *entity.ControllerStats, dt float64) {
	if state.Grounded {
		state.AccumulatedCoyoteTime = 0
	}
	state.AccumulatedCoyoteTime += dt

	// jump stays true while held; a zero jump time keeps a held jump from restarting mid-ascent
	if jump && state.AccumulatedJumpTime == 0 && state.AccumulatedCoyoteTime <= stats.CoyoteTime {
		state.Velocity[1] += stats.JumpVelocity
		state.AccumulatedJumpTime = JumpStartEpsilon
	} else if state.AccumulatedJumpTime > 0 {
		state.AccumulatedJumpTime += dt
	}

	// early release shortens the arc once the minimum time has passed
	if state.AccumulatedJumpTime > stats.JumpInitialMaxTime ||
		(!jump && state.AccumulatedJumpTime >= stats.JumpInitialMinTime) {
		state.AccumulatedJumpTime = 0
	}

	state.Grounded = state.Grounded && state.AccumulatedJumpTime == 0
}

// Gravity returns the gravity for the current ascent phase
func Gravity(state *entity.ControllerState, stats *entity.ControllerStats) float64 {
	switch {
	case state.AccumulatedJumpTime >= stats.JumpInitialMaxTime:
		return stats.JumpGravity
	case state.AccumulatedJumpTime > 0:
		return stats.JumpInitialGravity
	default:
		return stats.FallGravity
	}
}

// ApplyGravity integrates gravity while airborne and clamps the fall speed
func ApplyGravity(grounded bool, state *entity.ControllerState, stats *entity.ControllerStats, dt float64) {
	if !grounded {
		state.Velocity[1] -= Gravity(state, stats) * dt
	}
	state.Velocity[1] = math.Max(state.Velocity[1], -stats.MaxFallSpeed)
}
