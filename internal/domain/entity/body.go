package entity

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
)

// ControllerState is the mutable per-character simulation state
type ControllerState struct {
	Velocity              mgl64.Vec3
	AccumulatedCoyoteTime float64
	AccumulatedJumpTime   float64 // > 0 while in jump ascent
	Grounded              bool
}

// Ascending returns true while the character is in jump ascent
func (s *ControllerState) Ascending() bool {
	return s.AccumulatedJumpTime > 0
}

// Phase derives the motion phase from the compact state encoding
func (s *ControllerState) Phase(stats *ControllerStats) MotionPhase {
	switch {
	case s.Grounded:
		return PhaseGrounded
	case s.AccumulatedJumpTime >= stats.JumpInitialMaxTime && s.AccumulatedJumpTime > 0:
		return PhaseJumpSustained
	case s.AccumulatedJumpTime > 0:
		return PhaseJumpInitial
	case s.AccumulatedCoyoteTime <= stats.CoyoteTime:
		return PhaseCoyote
	default:
		return PhaseFalling
	}
}

// DesiredActions is the per-step intent produced by the input collaborator.
// Look is an offset of the forward vector (x: yaw, y: pitch), Move holds
// strafe (x) and forward (y) axes in [-1, 1].
type DesiredActions struct {
	Look mgl64.Vec2
	Move mgl64.Vec2
	Jump bool
}

// MotionPhase classifies the jump/gravity state machine
type MotionPhase int

const (
	PhaseGrounded MotionPhase = iota
	PhaseCoyote
	PhaseJumpInitial
	PhaseJumpSustained
	PhaseFalling
)

// String returns the string representation of the phase
func (p MotionPhase) String() string {
	switch p {
	case PhaseGrounded:
		return "Grounded"
	case PhaseCoyote:
		return "Coyote"
	case PhaseJumpInitial:
		return "JumpInitial"
	case PhaseJumpSustained:
		return "JumpSustained"
	case PhaseFalling:
		return "Falling"
	default:
		return "Unknown"
	}
}

// MarshalText encodes the phase by name
func (p MotionPhase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText decodes a phase name written by MarshalText
func (p *MotionPhase) UnmarshalText(text []byte) error {
	for q := PhaseGrounded; q <= PhaseFalling; q++ {
		if q.String() == string(text) {
			*p = q
			return nil
		}
	}
	return fmt.Errorf("unknown motion phase %q", text)
}
