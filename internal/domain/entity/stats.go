package entity

// MovementStats is one velocity shaping curve set.
// Speeds are in m/s, accelerations and decelerations in m/s².
type MovementStats struct {
	ForwardTopSpeed float64
	ReverseTopSpeed float64
	StrafeTopSpeed  float64

	ForwardAcceleration float64
	ForwardDeceleration float64
	ReverseAcceleration float64
	ReverseDeceleration float64
	StrafeAcceleration  float64
	StrafeDeceleration  float64
}

// ControllerStats describes a character archetype.
// Baked once from config and shared read-only by every character of the archetype.
type ControllerStats struct {
	Walk MovementStats
	Air  MovementStats

	CapsuleRadius float64
	CapsuleHeight float64
	SkinWidth     float64

	TargetHoverHeight                     float64
	ExtraGroundCheckDistanceWhileGrounded float64
	ExtraGroundCheckDistanceWhileInAir    float64
	MinSlopeY                             float64 // cos of the steepest walkable slope

	SpringFrequency    float64 // Hz
	SpringDampingRatio float64

	JumpVelocity       float64
	JumpInitialGravity float64
	JumpGravity        float64
	JumpInitialMinTime float64
	JumpInitialMaxTime float64
	FallGravity        float64
	MaxFallSpeed       float64
	CoyoteTime         float64
}

// GroundCheckDistance returns the hover height plus the extra margin for the grounded state
func (s *ControllerStats) GroundCheckDistance(grounded bool) float64 {
	if grounded {
		return s.TargetHoverHeight + s.ExtraGroundCheckDistanceWhileGrounded
	}
	return s.TargetHoverHeight + s.ExtraGroundCheckDistanceWhileInAir
}

// VerticalAimStats limits camera pitch, stored as sines of the min/max angles
type VerticalAimStats struct {
	MinSinLimit float64
	MaxSinLimit float64
}
