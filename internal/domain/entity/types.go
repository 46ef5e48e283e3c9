package entity

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/younwookim/kinematic/internal/domain/mathx"
)

// EntityID is a unique identifier for an entity
type EntityID uint32

// NilEntity is never handed out and marks a missing reference
const NilEntity EntityID = 0

// Transform is a world-space pose
type Transform struct {
	Position mgl64.Vec3
	Rotation mgl64.Quat
}

// NewTransform creates a transform at position with identity rotation
func NewTransform(position mgl64.Vec3) Transform {
	return Transform{Position: position, Rotation: mgl64.QuatIdent()}
}

// Spawn is a character placement produced by scene loading
type Spawn struct {
	Archetype string
	Position  mgl64.Vec3
	Yaw       float64 // radians
	Player    bool
}

// Transform returns the spawn pose
func (s Spawn) Transform() Transform {
	return Transform{
		Position: s.Position,
		Rotation: mgl64.QuatRotate(s.Yaw, mathx.UnitY),
	}
}

// CharacterSnapshot is the per-step output consumed by rendering, animation and streaming
type CharacterSnapshot struct {
	ID       EntityID    `json:"id"`
	Position [3]float64  `json:"position"`
	Velocity [3]float64  `json:"velocity"`
	Yaw      float64     `json:"yaw"`
	Grounded bool        `json:"grounded"`
	Phase    MotionPhase `json:"phase"`
}
