package config

import (
	"math"

	"github.com/younwookim/kinematic/internal/domain/entity"
)

// maxAimAngleDeg keeps pitch limits away from straight up/down
const maxAimAngleDeg = 89.9

// Bake converts authored movement values into runtime stats
func (m MovementConfig) Bake() entity.MovementStats {
	return entity.MovementStats{
		ForwardTopSpeed:     m.ForwardTopSpeed,
		ReverseTopSpeed:     m.ReverseTopSpeed,
		StrafeTopSpeed:      m.StrafeTopSpeed,
		ForwardAcceleration: m.ForwardAcceleration,
		ForwardDeceleration: m.ForwardDeceleration,
		ReverseAcceleration: m.ReverseAcceleration,
		ReverseDeceleration: m.ReverseDeceleration,
		StrafeAcceleration:  m.StrafeAcceleration,
		StrafeDeceleration:  m.StrafeDeceleration,
	}
}

// Bake converts the archetype into the immutable stats shared by its characters
func (a *ArchetypeConfig) Bake() *entity.ControllerStats {
	return &entity.ControllerStats{
		Walk: a.Walk.Bake(),
		Air:  a.Air.Bake(),

		CapsuleRadius: a.Capsule.Radius,
		CapsuleHeight: a.Capsule.Height,
		SkinWidth:     a.Capsule.SkinWidth,

		TargetHoverHeight:                     a.Ground.TargetHoverHeight,
		ExtraGroundCheckDistanceWhileGrounded: a.Ground.ExtraCheckWhileGrounded,
		ExtraGroundCheckDistanceWhileInAir:    a.Ground.ExtraCheckWhileInAir,
		MinSlopeY:                             math.Cos(a.Ground.MaxSlopeDeg * math.Pi / 180),

		SpringFrequency:    a.Spring.Frequency,
		SpringDampingRatio: a.Spring.DampingRatio,

		JumpVelocity:       a.Jump.Velocity,
		JumpInitialGravity: a.Jump.InitialGravity,
		JumpGravity:        a.Jump.Gravity,
		JumpInitialMinTime: a.Jump.InitialMinTime,
		JumpInitialMaxTime: a.Jump.InitialMaxTime,
		FallGravity:        a.Fall.Gravity,
		MaxFallSpeed:       a.Fall.MaxSpeed,
		CoyoteTime:         a.Jump.CoyoteTime,
	}
}

// BakeAim converts the authored pitch limits into sine limits
func (a *ArchetypeConfig) BakeAim() entity.VerticalAimStats {
	return entity.VerticalAimStats{
		MinSinLimit: math.Sin(clampAngle(a.Aim.MinAngleDeg) * math.Pi / 180),
		MaxSinLimit: math.Sin(clampAngle(a.Aim.MaxAngleDeg) * math.Pi / 180),
	}
}

// Bake bakes every archetype. Stats are shared by pointer, so characters of
// one archetype see the same instance.
func (c *CharactersConfig) Bake() map[string]*entity.ControllerStats {
	out := make(map[string]*entity.ControllerStats, len(c.Archetypes))
	for name := range c.Archetypes {
		a := c.Archetypes[name]
		out[name] = a.Bake()
	}
	return out
}

func clampAngle(deg float64) float64 {
	return math.Max(-maxAimAngleDeg, math.Min(maxAimAngleDeg, deg))
}
