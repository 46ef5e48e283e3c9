package system

import (
	"math"
	"sync/atomic"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/younwookim/kinematic/internal/domain/entity"
	"github.com/younwookim/kinematic/internal/domain/mathx"
	"github.com/younwookim/kinematic/internal/ecs"
)

// maxPitchDelta bounds the pitch offset applied in a single step
const maxPitchDelta = 0.9

// VerticalAimSystem pitches aim rigs from their owner's look input
type VerticalAimSystem struct {
	skipped atomic.Int64
}

func NewVerticalAimSystem() *VerticalAimSystem {
	return &VerticalAimSystem{}
}

// Update applies the pitch input to every aim rig. Rigs whose owner cannot be
// resolved keep their rotation and are counted as skipped.
func (s *VerticalAimSystem) Update(world *ecs.World) {
	for i := range world.AimRigs {
		rig := &world.AimRigs[i]
		actions, ok := world.Actions(rig.ActionsOwner)
		if !ok {
			s.skipped.Add(1)
			continue
		}
		rig.LocalRotation = ApplyVerticalAim(rig.LocalRotation, actions.Look.Y(), rig.Stats)
	}
}

// Skipped returns how many rig updates found no owner
func (s *VerticalAimSystem) Skipped() int64 {
	return s.skipped.Load()
}

// ApplyVerticalAim pitches local by lookY and keeps the forward vector's
// vertical component within the limits
func ApplyVerticalAim(local mgl64.Quat, lookY float64, stats entity.VerticalAimStats) mgl64.Quat {
	dy := mathx.Clamp(lookY, -maxPitchDelta, maxPitchDelta)
	if math.IsNaN(dy) {
		return local
	}
	delta := mathx.LookRotation(mgl64.Vec3{0, dy, math.Sqrt(1 - dy*dy)}, mathx.UnitY)
	rotation := delta.Mul(local).Normalize()

	fy := mathx.Forward(rotation).Y()
	clamped := mathx.Clamp(fy, stats.MinSinLimit, stats.MaxSinLimit)
	if clamped != fy {
		rotation = mathx.LookRotation(mgl64.Vec3{0, clamped, math.Sqrt(1 - clamped*clamped)}, mathx.UnitY)
	}
	return rotation
}
