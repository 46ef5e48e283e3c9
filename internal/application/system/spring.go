package system

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/younwookim/kinematic/internal/domain/entity"
)

// ConstraintTauAndDamping converts a spring frequency (Hz) and damping ratio
// into the position and velocity gains of a soft constraint solved over
// iterations passes of a step of length dt. The gains make one step of the
// constraint equal to an implicit Euler step of the damped spring.
func ConstraintTauAndDamping(frequency, dampingRatio, dt float64, iterations int) (tau, damping float64) {
	if iterations < 1 {
		iterations = 1
	}
	hw := dt * 2 * math.Pi * frequency
	hhww := hw * hw
	a := 1 / (1 + 2*dampingRatio*hw + hhww)
	aExp := math.Pow(a, 1/float64(iterations))

	damping = 1 - aExp
	if a >= 1 {
		return 0, damping
	}
	// per-pass tau so the position terms of all passes sum to hhww*a
	tau = hhww * a * (1 - aExp) / (1 - a)
	return tau, damping
}

// PositionConstraint pulls AnchorA toward AnchorB on the enabled axes.
// The body at AnchorB is fixed.
type PositionConstraint struct {
	AnchorA mgl64.Vec3
	AnchorB mgl64.Vec3
	Axes    [3]bool
	Tau     float64
	Damping float64
}

// Solve applies the constraint impulse to the velocity of the body at AnchorA
func (c PositionConstraint) Solve(velocity mgl64.Vec3, dt float64) mgl64.Vec3 {
	for i, on := range c.Axes {
		if !on {
			continue
		}
		err := c.AnchorA[i] - c.AnchorB[i]
		velocity[i] -= c.Damping*velocity[i] + c.Tau*err/dt
	}
	return velocity
}

// ApplySpring springs the vertical velocity toward targetY
func ApplySpring(velocity, position mgl64.Vec3, targetY float64, stats *entity.ControllerStats, dt float64) mgl64.Vec3 {
	tau, damping := ConstraintTauAndDamping(stats.SpringFrequency, stats.SpringDampingRatio, dt, 1)
	c := PositionConstraint{
		AnchorA: position,
		AnchorB: mgl64.Vec3{position.X(), targetY, position.Z()},
		Axes:    [3]bool{false, true, false},
		Tau:     tau,
		Damping: damping,
	}
	return c.Solve(velocity, dt)
}
