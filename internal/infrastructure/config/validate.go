package config

import (
	"errors"
	"fmt"
	"runtime"
)

// ErrInvalidConfig marks configuration that can never produce a valid simulation
var ErrInvalidConfig = errors.New("invalid config")

func (c *SimulationConfig) applyDefaults() {
	if c.TickRate == 0 {
		c.TickRate = 60
	}
	if c.Workers == 0 {
		c.Workers = runtime.NumCPU()
	}
	if c.CellSize == 0 {
		c.CellSize = 4
	}
	if c.Display.ScreenWidth == 0 {
		c.Display.ScreenWidth = 960
	}
	if c.Display.ScreenHeight == 0 {
		c.Display.ScreenHeight = 540
	}
	if c.Display.PixelsPerMeter == 0 {
		c.Display.PixelsPerMeter = 16
	}
	if c.Input.LookSensitivity == 0 {
		c.Input.LookSensitivity = 0.002
	}
	if c.Input.KeyLookPerSecond == 0 {
		c.Input.KeyLookPerSecond = 1.5
	}
}

// Validate checks simulation settings
func (c *SimulationConfig) Validate() error {
	var errs []error
	if c.TickRate <= 0 {
		errs = append(errs, fmt.Errorf("tickRate must be positive, got %d", c.TickRate))
	}
	if c.Workers < 0 {
		errs = append(errs, fmt.Errorf("workers must not be negative, got %d", c.Workers))
	}
	if c.CellSize <= 0 {
		errs = append(errs, fmt.Errorf("cellSize must be positive, got %g", c.CellSize))
	}
	return wrapInvalid("simulation", errs)
}

// Validate checks every archetype and reports all violations at once
func (c *CharactersConfig) Validate() error {
	if len(c.Archetypes) == 0 {
		return fmt.Errorf("%w: characters: no archetypes", ErrInvalidConfig)
	}
	var errs []error
	for name, a := range c.Archetypes {
		if err := a.validate(name); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
}

// Validate checks a single archetype
func (a *ArchetypeConfig) Validate(name string) error {
	if err := a.validate(name); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

func (a *ArchetypeConfig) validate(name string) error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf("archetype %s: "+format, append([]any{name}, args...)...))
		}
	}

	check(a.Capsule.Radius > 0, "capsule radius must be positive, got %g", a.Capsule.Radius)
	check(a.Capsule.Height >= 2*a.Capsule.Radius, "capsule height %g is below twice the radius %g", a.Capsule.Height, a.Capsule.Radius)
	check(a.Capsule.SkinWidth >= 0, "skin width must not be negative, got %g", a.Capsule.SkinWidth)
	check(a.Ground.TargetHoverHeight >= 0, "target hover height must not be negative, got %g", a.Ground.TargetHoverHeight)
	check(a.Ground.ExtraCheckWhileGrounded >= 0, "extra ground check while grounded must not be negative")
	check(a.Ground.ExtraCheckWhileInAir >= 0, "extra ground check while in air must not be negative")
	check(a.Ground.MaxSlopeDeg > 0 && a.Ground.MaxSlopeDeg < 90, "max slope must be in (0, 90) degrees, got %g", a.Ground.MaxSlopeDeg)
	check(a.Spring.Frequency > 0, "spring frequency must be positive, got %g", a.Spring.Frequency)
	check(a.Spring.DampingRatio >= 0, "spring damping ratio must not be negative, got %g", a.Spring.DampingRatio)
	check(a.Jump.InitialMinTime >= 0, "jump initial min time must not be negative")
	check(a.Jump.InitialMinTime <= a.Jump.InitialMaxTime, "jump initial min time %g exceeds max time %g", a.Jump.InitialMinTime, a.Jump.InitialMaxTime)
	check(a.Jump.CoyoteTime >= 0, "coyote time must not be negative, got %g", a.Jump.CoyoteTime)
	check(a.Fall.MaxSpeed > 0, "max fall speed must be positive, got %g", a.Fall.MaxSpeed)
	check(a.Aim.MinAngleDeg <= a.Aim.MaxAngleDeg, "aim min angle %g exceeds max angle %g", a.Aim.MinAngleDeg, a.Aim.MaxAngleDeg)

	for _, m := range []struct {
		label string
		cfg   MovementConfig
	}{{"walk", a.Walk}, {"air", a.Air}} {
		for _, v := range []float64{
			m.cfg.ForwardTopSpeed, m.cfg.ReverseTopSpeed, m.cfg.StrafeTopSpeed,
			m.cfg.ForwardAcceleration, m.cfg.ForwardDeceleration,
			m.cfg.ReverseAcceleration, m.cfg.ReverseDeceleration,
			m.cfg.StrafeAcceleration, m.cfg.StrafeDeceleration,
		} {
			if v < 0 {
				check(false, "%s movement values must not be negative", m.label)
				break
			}
		}
	}

	return errors.Join(errs...)
}

// Validate checks scene geometry and spawns
func (s *SceneConfig) Validate() error {
	var errs []error
	for i, g := range s.Geometry {
		switch g.Kind {
		case KindBox:
			if g.HalfExtents[0] <= 0 || g.HalfExtents[1] <= 0 || g.HalfExtents[2] <= 0 {
				errs = append(errs, fmt.Errorf("geometry %d: box half extents must be positive", i))
			}
		case KindSphere:
			if g.Radius <= 0 {
				errs = append(errs, fmt.Errorf("geometry %d: sphere radius must be positive", i))
			}
		case KindMesh:
			if len(g.Triangles) == 0 {
				errs = append(errs, fmt.Errorf("geometry %d: mesh has no triangles", i))
			}
		case KindTerrain:
			if g.Spacing <= 0 {
				errs = append(errs, fmt.Errorf("geometry %d: terrain spacing must be positive", i))
			}
			if len(g.Heights) < 2 {
				errs = append(errs, fmt.Errorf("geometry %d: terrain needs at least 2 rows", i))
				break
			}
			for r, row := range g.Heights {
				if len(row) != len(g.Heights[0]) || len(row) < 2 {
					errs = append(errs, fmt.Errorf("geometry %d: terrain row %d has %d columns", i, r, len(row)))
					break
				}
			}
		default:
			errs = append(errs, fmt.Errorf("geometry %d: unknown kind %q", i, g.Kind))
		}
	}
	for i, sp := range s.Spawns {
		if sp.Archetype == "" {
			errs = append(errs, fmt.Errorf("spawn %d: missing archetype", i))
		}
	}
	return wrapInvalid("scene "+s.ID, errs)
}

func wrapInvalid(what string, errs []error) error {
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %s: %w", ErrInvalidConfig, what, errors.Join(errs...))
}
