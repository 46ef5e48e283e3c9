package system

import (
	"fmt"
	"runtime"

	"github.com/go-gl/mathgl/mgl64"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/younwookim/kinematic/internal/domain/mathx"
	"github.com/younwookim/kinematic/internal/ecs"
	"github.com/younwookim/kinematic/internal/infrastructure/collision"
	"github.com/younwookim/kinematic/internal/infrastructure/logging"
)

// minChunk keeps tiny worlds on a single goroutine
const minChunk = 16

// StepContext is the read-only per-step input shared by every character.
// Layer must be fully built before the step starts and stay untouched until it ends.
type StepContext struct {
	Layer     *collision.Layer
	DeltaTime float64
	Logger    *zap.Logger
}

// StepCharacter advances one character by one step: rotation, jump state,
// gravity, move input, collide-and-slide, then the hover spring.
func StepCharacter(ctx *StepContext, c *ecs.Character) {
	dt := ctx.DeltaTime
	if dt <= 0 {
		if dt < 0 && ctx.Logger != nil {
			ctx.Logger.Warn("negative delta time, step skipped",
				zap.Uint32("entity", uint32(c.ID)), zap.Float64("dt", dt))
		}
		return
	}

	stats := c.Stats
	state := &c.State
	start := c.Transform.Position
	previous := state.Velocity

	ground := CheckGround(ctx.Layer, start, stats.GroundCheckDistance(state.Grounded), stats, state.AccumulatedJumpTime)

	c.Transform.Rotation = ApplyRotation(c.Transform.Rotation, c.Actions.Look.X())
	velA := state.Velocity

	ApplyJump(c.Actions.Jump, state, stats, dt)
	velB := state.Velocity
	if state.AccumulatedJumpTime > 0 {
		ground.Found = false
	}

	ApplyGravity(ground.Found, state, stats, dt)
	velC := state.Velocity

	state.Velocity = ApplyMoveInput(c.Actions.Move, c.Transform.Rotation, ground, state.Velocity, stats, dt)
	velD := state.Velocity

	slide := CollideAndSlide(ctx.Layer, start, state.Velocity, stats, dt)
	state.Velocity = slide.Velocity
	velE := state.Velocity

	position := start.Add(state.Velocity.Mul(dt))
	after := CheckGround(ctx.Layer, position, stats.GroundCheckDistance(ground.Found), stats, state.AccumulatedJumpTime)
	if after.Found {
		targetY := position.Y() - after.Distance + stats.TargetHoverHeight
		state.Velocity = ApplySpring(state.Velocity, position, targetY, stats, dt)
	}

	if !mathx.IsFinite(state.Velocity) {
		if ctx.Logger != nil {
			ctx.Logger.Warn("velocity broke",
				zap.Uint32("entity", uint32(c.ID)),
				zap.Float64s("a", velA[:]),
				zap.Float64s("b", velB[:]),
				zap.Float64s("c", velC[:]),
				zap.Float64s("d", velD[:]),
				zap.Float64s("e", velE[:]),
				zap.Float64s("f", state.Velocity[:]))
		}
		if mathx.IsFinite(previous) {
			state.Velocity = previous
		} else {
			state.Velocity = mgl64.Vec3{}
		}
		state.Grounded = after.Found
		return
	}

	state.Grounded = after.Found
	c.Transform.Position = start.Add(state.Velocity.Mul(dt))
}

// ControllerSystem steps every character in parallel, then the aim rigs
type ControllerSystem struct {
	logger  *zap.Logger
	workers int
	aim     *VerticalAimSystem
}

// NewControllerSystem creates a controller system. workers <= 0 uses GOMAXPROCS.
func NewControllerSystem(logger *zap.Logger, workers int) *ControllerSystem {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	return &ControllerSystem{
		logger:  logging.OrNop(logger),
		workers: workers,
		aim:     NewVerticalAimSystem(),
	}
}

// Aim returns the vertical aim system run after the characters
func (s *ControllerSystem) Aim() *VerticalAimSystem {
	return s.aim
}

// Update advances all characters by dt against layer. Characters are split
// into contiguous chunks; each chunk owns its elements exclusively.
func (s *ControllerSystem) Update(world *ecs.World, layer *collision.Layer, dt float64) error {
	ctx := &StepContext{Layer: layer, DeltaTime: dt, Logger: s.logger}

	chars := world.Characters
	chunk := (len(chars) + s.workers - 1) / s.workers
	chunk = max(chunk, minChunk)

	var g errgroup.Group
	g.SetLimit(s.workers)
	for lo := 0; lo < len(chars); lo += chunk {
		part := chars[lo:min(lo+chunk, len(chars))]
		g.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = fmt.Errorf("character step panicked: %v", r)
				}
			}()
			for i := range part {
				StepCharacter(ctx, &part[i])
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	s.aim.Update(world)
	return nil
}
