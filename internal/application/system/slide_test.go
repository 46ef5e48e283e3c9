package system

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"

	"github.com/younwookim/kinematic/internal/domain/entity"
	"github.com/younwookim/kinematic/internal/infrastructure/collision"
)

func floorDef() collision.BodyDef {
	return collision.BodyDef{
		Shape:     collision.Box{Center: mgl64.Vec3{0, -0.5, 0}, HalfExtents: mgl64.Vec3{50, 0.5, 50}},
		Transform: entity.NewTransform(mgl64.Vec3{}),
	}
}

// wallDef is a wall whose face toward the origin lies on the plane axis=2
func wallDef(axis int) collision.BodyDef {
	center := mgl64.Vec3{0, 1, 0}
	half := mgl64.Vec3{5, 2, 5}
	center[axis] = 2.5
	half[axis] = 0.5
	return collision.BodyDef{
		Shape:     collision.Box{HalfExtents: half},
		Transform: entity.NewTransform(center),
	}
}

func TestCollideAndSlide(t *testing.T) {
	stats := createTestStats()
	start := mgl64.Vec3{0, 0.48, 0}
	contact := 2 - stats.CapsuleRadius
	diagonal := mgl64.Vec3{1, 0, 1}.Normalize().Mul(5)

	tests := []struct {
		name           string
		layer          *collision.Layer
		velocity       mgl64.Vec3
		dt             float64
		wantIterations int
		check          func(t *testing.T, res SlideResult)
	}{
		{
			name:           "open space",
			layer:          collision.NewLayer([]collision.BodyDef{floorDef()}, 0),
			velocity:       mgl64.Vec3{2, 0, 1},
			dt:             0.5,
			wantIterations: 1,
			check: func(t *testing.T, res SlideResult) {
				assertVecNear(t, mgl64.Vec3{1, 0.48, 0.5}, res.Position, 1e-12)
				assertVecNear(t, mgl64.Vec3{2, 0, 1}, res.Velocity, 1e-9)
			},
		},
		{
			name:           "no layer",
			velocity:       mgl64.Vec3{0, -1, 0},
			dt:             1,
			wantIterations: 1,
			check: func(t *testing.T, res SlideResult) {
				assertVecNear(t, mgl64.Vec3{0, -0.52, 0}, res.Position, 1e-12)
			},
		},
		{
			name:           "head-on wall stops",
			layer:          collision.NewLayer([]collision.BodyDef{floorDef(), wallDef(0)}, 0),
			velocity:       mgl64.Vec3{10, 0, 0},
			dt:             0.5,
			wantIterations: 1,
			check: func(t *testing.T, res SlideResult) {
				assert.InDelta(t, contact-stats.SkinWidth, res.Position.X(), 1e-4)
				assert.InDelta(t, contact, res.Consumed, 1e-4)
				assert.InDelta(t, 0, res.Position.Z(), 1e-9)
			},
		},
		{
			name:           "oblique wall slides",
			layer:          collision.NewLayer([]collision.BodyDef{floorDef(), wallDef(0)}, 0),
			velocity:       diagonal,
			dt:             1,
			wantIterations: 2,
			check: func(t *testing.T, res SlideResult) {
				assert.Less(t, res.Position.X(), contact)
				assert.Greater(t, res.Position.Z(), contact+0.5)
				assert.InDelta(t, 0.48, res.Position.Y(), 1e-9)
			},
		},
		{
			name:     "corner stops",
			layer:    collision.NewLayer([]collision.BodyDef{floorDef(), wallDef(0), wallDef(2)}, 0),
			velocity: diagonal,
			dt:       1,
			check: func(t *testing.T, res SlideResult) {
				assert.Less(t, res.Position.X(), contact)
				assert.Less(t, res.Position.Z(), contact)
				assert.LessOrEqual(t, res.Iterations, MaxSlideIterations)
			},
		},
		{
			name:     "zero velocity",
			layer:    collision.NewLayer([]collision.BodyDef{floorDef()}, 0),
			velocity: mgl64.Vec3{},
			dt:       1,
			check: func(t *testing.T, res SlideResult) {
				assert.Equal(t, start, res.Position)
				assert.Equal(t, mgl64.Vec3{}, res.Velocity)
			},
		},
		{
			name:     "zero dt",
			layer:    collision.NewLayer([]collision.BodyDef{floorDef()}, 0),
			velocity: mgl64.Vec3{1, 0, 0},
			dt:       0,
			check: func(t *testing.T, res SlideResult) {
				assert.Equal(t, start, res.Position)
			},
		},
		{
			name:     "non-finite velocity",
			velocity: mgl64.Vec3{math.NaN(), 0, 0},
			dt:       1,
			check: func(t *testing.T, res SlideResult) {
				assert.Equal(t, start, res.Position)
				assert.Equal(t, mgl64.Vec3{}, res.Velocity)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := CollideAndSlide(tt.layer, start, tt.velocity, stats, tt.dt)

			if tt.wantIterations > 0 {
				assert.Equal(t, tt.wantIterations, res.Iterations)
			}
			if initial := tt.velocity.Len() * tt.dt; !math.IsNaN(initial) {
				assert.LessOrEqual(t, res.Consumed, initial+1e-9)
			}
			tt.check(t, res)
		})
	}
}
