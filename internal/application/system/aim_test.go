package system

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/younwookim/kinematic/internal/domain/entity"
	"github.com/younwookim/kinematic/internal/domain/mathx"
	"github.com/younwookim/kinematic/internal/ecs"
)

func TestApplyVerticalAim(t *testing.T) {
	limits := entity.VerticalAimStats{MinSinLimit: -0.5, MaxSinLimit: 0.5}

	tests := []struct {
		name   string
		stats  entity.VerticalAimStats
		steps  []float64
		wantFY float64
	}{
		{"small pitch up", limits, []float64{0.3}, 0.3},
		{"small pitch down", limits, []float64{-0.2}, -0.2},
		{"clamped at max", limits, []float64{0.3, 0.3}, 0.5},
		{"clamped at min", limits, []float64{-5}, -0.5},
		{"per-step limit", entity.VerticalAimStats{MinSinLimit: -0.95, MaxSinLimit: 0.95}, []float64{5}, maxPitchDelta},
		{"back down after clamp", limits, []float64{0.9, -0.5}, 0},
		{"nan ignored", limits, []float64{math.NaN()}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := mgl64.QuatIdent()
			for _, dy := range tt.steps {
				q = ApplyVerticalAim(q, dy, tt.stats)
			}
			f := mathx.Forward(q)
			assert.InDelta(t, tt.wantFY, f.Y(), 1e-9)
			assert.InDelta(t, 0, f.X(), 1e-9)
			assert.Greater(t, f.Z(), 0.0)
		})
	}
}

func TestVerticalAimSystem_SkipsOrphanedRigs(t *testing.T) {
	w := ecs.NewWorld()
	owner := w.CreateCharacter("test", createTestStats(), entity.NewTransform(mgl64.Vec3{}))
	rig := w.CreateAimRig(owner, entity.VerticalAimStats{MinSinLimit: -0.9, MaxSinLimit: 0.9})
	w.SetActions(owner, entity.DesiredActions{Look: mgl64.Vec2{0, 0.4}})

	sys := NewVerticalAimSystem()
	sys.Update(w)
	r, ok := w.AimRig(rig)
	require.True(t, ok)
	assert.InDelta(t, 0.4, mathx.Forward(r.LocalRotation).Y(), 1e-9)
	assert.Zero(t, sys.Skipped())

	before := r.LocalRotation
	require.True(t, w.DestroyEntity(owner))
	sys.Update(w)
	sys.Update(w)

	r, ok = w.AimRig(rig)
	require.True(t, ok)
	assert.Equal(t, before, r.LocalRotation)
	assert.Equal(t, int64(2), sys.Skipped())
}
