package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func createTestStats() *ControllerStats {
	return &ControllerStats{
		TargetHoverHeight:                     0.5,
		ExtraGroundCheckDistanceWhileGrounded: 0.3,
		ExtraGroundCheckDistanceWhileInAir:    0.05,
		JumpInitialMinTime:                    0.1,
		JumpInitialMaxTime:                    0.3,
		CoyoteTime:                            0.1,
	}
}

func TestControllerStats_GroundCheckDistance(t *testing.T) {
	stats := createTestStats()

	assert.InDelta(t, 0.8, stats.GroundCheckDistance(true), 1e-12)
	assert.InDelta(t, 0.55, stats.GroundCheckDistance(false), 1e-12)
}

func TestControllerState_Phase(t *testing.T) {
	stats := createTestStats()

	tests := []struct {
		name  string
		state ControllerState
		want  MotionPhase
	}{
		{"grounded", ControllerState{Grounded: true}, PhaseGrounded},
		{"coyote window", ControllerState{AccumulatedCoyoteTime: 0.05}, PhaseCoyote},
		{"coyote expired", ControllerState{AccumulatedCoyoteTime: 0.2}, PhaseFalling},
		{"initial ascent", ControllerState{AccumulatedJumpTime: 0.1, AccumulatedCoyoteTime: 0.1}, PhaseJumpInitial},
		{"sustained ascent", ControllerState{AccumulatedJumpTime: 0.3, AccumulatedCoyoteTime: 0.3}, PhaseJumpSustained},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.state.Phase(stats))
		})
	}
}

func TestControllerState_Ascending(t *testing.T) {
	s := ControllerState{}
	assert.False(t, s.Ascending())
	s.AccumulatedJumpTime = 1e-7
	assert.True(t, s.Ascending())
}

func TestMotionPhase_String(t *testing.T) {
	assert.Equal(t, "Grounded", PhaseGrounded.String())
	assert.Equal(t, "Coyote", PhaseCoyote.String())
	assert.Equal(t, "JumpInitial", PhaseJumpInitial.String())
	assert.Equal(t, "JumpSustained", PhaseJumpSustained.String())
	assert.Equal(t, "Falling", PhaseFalling.String())
	assert.Equal(t, "Unknown", MotionPhase(99).String())
}

func TestMotionPhase_Text(t *testing.T) {
	for p := PhaseGrounded; p <= PhaseFalling; p++ {
		text, err := p.MarshalText()
		assert.NoError(t, err)

		var got MotionPhase
		assert.NoError(t, got.UnmarshalText(text))
		assert.Equal(t, p, got)
	}

	var p MotionPhase
	assert.Error(t, p.UnmarshalText([]byte("Flying")))
}
