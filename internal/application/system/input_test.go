package system

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"

	"github.com/younwookim/kinematic/internal/infrastructure/config"
)

func TestActionsFromInput(t *testing.T) {
	cfg := config.InputConfig{LookSensitivity: 0.01, KeyLookPerSecond: 2}
	dt := 0.1
	diag := 1 / math.Sqrt2

	tests := []struct {
		name     string
		in       InputState
		wantMove mgl64.Vec2
		wantLook mgl64.Vec2
		wantJump bool
	}{
		{name: "idle"},
		{name: "forward", in: InputState{Forward: true}, wantMove: mgl64.Vec2{0, 1}},
		{name: "opposite keys cancel", in: InputState{Forward: true, Back: true, Left: true}, wantMove: mgl64.Vec2{-1, 0}},
		{name: "diagonal normalized", in: InputState{Back: true, Right: true}, wantMove: mgl64.Vec2{diag, -diag}},
		{name: "jump held", in: InputState{Jump: true}, wantJump: true},
		{name: "mouse look", in: InputState{MouseDX: 10, MouseDY: 5}, wantLook: mgl64.Vec2{0.1, -0.05}},
		{name: "key look", in: InputState{LookLeft: true, LookUp: true}, wantLook: mgl64.Vec2{-0.2, 0.2}},
		{name: "look clamped", in: InputState{MouseDX: -500, MouseDY: -500}, wantLook: mgl64.Vec2{-1, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ActionsFromInput(tt.in, cfg, dt)
			assert.InDelta(t, tt.wantMove.X(), got.Move.X(), 1e-12)
			assert.InDelta(t, tt.wantMove.Y(), got.Move.Y(), 1e-12)
			assert.InDelta(t, tt.wantLook.X(), got.Look.X(), 1e-12)
			assert.InDelta(t, tt.wantLook.Y(), got.Look.Y(), 1e-12)
			assert.Equal(t, tt.wantJump, got.Jump)
		})
	}
}
