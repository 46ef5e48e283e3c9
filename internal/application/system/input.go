package system

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/younwookim/kinematic/internal/domain/entity"
	"github.com/younwookim/kinematic/internal/domain/mathx"
	"github.com/younwookim/kinematic/internal/infrastructure/config"
)

// InputState holds the current input state
type InputState struct {
	Forward bool
	Back    bool
	Left    bool
	Right   bool
	Jump    bool

	LookLeft  bool
	LookRight bool
	LookUp    bool
	LookDown  bool

	// Mouse motion in pixels since the previous frame, zero unless the cursor is captured
	MouseDX float64
	MouseDY float64
}

// ActionsFromInput maps raw input to desired actions. Jump is reported while held.
func ActionsFromInput(in InputState, cfg config.InputConfig, dt float64) entity.DesiredActions {
	move := mgl64.Vec2{axis(in.Left, in.Right), axis(in.Back, in.Forward)}
	if move.Len() > 1 {
		move = move.Normalize()
	}

	keyLook := cfg.KeyLookPerSecond * dt
	look := mgl64.Vec2{
		in.MouseDX*cfg.LookSensitivity + axis(in.LookLeft, in.LookRight)*keyLook,
		-in.MouseDY*cfg.LookSensitivity + axis(in.LookDown, in.LookUp)*keyLook,
	}
	look[0] = mathx.Clamp(look[0], -1, 1)
	look[1] = mathx.Clamp(look[1], -1, 1)

	return entity.DesiredActions{
		Look: look,
		Move: move,
		Jump: in.Jump,
	}
}

func axis(negative, positive bool) float64 {
	v := 0.0
	if negative {
		v--
	}
	if positive {
		v++
	}
	return v
}
