package playing

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/younwookim/kinematic/internal/application/system"
	"github.com/younwookim/kinematic/internal/domain/entity"
	"github.com/younwookim/kinematic/internal/infrastructure/config"
)

// InputSystem reads the keyboard and mouse for the player character
type InputSystem struct {
	config   config.InputConfig
	captured bool
	lastX    int
	lastY    int
}

// NewInputSystem creates a new input system
func NewInputSystem(cfg config.InputConfig) *InputSystem {
	return &InputSystem{config: cfg}
}

// GetInput reads the current input state. Tab toggles mouse look.
func (s *InputSystem) GetInput() system.InputState {
	if inpututil.IsKeyJustPressed(ebiten.KeyTab) {
		s.captured = !s.captured
		if s.captured {
			ebiten.SetCursorMode(ebiten.CursorModeCaptured)
			s.lastX, s.lastY = ebiten.CursorPosition()
		} else {
			ebiten.SetCursorMode(ebiten.CursorModeVisible)
		}
	}

	in := system.InputState{
		Forward:   ebiten.IsKeyPressed(ebiten.KeyW),
		Back:      ebiten.IsKeyPressed(ebiten.KeyS),
		Left:      ebiten.IsKeyPressed(ebiten.KeyA),
		Right:     ebiten.IsKeyPressed(ebiten.KeyD),
		Jump:      ebiten.IsKeyPressed(ebiten.KeySpace),
		LookLeft:  ebiten.IsKeyPressed(ebiten.KeyArrowLeft),
		LookRight: ebiten.IsKeyPressed(ebiten.KeyArrowRight),
		LookUp:    ebiten.IsKeyPressed(ebiten.KeyArrowUp),
		LookDown:  ebiten.IsKeyPressed(ebiten.KeyArrowDown),
	}

	if s.captured {
		x, y := ebiten.CursorPosition()
		in.MouseDX, in.MouseDY = float64(x-s.lastX), float64(y-s.lastY)
		s.lastX, s.lastY = x, y
	}
	return in
}

// Actions converts the current input into desired actions for a step of dt
func (s *InputSystem) Actions(dt float64) entity.DesiredActions {
	return system.ActionsFromInput(s.GetInput(), s.config, dt)
}
