package game

import (
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/stretchr/testify/assert"

	"github.com/younwookim/kinematic/internal/application/scene"
)

// mockScene is a test double for Scene interface
type mockScene struct {
	updateCalled  int
	drawCalled    int
	onEnterCalled int
	onExitCalled  int
	lastDT        float64
	nextScene     scene.Scene
	updateErr     error
}

func (m *mockScene) Update(dt float64) (scene.Scene, error) {
	m.updateCalled++
	m.lastDT = dt
	return m.nextScene, m.updateErr
}

func (m *mockScene) Draw(screen *ebiten.Image) {
	m.drawCalled++
}

func (m *mockScene) OnEnter() {
	m.onEnterCalled++
}

func (m *mockScene) OnExit() {
	m.onExitCalled++
}

func TestNew(t *testing.T) {
	mockInitial := &mockScene{}
	g := New(mockInitial, 320, 240, 30)

	assert.NotNil(t, g)
	assert.Equal(t, 1, mockInitial.onEnterCalled, "OnEnter should be called on initial scene")
	assert.InDelta(t, 1.0/30, g.DT(), 1e-12)
}

func TestNew_DefaultTickRate(t *testing.T) {
	g := New(&mockScene{}, 320, 240, 0)
	assert.InDelta(t, 1.0/60, g.DT(), 1e-12)
}

func TestGame_Update_DelegatesToCurrentScene(t *testing.T) {
	mockInitial := &mockScene{}
	g := New(mockInitial, 320, 240, 120)

	err := g.Update()
	assert.NoError(t, err)
	assert.Equal(t, 1, mockInitial.updateCalled, "Update should delegate to current scene")
	assert.InDelta(t, 1.0/120, mockInitial.lastDT, 1e-12)
}

func TestGame_Draw_DelegatesToCurrentScene(t *testing.T) {
	mockInitial := &mockScene{}
	g := New(mockInitial, 320, 240, 60)

	img := ebiten.NewImage(320, 240)
	g.Draw(img)

	assert.Equal(t, 1, mockInitial.drawCalled, "Draw should delegate to current scene")
}

func TestGame_Layout(t *testing.T) {
	g := New(&mockScene{}, 320, 240, 60)

	w, h := g.Layout(640, 480)
	assert.Equal(t, 320, w)
	assert.Equal(t, 240, h)
}

func TestGame_SceneTransition(t *testing.T) {
	scene1 := &mockScene{}
	scene2 := &mockScene{}
	scene1.nextScene = scene2

	g := New(scene1, 320, 240, 60)

	assert.NoError(t, g.Update())
	assert.Equal(t, 1, scene1.onExitCalled, "scene1 OnExit called on transition")
	assert.Equal(t, 1, scene2.onEnterCalled, "scene2 OnEnter called on transition")

	assert.NoError(t, g.Update())
	assert.Equal(t, 1, scene2.updateCalled, "scene2 Update called")
}

func TestGame_NoTransitionWhenNil(t *testing.T) {
	scene1 := &mockScene{}
	g := New(scene1, 320, 240, 60)

	for i := 0; i < 5; i++ {
		assert.NoError(t, g.Update())
	}

	assert.Equal(t, 5, scene1.updateCalled, "All updates go to scene1")
	assert.Equal(t, 0, scene1.onExitCalled, "No OnExit when no transition")
}

func TestGame_UpdateError(t *testing.T) {
	scene1 := &mockScene{updateErr: assert.AnError}
	g := New(scene1, 320, 240, 60)

	err := g.Update()
	assert.ErrorIs(t, err, assert.AnError)
	assert.NotErrorIs(t, err, ebiten.Termination)
	assert.Equal(t, 1, scene1.onExitCalled, "OnExit runs so the scene can flush")
}

func TestGame_Quit(t *testing.T) {
	scene1 := &mockScene{updateErr: scene.ErrQuit}
	g := New(scene1, 320, 240, 60)

	err := g.Update()
	assert.ErrorIs(t, err, ebiten.Termination)
	assert.Equal(t, 1, scene1.onExitCalled, "OnExit runs before quitting")
}
