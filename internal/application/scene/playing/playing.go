// Package playing provides the sandbox scene: it steps a session from live
// or replayed input and draws a top and a side view of the world.
package playing

import (
	"fmt"
	"image/color"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"go.uber.org/zap"

	"github.com/younwookim/kinematic/internal/application/environment"
	"github.com/younwookim/kinematic/internal/application/replay"
	"github.com/younwookim/kinematic/internal/application/scene"
	"github.com/younwookim/kinematic/internal/application/session"
	"github.com/younwookim/kinematic/internal/application/state"
	"github.com/younwookim/kinematic/internal/domain/entity"
	"github.com/younwookim/kinematic/internal/domain/mathx"
	"github.com/younwookim/kinematic/internal/ecs"
	"github.com/younwookim/kinematic/internal/infrastructure/collision"
	"github.com/younwookim/kinematic/internal/infrastructure/logging"
)

// Colors for rendering
var (
	colorBG      = color.RGBA{26, 26, 46, 255}
	colorWall    = color.RGBA{110, 110, 140, 255}
	colorDivider = color.RGBA{60, 60, 80, 255}
	colorHeading = color.RGBA{255, 255, 255, 255}
	colorPlayer  = color.RGBA{100, 200, 100, 255}

	phaseColors = map[entity.MotionPhase]color.RGBA{
		entity.PhaseGrounded:      {100, 160, 220, 255},
		entity.PhaseCoyote:        {220, 200, 100, 255},
		entity.PhaseJumpInitial:   {240, 140, 60, 255},
		entity.PhaseJumpSustained: {220, 100, 160, 255},
		entity.PhaseFalling:       {200, 80, 80, 255},
	}
)

// topViewShare is the fraction of the screen width given to the top view
const topViewShare = 0.6

// Options configures optional sandbox features
type Options struct {
	RecordPath string             // empty disables recording
	Replay     *replay.ReplayData // nil drives the player from live input
	Watcher    *environment.Watcher
}

// Playing is the sandbox scene
type Playing struct {
	logger  *zap.Logger
	session *session.Session
	input   *InputSystem
	state   state.GameState
	resume  state.GameState
	screenW int
	screenH int
	ppm     float64

	watcher *environment.Watcher

	// Replay playback
	replayer *replay.Replayer

	// Input recording
	recorder   *replay.Recorder
	recordPath string

	// Wireframe cache, rebuilt when the layer changes
	edges      []edge
	edgesLayer *collision.Layer
}

// New creates a sandbox scene over a running session.
// If opts.RecordPath is not empty, the player's actions are recorded.
func New(sess *session.Session, opts Options, logger *zap.Logger) *Playing {
	cfg := sess.Config().Simulation
	p := &Playing{
		logger:     logging.OrNop(logger),
		session:    sess,
		input:      NewInputSystem(cfg.Input),
		state:      state.StatePlaying,
		screenW:    cfg.Display.ScreenWidth,
		screenH:    cfg.Display.ScreenHeight,
		ppm:        cfg.Display.PixelsPerMeter,
		watcher:    opts.Watcher,
		recordPath: opts.RecordPath,
	}
	if p.ppm <= 0 {
		p.ppm = 16
	}

	if opts.Replay != nil {
		p.replayer = replay.NewReplayer(*opts.Replay)
		p.state = state.StateReplaying
		if digest := sess.Environment().Scene().Digest; opts.Replay.SceneDigest != digest {
			p.logger.Warn("replay was recorded on a different scene revision",
				zap.String("scene", opts.Replay.Scene),
				zap.Uint64("recorded", opts.Replay.SceneDigest),
				zap.Uint64("current", digest))
		}
	}

	if p.recordPath != "" {
		p.recorder = p.newRecorder()
		p.logger.Info("recording enabled", zap.String("path", p.recordPath))
	}
	return p
}

func (p *Playing) newRecorder() *replay.Recorder {
	sim := p.session.Config().Simulation
	return replay.NewRecorder(sim.Scene, p.session.Environment().Scene().Digest, sim.TickRate)
}

// Update proceeds the sandbox state (implements scene.Scene)
func (p *Playing) Update(dt float64) (scene.Scene, error) {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return nil, scene.ErrQuit
	}
	if p.watcher != nil {
		p.session.Reload(p.watcher)
	}

	switch p.state {
	case state.StatePlaying, state.StateReplaying:
		if inpututil.IsKeyJustPressed(ebiten.KeyP) {
			p.resume = p.state
			p.state = state.StatePaused
			return nil, nil
		}
		if inpututil.IsKeyJustPressed(ebiten.KeyR) {
			return nil, p.restart()
		}
		// F5: Save recording manually
		if inpututil.IsKeyJustPressed(ebiten.KeyF5) {
			p.saveRecording()
		}
		return nil, p.step(dt)
	case state.StatePaused:
		if inpututil.IsKeyJustPressed(ebiten.KeyP) {
			p.state = p.resume
		}
	case state.StateReplayDone:
		if inpututil.IsKeyJustPressed(ebiten.KeyR) {
			return nil, p.restart()
		}
	}

	return nil, nil // nil = stay on this scene
}

// step advances the session by one tick
func (p *Playing) step(dt float64) error {
	actions, ok := p.nextActions(dt)
	if !ok {
		p.state = state.StateReplayDone
		p.logger.Info("replay finished", zap.Int("frames", p.replayer.TotalFrames()))
		return nil
	}

	if p.recorder != nil {
		p.recorder.RecordFrame(actions)
	}
	return p.session.Step(actions)
}

func (p *Playing) nextActions(dt float64) (entity.DesiredActions, bool) {
	if p.replayer != nil {
		return p.replayer.Next()
	}
	return p.input.Actions(dt), true
}

func (p *Playing) restart() error {
	if err := p.session.Restart(); err != nil {
		return err
	}

	p.state = state.StatePlaying
	if p.replayer != nil {
		p.replayer.Reset()
		p.state = state.StateReplaying
	}

	// Reset recorder if recording
	if p.recordPath != "" {
		p.recorder = p.newRecorder()
		p.logger.Info("recording restarted")
	}
	return nil
}

// saveRecording saves the current recording to file
func (p *Playing) saveRecording() {
	if p.recorder == nil || p.recorder.FrameCount() == 0 {
		return
	}

	filename := p.recordPath
	if filename == "" {
		filename = replay.GenerateFilename()
	}

	if err := p.recorder.Save(filename); err != nil {
		p.logger.Error("failed to save recording", zap.String("path", filename), zap.Error(err))
		return
	}
	p.logger.Info("recording saved", zap.String("path", filename), zap.Int("frames", p.recorder.FrameCount()))
}

// views returns the top (XZ) and side (ZY) views centered on the player
func (p *Playing) views() (view, view) {
	var center mgl64.Vec3
	if b := p.session.Environment().Layer().Bounds(); !b.IsEmpty() {
		center = b.Center()
	}
	if player, ok := p.session.World().Player(); ok {
		center = player.Transform.Position
	}

	topW := float64(p.screenW) * topViewShare
	top := view{
		w: topW, h: float64(p.screenH),
		horizontal: axisX, vertical: axisZ,
		center: center, ppm: p.ppm,
	}
	side := view{
		x: topW, w: float64(p.screenW) - topW, h: float64(p.screenH),
		horizontal: axisZ, vertical: axisY,
		center: center, ppm: p.ppm,
	}
	return top, side
}

// Draw renders the sandbox screen
func (p *Playing) Draw(screen *ebiten.Image) {
	screen.Fill(colorBG)

	top, side := p.views()
	for _, v := range []view{top, side} {
		p.drawBodies(screen, v)
		p.drawCharacters(screen, v)
	}
	ebitenutil.DrawLine(screen, top.w, 0, top.w, float64(p.screenH), colorDivider)

	p.drawUI(screen)

	// Draw state overlays
	switch p.state {
	case state.StatePaused:
		p.drawOverlay(screen, "PAUSED\n\nPress P to resume")
	case state.StateReplayDone:
		p.drawOverlay(screen, "REPLAY FINISHED\n\nPress R to replay again")
	}
}

func (p *Playing) drawBodies(screen *ebiten.Image, v view) {
	layer := p.session.Environment().Layer()
	if layer != p.edgesLayer {
		p.edges = p.edges[:0]
		for body := range layer.Bodies() {
			p.edges = append(p.edges, shapeEdges(body.Shape, body.Transform)...)
		}
		p.edgesLayer = layer
	}

	for _, e := range p.edges {
		x0, y0 := v.project(e[0])
		x1, y1 := v.project(e[1])
		if x0, y0, x1, y1, ok := v.clip(x0, y0, x1, y1); ok {
			ebitenutil.DrawLine(screen, x0, y0, x1, y1, colorWall)
		}
	}

	for body := range layer.Bodies() {
		s, ok := body.Shape.(collision.Sphere)
		if !ok {
			continue
		}
		cx, cy := v.project(body.Transform.Position.Add(body.Transform.Rotation.Rotate(s.Center)))
		if v.contains(cx, cy) {
			ebitenutil.DrawCircle(screen, cx, cy, s.Radius*p.ppm, colorWall)
		}
	}
}

func (p *Playing) drawCharacters(screen *ebiten.Image, v view) {
	world := p.session.World()
	for i := range world.Characters {
		c := &world.Characters[i]
		col := phaseColors[c.State.Phase(c.Stats)]
		if c.ID == world.PlayerID {
			col = colorPlayer
		}

		if v.vertical == axisY {
			p.drawCapsuleSide(screen, v, c, col)
			continue
		}

		pos := c.Transform.Position
		cx, cy := v.project(pos)
		if !v.contains(cx, cy) {
			continue
		}
		ebitenutil.DrawCircle(screen, cx, cy, c.Stats.CapsuleRadius*p.ppm, col)
		hx, hy := v.project(pos.Add(mathx.Forward(c.Transform.Rotation)))
		ebitenutil.DrawLine(screen, cx, cy, hx, hy, colorHeading)
	}
}

// drawCapsuleSide draws the capsule's silhouette with its base at the position
func (p *Playing) drawCapsuleSide(screen *ebiten.Image, v view, c *ecs.Character, col color.RGBA) {
	pos := c.Transform.Position
	r := c.Stats.CapsuleRadius
	var offset mgl64.Vec3
	offset[v.horizontal] = -r
	offset[v.vertical] = c.Stats.CapsuleHeight

	x, y := v.project(pos.Add(offset))
	if !v.contains(x, y) {
		return
	}
	w := 2 * r * p.ppm
	h := c.Stats.CapsuleHeight * p.ppm
	ebitenutil.DrawRect(screen, x, y, min(w, v.x+v.w-x), h, col)
}

func (p *Playing) drawUI(screen *ebiten.Image) {
	sim := p.session
	text := fmt.Sprintf("Scene: %s  Tick: %d  State: %s  TPS: %.0f",
		sim.Environment().Scene().ID, sim.Tick(), p.state, ebiten.ActualTPS())

	if player, ok := sim.World().Player(); ok {
		pos := player.Transform.Position
		vel := player.State.Velocity
		text += fmt.Sprintf("\nPos: %.2f %.2f %.2f  Speed: %.2f  Vy: %.2f\nPhase: %s  Yaw: %.0f",
			pos[0], pos[1], pos[2], mathx.HorizontalLength(vel), vel[1],
			player.State.Phase(player.Stats), mgl64.RadToDeg(mathx.Yaw(player.Transform.Rotation)))
	}
	if p.recorder != nil {
		text += fmt.Sprintf("\nRecording: %d frames (F5 to save)", p.recorder.FrameCount())
	}
	if p.replayer != nil {
		text += fmt.Sprintf("\nReplay: %d/%d", p.replayer.CurrentFrame(), p.replayer.TotalFrames())
	}
	ebitenutil.DebugPrint(screen, text)

	// Controls
	controls := "WASD: Move | Space: Jump | Arrows/Tab+Mouse: Look | P: Pause | R: Restart | ESC: Quit"
	ebitenutil.DebugPrintAt(screen, controls, 10, p.screenH-20)
}

func (p *Playing) drawOverlay(screen *ebiten.Image, text string) {
	// Semi-transparent overlay
	overlay := color.RGBA{0, 0, 0, 128}
	ebitenutil.DrawRect(screen, 0, 0, float64(p.screenW), float64(p.screenH), overlay)
	ebitenutil.DebugPrintAt(screen, text, p.screenW/2-60, p.screenH/2-20)
}

// State returns the current sandbox state
func (p *Playing) State() state.GameState {
	return p.state
}

// Recorder returns the active recorder, nil when recording is off
func (p *Playing) Recorder() *replay.Recorder {
	return p.recorder
}

// OnEnter is called when entering this scene
func (p *Playing) OnEnter() {
	// Scene is already initialized in New
}

// OnExit is called when leaving this scene
func (p *Playing) OnExit() {
	p.saveRecording()
}

// Layout returns the sandbox's screen dimensions (used by game.Game)
func (p *Playing) Layout(outsideWidth, outsideHeight int) (int, int) {
	return p.screenW, p.screenH
}
