// Package session runs the character simulation at a fixed tick: it owns the
// world, the static environment and the controller systems.
package session

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/younwookim/kinematic/internal/application/environment"
	"github.com/younwookim/kinematic/internal/application/system"
	"github.com/younwookim/kinematic/internal/domain/entity"
	"github.com/younwookim/kinematic/internal/ecs"
	"github.com/younwookim/kinematic/internal/infrastructure/config"
	"github.com/younwookim/kinematic/internal/infrastructure/logging"
)

// Session is one running simulation of a scene
type Session struct {
	logger     *zap.Logger
	config     *config.Config
	env        *environment.Environment
	world      *ecs.World
	controller *system.ControllerSystem
	dt         float64
	tick       int
}

// New loads the configured scene and spawns its characters
func New(loader *config.Loader, cfg *config.Config, logger *zap.Logger) (*Session, error) {
	logger = logging.OrNop(logger)
	sim := cfg.Simulation

	s := &Session{
		logger:     logger,
		config:     cfg,
		env:        environment.New(loader, sim.CellSize, logger),
		controller: system.NewControllerSystem(logger, sim.Workers),
		dt:         1.0 / float64(sim.TickRate),
	}

	if _, err := s.env.Load(sim.Scene); err != nil {
		return nil, err
	}
	if err := s.Restart(); err != nil {
		return nil, err
	}
	return s, nil
}

// Restart discards every character and respawns the scene's spawns
func (s *Session) Restart() error {
	world := ecs.NewWorld()
	if err := system.Populate(world, s.env.Scene().Spawns, s.config.Characters); err != nil {
		return fmt.Errorf("failed to populate scene %s: %w", s.env.Scene().ID, err)
	}
	s.world = world
	s.tick = 0
	s.logger.Info("session started",
		zap.String("scene", s.env.Scene().ID),
		zap.Int("characters", len(world.Characters)))
	return nil
}

// Step applies the player's actions and advances every character by one tick.
// Non-player characters keep their last actions.
func (s *Session) Step(player entity.DesiredActions) error {
	if s.world.PlayerID != entity.NilEntity {
		s.world.SetActions(s.world.PlayerID, player)
	}
	if err := s.controller.Update(s.world, s.env.Layer(), s.dt); err != nil {
		return fmt.Errorf("tick %d: %w", s.tick, err)
	}
	s.tick++
	return nil
}

// Reload rebuilds the environment if the watcher reported a change to the
// current scene. Characters keep their state across the rebuild.
func (s *Session) Reload(w *environment.Watcher) {
	rebuilt, err := s.env.Poll(w)
	if err != nil {
		s.logger.Warn("scene reload failed, keeping previous layer", zap.Error(err))
		return
	}
	if rebuilt {
		s.logger.Info("scene reloaded", zap.Int("tick", s.tick))
	}
}

// World returns the simulated world
func (s *Session) World() *ecs.World { return s.world }

// Environment returns the static environment
func (s *Session) Environment() *environment.Environment { return s.env }

// Controller returns the controller system
func (s *Session) Controller() *system.ControllerSystem { return s.controller }

// Config returns the configuration the session runs with
func (s *Session) Config() *config.Config { return s.config }

// DeltaTime returns the fixed tick length in seconds
func (s *Session) DeltaTime() float64 { return s.dt }

// Tick returns the number of completed ticks since the last restart
func (s *Session) Tick() int { return s.tick }

// Snapshot returns the committed state of every character
func (s *Session) Snapshot() Snapshot {
	return Snapshot{
		Tick:       s.tick,
		Scene:      s.env.Scene().ID,
		Characters: s.world.Snapshot(),
	}
}

// Snapshot is the per-tick output streamed to downstream consumers
type Snapshot struct {
	Tick       int                        `json:"tick"`
	Scene      string                     `json:"scene"`
	Characters []entity.CharacterSnapshot `json:"characters"`
}
