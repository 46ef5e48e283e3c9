// Package environment owns the static collision layer the controller reads.
//
// The layer is rebuilt only between steps: callers load or poll for scene
// changes before stepping, never while a step is running.
package environment

import (
	"fmt"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/younwookim/kinematic/internal/application/system"
	"github.com/younwookim/kinematic/internal/infrastructure/collision"
	"github.com/younwookim/kinematic/internal/infrastructure/config"
	"github.com/younwookim/kinematic/internal/infrastructure/logging"
)

// Environment holds the current scene and rebuilds it when its source changes
type Environment struct {
	logger   *zap.Logger
	loader   *config.Loader
	cellSize float64

	scene   *system.Scene
	invalid bool
	builds  int
}

// New creates an empty environment reading scenes through loader
func New(loader *config.Loader, cellSize float64, logger *zap.Logger) *Environment {
	return &Environment{
		logger:   logging.OrNop(logger),
		loader:   loader,
		cellSize: cellSize,
	}
}

// Load reads scenes/<name> and rebuilds when it differs from the current scene.
// It reports whether a rebuild happened.
func (e *Environment) Load(name string) (bool, error) {
	cfg, err := e.loader.LoadScene(name)
	if err != nil {
		return false, fmt.Errorf("failed to load scene %s: %w", name, err)
	}
	return e.Rebuild(cfg), nil
}

// Rebuild installs cfg unless it matches the current scene digest.
// An invalidated environment always rebuilds.
func (e *Environment) Rebuild(cfg *config.SceneConfig) bool {
	if e.scene != nil && !e.invalid && e.scene.ID == cfg.ID && e.scene.Digest == cfg.Digest {
		return false
	}

	e.scene = system.LoadScene(cfg, e.cellSize)
	e.invalid = false
	e.builds++
	e.logger.Info("scene built",
		zap.String("scene", cfg.ID),
		zap.Uint64("digest", cfg.Digest),
		zap.Int("bodies", e.scene.Layer.Len()),
		zap.Int("build", e.builds))
	return true
}

// Invalidate forces the next Rebuild or Load to rebuild
func (e *Environment) Invalidate() {
	e.invalid = true
}

// Poll drains pending watcher events without blocking and reloads the current
// scene when one of them names it. Watcher errors are logged and skipped.
func (e *Environment) Poll(w *Watcher) (bool, error) {
	if e.scene == nil {
		return false, nil
	}

	changed := false
	for {
		select {
		case path, ok := <-w.Events:
			if !ok {
				return e.reloadIf(changed)
			}
			if SceneName(path) == e.sceneName() {
				changed = true
			}
		case err, ok := <-w.Errors:
			if !ok {
				return e.reloadIf(changed)
			}
			e.logger.Warn("scene watcher error", zap.Error(err))
		default:
			return e.reloadIf(changed)
		}
	}
}

func (e *Environment) reloadIf(changed bool) (bool, error) {
	if !changed {
		return false, nil
	}
	return e.Load(e.sceneName())
}

// sceneName is the file name the current scene was loaded from
func (e *Environment) sceneName() string {
	return SceneName(e.scene.Path)
}

// Scene returns the current scene, nil before the first build
func (e *Environment) Scene() *system.Scene {
	return e.scene
}

// Layer returns the current collision layer, nil before the first build
func (e *Environment) Layer() *collision.Layer {
	if e.scene == nil {
		return nil
	}
	return e.scene.Layer
}

// Builds returns how many times the layer has been built
func (e *Environment) Builds() int {
	return e.builds
}

// SceneName returns the scene name of a scene file path
func SceneName(path string) string {
	base := filepath.Base(filepath.FromSlash(path))
	return strings.TrimSuffix(base, filepath.Ext(base))
}
