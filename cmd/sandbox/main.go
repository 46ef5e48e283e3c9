package main

import (
	"flag"
	"log"
	"path/filepath"

	"github.com/hajimehoshi/ebiten/v2"
	"go.uber.org/zap"

	"github.com/younwookim/kinematic/cmd/sandbox/configs"
	"github.com/younwookim/kinematic/internal/application/environment"
	"github.com/younwookim/kinematic/internal/application/game"
	"github.com/younwookim/kinematic/internal/application/replay"
	"github.com/younwookim/kinematic/internal/application/scene/playing"
	"github.com/younwookim/kinematic/internal/application/session"
	"github.com/younwookim/kinematic/internal/infrastructure/config"
	"github.com/younwookim/kinematic/internal/infrastructure/logging"
)

func main() {
	// Parse command line flags
	configDir := flag.String("config", "", "Load configs from a directory and reload scenes when they change (default: embedded)")
	recordFlag := flag.String("record", "", "Record input to file (e.g., -record replay.json)")
	replayFlag := flag.String("replay", "", "Play back a recorded session")
	flag.Parse()

	loader := config.NewFSLoader(configs.FS, "configs")
	if *configDir != "" {
		loader = config.NewLoader(*configDir)
	}
	cfg, err := loader.LoadAll()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := logging.New(cfg.Simulation.LogLevel, cfg.Simulation.LogEncoding)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	opts := playing.Options{RecordPath: *recordFlag}
	if *replayFlag != "" {
		data, err := replay.Load(*replayFlag)
		if err != nil {
			logger.Fatal("failed to load replay", zap.Error(err))
		}
		// Replay on the scene and tick the session was recorded with
		cfg.Simulation.Scene = data.Scene
		if data.TickRate > 0 {
			cfg.Simulation.TickRate = data.TickRate
		}
		opts.Replay = data
	}

	sess, err := session.New(loader, cfg, logger)
	if err != nil {
		logger.Fatal("failed to start session", zap.Error(err))
	}

	if *configDir != "" {
		w, err := environment.NewWatcher(*configDir, filepath.Join(*configDir, "scenes"))
		if err != nil {
			logger.Fatal("failed to watch configs", zap.Error(err))
		}
		defer func() { _ = w.Close() }()
		opts.Watcher = w
		logger.Info("hot reload enabled", zap.String("dir", *configDir))
	}

	sim := cfg.Simulation
	g := game.New(playing.New(sess, opts, logger), sim.Display.ScreenWidth, sim.Display.ScreenHeight, sim.TickRate)

	// Set up ebiten
	ebiten.SetWindowSize(sim.Display.ScreenWidth, sim.Display.ScreenHeight)
	ebiten.SetWindowTitle("Kinematic Sandbox")
	ebiten.SetTPS(sim.TickRate)

	// Run game
	if err := ebiten.RunGame(g); err != nil {
		logger.Fatal("sandbox stopped", zap.Error(err))
	}
}
