// Command headless runs the character simulation without a window. It can
// play back recorded sessions, record the actions it applies and stream
// per-tick snapshots to WebSocket subscribers.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/younwookim/kinematic/cmd/sandbox/configs"
	"github.com/younwookim/kinematic/internal/application/replay"
	"github.com/younwookim/kinematic/internal/application/session"
	"github.com/younwookim/kinematic/internal/domain/entity"
	"github.com/younwookim/kinematic/internal/infrastructure/config"
	"github.com/younwookim/kinematic/internal/infrastructure/logging"
	"github.com/younwookim/kinematic/internal/infrastructure/stream"
)

const shutdownTimeout = 5 * time.Second

type options struct {
	configDir  string
	ticks      int // 0 runs until interrupted
	replayPath string
	recordPath string
	serveAddr  string
}

func main() {
	var opts options
	flag.StringVar(&opts.configDir, "config", "", "Load configs from a directory (default: embedded)")
	flag.IntVar(&opts.ticks, "ticks", 600, "Number of ticks to simulate, 0 to run until interrupted")
	flag.StringVar(&opts.replayPath, "replay", "", "Drive the player from a recorded session")
	flag.StringVar(&opts.recordPath, "record", "", "Record the applied actions to file")
	flag.StringVar(&opts.serveAddr, "serve", "", "Stream snapshots over WebSocket at /stream on this address, in real time")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, opts, os.Stdout); err != nil {
		log.Fatal(err)
	}
}

func newLoader(dir string) *config.Loader {
	if dir == "" {
		return config.NewFSLoader(configs.FS, "configs")
	}
	return config.NewLoader(dir)
}

// run simulates the configured scene and writes the final snapshot to out
func run(ctx context.Context, opts options, out io.Writer) error {
	loader := newLoader(opts.configDir)
	cfg, err := loader.LoadAll()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := logging.New(cfg.Simulation.LogLevel, cfg.Simulation.LogEncoding)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	var replayer *replay.Replayer
	if opts.replayPath != "" {
		data, err := replay.Load(opts.replayPath)
		if err != nil {
			return err
		}
		cfg.Simulation.Scene = data.Scene
		if data.TickRate > 0 {
			cfg.Simulation.TickRate = data.TickRate
		}
		replayer = replay.NewReplayer(*data)
	}

	sess, err := session.New(loader, cfg, logger)
	if err != nil {
		return err
	}
	if replayer != nil && replayer.Data().SceneDigest != sess.Environment().Scene().Digest {
		logger.Warn("replay was recorded on a different scene revision", zap.String("scene", cfg.Simulation.Scene))
	}

	var recorder *replay.Recorder
	if opts.recordPath != "" {
		recorder = replay.NewRecorder(cfg.Simulation.Scene, sess.Environment().Scene().Digest, cfg.Simulation.TickRate)
	}

	sim := &simulation{
		session:  sess,
		replayer: replayer,
		recorder: recorder,
		ticks:    opts.ticks,
		logger:   logger,
	}

	if opts.serveAddr == "" {
		if err := sim.run(ctx); err != nil {
			return err
		}
	} else if err := serve(ctx, opts.serveAddr, sim, logger); err != nil {
		return err
	}

	if recorder != nil && recorder.FrameCount() > 0 {
		if err := recorder.Save(opts.recordPath); err != nil {
			return err
		}
		logger.Info("recording saved", zap.String("path", opts.recordPath), zap.Int("frames", recorder.FrameCount()))
	}

	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(sess.Snapshot())
}

// serve runs the simulation in real time while a WebSocket hub streams its snapshots
func serve(ctx context.Context, addr string, sim *simulation, logger *zap.Logger) error {
	hub := stream.NewHub(logger)
	mux := http.NewServeMux()
	mux.Handle("/stream", hub)
	server := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: time.Second}

	sim.hub = hub
	sim.realtime = true

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("streaming snapshots", zap.String("addr", addr))
		if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		err := sim.run(gctx)
		hub.Close()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if serr := server.Shutdown(shutdownCtx); err == nil {
			err = serr
		}
		return err
	})
	return g.Wait()
}

// simulation drives a session tick by tick
type simulation struct {
	session  *session.Session
	replayer *replay.Replayer
	recorder *replay.Recorder
	hub      *stream.Hub
	ticks    int
	realtime bool
	logger   *zap.Logger
}

// run steps until the tick budget or the replay is exhausted, or ctx is done
func (s *simulation) run(ctx context.Context) error {
	var ticker *time.Ticker
	if s.realtime {
		ticker = time.NewTicker(time.Duration(s.session.DeltaTime() * float64(time.Second)))
		defer ticker.Stop()
	}

	for s.ticks <= 0 || s.session.Tick() < s.ticks {
		if ticker != nil {
			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
			}
		} else if ctx.Err() != nil {
			return nil
		}

		actions, ok := s.next()
		if !ok {
			s.logger.Info("replay finished", zap.Int("tick", s.session.Tick()))
			return nil
		}
		if s.recorder != nil {
			s.recorder.RecordFrame(actions)
		}
		if err := s.session.Step(actions); err != nil {
			return err
		}

		if s.hub != nil {
			if _, err := s.hub.Broadcast(s.session.Snapshot()); err != nil {
				return err
			}
		}
	}
	return nil
}

// next returns the player's actions for the coming tick; without a replay the player idles
func (s *simulation) next() (entity.DesiredActions, bool) {
	if s.replayer == nil {
		return entity.DesiredActions{}, true
	}
	return s.replayer.Next()
}
