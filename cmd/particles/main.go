package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"chosenoffset.com/particles/internal/audio"
	"chosenoffset.com/particles/internal/game"
	"chosenoffset.com/particles/internal/particle"
	"chosenoffset.com/particles/internal/render"
	ebitenrender "chosenoffset.com/particles/internal/render/ebiten"
	"chosenoffset.com/particles/internal/render/terminal"
	"chosenoffset.com/particles/internal/simulation"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:   "particles",
		Short: "Animate independently moving particles",
		Long: `Particles starts ten coloured squares in the middle of the canvas and
moves each one on its own goroutine until it leaves the canvas.
Press S or Space (or the Spawn button) to add one, click a particle
to remove it, and press Esc or Q to quit.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts)
		},
	}
	opts.register(cmd)
	return cmd
}

func run(cmd *cobra.Command, opts *options) error {
	cfg, err := simulation.LoadConfig(opts.configPath)
	if err != nil {
		return err
	}
	opts.apply(cmd.Flags(), cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, closeLog, err := newLogger(cfg.Backend, opts.logLevel, opts.logFile)
	if err != nil {
		return err
	}
	defer closeLog()
	slog.SetDefault(logger)
	particle.SetLogger(logger)

	renderer, input, engine := newBackend(cfg.Backend)
	g := game.NewGame(renderer, input, newSound(cfg.Sound), cfg)

	// Set up the window
	engine.SetWindowSize(cfg.WindowSize())
	engine.SetWindowTitle(cfg.Window.Title)
	engine.SetWindowResizable(cfg.Window.Resizable)

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()
	group, ctx := errgroup.WithContext(ctx)
	if cfg.MetricsAddr != "" {
		serveMetrics(ctx, group, cfg.MetricsAddr)
	}

	slog.Info("starting", "backend", cfg.Backend, "sound", cfg.Sound, "metrics", cfg.MetricsAddr)
	g.Start()
	runErr := engine.RunGame(g)
	g.Stop()

	cancel()
	if err := group.Wait(); err != nil {
		slog.Error("metrics server failed", "error", err)
	}
	if runErr != nil {
		return fmt.Errorf("game loop failed: %w", runErr)
	}
	slog.Info("stopped")
	return nil
}

// newBackend picks the renderer, input and engine for the backend name.
func newBackend(backend string) (render.Renderer, render.InputManager, render.Engine) {
	if backend == simulation.BackendTerminal {
		input := terminal.NewInputManager()
		return terminal.NewRenderer(), input, terminal.NewEngine(input)
	}
	return ebitenrender.NewRenderer(), ebitenrender.NewInputManager(), ebitenrender.NewEngine()
}

// newSound returns a speaker when enabled, falling back to silence when no
// audio device can be opened.
func newSound(enabled bool) audio.Player {
	if !enabled {
		return audio.Silent{}
	}
	s, err := audio.NewSpeaker()
	if err != nil {
		slog.Warn("sound disabled", "error", err)
		return audio.Silent{}
	}
	return s
}

// serveMetrics exposes the Prometheus registry on addr until ctx is done.
func serveMetrics(ctx context.Context, group *errgroup.Group, addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	group.Go(func() error {
		slog.Info("serving metrics", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("failed to serve metrics on %s: %w", addr, err)
		}
		return nil
	})
	group.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
}
