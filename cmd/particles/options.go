package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"chosenoffset.com/particles/internal/simulation"
)

// options holds the command line flags. Flags the user sets win over the
// config file.
type options struct {
	configPath  string
	backend     string
	width       int
	height      int
	sound       bool
	metricsAddr string
	logLevel    string
	logFile     string
}

func (o *options) register(cmd *cobra.Command) {
	defaults := simulation.DefaultConfig()
	f := cmd.Flags()
	f.StringVarP(&o.configPath, "config", "c", "", "YAML config file")
	f.StringVarP(&o.backend, "backend", "b", defaults.Backend, "rendering backend: ebiten or terminal")
	f.IntVar(&o.width, "width", defaults.Window.CanvasWidth, "canvas width in pixels")
	f.IntVar(&o.height, "height", defaults.Window.CanvasHeight, "canvas height in pixels")
	f.BoolVar(&o.sound, "sound", defaults.Sound, "play tones on spawn and removal")
	f.StringVar(&o.metricsAddr, "metrics-addr", defaults.MetricsAddr, "serve Prometheus metrics on this address")
	f.StringVar(&o.logLevel, "log-level", "info", "log level: debug, info, warn or error")
	f.StringVar(&o.logFile, "log-file", "", "write logs to this file")
}

// apply copies the flags the user set onto cfg.
func (o *options) apply(flags *pflag.FlagSet, cfg *simulation.Config) {
	if flags.Changed("backend") {
		cfg.Backend = o.backend
	}
	if flags.Changed("width") {
		cfg.Window.CanvasWidth = o.width
	}
	if flags.Changed("height") {
		cfg.Window.CanvasHeight = o.height
	}
	if flags.Changed("sound") {
		cfg.Sound = o.sound
	}
	if flags.Changed("metrics-addr") {
		cfg.MetricsAddr = o.metricsAddr
	}
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return 0, fmt.Errorf("invalid log level %q: %w", s, err)
	}
	return level, nil
}

// newLogger builds the process logger.
func newLogger(backend, level, path string) (*slog.Logger, func(), error) {
	lvl, err := parseLevel(level)
	if err != nil {
		return nil, nil, err
	}
	w, closeFn, err := logWriter(backend, path)
	if err != nil {
		return nil, nil, err
	}
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl})
	return slog.New(handler), closeFn, nil
}

// logWriter picks the log destination. The terminal backend owns stdout
// and stderr, so there logs go to the log file or nowhere.
func logWriter(backend, path string) (io.Writer, func(), error) {
	switch {
	case path != "":
		file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open log file: %w", err)
		}
		return file, func() { file.Close() }, nil
	case backend == simulation.BackendTerminal:
		return io.Discard, func() {}, nil
	default:
		return os.Stderr, func() {}, nil
	}
}
