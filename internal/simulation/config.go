// Package simulation provides configuration for the particle demo.
// Settings are loaded from an optional YAML file on top of built-in defaults.
package simulation

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"chosenoffset.com/particles/internal/particle"
)

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("invalid config")

// Backend names accepted in Config.Backend.
const (
	BackendEbiten   = "ebiten"
	BackendTerminal = "terminal"
)

// Config holds all settings for a run
type Config struct {
	// Window layout
	Window WindowConfig `yaml:"window"`

	// Loop rates
	Timing TimingConfig `yaml:"timing"`

	// Rendering backend: "ebiten" or "terminal"
	Backend string `yaml:"backend"`

	// Play tones on spawn and removal
	Sound bool `yaml:"sound"`

	// Address for the Prometheus endpoint; empty disables it
	MetricsAddr string `yaml:"metrics_addr"`
}

// WindowConfig defines the window and canvas layout
type WindowConfig struct {
	Title        string `yaml:"title"`
	CanvasWidth  int    `yaml:"canvas_width"`  // Drawable width in pixels
	CanvasHeight int    `yaml:"canvas_height"` // Drawable height above the button bar
	BarHeight    int    `yaml:"bar_height"`    // Height of the Spawn button bar
	Resizable    bool   `yaml:"resizable"`
}

// TimingConfig defines how often particles move and the canvas repaints
type TimingConfig struct {
	MoveInterval time.Duration `yaml:"move_interval"` // e.g. "100ms"
	FrameRate    int           `yaml:"frame_rate"`    // Supervisor ticks per second
}

// DefaultConfig returns a 300x300 canvas with a 30px button bar, 100ms
// moves and a 60 Hz repaint on the ebiten backend.
func DefaultConfig() *Config {
	return &Config{
		Window: WindowConfig{
			Title:        "Particles",
			CanvasWidth:  300,
			CanvasHeight: 300,
			BarHeight:    30,
			Resizable:    true,
		},
		Timing: TimingConfig{
			MoveInterval: particle.DefaultMoveInterval,
			FrameRate:    60,
		},
		Backend: BackendEbiten,
	}
}

// LoadConfig loads config from a YAML file. An empty path or a missing
// file yields the defaults.
func LoadConfig(path string) (*Config, error) {
	config := DefaultConfig() // Start with defaults
	if path == "" {
		return config, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		// Return defaults if file doesn't exist
		if os.IsNotExist(err) {
			return config, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Validate checks that the settings can run.
func (c *Config) Validate() error {
	switch {
	case c.Window.CanvasWidth <= 0 || c.Window.CanvasHeight <= 0:
		return fmt.Errorf("%w: canvas must be positive, got %dx%d",
			ErrInvalidConfig, c.Window.CanvasWidth, c.Window.CanvasHeight)
	case c.Window.BarHeight < 0:
		return fmt.Errorf("%w: bar_height must not be negative", ErrInvalidConfig)
	case c.Timing.MoveInterval <= 0:
		return fmt.Errorf("%w: move_interval must be positive", ErrInvalidConfig)
	case c.Timing.FrameRate <= 0:
		return fmt.Errorf("%w: frame_rate must be positive", ErrInvalidConfig)
	case c.Backend != BackendEbiten && c.Backend != BackendTerminal:
		return fmt.Errorf("%w: unknown backend %q", ErrInvalidConfig, c.Backend)
	}
	return nil
}

// WindowSize returns the full window size: the canvas plus the button bar.
func (c *Config) WindowSize() (width, height int) {
	return c.Window.CanvasWidth, c.Window.CanvasHeight + c.Window.BarHeight
}

// ParticleTiming converts the timing settings for the particle controller.
func (c *Config) ParticleTiming() particle.Timing {
	return particle.Timing{
		MoveInterval: c.Timing.MoveInterval,
		FramePeriod:  time.Second / time.Duration(c.Timing.FrameRate),
	}
}
