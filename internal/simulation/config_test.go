package simulation

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "particles.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefaultConfig(t *testing.T) {
	c := DefaultConfig()

	require.NoError(t, c.Validate())
	assert.Equal(t, "Particles", c.Window.Title)
	w, h := c.WindowSize()
	assert.Equal(t, 300, w)
	assert.Equal(t, 330, h)

	timing := c.ParticleTiming()
	assert.Equal(t, 100*time.Millisecond, timing.MoveInterval)
	assert.Equal(t, time.Second/60, timing.FramePeriod)
}

func TestLoadConfigMissingFileUsesDefaults(t *testing.T) {
	c, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), c)

	c, err = LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), c)
}

func TestLoadConfigOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
window:
  canvas_width: 640
timing:
  move_interval: 250ms
  frame_rate: 30
backend: terminal
sound: true
`)

	c, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 640, c.Window.CanvasWidth)
	assert.Equal(t, 300, c.Window.CanvasHeight, "unset fields keep defaults")
	assert.Equal(t, "Particles", c.Window.Title)
	assert.Equal(t, 250*time.Millisecond, c.Timing.MoveInterval)
	assert.Equal(t, BackendTerminal, c.Backend)
	assert.True(t, c.Sound)
	assert.Equal(t, time.Second/30, c.ParticleTiming().FramePeriod)
}

func TestLoadConfigParseError(t *testing.T) {
	path := writeConfig(t, "window: [not, a, map")

	_, err := LoadConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config")
}

func TestLoadConfigRejectsInvalidValues(t *testing.T) {
	path := writeConfig(t, "backend: opengl\n")

	_, err := LoadConfig(path)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero width", func(c *Config) { c.Window.CanvasWidth = 0 }},
		{"negative height", func(c *Config) { c.Window.CanvasHeight = -1 }},
		{"negative bar", func(c *Config) { c.Window.BarHeight = -1 }},
		{"zero move interval", func(c *Config) { c.Timing.MoveInterval = 0 }},
		{"zero frame rate", func(c *Config) { c.Timing.FrameRate = 0 }},
		{"unknown backend", func(c *Config) { c.Backend = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := DefaultConfig()
			tt.mutate(c)
			assert.ErrorIs(t, c.Validate(), ErrInvalidConfig)
		})
	}
}
