package particle

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestController(t *testing.T) (*Controller, *frameRecorder) {
	t.Helper()
	rec := &frameRecorder{}
	c := NewController(fixedCanvas(300, 300), rec, Timing{
		MoveInterval: time.Hour,
		FramePeriod:  time.Millisecond,
	})
	t.Cleanup(c.Stop)
	return c, rec
}

func TestControllerStartSpawnsDemoParticles(t *testing.T) {
	c, rec := newTestController(t)
	c.Start()

	require.True(t, c.Running())
	assert.Equal(t, DemoCount, c.Count())
	for _, p := range c.Snapshot() {
		assert.True(t, p.InBounds(300, 300))
	}
	eventually(t, func() bool { return len(rec.last()) == DemoCount }, "no frame with the demo particles")
}

func TestControllerStartIsIdempotent(t *testing.T) {
	c, _ := newTestController(t)
	c.Start()
	r := c.Registry()
	ids := r.IDs()

	c.Start()

	assert.Same(t, r, c.Registry())
	assert.Equal(t, ids, c.Registry().IDs())
}

func TestControllerStopTwice(t *testing.T) {
	c, _ := newTestController(t)
	c.Start()
	r := c.Registry()
	movers := r.movers()

	c.Stop()
	assert.NotPanics(t, c.Stop)

	assert.False(t, c.Running())
	assert.Zero(t, c.Count())
	assert.Nil(t, c.Snapshot())
	assert.Nil(t, c.Registry())
	assert.Zero(t, r.Len())
	for _, m := range movers {
		waitDone(t, m, time.Second)
	}
}

func TestControllerStopBeforeStart(t *testing.T) {
	c, _ := newTestController(t)
	assert.NotPanics(t, c.Stop)
	assert.False(t, c.Running())
}

func TestControllerRestartCreatesFreshRegistry(t *testing.T) {
	c, _ := newTestController(t)
	c.Start()
	first := c.Registry()
	c.Stop()

	c.Start()
	assert.NotSame(t, first, c.Registry())
	assert.Equal(t, DemoCount, c.Count())
}

func TestControllerSpawnOne(t *testing.T) {
	c, _ := newTestController(t)

	_, err := c.SpawnOne()
	assert.ErrorIs(t, err, ErrNotStarted)

	c.Start()
	id, err := c.SpawnOne()
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, id)
	assert.Equal(t, DemoCount+1, c.Count())
	assert.Contains(t, c.Registry().IDs(), id)
}

func TestControllerRemoveAtCentre(t *testing.T) {
	c, _ := newTestController(t)
	assert.False(t, c.RemoveAt(150, 150), "nothing to remove before start")

	c.Start()
	// Movers make one move right away and then sleep for an hour, so a
	// retried click at the current position lands once that move is done.
	p := c.Snapshot()[0]
	eventually(t, func() bool {
		x, y := p.Position()
		return c.RemoveAt(x, y)
	}, "click never hit")

	assert.Equal(t, DemoCount-1, c.Count())
}

func TestControllerRemoveAtMiss(t *testing.T) {
	c, _ := newTestController(t)
	c.Start()

	assert.False(t, c.RemoveAt(-500, -500))
	assert.Equal(t, DemoCount, c.Count())
}

func TestNewControllerPreconditions(t *testing.T) {
	assert.Panics(t, func() { NewController(nil, &frameRecorder{}, DefaultTiming()) })
	assert.Panics(t, func() { NewController(fixedCanvas(1, 1), nil, DefaultTiming()) })
}

func TestNewControllerFillsTimingDefaults(t *testing.T) {
	c := NewController(fixedCanvas(1, 1), &frameRecorder{}, Timing{})
	assert.Equal(t, DefaultTiming(), c.timing)
}
