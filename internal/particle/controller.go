package particle

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

// DemoCount is the number of particles created by Start.
const DemoCount = 10

// ErrNotStarted is returned by operations that need a running controller.
var ErrNotStarted = errors.New("particle: controller not started")

// Timing holds the two loop rates of the simulation.
type Timing struct {
	MoveInterval time.Duration
	FramePeriod  time.Duration
}

// DefaultTiming returns 100ms moves and a 60 Hz supervisor.
func DefaultTiming() Timing {
	return Timing{
		MoveInterval: DefaultMoveInterval,
		FramePeriod:  DefaultFramePeriod,
	}
}

// Controller owns the lifecycle of a registry, its movers and the
// supervisor, and exposes the operations the UI needs.
type Controller struct {
	canvas    Canvas
	repainter Repainter
	timing    Timing

	mu         sync.Mutex
	cancel     context.CancelFunc
	registry   *Registry
	supervisor *Supervisor
}

// NewController creates a stopped controller.
func NewController(canvas Canvas, repainter Repainter, timing Timing) *Controller {
	if canvas == nil {
		panic("particle: nil canvas")
	}
	if repainter == nil {
		panic("particle: nil repainter")
	}
	if timing.MoveInterval <= 0 {
		timing.MoveInterval = DefaultMoveInterval
	}
	if timing.FramePeriod <= 0 {
		timing.FramePeriod = DefaultFramePeriod
	}
	return &Controller{
		canvas:    canvas,
		repainter: repainter,
		timing:    timing,
	}
}

// Start populates the registry with DemoCount particles at the canvas
// centre and starts the supervisor. Calling it again while started does
// nothing.
func (c *Controller) Start() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.registry == nil {
		ctx, cancel := context.WithCancel(context.Background())
		c.cancel = cancel
		c.registry = NewRegistry(ctx, c.canvas, c.timing.MoveInterval)

		x, y := center(c.canvas)
		for range DemoCount {
			c.registry.Spawn(x, y)
		}
		logger.Info("particles started", "count", DemoCount, "x", x, "y", y)
	}

	if c.supervisor == nil || c.supervisor.State() == StateStopped {
		c.supervisor = NewSupervisor(c.registry, c.repainter, c.timing.FramePeriod)
		c.supervisor.Start(context.Background())
	}
}

// Stop cancels the supervisor and every mover and drops the registry.
// Calling it again does nothing.
func (c *Controller) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.supervisor != nil {
		c.supervisor.Stop()
		c.supervisor = nil
	}

	if c.registry != nil {
		n := c.registry.Len()
		c.registry.Close()
		c.cancel()
		c.registry = nil
		c.cancel = nil
		logger.Info("particles stopped", "dropped", n)
	}
}

// SpawnOne adds a particle at the canvas centre.
func (c *Controller) SpawnOne() (uuid.UUID, error) {
	r := c.currentRegistry()
	if r == nil {
		return uuid.Nil, ErrNotStarted
	}
	x, y := center(c.canvas)
	return r.Spawn(x, y), nil
}

// RemoveAt removes the first particle near (x, y), if any, and reports
// whether one was removed. A miss is a silent no-op.
func (c *Controller) RemoveAt(x, y int) bool {
	r := c.currentRegistry()
	if r == nil {
		return false
	}
	return r.RemoveFirstHit(x, y)
}

// Running reports whether the controller has been started and not stopped.
func (c *Controller) Running() bool {
	return c.currentRegistry() != nil
}

// Count returns the number of live particles, zero when stopped.
func (c *Controller) Count() int {
	r := c.currentRegistry()
	if r == nil {
		return 0
	}
	return r.Len()
}

// Snapshot returns the live particles, nil when stopped.
func (c *Controller) Snapshot() []*Particle {
	r := c.currentRegistry()
	if r == nil {
		return nil
	}
	return r.Snapshot()
}

// Registry returns the current registry, nil when stopped.
func (c *Controller) Registry() *Registry {
	return c.currentRegistry()
}

func (c *Controller) currentRegistry() *Registry {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.registry
}
