package particle

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// DefaultFramePeriod is the supervisor tick, roughly 60 Hz.
const DefaultFramePeriod = time.Second / 60

// State is the lifecycle of a Supervisor.
type State int32

const (
	StateIdle State = iota
	StateRunning
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// Supervisor periodically reaps finished movers from a registry and hands
// the remaining particles to a Repainter.
//
// A supervisor runs at most once: idle -> running -> stopped.
type Supervisor struct {
	registry  *Registry
	repainter Repainter
	period    time.Duration

	mu     sync.Mutex
	state  atomic.Int32
	cancel context.CancelFunc
	done   chan struct{}
}

// NewSupervisor creates an idle supervisor ticking every period.
func NewSupervisor(registry *Registry, repainter Repainter, period time.Duration) *Supervisor {
	if registry == nil {
		panic("particle: nil registry")
	}
	if repainter == nil {
		panic("particle: nil repainter")
	}
	if period <= 0 {
		period = DefaultFramePeriod
	}
	return &Supervisor{
		registry:  registry,
		repainter: repainter,
		period:    period,
		cancel:    func() {},
		done:      make(chan struct{}),
	}
}

// Start launches the loop. It is a no-op unless the supervisor is idle.
func (s *Supervisor) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.State() != StateIdle {
		return
	}

	ctx, s.cancel = context.WithCancel(ctx)
	s.state.Store(int32(StateRunning))

	go s.loop(ctx)
}

// Stop cancels the loop and waits for it to exit. Stopping an idle
// supervisor moves it straight to stopped.
func (s *Supervisor) Stop() {
	s.mu.Lock()
	if s.State() == StateIdle {
		s.state.Store(int32(StateStopped))
		close(s.done)
		s.mu.Unlock()
		return
	}
	cancel := s.cancel
	s.mu.Unlock()

	cancel()
	<-s.done
}

// State returns the current lifecycle state.
func (s *Supervisor) State() State {
	return State(s.state.Load())
}

// Done returns a channel closed once the supervisor has stopped.
func (s *Supervisor) Done() <-chan struct{} {
	return s.done
}

func (s *Supervisor) loop(ctx context.Context) {
	defer close(s.done)
	defer s.state.Store(int32(StateStopped))

	logger.Debug("supervisor running", "period", s.period)

	ticker := time.NewTicker(s.period)
	defer ticker.Stop()

	for {
		s.tick()

		select {
		case <-ctx.Done():
			logger.Debug("supervisor stopped")
			return
		case <-ticker.C:
		}
	}
}

func (s *Supervisor) tick() {
	start := time.Now()

	s.registry.ReapDead()
	s.repainter.Repaint(s.registry.Snapshot())

	supervisorTickDuration.Observe(time.Since(start).Seconds())
}
