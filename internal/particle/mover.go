package particle

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// DefaultMoveInterval is the nominal pause between two moves.
const DefaultMoveInterval = 100 * time.Millisecond

// Mover drives one particle from its own goroutine.
//
// The goroutine exits the first time the particle leaves the canvas, or
// when the mover is cancelled. Exit is observable through Done and
// Finished; a finished mover is never restarted.
type Mover struct {
	id       uuid.UUID
	particle *Particle
	canvas   Canvas
	interval time.Duration
	cancel   context.CancelFunc
	done     chan struct{}
}

// StartMover starts moving p every interval until it leaves canvas or ctx
// is cancelled.
func StartMover(ctx context.Context, id uuid.UUID, p *Particle, canvas Canvas, interval time.Duration) *Mover {
	if p == nil {
		panic("particle: nil particle")
	}
	if canvas == nil {
		panic("particle: nil canvas")
	}
	if interval <= 0 {
		interval = DefaultMoveInterval
	}

	ctx, cancel := context.WithCancel(ctx)
	m := &Mover{
		id:       id,
		particle: p,
		canvas:   canvas,
		interval: interval,
		cancel:   cancel,
		done:     make(chan struct{}),
	}

	go m.run(ctx)
	return m
}

// ID returns the identifier of the particle this mover drives.
func (m *Mover) ID() uuid.UUID {
	return m.id
}

// Particle returns the driven particle.
func (m *Mover) Particle() *Particle {
	return m.particle
}

// Cancel asks the mover to stop. It does not wait for the goroutine.
func (m *Mover) Cancel() {
	m.cancel()
}

// Done returns a channel closed when the mover goroutine has exited.
func (m *Mover) Done() <-chan struct{} {
	return m.done
}

// Finished reports, without blocking, whether the mover has exited.
func (m *Mover) Finished() bool {
	select {
	case <-m.done:
		return true
	default:
		return false
	}
}

func (m *Mover) run(ctx context.Context) {
	defer close(m.done)
	defer m.cancel()
	defer func() {
		if r := recover(); r != nil {
			logger.Error("mover panicked", "id", m.id, "panic", fmt.Sprint(r))
		}
	}()

	logger.Debug("mover started", "id", m.id)

	timer := time.NewTimer(m.interval)
	defer timer.Stop()

	for {
		if ctx.Err() != nil {
			logger.Debug("mover cancelled", "id", m.id)
			return
		}

		m.particle.Move()

		width, height := m.canvas.Size()
		if !m.particle.InBounds(width, height) {
			x, y := m.particle.Position()
			logger.Debug("mover finished out of bounds", "id", m.id, "x", x, "y", y)
			return
		}

		timer.Reset(m.interval)
		select {
		case <-ctx.Done():
			logger.Debug("mover cancelled", "id", m.id)
			return
		case <-timer.C:
		}
	}
}
