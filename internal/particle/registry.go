package particle

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

type entry struct {
	id       uuid.UUID
	particle *Particle
	mover    *Mover
}

// Registry owns the live (particle, mover) pairs.
//
// Each particle is stored together with its mover in a single entry. All
// mutations are serialised by one mutex; particle positions are
// synchronised separately by each particle.
type Registry struct {
	ctx      context.Context
	canvas   Canvas
	interval time.Duration

	mu      sync.Mutex
	entries []entry
}

// NewRegistry creates an empty registry. Movers it starts derive from ctx
// and read canvas for bounds checks.
func NewRegistry(ctx context.Context, canvas Canvas, interval time.Duration) *Registry {
	if ctx == nil {
		panic("particle: nil context")
	}
	if canvas == nil {
		panic("particle: nil canvas")
	}
	return &Registry{
		ctx:      ctx,
		canvas:   canvas,
		interval: interval,
	}
}

// Spawn creates a particle at (x, y), starts its mover and registers both.
func (r *Registry) Spawn(x, y int) uuid.UUID {
	return r.add(New(x, y))
}

func (r *Registry) add(p *Particle) uuid.UUID {
	id := uuid.New()

	r.mu.Lock()
	defer r.mu.Unlock()

	m := StartMover(r.ctx, id, p, r.canvas, r.interval)
	r.entries = append(r.entries, entry{id: id, particle: p, mover: m})

	spawnedTotal.Inc()
	activeGauge.Inc()
	return id
}

// RemoveAt cancels and removes the entry at index. An index outside
// [0, Len()) is a programming error and panics.
func (r *Registry) RemoveAt(index int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if index < 0 || index >= len(r.entries) {
		panic(fmt.Sprintf("particle: registry index %d out of range [0,%d)", index, len(r.entries)))
	}
	r.removeLocked(index)
	recordRemoved(reasonIndex, 1)
}

// Remove cancels and removes the particle with the given id. It reports
// whether the particle was present.
func (r *Registry) Remove(id uuid.UUID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.entries {
		if r.entries[i].id == id {
			r.removeLocked(i)
			recordRemoved(reasonID, 1)
			return true
		}
	}
	return false
}

// RemoveFirstHit removes the first particle, in insertion order, that is
// near (x, y). It removes at most one and reports whether it did.
func (r *Registry) RemoveFirstHit(x, y int) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.entries {
		if r.entries[i].particle.Near(x, y) {
			logger.Debug("particle hit", "id", r.entries[i].id, "x", x, "y", y)
			r.removeLocked(i)
			recordRemoved(reasonClick, 1)
			return true
		}
	}
	return false
}

// removeLocked cancels the mover at i and deletes the entry keeping order.
func (r *Registry) removeLocked(i int) {
	r.entries[i].mover.Cancel()
	copy(r.entries[i:], r.entries[i+1:])
	r.entries[len(r.entries)-1] = entry{}
	r.entries = r.entries[:len(r.entries)-1]
}

// ReapDead removes every entry whose mover has exited, preserving the
// order of the survivors, and returns how many were removed.
func (r *Registry) ReapDead() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	kept := r.entries[:0]
	for _, e := range r.entries {
		if e.mover.Finished() {
			logger.Debug("reaped particle", "id", e.id)
			continue
		}
		kept = append(kept, e)
	}

	reaped := len(r.entries) - len(kept)
	for i := len(kept); i < len(r.entries); i++ {
		r.entries[i] = entry{}
	}
	r.entries = kept

	recordRemoved(reasonReaped, reaped)
	return reaped
}

// Snapshot returns the current particles in insertion order. The slice is
// a copy taken under the lock; rendering from it does not block the
// registry.
func (r *Registry) Snapshot() []*Particle {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]*Particle, len(r.entries))
	for i, e := range r.entries {
		out[i] = e.particle
	}
	return out
}

// IDs returns the identifiers of the current particles in insertion order.
func (r *Registry) IDs() []uuid.UUID {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]uuid.UUID, len(r.entries))
	for i, e := range r.entries {
		out[i] = e.id
	}
	return out
}

// Len returns the number of registered particles. Every particle has
// exactly one mover, so this is also the mover count.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// Close cancels every mover and empties the registry.
func (r *Registry) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, e := range r.entries {
		e.mover.Cancel()
	}
	recordRemoved(reasonClosed, len(r.entries))
	r.entries = nil
}
