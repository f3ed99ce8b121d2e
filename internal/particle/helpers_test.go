package particle

import (
	"math/rand/v2"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func (p *Particle) setPosition(x, y int) {
	p.mu.Lock()
	p.x, p.y = x, y
	p.mu.Unlock()
}

func (r *Registry) movers() []*Mover {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]*Mover, len(r.entries))
	for i, e := range r.entries {
		out[i] = e.mover
	}
	return out
}

func fixedCanvas(w, h int) Canvas {
	return CanvasFunc(func() (int, int) { return w, h })
}

func seeded(x, y int, seed uint64) *Particle {
	return NewWithRand(x, y, rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)))
}

func waitDone(t *testing.T, m *Mover, within time.Duration) {
	t.Helper()
	select {
	case <-m.Done():
	case <-time.After(within):
		t.Fatalf("mover %s did not finish within %v", m.ID(), within)
	}
}

// frameRecorder collects every frame handed to Repaint.
type frameRecorder struct {
	mu     sync.Mutex
	frames [][]*Particle
}

func (f *frameRecorder) Repaint(ps []*Particle) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.frames = append(f.frames, ps)
}

func (f *frameRecorder) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.frames)
}

func (f *frameRecorder) last() []*Particle {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.frames) == 0 {
		return nil
	}
	return f.frames[len(f.frames)-1]
}

func eventually(t *testing.T, cond func() bool, msg string) {
	t.Helper()
	require.Eventually(t, cond, 2*time.Second, 5*time.Millisecond, msg)
}
