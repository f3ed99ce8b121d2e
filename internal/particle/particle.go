// Package particle runs the particle simulation: randomly wandering squares,
// each driven by its own mover goroutine, kept in a registry that a
// supervisor loop reaps and repaints at a fixed rate.
package particle

import (
	"image/color"
	"math/rand/v2"
	"sync"
)

const (
	// HalfExtent is half the side length of a particle square.
	HalfExtent = 5

	// BoundsBuffer pads the particle footprint so it is wholly off the
	// canvas before it counts as out of bounds.
	BoundsBuffer = 10

	// DefaultHitRadius is the radius used by Near, twice the half extent.
	DefaultHitRadius = HalfExtent * 2
)

// Particle is a square with an integer position that moves randomly.
//
// Position is written only by Move, which the particle's mover calls.
// Every other method reads a single consistent snapshot of (x, y).
type Particle struct {
	mu    sync.RWMutex
	x, y  int
	rng   *rand.Rand
	color color.RGBA
}

// New creates a particle at the given position with its own random source
// and a random opaque color.
func New(x, y int) *Particle {
	return NewWithRand(x, y, rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())))
}

// NewWithRand creates a particle that draws its color and moves from rng.
func NewWithRand(x, y int, rng *rand.Rand) *Particle {
	c := rng.Uint32()
	return &Particle{
		x:   x,
		y:   y,
		rng: rng,
		color: color.RGBA{
			R: uint8(c >> 16),
			G: uint8(c >> 8),
			B: uint8(c),
			A: 0xff,
		},
	}
}

// Move displaces the particle by dx in [-5, 4] and dy in [-10, 9].
//
// The ranges are deliberately asymmetric, so the walk drifts up and to the
// left over time.
func (p *Particle) Move() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.x += p.rng.IntN(10) - 5
	p.y += p.rng.IntN(20) - 10
}

// Position returns the current position.
func (p *Particle) Position() (x, y int) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.x, p.y
}

// Color returns the display color assigned at creation.
func (p *Particle) Color() color.RGBA {
	return p.color
}

// InBounds reports whether the padded footprint of the particle still
// overlaps the rectangle [0,width]x[0,height].
func (p *Particle) InBounds(width, height int) bool {
	x, y := p.Position()
	const extent = HalfExtent + BoundsBuffer

	return x+extent > 0 &&
		x-extent < width &&
		y+extent > 0 &&
		y-extent < height
}

// NearPoint reports whether (x, y) lies within r of the particle centre on
// both axes. This is a square test on squared offsets, not a circle.
func (p *Particle) NearPoint(x, y, r int) bool {
	px, py := p.Position()
	dx, dy := px-x, py-y
	return dx*dx < r*r && dy*dy < r*r
}

// Near is NearPoint with DefaultHitRadius.
func (p *Particle) Near(x, y int) bool {
	return p.NearPoint(x, y, DefaultHitRadius)
}
