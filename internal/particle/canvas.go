package particle

// Canvas reports the current drawable area. Movers query it on every
// iteration, so a resized window takes effect immediately.
type Canvas interface {
	Size() (width, height int)
}

// CanvasFunc adapts a plain function to Canvas.
type CanvasFunc func() (width, height int)

// Size calls f.
func (f CanvasFunc) Size() (width, height int) {
	return f()
}

// Repainter receives the live particles once per supervisor tick.
//
// The slice is a private copy; implementations may keep it, but must read
// positions through Particle methods since movers keep running.
type Repainter interface {
	Repaint(particles []*Particle)
}

// RepainterFunc adapts a plain function to Repainter.
type RepainterFunc func(particles []*Particle)

// Repaint calls f.
func (f RepainterFunc) Repaint(particles []*Particle) {
	f(particles)
}

// center returns the middle of the canvas.
func center(c Canvas) (x, y int) {
	w, h := c.Size()
	return w / 2, h / 2
}
