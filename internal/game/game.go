// Package game is the interactive surface of the particle demo. Game runs
// on any render.Engine, serves as the canvas and repainter of a
// particle.Controller, and turns clicks and keys into controller calls.
package game

import (
	"image"
	"log/slog"
	"sync/atomic"

	"chosenoffset.com/particles/internal/audio"
	"chosenoffset.com/particles/internal/particle"
	"chosenoffset.com/particles/internal/render"
	"chosenoffset.com/particles/internal/simulation"
)

const (
	// Assumes 60 updates per second, as the engines run.
	tickSeconds = 1.0 / 60.0

	messageSeconds = 1.5
	maxMessages    = 4
)

// Game holds the UI state. The canvas size and the latest frame are read
// from mover and supervisor goroutines, so both are atomic.
type Game struct {
	Renderer   render.Renderer
	InputMgr   render.InputManager
	Sound      audio.Player
	Controller *particle.Controller

	barHeight int
	canvas    atomic.Pointer[image.Point]
	frame     atomic.Pointer[[]*particle.Particle]

	// Engine goroutine only
	screenWidth  int
	screenHeight int
	spawnButton  Button
	Messages     []Message
}

// NewGame creates a stopped game laid out for cfg. sound may be nil.
func NewGame(r render.Renderer, input render.InputManager, sound audio.Player, cfg *simulation.Config) *Game {
	if sound == nil {
		sound = audio.Silent{}
	}
	g := &Game{
		Renderer:  r,
		InputMgr:  input,
		Sound:     sound,
		barHeight: cfg.Window.BarHeight,
	}
	g.Layout(cfg.WindowSize())
	g.Controller = particle.NewController(g, g, cfg.ParticleTiming())
	return g
}

// Start creates the demo particles and starts animating them.
func (g *Game) Start() {
	g.Controller.Start()
}

// Stop halts every mover and the repaint loop.
func (g *Game) Stop() {
	g.Controller.Stop()
	g.frame.Store(nil)
}

// Size returns the canvas size, which excludes the button bar.
func (g *Game) Size() (width, height int) {
	p := g.canvas.Load()
	return p.X, p.Y
}

// Repaint stores the frame drawn by the next Draw.
func (g *Game) Repaint(particles []*particle.Particle) {
	g.frame.Store(&particles)
}

// Frame returns the particles of the latest repaint.
func (g *Game) Frame() []*particle.Particle {
	if f := g.frame.Load(); f != nil {
		return *f
	}
	return nil
}

// Update handles input once per tick.
func (g *Game) Update() error {
	g.updateMessages(tickSeconds)

	if g.InputMgr.IsKeyJustPressed(render.KeyEscape) || g.InputMgr.IsKeyJustPressed(render.KeyQ) {
		return render.ErrTerminated
	}

	if g.InputMgr.IsKeyJustPressed(render.KeyS) || g.InputMgr.IsKeyJustPressed(render.KeySpace) {
		g.spawn()
	}

	if g.InputMgr.IsMouseButtonJustPressed(render.MouseButtonLeft) {
		x, y := g.InputMgr.GetCursorPosition()
		g.click(x, y)
	}
	return nil
}

func (g *Game) click(x, y int) {
	if g.spawnButton.Contains(x, y) {
		g.spawn()
		return
	}

	_, h := g.Size()
	if y >= h {
		return
	}
	if g.Controller.RemoveAt(x, y) {
		g.Sound.Removed()
		g.ShowMessage("Removed")
	}
}

func (g *Game) spawn() {
	id, err := g.Controller.SpawnOne()
	if err != nil {
		slog.Warn("spawn ignored", "error", err)
		return
	}
	g.Sound.Spawned()
	g.ShowMessage("Spawned")
	slog.Debug("spawned", "id", id)
}

// Layout accepts the outside size, resizes the canvas to it minus the
// button bar and keeps the logical size equal to the outside size.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth == g.screenWidth && outsideHeight == g.screenHeight && g.canvas.Load() != nil {
		return outsideWidth, outsideHeight
	}
	g.screenWidth = outsideWidth
	g.screenHeight = outsideHeight

	canvasHeight := max(outsideHeight-g.barHeight, 0)
	g.canvas.Store(&image.Point{X: outsideWidth, Y: canvasHeight})
	g.spawnButton = g.layoutButton("Spawn", outsideWidth, canvasHeight)
	return outsideWidth, outsideHeight
}

// layoutButton centres a button in the bar below the canvas.
func (g *Game) layoutButton(label string, width, top int) Button {
	tw, th := g.Renderer.MeasureText(label)
	bw := tw + 2*buttonPadding
	bh := min(th+buttonPadding, g.barHeight)
	x := (width - bw) / 2
	y := top + (g.barHeight-bh)/2
	return Button{Rect: image.Rect(x, y, x+bw, y+bh), Label: label}
}

func (g *Game) updateMessages(dt float64) {
	active := g.Messages[:0]
	for _, msg := range g.Messages {
		msg.TimeLeft -= dt
		if msg.TimeLeft > 0 {
			active = append(active, msg)
		}
	}
	g.Messages = active
}

// ShowMessage adds a short-lived message to the canvas.
func (g *Game) ShowMessage(text string) {
	g.Messages = append(g.Messages, Message{
		Text:     text,
		TimeLeft: messageSeconds,
		MaxTime:  messageSeconds,
	})
	if len(g.Messages) > maxMessages {
		g.Messages = g.Messages[len(g.Messages)-maxMessages:]
	}
}
