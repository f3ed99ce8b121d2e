package game

import (
	"fmt"
	"image/color"

	"chosenoffset.com/particles/internal/particle"
	"chosenoffset.com/particles/internal/render"
)

const buttonPadding = 8

var (
	backgroundColor = color.RGBA{0x1e, 0x1e, 0x24, 0xff}
	outlineColor    = color.RGBA{0x00, 0x00, 0x00, 0xff}
	barColor        = color.RGBA{0x3a, 0x3a, 0x44, 0xff}
	buttonColor     = color.RGBA{0x5a, 0x5a, 0x6e, 0xff}
	textColor       = color.RGBA{0xff, 0xff, 0xff, 0xff}
)

// Draw renders the latest frame and the button bar.
func (g *Game) Draw(screen render.Image) {
	screen.Fill(backgroundColor)

	frame := g.Frame()
	for _, p := range frame {
		g.drawParticle(screen, p)
	}

	g.drawUI(screen, len(frame))
	g.drawButtonBar(screen)
}

func (g *Game) drawParticle(screen render.Image, p *particle.Particle) {
	x, y := p.Position()
	side := float32(2 * particle.HalfExtent)
	left := float32(x - particle.HalfExtent)
	top := float32(y - particle.HalfExtent)

	g.Renderer.FillRect(screen, left, top, side, side, p.Color())
	g.Renderer.StrokeRect(screen, left, top, side, side, 1, outlineColor)
}

func (g *Game) drawUI(screen render.Image, count int) {
	_, th := g.Renderer.MeasureText("0")
	g.Renderer.DrawText(screen, fmt.Sprintf("Particles: %d", count), 4, 4, textColor)

	// Draw on-screen messages
	y := 4 + th
	for _, msg := range g.Messages {
		alpha := uint8(255 * (msg.TimeLeft / msg.MaxTime))
		g.Renderer.DrawText(screen, msg.Text, 4, y, color.RGBA{255, 255, 255, alpha})
		y += th
	}
}

func (g *Game) drawButtonBar(screen render.Image) {
	if g.barHeight == 0 {
		return
	}
	_, top := g.Size()
	g.Renderer.FillRect(screen, 0, float32(top), float32(g.screenWidth), float32(g.barHeight), barColor)

	b := g.spawnButton
	x, y := float32(b.Rect.Min.X), float32(b.Rect.Min.Y)
	w, h := float32(b.Rect.Dx()), float32(b.Rect.Dy())
	g.Renderer.FillRect(screen, x, y, w, h, buttonColor)
	g.Renderer.StrokeRect(screen, x, y, w, h, 1, outlineColor)

	tw, th := g.Renderer.MeasureText(b.Label)
	g.Renderer.DrawText(screen, b.Label, b.Rect.Min.X+(b.Rect.Dx()-tw)/2, b.Rect.Min.Y+(b.Rect.Dy()-th)/2, textColor)
}
