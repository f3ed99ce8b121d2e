// Package terminal implements the render interfaces on a tcell screen so
// the demo can run inside a terminal. Each cell stands for a block of
// CellWidth x CellHeight logical pixels.
package terminal

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"
	"time"

	"github.com/gdamore/tcell/v2"

	"chosenoffset.com/particles/internal/render"
)

// Logical pixels per terminal cell. Cells are roughly twice as tall as
// they are wide.
const (
	CellWidth  = 4
	CellHeight = 8
)

const defaultTPS = 60

// toColor converts any color.Color to a tcell true color.
func toColor(clr color.Color) tcell.Color {
	r, g, b, _ := clr.RGBA()
	return tcell.NewRGBColor(int32(r>>8), int32(g>>8), int32(b>>8))
}

// cellSpan returns the half-open cell range [c0,c1)x[r0,r1) covered by the
// pixel rectangle.
func cellSpan(x, y, width, height float32) (c0, r0, c1, r1 int) {
	c0 = int(math.Floor(float64(x) / CellWidth))
	r0 = int(math.Floor(float64(y) / CellHeight))
	c1 = int(math.Ceil(float64(x+width) / CellWidth))
	r1 = int(math.Ceil(float64(y+height) / CellHeight))
	return c0, r0, c1, r1
}

// TermImage draws into a tcell screen.
type TermImage struct {
	screen tcell.Screen
}

// WrapScreen wraps a tcell screen as a render.Image.
func WrapScreen(screen tcell.Screen) render.Image {
	return &TermImage{screen: screen}
}

// Bounds returns the screen size in logical pixels.
func (i *TermImage) Bounds() image.Rectangle {
	w, h := i.Size()
	return image.Rect(0, 0, w, h)
}

// Size returns the screen size in logical pixels.
func (i *TermImage) Size() (width, height int) {
	cols, rows := i.screen.Size()
	return cols * CellWidth, rows * CellHeight
}

// Fill paints every cell background with clr.
func (i *TermImage) Fill(clr color.Color) {
	style := tcell.StyleDefault.Background(toColor(clr))
	cols, rows := i.screen.Size()
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			i.screen.SetContent(x, y, ' ', nil, style)
		}
	}
}

// Clear resets the screen to the terminal default.
func (i *TermImage) Clear() {
	i.screen.Clear()
}

// visit calls fn for every on-screen cell of the span.
func (i *TermImage) visit(c0, r0, c1, r1 int, fn func(col, row int)) {
	cols, rows := i.screen.Size()
	for row := max(r0, 0); row < min(r1, rows); row++ {
		for col := max(c0, 0); col < min(c1, cols); col++ {
			fn(col, row)
		}
	}
}

func (i *TermImage) styleAt(col, row int) tcell.Style {
	_, _, style, _ := i.screen.GetContent(col, row)
	return style
}

// TermRenderer implements render.Renderer with cell graphics.
type TermRenderer struct{}

// NewRenderer creates a terminal renderer.
func NewRenderer() render.Renderer {
	return &TermRenderer{}
}

// FillRect paints the background of every cell the rectangle touches.
func (r *TermRenderer) FillRect(dst render.Image, x, y, width, height float32, clr color.Color) {
	img := dst.(*TermImage)
	style := tcell.StyleDefault.Background(toColor(clr))
	c0, r0, c1, r1 := cellSpan(x, y, width, height)
	img.visit(c0, r0, c1, r1, func(col, row int) {
		img.screen.SetContent(col, row, ' ', nil, style)
	})
}

// StrokeRect draws box-drawing runes on the border cells of the rectangle,
// keeping whatever background is already there. strokeWidth is ignored.
func (r *TermRenderer) StrokeRect(dst render.Image, x, y, width, height, strokeWidth float32, clr color.Color) {
	img := dst.(*TermImage)
	fg := toColor(clr)
	c0, r0, c1, r1 := cellSpan(x, y, width, height)
	img.visit(c0, r0, c1, r1, func(col, row int) {
		ch, ok := borderRune(col, row, c0, r0, c1, r1)
		if !ok {
			return
		}
		img.screen.SetContent(col, row, ch, nil, img.styleAt(col, row).Foreground(fg))
	})
}

// borderRune picks the rune for a cell on the border of [c0,c1)x[r0,r1).
// Interior cells report false.
func borderRune(col, row, c0, r0, c1, r1 int) (rune, bool) {
	left, right := col == c0, col == c1-1
	top, bottom := row == r0, row == r1-1

	switch {
	case left && right && top && bottom:
		return '■', true
	case top && bottom:
		if left {
			return '[', true
		}
		if right {
			return ']', true
		}
		return '─', true
	case left && right:
		return '│', true
	case top && left:
		return '┌', true
	case top && right:
		return '┐', true
	case bottom && left:
		return '└', true
	case bottom && right:
		return '┘', true
	case top || bottom:
		return '─', true
	case left || right:
		return '│', true
	default:
		return 0, false
	}
}

// DrawText writes str starting at the cell that holds (x, y).
func (r *TermRenderer) DrawText(dst render.Image, str string, x, y int, clr color.Color) {
	img := dst.(*TermImage)
	fg := toColor(clr)
	cols, rows := img.screen.Size()

	row := y / CellHeight
	if row < 0 || row >= rows {
		return
	}
	col := x / CellWidth
	for _, ch := range str {
		if col >= 0 && col < cols {
			img.screen.SetContent(col, row, ch, nil, img.styleAt(col, row).Foreground(fg))
		}
		col++
	}
}

// MeasureText returns the size of str in logical pixels.
func (r *TermRenderer) MeasureText(str string) (width, height int) {
	return len([]rune(str)) * CellWidth, CellHeight
}

// TermEngine implements render.Engine on a tcell screen. It runs its own
// fixed-rate loop: each tick it applies pending input, lays out, updates
// and redraws the game.
type TermEngine struct {
	screen tcell.Screen
	input  *TermInput
	tps    int
	title  string
}

// NewEngine creates an engine on the process terminal. input must be the
// input manager handed to the game.
func NewEngine(input *TermInput) *TermEngine {
	return &TermEngine{input: input, tps: defaultTPS}
}

// NewEngineWithScreen creates an engine on an existing screen, typically a
// tcell simulation screen in tests.
func NewEngineWithScreen(screen tcell.Screen, input *TermInput) *TermEngine {
	return &TermEngine{screen: screen, input: input, tps: defaultTPS}
}

// SetTPS sets the number of ticks per second.
func (e *TermEngine) SetTPS(tps int) {
	if tps > 0 {
		e.tps = tps
	}
}

// SetWindowSize is a no-op; the terminal decides the size.
func (e *TermEngine) SetWindowSize(width, height int) {}

// SetWindowTitle records the title. Terminals have no window to show it.
func (e *TermEngine) SetWindowTitle(title string) {
	e.title = title
}

// SetWindowResizable is a no-op; terminals always resize.
func (e *TermEngine) SetWindowResizable(resizable bool) {}

// RunGame runs the game until it returns an error or render.ErrTerminated.
func (e *TermEngine) RunGame(game render.Game) error {
	screen := e.screen
	if screen == nil {
		var err error
		screen, err = tcell.NewScreen()
		if err != nil {
			return fmt.Errorf("failed to open terminal: %w", err)
		}
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("failed to initialise terminal: %w", err)
	}
	defer screen.Fini()

	screen.EnableMouse()
	screen.HideCursor()

	events := make(chan tcell.Event, 64)
	quit := make(chan struct{})
	defer close(quit)
	go screen.ChannelEvents(events, quit)

	ticker := time.NewTicker(time.Second / time.Duration(e.tps))
	defer ticker.Stop()

	img := &TermImage{screen: screen}
	for {
		select {
		case ev, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			if _, resized := ev.(*tcell.EventResize); resized {
				screen.Sync()
				continue
			}
			e.input.Handle(ev)
		case <-ticker.C:
			done, err := e.step(game, img)
			if done || err != nil {
				return err
			}
			screen.Show()
		}
	}
}

// step runs one tick. done is true when the game asked to terminate.
func (e *TermEngine) step(game render.Game, img *TermImage) (done bool, err error) {
	e.input.Advance()

	w, h := img.Size()
	game.Layout(w, h)

	if err := game.Update(); err != nil {
		if errors.Is(err, render.ErrTerminated) {
			return true, nil
		}
		return true, err
	}

	img.Clear()
	game.Draw(img)
	return false, nil
}
