package terminal

import (
	"sync"

	"github.com/gdamore/tcell/v2"

	"chosenoffset.com/particles/internal/render"
)

// TermInput implements render.InputManager from tcell events.
//
// Events arrive between ticks through Handle; Advance, called at the start
// of each tick, turns everything seen since the previous tick into the
// "just pressed" state the game queries.
type TermInput struct {
	mu sync.Mutex

	buttons      tcell.ButtonMask
	cursorX      int
	cursorY      int
	pendingKeys  map[render.Key]bool
	pendingMouse map[render.MouseButton]bool

	keys  map[render.Key]bool
	mouse map[render.MouseButton]bool
}

// NewInputManager creates an input manager for a TermEngine.
func NewInputManager() *TermInput {
	return &TermInput{
		pendingKeys:  make(map[render.Key]bool),
		pendingMouse: make(map[render.MouseButton]bool),
		keys:         make(map[render.Key]bool),
		mouse:        make(map[render.MouseButton]bool),
	}
}

// Handle records a key or mouse event.
func (in *TermInput) Handle(ev tcell.Event) {
	in.mu.Lock()
	defer in.mu.Unlock()

	switch ev := ev.(type) {
	case *tcell.EventKey:
		if key, ok := translateKey(ev); ok {
			in.pendingKeys[key] = true
		}
	case *tcell.EventMouse:
		col, row := ev.Position()
		in.cursorX = col*CellWidth + CellWidth/2
		in.cursorY = row*CellHeight + CellHeight/2

		buttons := ev.Buttons()
		pressed := buttons &^ in.buttons
		in.buttons = buttons

		if pressed&tcell.Button1 != 0 {
			in.pendingMouse[render.MouseButtonLeft] = true
		}
		if pressed&tcell.Button2 != 0 {
			in.pendingMouse[render.MouseButtonRight] = true
		}
		if pressed&tcell.Button3 != 0 {
			in.pendingMouse[render.MouseButtonMiddle] = true
		}
	}
}

// Advance starts a new tick.
func (in *TermInput) Advance() {
	in.mu.Lock()
	defer in.mu.Unlock()

	in.keys, in.pendingKeys = in.pendingKeys, in.keys
	in.mouse, in.pendingMouse = in.pendingMouse, in.mouse
	clear(in.pendingKeys)
	clear(in.pendingMouse)
}

// IsKeyJustPressed reports whether key was pressed during the last tick.
func (in *TermInput) IsKeyJustPressed(key render.Key) bool {
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.keys[key]
}

// GetCursorPosition returns the centre of the cell under the mouse, in
// logical pixels.
func (in *TermInput) GetCursorPosition() (x, y int) {
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.cursorX, in.cursorY
}

// IsMouseButtonJustPressed reports whether button went down during the last tick.
func (in *TermInput) IsMouseButtonJustPressed(button render.MouseButton) bool {
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.mouse[button]
}

func translateKey(ev *tcell.EventKey) (render.Key, bool) {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return render.KeyEscape, true
	case tcell.KeyRune:
		switch ev.Rune() {
		case 's', 'S':
			return render.KeyS, true
		case 'q', 'Q':
			return render.KeyQ, true
		case ' ':
			return render.KeySpace, true
		}
	}
	return 0, false
}
