package terminal

import (
	"github.com/lixenwraith/termkit/geom"
	"github.com/lixenwraith/termkit/mainloop"
)

// Canvas is the drawing surface seen by views
// Coordinates are screen columns/rows; cells outside Clip are discarded
type Canvas interface {
	// Size returns the terminal extent
	Size() geom.Size

	// Move positions the write cursor
	Move(col, row int)

	// WriteCell writes r at the write cursor and advances it one column
	// Wide glyphs occupy the next column too; callers advance past it
	WriteCell(r rune, attr Attribute)

	// Clip returns the current clip rectangle in screen coordinates
	Clip() geom.Rect

	// SetClip replaces the clip rectangle; it is intersected with the screen
	SetClip(r geom.Rect)
}

// Handlers receive decoded input on the loop goroutine
type Handlers struct {
	OnKey     func(KeyEvent)
	OnKeyDown func(KeyEvent)
	OnKeyUp   func(KeyEvent)
	OnMouse   func(MouseEvent)
}

// Driver is a terminal back-end
//
// Lifecycle:
//  1. Init(onResize) - acquire the terminal, report the initial extent
//  2. PrepareToRun(loop, handlers) - bind input delivery to the scheduler
//  3. [loop: Wait/Iterate via mainloop.Pump, drawing via Canvas, UpdateScreen]
//  4. Shutdown() - restore the terminal; must be idempotent
type Driver interface {
	Canvas
	mainloop.Pump

	// Init acquires the terminal; onResize is called on the loop goroutine
	// whenever the extent changes
	Init(onResize func(cols, rows int)) error

	// PrepareToRun binds input handlers; events are delivered from Iterate
	PrepareToRun(loop *mainloop.Loop, h Handlers)

	// Refresh requests a full repaint of the physical screen on next update
	Refresh()

	// UpdateScreen flushes pending cell writes
	UpdateScreen()

	// Suspend hands the terminal back to the shell until the process resumes
	Suspend() error

	// Shutdown restores the terminal
	Shutdown()

	CursorVisible() bool
	SetCursorVisible(visible bool)

	// SetCursor places the hardware cursor in screen coordinates
	SetCursor(col, row int)

	// MakeAttribute allocates a handle for a color pair
	MakeAttribute(p ColorPair) Attribute

	// SetMouse enables or disables mouse reporting
	SetMouse(enabled bool)
}
