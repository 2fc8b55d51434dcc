package view

import "github.com/lixenwraith/termkit/terminal"

// Capability interfaces. A view's behavior value implements any subset;
// the view checks for each at the point of use.

// Drawable paints the view's own content into the damaged area p.Dirty()
type Drawable interface {
	Draw(v *View, p *Painter)
}

// KeyRoutable handles keys delivered along the focus chain
type KeyRoutable interface {
	ProcessKey(v *View, ev terminal.KeyEvent) bool
}

// HotKeyRoutable claims accelerators before focus-based delivery
type HotKeyRoutable interface {
	ProcessHotKey(v *View, ev terminal.KeyEvent) bool
}

// ColdKeyRoutable handles keys nothing else consumed
type ColdKeyRoutable interface {
	ProcessColdKey(v *View, ev terminal.KeyEvent) bool
}

// KeyStateAware receives key-down/key-up reports from drivers that have them
type KeyStateAware interface {
	KeyDown(v *View, ev terminal.KeyEvent) bool
	KeyUp(v *View, ev terminal.KeyEvent) bool
}

// MouseRoutable handles mouse events in view coordinates
type MouseRoutable interface {
	MouseEvent(v *View, ev *MouseEvent) bool
}

// MouseTracker is told when the pointer enters or leaves the view
type MouseTracker interface {
	MouseEnter(v *View, ev MouseEvent)
	MouseLeave(v *View, ev MouseEvent)
}

// FocusAware is told about focus changes; other is the view on the far side
type FocusAware interface {
	FocusEnter(v *View, other *View)
	FocusLeave(v *View, other *View)
}

// CursorPositioner places the terminal cursor while the view is focused
type CursorPositioner interface {
	CursorPosition(v *View) (col, row int, visible bool)
}

// MouseEvent is a mouse event resolved to a view
type MouseEvent struct {
	X, Y             int // View coordinates
	ScreenX, ScreenY int
	Flags            terminal.MouseFlags
	View             *View
}

// Host receives notice when a subtree leaves the visible tree so pointer
// state referring into it can be dropped
type Host interface {
	Release(v *View)
}
