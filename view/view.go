// Package view is the retained view tree.
//
// A View owns its children (paint order, back to front), holds a
// non-owning reference to its container, and carries a frame in container
// coordinates that is either assigned directly (Absolute) or derived from
// layout expressions on every layout pass (Computed). Drawing is driven by
// damage: a view repaints the part of itself marked damaged and recurses only
// into children that need it.
//
// Concrete view kinds attach a behavior value implementing any subset of the
// capability interfaces in behavior.go; a view without behavior draws its
// background and text and ignores input.
//
// Views are not safe for concurrent use. All access happens on the loop
// goroutine; other goroutines marshal work through the scheduler.
package view

import (
	"fmt"

	"github.com/lixenwraith/termkit/geom"
	"github.com/lixenwraith/termkit/layout"
	"github.com/lixenwraith/termkit/terminal"
)

// LayoutStyle selects how a view's frame is determined
type LayoutStyle uint8

const (
	// Absolute frames are authoritative and change only by SetFrame
	Absolute LayoutStyle = iota
	// Computed frames are resolved from X/Y/Width/Height each layout pass
	Computed
)

func (s LayoutStyle) String() string {
	if s == Computed {
		return "computed"
	}
	return "absolute"
}

// View is a node of the view tree
type View struct {
	id    string
	frame geom.Rect
	style LayoutStyle
	x, y  layout.Pos
	w, h  layout.Dim

	parent     *View   // Non-owning
	children   []*View // Paint order
	tabIndexes []*View // Focus order
	focused    *View   // Child on the focus path
	host       Host    // Set on roots only

	damage       geom.Rect
	childDamaged bool
	needsLayout  bool

	visible           bool
	enabled           bool
	canFocus          bool
	tabStop           bool
	hasFocus          bool
	wantContinuous    bool
	wantMousePosition bool

	text string
	attr terminal.Attribute

	behavior any

	commands map[Command]func() bool
	bindings map[terminal.Key][]Command

	Added          Event[*View] // Child added; argument is the child
	Removed        Event[*View] // Child removed; argument is the child
	Enter          Event[*View] // Gained focus; argument is the view that lost it
	Leave          Event[*View] // Lost focus; argument is the view gaining it
	KeyPress       Event[*KeyArgs]
	MouseClick     Event[*MouseArgs]
	MouseEnter     Event[MouseEvent]
	MouseLeave     Event[MouseEvent]
	LayoutComplete Event[geom.Rect] // Argument is the frame before the pass
	VisibleChanged Event[bool]
	EnabledChanged Event[bool]
}

// KeyArgs lets KeyPress subscribers consume a key
type KeyArgs struct {
	Event   terminal.KeyEvent
	Handled bool
}

// MouseArgs lets MouseClick subscribers consume a click
type MouseArgs struct {
	Event   MouseEvent
	Handled bool
}

// Option configures a View at construction
type Option func(*View)

// New creates a visible, enabled view
func New(opts ...Option) *View {
	v := &View{
		visible:     true,
		enabled:     true,
		tabStop:     true,
		needsLayout: true,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// WithID names the view for logging and lookup
func WithID(id string) Option {
	return func(v *View) { v.id = id }
}

// WithFrame sets an absolute frame
func WithFrame(r geom.Rect) Option {
	return func(v *View) {
		v.frame = r
		v.style = Absolute
	}
}

// WithPos sets computed position expressions
func WithPos(x, y layout.Pos) Option {
	return func(v *View) {
		v.x, v.y = x, y
		v.style = Computed
	}
}

// WithSize sets computed size expressions
func WithSize(w, h layout.Dim) Option {
	return func(v *View) {
		v.w, v.h = w, h
		v.style = Computed
	}
}

func WithText(s string) Option {
	return func(v *View) { v.text = s }
}

func WithAttribute(a terminal.Attribute) Option {
	return func(v *View) { v.attr = a }
}

// WithBehavior attaches capability implementations
func WithBehavior(b any) Option {
	return func(v *View) { v.behavior = b }
}

// Focusable makes the view a focus target
func Focusable() Option {
	return func(v *View) { v.canFocus = true }
}

// NoTabStop excludes the view from tab traversal; it can still take focus directly
func NoTabStop() Option {
	return func(v *View) { v.tabStop = false }
}

func (v *View) String() string {
	if v == nil {
		return "<nil>"
	}
	if v.id != "" {
		return v.id
	}
	return fmt.Sprintf("view%p", v)
}

func (v *View) ID() string { return v.id }

func (v *View) SetID(id string) { v.id = id }

// Frame returns the frame in container coordinates
func (v *View) Frame() geom.Rect { return v.frame }

// Bounds returns the frame in the view's own coordinates
func (v *View) Bounds() geom.Rect { return geom.FromSize(v.frame.Size()) }

func (v *View) LayoutStyle() LayoutStyle { return v.style }

func (v *View) SetLayoutStyle(s LayoutStyle) {
	if v.style == s {
		return
	}
	v.style = s
	v.SetNeedsLayout()
}

func (v *View) Text() string { return v.text }

func (v *View) SetText(s string) {
	if v.text == s {
		return
	}
	v.text = s
	v.MarkAllDamaged()
}

func (v *View) Attribute() terminal.Attribute { return v.attr }

func (v *View) SetAttribute(a terminal.Attribute) {
	if v.attr == a {
		return
	}
	v.attr = a
	v.MarkAllDamaged()
}

func (v *View) Behavior() any { return v.behavior }

func (v *View) SetBehavior(b any) {
	v.behavior = b
	v.MarkAllDamaged()
}

func (v *View) Visible() bool { return v.visible }

// SetVisible shows or hides the view; hiding releases focus, grab and
// pointer state held by the subtree
func (v *View) SetVisible(visible bool) {
	if v.visible == visible {
		return
	}
	if !visible {
		v.visible = false
		v.transferFocus()
		if h := v.Host(); h != nil {
			h.Release(v)
		}
	} else {
		v.visible = true
	}

	if v.parent != nil {
		v.parent.MarkDamaged(v.frame)
	} else {
		v.MarkAllDamaged()
	}
	v.VisibleChanged.Emit(visible)
}

func (v *View) Enabled() bool { return v.enabled }

// SetEnabled enables or disables input; disabling releases focus and grab
func (v *View) SetEnabled(enabled bool) {
	if v.enabled == enabled {
		return
	}
	v.enabled = enabled
	if !enabled {
		v.transferFocus()
		if h := v.Host(); h != nil {
			h.Release(v)
		}
	}
	v.MarkAllDamaged()
	v.EnabledChanged.Emit(enabled)
}

func (v *View) CanFocus() bool { return v.canFocus }

// SetCanFocus toggles focusability; enabling it makes the containers focusable
// too so traversal can reach the view
func (v *View) SetCanFocus(canFocus bool) {
	if v.canFocus == canFocus {
		return
	}
	if !canFocus {
		v.canFocus = false
		v.transferFocus()
		return
	}
	for w := v; w != nil && !w.canFocus; w = w.parent {
		w.canFocus = true
	}
}

func (v *View) TabStop() bool { return v.tabStop }

func (v *View) SetTabStop(tabStop bool) { v.tabStop = tabStop }

// WantContinuousPress marks the view for press auto-repeat tracking
func (v *View) WantContinuousPress() bool { return v.wantContinuous }

func (v *View) SetWantContinuousPress(b bool) { v.wantContinuous = b }

// WantMousePosition requests motion reports while the pointer is over the view
func (v *View) WantMousePosition() bool { return v.wantMousePosition }

func (v *View) SetWantMousePosition(b bool) { v.wantMousePosition = b }
