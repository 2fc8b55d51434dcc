package app

import (
	"context"

	"github.com/lixenwraith/termkit/logging"
	"github.com/lixenwraith/termkit/terminal"
	"github.com/lixenwraith/termkit/view"
)

// routable returns the toplevels that see input, top first, ending at the
// first modal one
func (a *Application) routable() []*Toplevel {
	var out []*Toplevel
	for i := len(a.stack) - 1; i >= 0; i-- {
		t := a.stack[i]
		out = append(out, t)
		if t.Modal {
			break
		}
	}
	return out
}

// ProcessKey routes a key press: a hot-key pass over every routable
// toplevel, then the focus chain of each from the focused leaf up, then a
// cold-key pass. The first handler to accept the key ends routing.
func (a *Application) ProcessKey(ev terminal.KeyEvent) bool {
	a.keys.Add(1)
	chain := a.routable()

	for _, t := range chain {
		if t.ProcessHotKey(ev) {
			return true
		}
	}
	for _, t := range chain {
		if focusChain(t, func(v *view.View) bool { return v.ProcessKey(ev) }) {
			return true
		}
	}
	for _, t := range chain {
		if t.ProcessColdKey(ev) {
			return true
		}
	}
	a.logger.Log(context.Background(), logging.LevelTrace, "key unhandled", "key", ev.String())
	return false
}

// ProcessKeyDown reports a key-down along the top toplevel's focus chain
func (a *Application) ProcessKeyDown(ev terminal.KeyEvent) bool {
	t := a.Top()
	return t != nil && focusChain(t, func(v *view.View) bool { return v.KeyDown(ev) })
}

// ProcessKeyUp reports a key-up along the top toplevel's focus chain
func (a *Application) ProcessKeyUp(ev terminal.KeyEvent) bool {
	t := a.Top()
	return t != nil && focusChain(t, func(v *view.View) bool { return v.KeyUp(ev) })
}

// focusChain offers the event to the focused leaf and then each container
// up to the toplevel
func focusChain(t *Toplevel, fn func(*view.View) bool) bool {
	v := t.MostFocused()
	if v == nil {
		v = t.View
	}
	for ; v != nil; v = v.Parent() {
		if fn(v) {
			return true
		}
		if v == t.View {
			break
		}
	}
	return false
}

// GrabMouse sends every mouse event to v until UngrabMouse
func (a *Application) GrabMouse(v *view.View) {
	if v == nil {
		return
	}
	a.grab = v
}

// UngrabMouse ends the grab
func (a *Application) UngrabMouse() { a.grab = nil }

// MouseGrabView returns the grabbing view, nil when there is no grab
func (a *Application) MouseGrabView() *view.View { return a.grab }

// EnteredView returns the view the pointer is over
func (a *Application) EnteredView() *view.View { return a.entered }

// ContinuousPressView returns the view holding a continuous press
func (a *Application) ContinuousPressView() *view.View { return a.continuous }

// Release drops pointer state referring into v's subtree
func (a *Application) Release(v *view.View) {
	within := func(w *view.View) bool { return w != nil && (w == v || w.IsDescendantOf(v)) }
	if within(a.grab) {
		a.grab = nil
	}
	if within(a.entered) {
		a.entered = nil
	}
	if within(a.continuous) {
		a.continuous = nil
	}
}

// ProcessMouse routes a raw mouse event. A grab takes every event in the
// grabbing view's coordinates; otherwise the deepest view under the pointer
// receives it after leave/enter notifications for a change of view.
func (a *Application) ProcessMouse(ev terminal.MouseEvent) bool {
	a.mice.Add(1)

	if g := a.grab; g != nil {
		local := g.ScreenToView(ev.X, ev.Y)
		if g.Bounds().Contains(local.X, local.Y) {
			a.enter(g, ev)
		} else {
			a.leave(ev)
		}
		return a.deliver(g, ev)
	}

	hit := a.hitTest(ev.X, ev.Y)
	if hit == nil {
		a.leave(ev)
		if ev.Flags.Has(terminal.AnyReleased) {
			a.continuous = nil
		}
		return false
	}
	a.enter(hit, ev)

	switch {
	case ev.Flags.Has(terminal.AnyPressed) && hit.WantContinuousPress():
		a.continuous = hit
	case ev.Flags.Has(terminal.AnyReleased):
		a.continuous = nil
	}

	if ev.Flags&^terminal.ModifierFlags == terminal.ReportMousePosition && !hit.WantMousePosition() {
		return false
	}
	return a.deliver(hit, ev)
}

// hitTest finds the deepest view under the point, top toplevel first;
// a modal toplevel hides the ones below it
func (a *Application) hitTest(x, y int) *view.View {
	for _, t := range a.routable() {
		if hit, _, _ := view.FindDeepest(t.View, x, y); hit != nil {
			return hit
		}
	}
	return nil
}

func (a *Application) deliver(v *view.View, ev terminal.MouseEvent) bool {
	me := toView(v, ev, ev.Flags)
	return v.DeliverMouse(&me)
}

// enter makes v the entered view, telling the previous one it was left
func (a *Application) enter(v *view.View, ev terminal.MouseEvent) {
	if a.entered == v {
		return
	}
	a.leave(ev)
	a.entered = v
	v.DeliverMouseEnter(toView(v, ev, terminal.MouseEnter))
}

// leave tells the entered view the pointer is gone
func (a *Application) leave(ev terminal.MouseEvent) {
	old := a.entered
	if old == nil {
		return
	}
	a.entered = nil
	old.DeliverMouseLeave(toView(old, ev, terminal.MouseLeave))
}

// toView converts a raw event into v's coordinates
func toView(v *view.View, ev terminal.MouseEvent, flags terminal.MouseFlags) view.MouseEvent {
	local := v.ScreenToView(ev.X, ev.Y)
	return view.MouseEvent{
		X:       local.X,
		Y:       local.Y,
		ScreenX: ev.X,
		ScreenY: ev.Y,
		Flags:   flags,
		View:    v,
	}
}
