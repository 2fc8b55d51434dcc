package view

import "github.com/lixenwraith/termkit/terminal"

// ProcessHotKey offers ev to the subtree regardless of focus
func (v *View) ProcessHotKey(ev terminal.KeyEvent) bool {
	if !v.visible || !v.enabled {
		return false
	}
	if h, ok := v.behavior.(HotKeyRoutable); ok && h.ProcessHotKey(v, ev) {
		return true
	}
	for _, c := range v.Children() {
		if c.ProcessHotKey(ev) {
			return true
		}
	}
	return false
}

// ProcessKey offers ev to this view only: KeyPress subscribers, the
// behavior, then key bindings
func (v *View) ProcessKey(ev terminal.KeyEvent) bool {
	if !v.enabled {
		return false
	}
	if v.KeyPress.Len() > 0 {
		args := &KeyArgs{Event: ev}
		v.KeyPress.Emit(args)
		if args.Handled {
			return true
		}
	}
	if k, ok := v.behavior.(KeyRoutable); ok && k.ProcessKey(v, ev) {
		return true
	}
	handled, _ := v.InvokeKeyBindings(ev)
	return handled
}

// ProcessColdKey offers ev to the subtree as a last resort
func (v *View) ProcessColdKey(ev terminal.KeyEvent) bool {
	if !v.visible || !v.enabled {
		return false
	}
	if h, ok := v.behavior.(ColdKeyRoutable); ok && h.ProcessColdKey(v, ev) {
		return true
	}
	for _, c := range v.Children() {
		if c.ProcessColdKey(ev) {
			return true
		}
	}
	return false
}

// KeyDown reports a key-down to this view
func (v *View) KeyDown(ev terminal.KeyEvent) bool {
	if k, ok := v.behavior.(KeyStateAware); ok && v.enabled {
		return k.KeyDown(v, ev)
	}
	return false
}

// KeyUp reports a key-up to this view
func (v *View) KeyUp(ev terminal.KeyEvent) bool {
	if k, ok := v.behavior.(KeyStateAware); ok && v.enabled {
		return k.KeyUp(v, ev)
	}
	return false
}

// DeliverMouse hands ev (view coordinates) to this view. Clicks go to
// MouseClick subscribers first; a press or click on an unfocused focusable
// view focuses it when nothing else handled the event.
func (v *View) DeliverMouse(ev *MouseEvent) bool {
	if !v.enabled {
		return false
	}
	if ev.Flags.Has(terminal.AnyClicked) && v.MouseClick.Len() > 0 {
		args := &MouseArgs{Event: *ev}
		v.MouseClick.Emit(args)
		if args.Handled {
			return true
		}
	}
	if m, ok := v.behavior.(MouseRoutable); ok && m.MouseEvent(v, ev) {
		return true
	}
	if ev.Flags.Has(terminal.Button1Pressed|terminal.Button1Clicked) && v.canFocus && !v.hasFocus && v.parent != nil {
		return v.Focus() == nil
	}
	return false
}

// DeliverMouseEnter tells the view the pointer arrived
func (v *View) DeliverMouseEnter(ev MouseEvent) {
	if t, ok := v.behavior.(MouseTracker); ok {
		t.MouseEnter(v, ev)
	}
	v.MouseEnter.Emit(ev)
}

// DeliverMouseLeave tells the view the pointer left
func (v *View) DeliverMouseLeave(ev MouseEvent) {
	if t, ok := v.behavior.(MouseTracker); ok {
		t.MouseLeave(v, ev)
	}
	v.MouseLeave.Emit(ev)
}

// CursorPosition asks the behavior where the terminal cursor belongs
func (v *View) CursorPosition() (col, row int, visible bool) {
	if cp, ok := v.behavior.(CursorPositioner); ok {
		return cp.CursorPosition(v)
	}
	return 0, 0, false
}
