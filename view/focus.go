package view

import (
	"slices"

	"github.com/lixenwraith/termkit/fault"
)

// HasFocus reports whether the view is on the focus path
func (v *View) HasFocus() bool { return v.hasFocus }

// Focused returns the child on the focus path, or nil
func (v *View) Focused() *View { return v.focused }

// MostFocused returns the deepest focused descendant, or nil
func (v *View) MostFocused() *View {
	var leaf *View
	for f := v.focused; f != nil; f = f.focused {
		leaf = f
	}
	return leaf
}

// TabIndex returns the position among the container's focus order, or -1
func (v *View) TabIndex() int {
	if v.parent == nil {
		return -1
	}
	return slices.Index(v.parent.tabIndexes, v)
}

// SetTabIndex moves the view within its container's focus order
func (v *View) SetTabIndex(i int) {
	p := v.parent
	if p == nil {
		return
	}
	i = max(0, min(i, len(p.tabIndexes)-1))
	p.tabIndexes = slices.DeleteFunc(p.tabIndexes, func(c *View) bool { return c == v })
	p.tabIndexes = slices.Insert(p.tabIndexes, i, v)
}

// TabIndexes returns the focus order of the children
func (v *View) TabIndexes() []*View {
	return slices.Clone(v.tabIndexes)
}

// focusable is the tab-traversal eligibility test
func (v *View) focusable() bool {
	return v.canFocus && v.tabStop && v.visible && v.enabled
}

// SetFocus moves focus to target, a descendant of v. The focus path is
// rebuilt from the root down, so a view losing focus is notified before the
// one gaining it. A container target passes focus on to its first child.
func (v *View) SetFocus(target *View) error {
	if target == nil {
		return fault.Invalid("view.SetFocus", "nil target")
	}
	if !target.IsDescendantOf(v) {
		return fault.Invalid("view.SetFocus", "%s is not a descendant of %s", target, v)
	}
	if !target.canFocus || !target.visible || !target.enabled {
		return fault.Invalid("view.SetFocus", "%s cannot take focus", target)
	}
	focusPath(target)
	target.ensureFocus()
	return nil
}

// Focus asks the container chain to focus v
func (v *View) Focus() error {
	if v.parent == nil {
		v.ensureFocus()
		return nil
	}
	return v.Root().SetFocus(v)
}

// FocusFirst focuses the first eligible child in tab order and descends into it
func (v *View) FocusFirst() bool {
	for _, c := range v.tabIndexes {
		if c.focusable() {
			focusPath(c)
			c.FocusFirst()
			return true
		}
	}
	return false
}

// FocusLast focuses the last eligible child in tab order and descends into it
func (v *View) FocusLast() bool {
	for i := len(v.tabIndexes) - 1; i >= 0; i-- {
		if c := v.tabIndexes[i]; c.focusable() {
			focusPath(c)
			c.FocusLast()
			return true
		}
	}
	return false
}

// FocusNext advances focus to the next leaf, wrapping to the first at the
// end of v's subtree. Returns whether the focused view changed.
func (v *View) FocusNext() bool {
	before := v.MostFocused()
	if !v.focusNext() {
		v.FocusFirst()
	}
	return v.MostFocused() != before
}

// FocusPrev is the inverse of FocusNext
func (v *View) FocusPrev() bool {
	before := v.MostFocused()
	if !v.focusPrev() {
		v.FocusLast()
	}
	return v.MostFocused() != before
}

// focusNext moves forward without wrapping; deeper containers get the first
// chance so traversal visits every leaf
func (v *View) focusNext() bool {
	if v.focused == nil {
		return v.FocusFirst()
	}
	if v.focused.focusNext() {
		return true
	}
	i := slices.Index(v.tabIndexes, v.focused)
	for _, c := range v.tabIndexes[i+1:] {
		if c.focusable() {
			focusPath(c)
			c.FocusFirst()
			return true
		}
	}
	return false
}

func (v *View) focusPrev() bool {
	if v.focused == nil {
		return v.FocusLast()
	}
	if v.focused.focusPrev() {
		return true
	}
	i := slices.Index(v.tabIndexes, v.focused)
	for j := i - 1; j >= 0; j-- {
		if c := v.tabIndexes[j]; c.focusable() {
			focusPath(c)
			c.FocusLast()
			return true
		}
	}
	return false
}

// ensureFocus gives a focused container a focused child when it has none
func (v *View) ensureFocus() {
	if v.focused == nil {
		v.FocusFirst()
	}
}

// focusPath makes every container from the root down record the chain to target
func focusPath(target *View) {
	var path []*View
	for w := target; w != nil; w = w.parent {
		path = append(path, w)
	}
	slices.Reverse(path)

	root := path[0]
	if !root.hasFocus {
		root.setHasFocus(true, nil)
	}
	for i := 1; i < len(path); i++ {
		path[i-1].setFocusedChild(path[i])
	}
}

// setFocusedChild switches the container's focused child, leave before enter
func (v *View) setFocusedChild(c *View) {
	old := v.focused
	if old == c {
		if !c.hasFocus {
			c.setHasFocus(true, nil)
		}
		return
	}
	v.focused = c
	if old != nil {
		old.setHasFocus(false, c)
	}
	c.setHasFocus(true, old)
}

// setHasFocus flips the focus flag; losing focus clears the subtree's chain
func (v *View) setHasFocus(has bool, other *View) {
	if v.hasFocus == has {
		return
	}
	v.hasFocus = has
	if has {
		if fa, ok := v.behavior.(FocusAware); ok {
			fa.FocusEnter(v, other)
		}
		v.Enter.Emit(other)
	} else {
		if f := v.focused; f != nil {
			v.focused = nil
			f.setHasFocus(false, other)
		}
		if fa, ok := v.behavior.(FocusAware); ok {
			fa.FocusLeave(v, other)
		}
		v.Leave.Emit(other)
	}
	v.MarkAllDamaged()
}

// transferFocus moves focus away from v, which is about to become unreachable.
// A sibling after (then before) it is preferred; failing that, the nearest
// ancestor with another eligible sibling; failing that, focus ends at the
// container.
func (v *View) transferFocus() {
	if !v.hasFocus {
		return
	}
	p := v.parent
	if p == nil {
		v.setHasFocus(false, nil)
		return
	}
	if p.focused != v {
		v.setHasFocus(false, nil)
		return
	}

	for a := v; a.parent != nil; a = a.parent {
		if c := a.parent.siblingFocusTarget(a); c != nil {
			focusPath(c)
			c.FocusFirst()
			return
		}
	}

	p.focused = nil
	v.setHasFocus(false, p)
}

// siblingFocusTarget finds an eligible child other than skip, searching
// forward from it and then backward
func (v *View) siblingFocusTarget(skip *View) *View {
	i := slices.Index(v.tabIndexes, skip)
	for _, c := range v.tabIndexes[i+1:] {
		if c.focusable() {
			return c
		}
	}
	for j := i - 1; j >= 0; j-- {
		if c := v.tabIndexes[j]; c.focusable() {
			return c
		}
	}
	return nil
}
