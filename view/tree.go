package view

import (
	"slices"

	"github.com/lixenwraith/termkit/fault"
)

// Add appends children in paint order, taking them from any previous container
func (v *View) Add(children ...*View) error {
	for _, c := range children {
		if c == nil {
			return fault.Invalid("view.Add", "nil child")
		}
		if c == v || v.IsDescendantOf(c) {
			return fault.Invalid("view.Add", "%s would contain itself", c)
		}
	}

	for _, c := range children {
		if c.parent == v {
			continue
		}
		if c.parent != nil {
			c.parent.Remove(c)
		}
		c.parent = v
		c.host = nil
		v.children = append(v.children, c)
		v.tabIndexes = append(v.tabIndexes, c)
		if c.canFocus {
			for w := v; w != nil && !w.canFocus; w = w.parent {
				w.canFocus = true
			}
		}

		v.SetNeedsLayout()
		c.SetNeedsLayout()
		c.MarkAllDamaged()
		v.Added.Emit(c)
	}
	return nil
}

// Remove detaches child, releasing focus and pointer state in its subtree
// Siblings keep their frames
func (v *View) Remove(child *View) {
	if child == nil || child.parent != v {
		return
	}

	child.transferFocus()
	if h := v.Host(); h != nil {
		h.Release(child)
	}

	v.children = slices.DeleteFunc(v.children, func(c *View) bool { return c == child })
	v.tabIndexes = slices.DeleteFunc(v.tabIndexes, func(c *View) bool { return c == child })
	if v.focused == child {
		v.focused = nil
	}
	child.parent = nil

	v.MarkDamaged(child.frame)
	v.Removed.Emit(child)
}

// RemoveAll detaches every child, last first
func (v *View) RemoveAll() {
	for i := len(v.children) - 1; i >= 0; i-- {
		if i < len(v.children) {
			v.Remove(v.children[i])
		}
	}
}

// Children returns a copy of the child list in paint order
func (v *View) Children() []*View {
	return slices.Clone(v.children)
}

// Parent returns the owning container, or nil for a root
func (v *View) Parent() *View { return v.parent }

// Root walks to the top of the ownership chain
func (v *View) Root() *View {
	r := v
	for r.parent != nil {
		r = r.parent
	}
	return r
}

// IsDescendantOf reports whether a is a strict ancestor of v
func (v *View) IsDescendantOf(a *View) bool {
	if a == nil {
		return false
	}
	for p := v.parent; p != nil; p = p.parent {
		if p == a {
			return true
		}
	}
	return false
}

// Host returns the host attached to the tree's root
func (v *View) Host() Host {
	return v.Root().host
}

// SetHost attaches a host; only roots carry one
func (v *View) SetHost(h Host) {
	if v.parent == nil {
		v.host = h
	}
}

// BringToFront paints child last
func (v *View) BringToFront(child *View) {
	v.reorder(child, func(int) int { return len(v.children) - 1 })
}

// SendToBack paints child first
func (v *View) SendToBack(child *View) {
	v.reorder(child, func(int) int { return 0 })
}

// BringForward swaps child with the sibling painted after it
func (v *View) BringForward(child *View) {
	v.reorder(child, func(i int) int { return min(i+1, len(v.children)-1) })
}

// SendBackward swaps child with the sibling painted before it
func (v *View) SendBackward(child *View) {
	v.reorder(child, func(i int) int { return max(i-1, 0) })
}

// reorder changes paint order only; tab order is kept
func (v *View) reorder(child *View, target func(int) int) {
	i := slices.Index(v.children, child)
	if i < 0 {
		return
	}
	j := target(i)
	if i == j {
		return
	}
	v.children = slices.Delete(v.children, i, i+1)
	v.children = slices.Insert(v.children, j, child)
	v.MarkDamaged(child.frame)
}

// SubviewAt returns the topmost visible child containing the point in view coordinates
func (v *View) SubviewAt(x, y int) *View {
	for i := len(v.children) - 1; i >= 0; i-- {
		c := v.children[i]
		if c.visible && c.frame.Contains(x, y) {
			return c
		}
	}
	return nil
}
