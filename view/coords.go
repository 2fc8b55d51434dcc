package view

import "github.com/lixenwraith/termkit/geom"

// ViewToScreen converts view coordinates to screen coordinates by walking the
// ownership chain; nothing is cached, so reparenting is always consistent
func (v *View) ViewToScreen(col, row int) geom.Point {
	for w := v; w != nil; w = w.parent {
		col += w.frame.X
		row += w.frame.Y
	}
	return geom.Point{X: col, Y: row}
}

// ScreenToView converts screen coordinates to view coordinates
func (v *View) ScreenToView(x, y int) geom.Point {
	origin := v.ViewToScreen(0, 0)
	return geom.Point{X: x - origin.X, Y: y - origin.Y}
}

// ScreenFrame returns the view's rectangle in screen coordinates
func (v *View) ScreenFrame() geom.Rect {
	origin := v.ViewToScreen(0, 0)
	return geom.Rect{X: origin.X, Y: origin.Y, Width: v.frame.Width, Height: v.frame.Height}
}

// FindDeepest hit-tests root at (x,y) in root's container coordinates
// (screen coordinates for a toplevel). Children are searched last-painted
// first. Returns nil when the point misses root.
func FindDeepest(root *View, x, y int) (hit *View, col, row int) {
	if root == nil || !root.visible || !root.frame.Contains(x, y) {
		return nil, 0, 0
	}
	v := root
	col, row = x-root.frame.X, y-root.frame.Y
	for {
		c := v.SubviewAt(col, row)
		if c == nil {
			return v, col, row
		}
		v = c
		col -= c.frame.X
		row -= c.frame.Y
	}
}
