// Package geom provides integer cell geometry for the view tree.
//
// All rectangles are half-open: a Rect covers columns [X, X+Width) and rows
// [Y, Y+Height). Operations never fail; a negative extent normalises to empty.
package geom

import "fmt"

// Point is a cell coordinate
type Point struct {
	X, Y int
}

// Size is a cell extent
type Size struct {
	Width, Height int
}

// Empty reports whether either extent is non-positive
func (s Size) Empty() bool {
	return s.Width <= 0 || s.Height <= 0
}

// Rect is a rectangle in some view's coordinate space
type Rect struct {
	X, Y          int
	Width, Height int
}

// NewRect returns a rectangle with negative extents clamped to zero
func NewRect(x, y, w, h int) Rect {
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	return Rect{X: x, Y: y, Width: w, Height: h}
}

// FromSize returns a rectangle at the origin
func FromSize(s Size) Rect {
	return NewRect(0, 0, s.Width, s.Height)
}

// Empty reports whether the rectangle covers no cell
func (r Rect) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Right returns the exclusive right edge
func (r Rect) Right() int {
	return r.X + r.Width
}

// Bottom returns the exclusive bottom edge
func (r Rect) Bottom() int {
	return r.Y + r.Height
}

// Location returns the top-left corner
func (r Rect) Location() Point {
	return Point{X: r.X, Y: r.Y}
}

// Size returns the extent
func (r Rect) Size() Size {
	return Size{Width: r.Width, Height: r.Height}
}

// Contains reports whether the cell (x, y) lies inside
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.Right() && y >= r.Y && y < r.Bottom()
}

// Intersects reports whether the two rectangles share at least one cell
func (r Rect) Intersects(o Rect) bool {
	return !r.Intersect(o).Empty()
}

// Intersect returns the common area; disjoint or empty inputs yield the zero Rect
func (r Rect) Intersect(o Rect) Rect {
	if r.Empty() || o.Empty() {
		return Rect{}
	}
	x0 := max(r.X, o.X)
	y0 := max(r.Y, o.Y)
	x1 := min(r.Right(), o.Right())
	y1 := min(r.Bottom(), o.Bottom())
	if x1 <= x0 || y1 <= y0 {
		return Rect{}
	}
	return Rect{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}
}

// Union returns the bounding box of both rectangles; an empty operand is ignored
func (r Rect) Union(o Rect) Rect {
	if r.Empty() {
		if o.Empty() {
			return Rect{}
		}
		return o
	}
	if o.Empty() {
		return r
	}
	x0 := min(r.X, o.X)
	y0 := min(r.Y, o.Y)
	x1 := max(r.Right(), o.Right())
	y1 := max(r.Bottom(), o.Bottom())
	return Rect{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}
}

// Offset returns the rectangle translated by (dx, dy)
func (r Rect) Offset(dx, dy int) Rect {
	r.X += dx
	r.Y += dy
	return r
}

// Inset returns the rectangle shrunk by n cells on every side
func (r Rect) Inset(n int) Rect {
	return NewRect(r.X+n, r.Y+n, r.Width-2*n, r.Height-2*n)
}

func (r Rect) String() string {
	return fmt.Sprintf("(%d,%d %dx%d)", r.X, r.Y, r.Width, r.Height)
}
