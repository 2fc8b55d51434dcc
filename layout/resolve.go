package layout

import "github.com/lixenwraith/termkit/geom"

// Resolve computes a frame from four expressions within a container of size host.
// A nil term keeps the corresponding value of current.
func Resolve(x, y Pos, w, h Dim, host geom.Size, current geom.Rect) geom.Rect {
	nx, nw := resolveAxis(x, w, host.Width, current.X, current.Width)
	ny, nh := resolveAxis(y, h, host.Height, current.Y, current.Height)
	return geom.NewRect(nx, ny, nw, nh)
}

// resolveAxis evaluates one axis. Sizes see the extent left after the position,
// except absolute percentages; a centered position sees the extent left after the size.
func resolveAxis(p Pos, d Dim, extent, curPos, curSize int) (pos, size int) {
	if IsCenter(p) {
		size = curSize
		if d != nil {
			size = d.Anchor(extent)
		}
		size = max(size, 0)
		return p.Anchor(extent - size), size
	}

	pos = curPos
	if p != nil {
		pos = p.Anchor(extent)
	}

	size = curSize
	if d != nil {
		if f, ok := d.(dimFactor); ok && !f.remaining {
			size = d.Anchor(extent)
		} else {
			size = d.Anchor(extent - pos)
		}
	}
	return pos, max(size, 0)
}
