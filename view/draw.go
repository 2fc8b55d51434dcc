package view

import (
	"github.com/mattn/go-runewidth"

	"github.com/lixenwraith/termkit/geom"
	"github.com/lixenwraith/termkit/terminal"
)

// Draw repaints the part of the view inside dirty (view coordinates).
// The canvas clip is narrowed to the view for the duration and restored on
// return. Own content is painted inside its damage only, then children
// intersecting dirty that need display are drawn in paint order.
func (v *View) Draw(c terminal.Canvas, dirty geom.Rect) {
	if !v.visible {
		return
	}
	dirty = dirty.Intersect(v.Bounds())
	origin := v.ViewToScreen(0, 0)

	saved := c.Clip()
	clip := saved.Intersect(dirty.Offset(origin.X, origin.Y))
	if !clip.Empty() {
		c.SetClip(clip)

		// Own content is clipped to the damage so undamaged children
		// under a full fill keep their cells
		if own := v.damage.Intersect(dirty); !own.Empty() {
			c.SetClip(clip.Intersect(own.Offset(origin.X, origin.Y)))
			p := &Painter{view: v, canvas: c, origin: origin, dirty: own, attr: v.attr}
			if d, ok := v.behavior.(Drawable); ok {
				d.Draw(v, p)
			} else {
				v.drawDefault(p)
			}
			c.SetClip(clip)
		}

		for _, child := range v.children {
			if !child.visible || !child.NeedsDisplay() {
				continue
			}
			cd := dirty.Intersect(child.frame)
			if cd.Empty() {
				continue
			}
			child.Draw(c, cd.Offset(-child.frame.X, -child.frame.Y))
			c.SetClip(clip)
		}

		c.SetClip(saved)
	}
	v.clearDamage(dirty)
}

// drawDefault fills the damaged area and prints the text on the first row
func (v *View) drawDefault(p *Painter) {
	p.Clear()
	if v.text != "" {
		p.DrawText(0, 0, v.text)
	}
}

// Painter writes into a view in view coordinates
// Writes outside the canvas clip are discarded by the canvas
type Painter struct {
	view     *View
	canvas   terminal.Canvas
	origin   geom.Point // Screen position of the view's (0,0)
	dirty    geom.Rect
	col, row int
	attr     terminal.Attribute
}

// NewPainter creates a painter for v over the whole view
func NewPainter(v *View, c terminal.Canvas) *Painter {
	return &Painter{view: v, canvas: c, origin: v.ViewToScreen(0, 0), dirty: v.Bounds(), attr: v.attr}
}

func (p *Painter) View() *View { return p.view }

// Dirty returns the area being repainted
func (p *Painter) Dirty() geom.Rect { return p.dirty }

// Bounds returns the view's own rectangle
func (p *Painter) Bounds() geom.Rect { return p.view.Bounds() }

func (p *Painter) Attribute() terminal.Attribute { return p.attr }

// SetAttribute selects the attribute for following writes
func (p *Painter) SetAttribute(a terminal.Attribute) { p.attr = a }

// Move positions the write cursor
func (p *Painter) Move(col, row int) {
	p.col, p.row = col, row
	p.canvas.Move(p.origin.X+col, p.origin.Y+row)
}

// AddRune writes r at the cursor and advances by its display width
func (p *Painter) AddRune(r rune) {
	w := runewidth.RuneWidth(r)
	if w == 0 {
		w = 1
		r = ' '
	}
	p.canvas.WriteCell(r, p.attr)
	p.col += w
	if w > 1 {
		p.canvas.Move(p.origin.X+p.col, p.origin.Y+p.row)
	}
}

// DrawText writes s starting at (col,row), stopping at the right edge.
// A wide glyph that would straddle the edge is replaced by a space.
// Returns the number of columns written.
func (p *Painter) DrawText(col, row int, s string) int {
	limit := p.view.frame.Width
	if col >= limit || row < 0 || row >= p.view.frame.Height {
		return 0
	}
	p.Move(col, row)
	for _, r := range s {
		w := runewidth.RuneWidth(r)
		if w == 0 {
			continue
		}
		if p.col+w > limit {
			for p.col < limit {
				p.AddRune(' ')
			}
			break
		}
		p.AddRune(r)
	}
	return p.col - col
}

// Fill writes ch over r (view coordinates) clipped to the view
func (p *Painter) Fill(r geom.Rect, ch rune) {
	r = r.Intersect(p.Bounds())
	for row := r.Y; row < r.Bottom(); row++ {
		p.Move(r.X, row)
		for p.col < r.Right() {
			p.AddRune(ch)
		}
	}
}

// Clear fills the dirty area with spaces
func (p *Painter) Clear() {
	p.Fill(p.dirty, ' ')
}

// ClipToBounds narrows the canvas clip to the view and returns the previous
// clip for restoring
func (p *Painter) ClipToBounds() geom.Rect {
	prev := p.canvas.Clip()
	sb := p.view.Bounds().Offset(p.origin.X, p.origin.Y)
	p.canvas.SetClip(prev.Intersect(sb))
	return prev
}
