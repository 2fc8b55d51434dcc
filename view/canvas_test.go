package view

import (
	"strings"

	"github.com/lixenwraith/termkit/geom"
	"github.com/lixenwraith/termkit/terminal"
)

// gridCanvas is an in-memory terminal.Canvas
type gridCanvas struct {
	size     geom.Size
	cells    [][]rune
	attrs    [][]terminal.Attribute
	clip     geom.Rect
	col, row int
	writes   int
}

func newGridCanvas(w, h int) *gridCanvas {
	c := &gridCanvas{size: geom.Size{Width: w, Height: h}}
	c.cells = make([][]rune, h)
	c.attrs = make([][]terminal.Attribute, h)
	for i := range c.cells {
		c.cells[i] = []rune(strings.Repeat(".", w))
		c.attrs[i] = make([]terminal.Attribute, w)
	}
	c.clip = geom.FromSize(c.size)
	return c
}

func (c *gridCanvas) Size() geom.Size { return c.size }

func (c *gridCanvas) Move(col, row int) { c.col, c.row = col, row }

func (c *gridCanvas) WriteCell(r rune, attr terminal.Attribute) {
	if c.clip.Contains(c.col, c.row) {
		c.cells[c.row][c.col] = r
		c.attrs[c.row][c.col] = attr
		c.writes++
	}
	c.col++
}

func (c *gridCanvas) Clip() geom.Rect { return c.clip }

func (c *gridCanvas) SetClip(r geom.Rect) { c.clip = r.Intersect(geom.FromSize(c.size)) }

func (c *gridCanvas) Row(row int) string { return string(c.cells[row]) }

// recorder is a behavior counting draws and logging focus changes
type recorder struct {
	draws int
	fill  rune
	log   *[]string
}

func (r *recorder) Draw(v *View, p *Painter) {
	r.draws++
	if r.fill != 0 {
		p.Fill(p.Dirty(), r.fill)
	}
}

func (r *recorder) FocusEnter(v *View, other *View) {
	if r.log != nil {
		*r.log = append(*r.log, "enter "+v.ID())
	}
}

func (r *recorder) FocusLeave(v *View, other *View) {
	if r.log != nil {
		*r.log = append(*r.log, "leave "+v.ID())
	}
}

// fullFill paints its whole bounds regardless of the dirty area
type fullFill rune

func (f fullFill) Draw(v *View, p *Painter) { p.Fill(p.Bounds(), rune(f)) }

// releaseHost records Release notifications
type releaseHost struct {
	released []*View
}

func (h *releaseHost) Release(v *View) { h.released = append(h.released, v) }
