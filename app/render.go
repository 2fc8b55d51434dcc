package app

import (
	"time"

	"github.com/lixenwraith/termkit/geom"
)

// draw repaints damaged toplevels bottom to top. Whatever a lower toplevel
// repaints is damaged on the toplevels above it so overlaps stay on top.
func (a *Application) draw() {
	if !a.initialized || a.size.Width == 0 || a.size.Height == 0 {
		return
	}
	start := time.Now()
	screen := geom.FromSize(a.size)

	var repainted geom.Rect
	drew := false
	for _, t := range a.stack {
		if !t.Visible() {
			continue
		}
		f := t.Frame()
		if r := repainted.Intersect(f); !r.Empty() {
			t.MarkDamaged(r.Offset(-f.X, -f.Y))
		}
		if !t.NeedsDisplay() {
			continue
		}
		a.driver.SetClip(screen)
		t.Draw(a.driver, t.Bounds())
		repainted = repainted.Union(f.Intersect(screen))
		drew = true
	}
	a.driver.SetClip(screen)

	moved := a.placeCursor()
	if !drew && !moved {
		return
	}
	a.driver.UpdateScreen()
	if drew {
		a.redraws.Add(1)
		a.drawMs.Store(float64(time.Since(start).Microseconds()) / 1000)
	}
}

// placeCursor shows the cursor where the focused view wants it; reports
// whether the cursor changed
func (a *Application) placeCursor() bool {
	pos, visible := geom.Point{}, false
	if t := a.Top(); t != nil {
		if mf := t.MostFocused(); mf != nil {
			col, row, vis := mf.CursorPosition()
			if vis && mf.Bounds().Contains(col, row) {
				pos, visible = mf.ViewToScreen(col, row), true
			}
		}
	}
	if visible == a.cursorVisible && (!visible || pos == a.cursor) {
		return false
	}
	a.cursor, a.cursorVisible = pos, visible
	if visible {
		a.driver.SetCursor(pos.X, pos.Y)
	}
	a.driver.SetCursorVisible(visible)
	return true
}
