package tcelldrv

import (
	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/termkit/terminal"
)

// toColor maps the 16 named colors onto the ANSI palette; RGB colors pass
// through as true color
func toColor(c terminal.Color) tcell.Color {
	switch {
	case c == terminal.ColorDefault:
		return tcell.ColorDefault
	case c.IsRGB():
		rgb := c.RGB()
		return tcell.NewRGBColor(int32(rgb.R), int32(rgb.G), int32(rgb.B))
	default:
		return tcell.PaletteColor(int(c))
	}
}

func toStyle(p terminal.ColorPair) tcell.Style {
	st := tcell.StyleDefault.Foreground(toColor(p.Fg)).Background(toColor(p.Bg))
	if p.Style&terminal.StyleBold != 0 {
		st = st.Bold(true)
	}
	if p.Style&terminal.StyleDim != 0 {
		st = st.Dim(true)
	}
	if p.Style&terminal.StyleItalic != 0 {
		st = st.Italic(true)
	}
	if p.Style&terminal.StyleUnderline != 0 {
		st = st.Underline(true)
	}
	if p.Style&terminal.StyleBlink != 0 {
		st = st.Blink(true)
	}
	if p.Style&terminal.StyleReverse != 0 {
		st = st.Reverse(true)
	}
	return st
}
