package tcelldrv

import (
	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/termkit/terminal"
)

var specialKeys = map[tcell.Key]terminal.Key{
	tcell.KeyUp:      terminal.KeyUp,
	tcell.KeyDown:    terminal.KeyDown,
	tcell.KeyLeft:    terminal.KeyLeft,
	tcell.KeyRight:   terminal.KeyRight,
	tcell.KeyHome:    terminal.KeyHome,
	tcell.KeyEnd:     terminal.KeyEnd,
	tcell.KeyPgUp:    terminal.KeyPageUp,
	tcell.KeyPgDn:    terminal.KeyPageDown,
	tcell.KeyInsert:  terminal.KeyInsert,
	tcell.KeyDelete:  terminal.KeyDelete,
	tcell.KeyBacktab: terminal.KeyBacktab,
	tcell.KeyF1:      terminal.KeyF1,
	tcell.KeyF2:      terminal.KeyF2,
	tcell.KeyF3:      terminal.KeyF3,
	tcell.KeyF4:      terminal.KeyF4,
	tcell.KeyF5:      terminal.KeyF5,
	tcell.KeyF6:      terminal.KeyF6,
	tcell.KeyF7:      terminal.KeyF7,
	tcell.KeyF8:      terminal.KeyF8,
	tcell.KeyF9:      terminal.KeyF9,
	tcell.KeyF10:     terminal.KeyF10,
	tcell.KeyF11:     terminal.KeyF11,
	tcell.KeyF12:     terminal.KeyF12,
}

// mapKey converts a tcell key event. Control characters keep their code
// (ctrl+a is 0x01), Alt and the modifiers of special keys become mask bits.
func mapKey(ev *tcell.EventKey) (terminal.Key, bool) {
	mods := ev.Modifiers()
	var k terminal.Key

	switch tk := ev.Key(); {
	case tk == tcell.KeyRune:
		r := ev.Rune()
		if mods&tcell.ModCtrl != 0 {
			if c, ok := ctrlChar(r); ok {
				k = c
				mods &^= tcell.ModCtrl
				break
			}
		}
		k = terminal.Key(r)
		mods &^= tcell.ModShift // Already reflected in the rune
	case tk < tcell.Key(' ') || tk == tcell.KeyDEL:
		k = terminal.Key(tk)
		mods &^= tcell.ModCtrl
	default:
		named, ok := specialKeys[tk]
		if !ok {
			return terminal.KeyNull, false
		}
		k = named
	}

	if mods&tcell.ModShift != 0 && k != terminal.KeyBacktab {
		k = k.WithShift()
	}
	if mods&tcell.ModCtrl != 0 {
		k = k.WithCtrl()
	}
	if mods&(tcell.ModAlt|tcell.ModMeta) != 0 {
		k = k.WithAlt()
	}
	return k, true
}

// ctrlChar maps a letter typed with Ctrl to its control character
func ctrlChar(r rune) (terminal.Key, bool) {
	switch {
	case r >= 'a' && r <= 'z':
		return terminal.KeyCtrlA + terminal.Key(r-'a'), true
	case r >= 'A' && r <= 'Z':
		return terminal.KeyCtrlA + terminal.Key(r-'A'), true
	}
	return terminal.KeyNull, false
}
