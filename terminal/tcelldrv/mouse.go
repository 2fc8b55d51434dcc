package tcelldrv

import (
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/termkit/geom"
	"github.com/lixenwraith/termkit/terminal"
)

// buttonFlags are the flags reported for one physical button
type buttonFlags struct {
	mask          tcell.ButtonMask
	pressed       terminal.MouseFlags
	released      terminal.MouseFlags
	clicked       terminal.MouseFlags
	doubleClicked terminal.MouseFlags
}

var buttons = [...]buttonFlags{
	{tcell.Button1, terminal.Button1Pressed, terminal.Button1Released, terminal.Button1Clicked, terminal.Button1DoubleClicked},
	{tcell.Button2, terminal.Button2Pressed, terminal.Button2Released, terminal.Button2Clicked, terminal.Button2DoubleClicked},
	{tcell.Button3, terminal.Button3Pressed, terminal.Button3Released, terminal.Button3Clicked, terminal.Button3DoubleClicked},
}

// mouseState turns tcell's button-state reports into press, release, click
// and double-click transitions
type mouseState struct {
	doubleClick time.Duration
	held        tcell.ButtonMask
	pressAt     [len(buttons)]geom.Point
	lastClick   [len(buttons)]time.Time
	lastAt      [len(buttons)]geom.Point
}

func (m *mouseState) translate(ev *tcell.EventMouse, now time.Time) terminal.MouseEvent {
	x, y := ev.Position()
	at := geom.Point{X: x, Y: y}
	state := ev.Buttons()

	var flags terminal.MouseFlags
	for i, b := range buttons {
		was, is := m.held&b.mask != 0, state&b.mask != 0
		switch {
		case is && !was:
			flags |= b.pressed
			m.pressAt[i] = at
		case was && !is:
			flags |= b.released
			if m.pressAt[i] != at {
				break
			}
			if !m.lastClick[i].IsZero() && m.lastAt[i] == at && now.Sub(m.lastClick[i]) <= m.doubleClick {
				flags |= b.doubleClicked
				m.lastClick[i] = time.Time{}
			} else {
				flags |= b.clicked
				m.lastClick[i], m.lastAt[i] = now, at
			}
		}
	}
	m.held = state & (tcell.Button1 | tcell.Button2 | tcell.Button3)

	if state&tcell.WheelUp != 0 {
		flags |= terminal.WheeledUp
	}
	if state&tcell.WheelDown != 0 {
		flags |= terminal.WheeledDown
	}
	if flags == 0 {
		flags = terminal.ReportMousePosition
	}

	mods := ev.Modifiers()
	if mods&tcell.ModShift != 0 {
		flags |= terminal.ButtonShift
	}
	if mods&tcell.ModCtrl != 0 {
		flags |= terminal.ButtonCtrl
	}
	if mods&tcell.ModAlt != 0 {
		flags |= terminal.ButtonAlt
	}
	return terminal.MouseEvent{X: x, Y: y, Flags: flags}
}
