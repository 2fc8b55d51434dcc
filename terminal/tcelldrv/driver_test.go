package tcelldrv

import (
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/termkit/geom"
	"github.com/lixenwraith/termkit/mainloop"
	"github.com/lixenwraith/termkit/terminal"
)

func newSim(t *testing.T, opts ...Option) (*Driver, tcell.SimulationScreen, *mainloop.Loop) {
	t.Helper()
	sim := tcell.NewSimulationScreen("")
	d := NewWithScreen(sim, opts...)
	loop := mainloop.New(d)
	require.NoError(t, d.Init(nil))
	t.Cleanup(d.Shutdown)
	return d, sim, loop
}

func TestWriteCellUsesAttributes(t *testing.T) {
	d, sim, _ := newSim(t)
	attr := d.MakeAttribute(terminal.ColorPair{Fg: terminal.ColorRed, Bg: terminal.ColorBlue, Style: terminal.StyleBold})

	d.Move(1, 0)
	d.WriteCell('x', attr)
	d.SetClip(geom.Rect{Width: 1, Height: 1})
	d.Move(0, 1)
	d.WriteCell('y', attr)
	d.UpdateScreen()

	cells, w, _ := sim.GetContents()
	cell := cells[1]
	assert.Equal(t, []rune{'x'}, cell.Runes)
	fg, bg, attrs := cell.Style.Decompose()
	assert.Equal(t, tcell.ColorRed, fg)
	assert.Equal(t, tcell.ColorBlue, bg)
	assert.NotZero(t, attrs&tcell.AttrBold)

	assert.NotEqual(t, []rune{'y'}, cells[w].Runes, "clipped")
}

func TestCursor(t *testing.T) {
	d, sim, _ := newSim(t)
	d.SetCursor(2, 3)
	d.SetCursorVisible(true)
	d.UpdateScreen()

	x, y, visible := sim.GetCursor()
	assert.Equal(t, 2, x)
	assert.Equal(t, 3, y)
	assert.True(t, visible)
	assert.True(t, d.CursorVisible())
}

func TestMapKey(t *testing.T) {
	tests := []struct {
		name string
		ev   *tcell.EventKey
		want terminal.Key
	}{
		{"rune", tcell.NewEventKey(tcell.KeyRune, 'a', tcell.ModNone), 'a'},
		{"shifted rune", tcell.NewEventKey(tcell.KeyRune, 'A', tcell.ModShift), 'A'},
		{"ctrl letter", tcell.NewEventKey(tcell.KeyRune, 'q', tcell.ModCtrl), terminal.KeyCtrlQ},
		{"ctrl code", tcell.NewEventKey(tcell.KeyCtrlQ, 0, tcell.ModCtrl), terminal.KeyCtrlQ},
		{"enter", tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone), terminal.KeyEnter},
		{"escape", tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone), terminal.KeyEsc},
		{"backspace2", tcell.NewEventKey(tcell.KeyBackspace2, 0, tcell.ModNone), terminal.KeyDEL},
		{"backtab", tcell.NewEventKey(tcell.KeyBacktab, 0, tcell.ModShift), terminal.KeyBacktab},
		{"shift arrow", tcell.NewEventKey(tcell.KeyUp, 0, tcell.ModShift), terminal.KeyUp.WithShift()},
		{"alt function", tcell.NewEventKey(tcell.KeyF5, 0, tcell.ModAlt), terminal.KeyF5.WithAlt()},
		{"alt rune", tcell.NewEventKey(tcell.KeyRune, 'x', tcell.ModAlt), terminal.Key('x').WithAlt()},
		{"ctrl arrow", tcell.NewEventKey(tcell.KeyLeft, 0, tcell.ModCtrl), terminal.KeyLeft.WithCtrl()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := mapKey(tt.ev)
			require.True(t, ok)
			assert.Equal(t, tt.want, got, "%s != %s", terminal.KeyName(got), terminal.KeyName(tt.want))
		})
	}

	_, ok := mapKey(tcell.NewEventKey(tcell.KeyF30, 0, tcell.ModNone))
	assert.False(t, ok)
}

func TestMouseTransitions(t *testing.T) {
	clock := mainloop.NewManualClock(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	d, _, _ := newSim(t, WithClock(clock), WithDoubleClick(300*time.Millisecond))

	var got []terminal.MouseFlags
	d.handlers.OnMouse = func(ev terminal.MouseEvent) { got = append(got, ev.Flags) }
	send := func(x, y int, b tcell.ButtonMask, m tcell.ModMask) {
		d.dispatch(tcell.NewEventMouse(x, y, b, m))
	}

	send(3, 2, tcell.Button1, tcell.ModNone)
	send(4, 2, tcell.Button1, tcell.ModNone)
	send(4, 2, tcell.ButtonNone, tcell.ModNone)

	send(5, 1, tcell.Button1, tcell.ModNone)
	send(5, 1, tcell.ButtonNone, tcell.ModNone)
	clock.Advance(100 * time.Millisecond)
	send(5, 1, tcell.Button1, tcell.ModNone)
	send(5, 1, tcell.ButtonNone, tcell.ModNone)
	clock.Advance(time.Second)
	send(5, 1, tcell.Button3, tcell.ModNone)
	send(5, 1, tcell.ButtonNone, tcell.ModNone)

	send(0, 0, tcell.WheelUp, tcell.ModNone)
	send(1, 1, tcell.ButtonNone, tcell.ModCtrl)

	assert.Equal(t, []terminal.MouseFlags{
		terminal.Button1Pressed,
		terminal.ReportMousePosition,
		terminal.Button1Released,
		terminal.Button1Pressed,
		terminal.Button1Released | terminal.Button1Clicked,
		terminal.Button1Pressed,
		terminal.Button1Released | terminal.Button1DoubleClicked,
		terminal.Button3Pressed,
		terminal.Button3Released | terminal.Button3Clicked,
		terminal.WheeledUp,
		terminal.ReportMousePosition | terminal.ButtonCtrl,
	}, got)
}

func TestResizeReported(t *testing.T) {
	d, _, _ := newSim(t)
	var sizes []geom.Size
	d.onResize = func(cols, rows int) { sizes = append(sizes, geom.Size{Width: cols, Height: rows}) }

	d.dispatch(tcell.NewEventResize(30, 10))
	assert.Equal(t, geom.Size{Width: 30, Height: 10}, d.Size())
	assert.Equal(t, geom.Rect{Width: 30, Height: 10}, d.Clip())
	assert.Equal(t, []geom.Size{{Width: 30, Height: 10}}, sizes)
}

func TestPolledInputReachesHandlers(t *testing.T) {
	d, sim, loop := newSim(t)
	keys := make(chan terminal.Key, 4)
	d.PrepareToRun(loop, terminal.Handlers{OnKey: func(ev terminal.KeyEvent) { keys <- ev.Key }})

	sim.InjectKey(tcell.KeyRune, 'z', tcell.ModNone)
	require.Eventually(t, func() bool {
		d.Wait(10 * time.Millisecond)
		d.Iterate()
		return len(keys) > 0
	}, time.Second, time.Millisecond)
	assert.Equal(t, terminal.Key('z'), <-keys)

	d.Shutdown()
	d.Shutdown()
}
