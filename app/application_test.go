package app

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/termkit/config"
	"github.com/lixenwraith/termkit/fault"
	"github.com/lixenwraith/termkit/geom"
	"github.com/lixenwraith/termkit/layout"
	"github.com/lixenwraith/termkit/terminal"
	"github.com/lixenwraith/termkit/terminal/headless"
	"github.com/lixenwraith/termkit/view"
)

func TestStackBalanceShutsDownOnce(t *testing.T) {
	a, d, _ := newTestApp(t, 20, 5)
	shutdowns := 0
	a.OnShutdown.Subscribe(func(struct{}) { shutdowns++ })

	var states []*RunState
	for _, id := range []string{"one", "two", "three"} {
		rs, err := a.Begin(NewToplevel(view.WithID(id)))
		require.NoError(t, err)
		states = append(states, rs)
	}
	assert.Equal(t, 3, a.Depth())
	assert.Equal(t, "three", a.Top().ID())

	for i := len(states) - 1; i > 0; i-- {
		require.NoError(t, a.End(states[i]))
		assert.Equal(t, 0, shutdowns, "not before the final End")
	}
	require.NoError(t, a.End(states[0]))
	assert.Equal(t, 0, a.Depth())
	assert.Nil(t, a.Top())
	assert.Equal(t, 1, shutdowns)
	assert.Equal(t, 1, d.Shutdowns)
	assert.False(t, a.Initialized())

	a.Shutdown()
	assert.Equal(t, 1, shutdowns, "Shutdown after the final End is a no-op")
}

func TestLifecycleFaults(t *testing.T) {
	d := headless.New(10, 3)
	a, err := New(d)
	require.NoError(t, err)

	_, err = a.Begin(NewToplevel())
	assert.ErrorIs(t, err, fault.ErrNotInitialized)

	require.NoError(t, a.Init())
	_, err = a.Begin(nil)
	assert.ErrorIs(t, err, fault.ErrNilToplevel)
	assert.ErrorIs(t, a.End(nil), fault.ErrNilToplevel)

	bottom, err := a.Begin(NewToplevel(view.WithID("bottom")))
	require.NoError(t, err)
	top, err := a.Begin(NewToplevel(view.WithID("top")))
	require.NoError(t, err)

	_, err = a.Begin(bottom.Toplevel)
	assert.ErrorIs(t, err, fault.ErrInvalidArgument, "already running")

	err = a.End(bottom)
	assert.ErrorIs(t, err, fault.ErrUnbalancedEnd)
	var fe *fault.Error
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, fault.KindLifecycle, fe.Kind)
	assert.Equal(t, 2, a.Depth(), "failed End leaves the stack alone")

	require.NoError(t, a.End(top))
	assert.ErrorIs(t, a.End(top), fault.ErrAlreadyEnded)
	assert.ErrorIs(t, a.RunIteration(top, false), fault.ErrAlreadyEnded)
	require.NoError(t, a.End(bottom))

	_, err = New(nil)
	assert.ErrorIs(t, err, fault.ErrInvalidArgument)
}

func TestBeginLaysOutFocusesAndDraws(t *testing.T) {
	a, d, _ := newTestApp(t, 20, 4)
	top := NewToplevel(view.WithID("main"), view.WithText("title"))
	label := view.New(view.WithPos(layout.At(0), layout.At(1)), view.WithSize(layout.MustFill(0), layout.Sized(1)), view.WithText("label"))
	first := view.New(view.WithID("first"), view.WithFrame(geom.Rect{Y: 2, Width: 5, Height: 1}), view.Focusable(), view.WithText("one"))
	second := view.New(view.WithID("second"), view.WithFrame(geom.Rect{X: 6, Y: 2, Width: 5, Height: 1}), view.Focusable(), view.WithText("two"))
	require.NoError(t, top.Add(label, first, second))

	ready := 0
	top.Ready.Subscribe(func(*Toplevel) { ready++ })
	_, err := a.Begin(top)
	require.NoError(t, err)

	assert.Equal(t, geom.Rect{Width: 20, Height: 4}, top.Frame())
	assert.Equal(t, geom.Rect{Y: 1, Width: 20, Height: 1}, label.Frame())
	assert.Same(t, first, top.MostFocused())
	assert.Equal(t, "title\nlabel\none   two", d.Text())
	assert.Equal(t, 1, d.Updates)
	assert.Equal(t, 1, ready)
	assert.Same(t, a, top.Application())
	assert.Contains(t, a.Status().Snapshot(), "app.depth=1")
	assert.Contains(t, a.Status().Snapshot(), "app.top=main")
}

func TestToplevelCommandsFromDriverInput(t *testing.T) {
	a, d, _ := newTestApp(t, 20, 4)
	top := NewToplevel()
	first := view.New(view.WithID("first"), view.WithFrame(geom.Rect{Width: 5, Height: 1}), view.Focusable())
	second := view.New(view.WithID("second"), view.WithFrame(geom.Rect{Y: 1, Width: 5, Height: 1}), view.Focusable())
	require.NoError(t, top.Add(first, second))
	rs, err := a.Begin(top)
	require.NoError(t, err)

	d.PostKey(terminal.KeyTab)
	require.NoError(t, a.RunIteration(rs, false))
	assert.Same(t, second, top.MostFocused())

	d.PostKey(terminal.KeyBacktab)
	require.NoError(t, a.RunIteration(rs, false))
	assert.Same(t, first, top.MostFocused())

	refreshes := d.Refreshes
	d.PostKey(terminal.KeyCtrlL)
	require.NoError(t, a.RunIteration(rs, false))
	assert.Equal(t, refreshes+1, d.Refreshes)

	d.PostKey(terminal.KeyCtrlZ)
	require.NoError(t, a.RunIteration(rs, false))
	assert.Equal(t, 1, d.Suspends)

	require.True(t, top.Running())
	d.PostKey(terminal.KeyCtrlQ)
	require.NoError(t, a.RunLoop(rs, false))
	assert.False(t, top.Running())
	require.NoError(t, a.End(rs))
}

func TestKeymapFromConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Keys.Quit = "ctrl+x"
	cfg.Mouse = false
	a, d, _ := newTestApp(t, 10, 2, WithConfig(cfg))
	assert.False(t, d.Mouse())

	top := NewToplevel()
	_, err := a.Begin(top)
	require.NoError(t, err)

	assert.False(t, a.ProcessKey(terminal.KeyEvent{Key: terminal.KeyCtrlQ}))
	assert.True(t, top.Running())
	assert.True(t, a.ProcessKey(terminal.KeyEvent{Key: terminal.KeyCtrlX}))
	assert.False(t, top.Running())

	cfg.Keys.Quit = "hyper+q"
	_, err = New(d, WithConfig(cfg))
	assert.Error(t, err)
}

func TestResize(t *testing.T) {
	a, d, _ := newTestApp(t, 20, 4)
	top := NewToplevel(view.WithText("hello"))
	child := view.New(view.WithPos(layout.MustAnchorEnd(3), layout.At(0)), view.WithSize(layout.Sized(3), layout.Sized(1)), view.WithText("end"))
	require.NoError(t, top.Add(child))
	rs, err := a.Begin(top)
	require.NoError(t, err)

	var sizes []geom.Size
	a.Resized.Subscribe(func(s geom.Size) { sizes = append(sizes, s) })

	d.PostResize(30, 6)
	require.NoError(t, a.RunIteration(rs, false))
	assert.Equal(t, geom.Rect{Width: 30, Height: 6}, top.Frame())
	assert.Equal(t, 27, child.Frame().X)
	assert.Equal(t, "hello"+spaces(22)+"end", d.Row(0))

	updates := d.Updates
	d.PostResize(0, 0)
	require.NoError(t, a.RunIteration(rs, false))
	assert.Equal(t, geom.Size{}, a.Size())
	assert.Equal(t, updates, d.Updates, "nothing drawn without a drawable area")

	d.PostResize(9, 2)
	require.NoError(t, a.RunIteration(rs, false))
	assert.Equal(t, "hello end", d.Row(0))
	assert.Equal(t, []geom.Size{{Width: 30, Height: 6}, {}, {Width: 9, Height: 2}}, sizes)
	assert.Contains(t, a.Status().Snapshot(), "app.resizes=3")
}

func spaces(n int) string { return string(bytes.Repeat([]byte{' '}, n)) }

func TestEndRedrawsUncoveredArea(t *testing.T) {
	a, d, _ := newTestApp(t, 12, 3)
	bottom := NewToplevel(view.WithID("bottom"), view.WithText("bottom"))
	under := view.New(view.WithFrame(geom.Rect{Y: 1, Width: 12, Height: 1}), view.WithText("underneath"))
	require.NoError(t, bottom.Add(under))
	_, err := a.Begin(bottom)
	require.NoError(t, err)

	dialog := NewToplevel(view.WithID("dialog"), view.WithFrame(geom.Rect{X: 2, Y: 1, Width: 6, Height: 1}), view.WithText("dialog"))
	dialog.Modal = true
	rs, err := a.Begin(dialog)
	require.NoError(t, err)
	assert.Equal(t, "undialogth  ", d.Row(1))

	// Repainting the lower toplevel must not bury the dialog
	under.SetText("UNDERNEATH")
	require.NoError(t, a.RunIteration(rs, false))
	assert.Equal(t, "UNdialogTH  ", d.Row(1))

	require.NoError(t, a.End(rs))
	assert.Equal(t, "UNDERNEATH  ", d.Row(1))
	assert.Equal(t, "bottom", a.Top().ID())
}

func TestTimeoutsRunOnSimulatedTime(t *testing.T) {
	a, _, clock := newTestApp(t, 10, 2)
	rs, err := a.Begin(NewToplevel())
	require.NoError(t, err)

	fired := 0
	a.AddTimeout(100*time.Millisecond, func() bool {
		fired++
		return false
	})
	ticks := 0
	a.AddTimeout(100*time.Millisecond, func() bool {
		ticks++
		return true
	})

	for range 10 {
		clock.Advance(50 * time.Millisecond)
		require.NoError(t, a.RunIteration(rs, false))
	}
	assert.Equal(t, 1, fired)
	assert.Equal(t, 5, ticks)
	assert.Equal(t, 1, a.Loop().TimeoutCount())
}

func TestRunLoopStopsFromAnotherGoroutine(t *testing.T) {
	d := headless.New(10, 2)
	a, err := New(d)
	require.NoError(t, err)
	top := NewToplevel()

	iterations := 0
	a.Iteration.Subscribe(func(struct{}) { iterations++ })
	top.Ready.Subscribe(func(*Toplevel) {
		a.Go(func() {
			time.Sleep(10 * time.Millisecond)
			a.Invoke(top.RequestStop)
		})
	})

	require.NoError(t, a.Run(top))
	assert.False(t, top.Running())
	assert.Positive(t, iterations)
	assert.Equal(t, 1, d.Shutdowns)
}

func TestHandleCrashRestoresDriver(t *testing.T) {
	a, d, _ := newTestApp(t, 10, 2)
	var out bytes.Buffer
	a.crashOut = &out

	a.HandleCrash(nil)
	assert.Zero(t, d.Shutdowns)

	assert.PanicsWithValue(t, "boom", func() { a.HandleCrash("boom") })
	assert.Equal(t, 1, d.Shutdowns)
	assert.Contains(t, out.String(), "CRASH DETECTED: boom")
}

func TestBellServiceLifecycle(t *testing.T) {
	b := &fakeBell{}
	a, _, _ := newTestApp(t, 10, 2, WithBell(b))
	assert.True(t, b.started)

	a.Bell()
	assert.Equal(t, 1, b.rings)

	a.Shutdown()
	assert.True(t, b.stopped)

	a.Bell()
	assert.Equal(t, 1, b.rings, "a stopped bell service is not rung")

	require.NoError(t, a.Init())
	a.Bell()
	assert.Equal(t, 2, b.rings)
}

func TestPlainBellRingsDirectly(t *testing.T) {
	b := &plainBell{}
	a, _, _ := newTestApp(t, 10, 2, WithBell(b))
	assert.Equal(t, []string{"driver"}, a.hub.Names())

	a.Bell()
	a.Shutdown()
	a.Bell()
	assert.Equal(t, 2, b.rings)
}

func TestCursorFollowsFocusedView(t *testing.T) {
	a, d, _ := newTestApp(t, 10, 3)
	top := NewToplevel()
	field := view.New(view.WithFrame(geom.Rect{X: 2, Y: 1, Width: 5, Height: 1}), view.Focusable(), view.WithBehavior(cursorAt{col: 3}))
	plain := view.New(view.WithFrame(geom.Rect{Y: 2, Width: 5, Height: 1}), view.Focusable())
	require.NoError(t, top.Add(field, plain))
	_, err := a.Begin(top)
	require.NoError(t, err)

	assert.True(t, d.CursorVisible())
	assert.Equal(t, geom.Point{X: 5, Y: 1}, d.Cursor())

	a.ProcessKey(terminal.KeyEvent{Key: terminal.KeyTab})
	a.draw()
	assert.False(t, d.CursorVisible())
}

type cursorAt struct{ col int }

func (c cursorAt) CursorPosition(*view.View) (int, int, bool) { return c.col, 0, true }
