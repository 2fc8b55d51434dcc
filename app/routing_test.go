package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/termkit/geom"
	"github.com/lixenwraith/termkit/terminal"
	"github.com/lixenwraith/termkit/view"
)

func key(k terminal.Key) terminal.KeyEvent { return terminal.KeyEvent{Key: k} }

func TestKeyPassesAndModalStop(t *testing.T) {
	a, _, _ := newTestApp(t, 20, 5)
	var log []string

	bottom := NewToplevel(view.WithID("bottom"))
	accel := view.New(view.WithID("accel"), view.WithBehavior(&keyLog{id: "accel", hot: 'h', cold: 'c', log: &log}))
	require.NoError(t, bottom.Add(accel))
	_, err := a.Begin(bottom)
	require.NoError(t, err)

	top := NewToplevel(view.WithID("top"))
	group := view.New(view.WithID("group"), view.WithBehavior(&keyLog{id: "group", normal: 'g', log: &log}))
	leaf := view.New(view.WithID("leaf"), view.Focusable(), view.WithBehavior(&keyLog{id: "leaf", normal: 'n', cold: 'c', log: &log}))
	require.NoError(t, group.Add(leaf))
	require.NoError(t, top.Add(group))
	_, err = a.Begin(top)
	require.NoError(t, err)
	require.Same(t, leaf, top.MostFocused())

	assert.True(t, a.ProcessKey(key('h')), "hot keys reach covered toplevels")
	assert.True(t, a.ProcessKey(key('n')))
	assert.True(t, a.ProcessKey(key('g')), "unhandled by the leaf, bubbles to its container")
	assert.True(t, a.ProcessKey(key('c')), "cold pass runs top first")
	assert.False(t, a.ProcessKey(key('z')))
	assert.Equal(t, []string{"hot accel", "normal leaf", "normal group", "cold leaf"}, log)

	log = nil
	top.Modal = true
	assert.False(t, a.ProcessKey(key('h')), "a modal toplevel hides the ones below")
	assert.True(t, a.ProcessKey(key('c')))
	assert.Equal(t, []string{"cold leaf"}, log)
	assert.Contains(t, a.Status().Snapshot(), "app.keys=7")
}

func TestHotPassPrecedesFocus(t *testing.T) {
	a, _, _ := newTestApp(t, 20, 5)
	var log []string
	top := NewToplevel()
	leaf := view.New(view.WithID("leaf"), view.Focusable(), view.WithBehavior(&keyLog{id: "leaf", normal: 'x', log: &log}))
	accel := view.New(view.WithID("accel"), view.WithBehavior(&keyLog{id: "accel", hot: 'x', log: &log}))
	require.NoError(t, top.Add(leaf, accel))
	_, err := a.Begin(top)
	require.NoError(t, err)

	assert.True(t, a.ProcessKey(key('x')))
	assert.Equal(t, []string{"hot accel"}, log)
}

func TestKeyStateFollowsFocus(t *testing.T) {
	a, d, _ := newTestApp(t, 10, 2)
	top := NewToplevel()
	ks := &keyStates{}
	leaf := view.New(view.Focusable(), view.WithBehavior(ks))
	require.NoError(t, top.Add(leaf))
	rs, err := a.Begin(top)
	require.NoError(t, err)

	d.PostKeyState('a', true)
	d.PostKeyState('a', false)
	require.NoError(t, a.RunIteration(rs, false))
	assert.Equal(t, []string{"down a", "up a"}, ks.log)
}

type keyStates struct{ log []string }

func (k *keyStates) KeyDown(_ *view.View, ev terminal.KeyEvent) bool {
	k.log = append(k.log, "down "+ev.String())
	return true
}

func (k *keyStates) KeyUp(_ *view.View, ev terminal.KeyEvent) bool {
	k.log = append(k.log, "up "+ev.String())
	return true
}

// pointerScene lays out two tracked views side by side on a 20x5 screen
func pointerScene(t *testing.T) (*Application, *Toplevel, *view.View, *view.View, *[]string) {
	t.Helper()
	a, _, _ := newTestApp(t, 20, 5)
	log := &[]string{}
	top := NewToplevel(view.WithID("top"))
	left := view.New(view.WithID("left"), view.WithFrame(geom.Rect{X: 0, Y: 0, Width: 5, Height: 2}), view.WithBehavior(&mouseLog{log: log}))
	right := view.New(view.WithID("right"), view.WithFrame(geom.Rect{X: 10, Y: 0, Width: 5, Height: 2}), view.WithBehavior(&mouseLog{log: log}))
	require.NoError(t, top.Add(left, right))
	_, err := a.Begin(top)
	require.NoError(t, err)
	return a, top, left, right, log
}

func mouse(x, y int, flags terminal.MouseFlags) terminal.MouseEvent {
	return terminal.MouseEvent{X: x, Y: y, Flags: flags}
}

func TestMouseEnterLeaveAndDelivery(t *testing.T) {
	a, top, left, right, log := pointerScene(t)

	assert.False(t, a.ProcessMouse(mouse(1, 0, terminal.ReportMousePosition)), "position reports need opt-in")
	assert.Same(t, left, a.EnteredView())
	assert.True(t, a.ProcessMouse(mouse(12, 1, terminal.Button1Clicked)))
	a.ProcessMouse(mouse(7, 4, terminal.ReportMousePosition))
	assert.Same(t, top.View, a.EnteredView())

	right.SetWantMousePosition(true)
	a.ProcessMouse(mouse(11, 0, terminal.ReportMousePosition))

	assert.Equal(t, []string{
		"enter left",
		"leave left", "enter right", "mouse right 2,1",
		"leave right",
		"enter right", "mouse right 1,0",
	}, *log)

	a.ProcessMouse(mouse(50, 50, terminal.ReportMousePosition))
	assert.Nil(t, a.EnteredView(), "off screen leaves everything")
}

func TestModifiedMotionNeedsOptIn(t *testing.T) {
	a, _, left, _, log := pointerScene(t)

	for _, mod := range []terminal.MouseFlags{terminal.ButtonShift, terminal.ButtonCtrl, terminal.ButtonAlt, terminal.ModifierFlags} {
		assert.False(t, a.ProcessMouse(mouse(1, 0, terminal.ReportMousePosition|mod)), "modifier %v", mod)
	}
	assert.Equal(t, []string{"enter left"}, *log)

	left.SetWantMousePosition(true)
	assert.True(t, a.ProcessMouse(mouse(2, 1, terminal.ReportMousePosition|terminal.ButtonShift)))
	assert.Equal(t, []string{"enter left", "mouse left 2,1"}, *log)

	assert.True(t, a.ProcessMouse(mouse(3, 0, terminal.Button1Clicked|terminal.ButtonCtrl)), "modified clicks are delivered")
}

func TestMouseGrabPrecedence(t *testing.T) {
	a, _, left, _, log := pointerScene(t)

	a.GrabMouse(left)
	assert.Same(t, left, a.MouseGrabView())

	assert.True(t, a.ProcessMouse(mouse(12, 1, terminal.Button1Pressed)))
	a.ProcessMouse(mouse(2, 1, terminal.ReportMousePosition))
	a.ProcessMouse(mouse(13, 0, terminal.Button1Released))

	a.UngrabMouse()
	assert.Nil(t, a.MouseGrabView())
	a.ProcessMouse(mouse(13, 0, terminal.Button1Clicked))

	assert.Equal(t, []string{
		"mouse left 12,1",
		"enter left", "mouse left 2,1",
		"leave left", "mouse left 13,0",
		"enter right", "mouse right 3,0",
	}, *log)
}

func TestModalToplevelBlocksHitTest(t *testing.T) {
	a, _, _, _, log := pointerScene(t)
	dialog := NewToplevel(view.WithID("dialog"), view.WithFrame(geom.Rect{X: 5, Y: 2, Width: 10, Height: 2}))
	dialog.Modal = true
	_, err := a.Begin(dialog)
	require.NoError(t, err)

	assert.False(t, a.ProcessMouse(mouse(1, 0, terminal.Button1Clicked)))
	assert.Nil(t, a.EnteredView())
	a.ProcessMouse(mouse(6, 3, terminal.ReportMousePosition))
	assert.Same(t, dialog.View, a.EnteredView())

	dialog.Modal = false
	assert.True(t, a.ProcessMouse(mouse(1, 0, terminal.Button1Clicked)))
	assert.Equal(t, []string{"enter left", "mouse left 1,0"}, *log)
}

func TestReleaseClearsPointerState(t *testing.T) {
	a, top, left, right, _ := pointerScene(t)

	a.ProcessMouse(mouse(1, 0, terminal.ReportMousePosition))
	a.GrabMouse(left)
	top.Remove(left)
	assert.Nil(t, a.MouseGrabView())
	assert.Nil(t, a.EnteredView())

	a.ProcessMouse(mouse(11, 0, terminal.ReportMousePosition))
	require.Same(t, right, a.EnteredView())
	right.SetVisible(false)
	assert.Nil(t, a.EnteredView())

	right.SetVisible(true)
	right.SetWantContinuousPress(true)
	a.ProcessMouse(mouse(11, 0, terminal.Button1Pressed))
	assert.Same(t, right, a.ContinuousPressView())
	right.SetEnabled(false)
	assert.Nil(t, a.ContinuousPressView())
}

func TestContinuousPressTracking(t *testing.T) {
	a, _, _, right, _ := pointerScene(t)
	right.SetWantContinuousPress(true)

	a.ProcessMouse(mouse(1, 0, terminal.Button1Pressed))
	assert.Nil(t, a.ContinuousPressView(), "only views asking for it")

	a.ProcessMouse(mouse(11, 0, terminal.Button1Pressed))
	assert.Same(t, right, a.ContinuousPressView())
	a.ProcessMouse(mouse(11, 0, terminal.Button1Released))
	assert.Nil(t, a.ContinuousPressView())
}

func TestClickFocusesView(t *testing.T) {
	a, _, _ := newTestApp(t, 20, 5)
	top := NewToplevel()
	first := view.New(view.WithFrame(geom.Rect{Width: 5, Height: 1}), view.Focusable())
	second := view.New(view.WithFrame(geom.Rect{Y: 2, Width: 5, Height: 1}), view.Focusable())
	require.NoError(t, top.Add(first, second))
	_, err := a.Begin(top)
	require.NoError(t, err)
	require.Same(t, first, top.MostFocused())

	assert.True(t, a.ProcessMouse(mouse(3, 2, terminal.Button1Clicked)))
	assert.Same(t, second, top.MostFocused())
}
