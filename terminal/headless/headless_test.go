package headless

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/termkit/geom"
	"github.com/lixenwraith/termkit/mainloop"
	"github.com/lixenwraith/termkit/terminal"
)

func TestCanvasClipsWrites(t *testing.T) {
	d := New(5, 2)
	d.SetClip(geom.Rect{X: 1, Y: 0, Width: 2, Height: 1})
	d.Move(0, 0)
	for _, r := range "abcd" {
		d.WriteCell(r, 0)
	}
	assert.Equal(t, " bc  ", d.Row(0))

	d.SetClip(geom.Rect{X: -3, Y: -3, Width: 100, Height: 100})
	assert.Equal(t, geom.Rect{Width: 5, Height: 2}, d.Clip())
	assert.Equal(t, Cell{}, d.CellAt(9, 9))
}

func TestEventsDeliveredOnIterate(t *testing.T) {
	d := New(10, 4)
	loop := mainloop.New(d)

	var keys []terminal.Key
	var mice []terminal.MouseEvent
	var states []string
	d.PrepareToRun(loop, terminal.Handlers{
		OnKey:     func(ev terminal.KeyEvent) { keys = append(keys, ev.Key) },
		OnKeyDown: func(terminal.KeyEvent) { states = append(states, "down") },
		OnKeyUp:   func(terminal.KeyEvent) { states = append(states, "up") },
		OnMouse:   func(ev terminal.MouseEvent) { mice = append(mice, ev) },
	})
	var sizes []geom.Size
	require.NoError(t, d.Init(func(cols, rows int) { sizes = append(sizes, geom.Size{Width: cols, Height: rows}) }))

	d.PostString("hi")
	d.PostKeyState('x', true)
	d.PostKeyState('x', false)
	d.PostMouse(3, 1, terminal.Button1Clicked)
	d.PostResize(20, 6)
	assert.Empty(t, keys, "nothing delivered before the loop iterates")

	assert.True(t, loop.EventsPending(true))
	loop.Iterate()

	assert.Equal(t, []terminal.Key{'h', 'i'}, keys)
	assert.Equal(t, []string{"down", "up"}, states)
	assert.Equal(t, []terminal.MouseEvent{{X: 3, Y: 1, Flags: terminal.Button1Clicked}}, mice)
	assert.Equal(t, []geom.Size{{Width: 20, Height: 6}}, sizes)
	assert.Equal(t, geom.Size{Width: 20, Height: 6}, d.Size())
	assert.False(t, loop.EventsPending(false))
}

func TestWaitWakesOnPost(t *testing.T) {
	d := New(1, 1)
	mainloop.New(d)

	go func() {
		time.Sleep(10 * time.Millisecond)
		d.PostKey(terminal.KeyEnter)
	}()
	assert.True(t, d.Wait(-1))
	assert.False(t, New(1, 1).Wait(5*time.Millisecond))
}

func TestTextTrimsRows(t *testing.T) {
	d := New(4, 2)
	d.Move(0, 1)
	d.WriteCell('z', 0)
	assert.Equal(t, "\nz", d.Text())
}
