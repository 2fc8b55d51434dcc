package app

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/termkit/mainloop"
	"github.com/lixenwraith/termkit/terminal"
	"github.com/lixenwraith/termkit/terminal/headless"
	"github.com/lixenwraith/termkit/view"
)

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// newTestApp returns an initialized application on a headless screen with
// a manual clock
func newTestApp(t *testing.T, cols, rows int, opts ...Option) (*Application, *headless.Driver, *mainloop.ManualClock) {
	t.Helper()
	d := headless.New(cols, rows)
	clock := mainloop.NewManualClock(epoch)
	a, err := New(d, append([]Option{WithClock(clock)}, opts...)...)
	require.NoError(t, err)
	require.NoError(t, a.Init())
	return a, d, clock
}

// keyLog handles one key in each routing pass
type keyLog struct {
	id                string
	hot, normal, cold terminal.Key
	log               *[]string
}

func (k *keyLog) ProcessHotKey(_ *view.View, ev terminal.KeyEvent) bool {
	return k.match(ev, k.hot, "hot")
}

func (k *keyLog) ProcessKey(_ *view.View, ev terminal.KeyEvent) bool {
	return k.match(ev, k.normal, "normal")
}

func (k *keyLog) ProcessColdKey(_ *view.View, ev terminal.KeyEvent) bool {
	return k.match(ev, k.cold, "cold")
}

func (k *keyLog) match(ev terminal.KeyEvent, want terminal.Key, pass string) bool {
	if want == terminal.KeyNull || ev.Key != want {
		return false
	}
	*k.log = append(*k.log, pass+" "+k.id)
	return true
}

// mouseLog records pointer traffic
type mouseLog struct {
	log *[]string
}

func (m *mouseLog) MouseEvent(v *view.View, ev *view.MouseEvent) bool {
	*m.log = append(*m.log, fmt.Sprintf("mouse %s %d,%d", v.ID(), ev.X, ev.Y))
	return true
}

func (m *mouseLog) MouseEnter(v *view.View, _ view.MouseEvent) {
	*m.log = append(*m.log, "enter "+v.ID())
}

func (m *mouseLog) MouseLeave(v *view.View, _ view.MouseEvent) {
	*m.log = append(*m.log, "leave "+v.ID())
}

// plainBell is a bell without a service lifecycle
type plainBell struct{ rings int }

func (b *plainBell) Ring() { b.rings++ }

// fakeBell is a bell run as a service
type fakeBell struct {
	rings   int
	started bool
	stopped bool
}

func (b *fakeBell) Ring()                  { b.rings++ }
func (b *fakeBell) Name() string           { return "bell" }
func (b *fakeBell) Dependencies() []string { return []string{"driver"} }
func (b *fakeBell) Init(...any) error      { return nil }

func (b *fakeBell) Start() error {
	b.started = true
	return nil
}

func (b *fakeBell) Stop() error {
	b.stopped = true
	return nil
}
