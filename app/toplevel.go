package app

import (
	"slices"
	"sync/atomic"

	"github.com/lixenwraith/termkit/geom"
	"github.com/lixenwraith/termkit/layout"
	"github.com/lixenwraith/termkit/terminal"
	"github.com/lixenwraith/termkit/view"
)

// Toplevel is a root view that can be pushed on the application run stack
type Toplevel struct {
	*view.View

	// Modal stops key routing and hit testing at this toplevel
	Modal bool

	// MenuBar and StatusBar are optional one-row bars. Begin adds them as
	// children across the first and last rows, painted above the content,
	// and offers them hot keys before anything else in the toplevel.
	MenuBar   *view.View
	StatusBar *view.View

	Ready  view.Event[*Toplevel]
	Closed view.Event[*Toplevel]

	running atomic.Bool
	app     *Application
}

// NewToplevel creates a toplevel filling the terminal with the engine
// commands installed and bound to their default keys
func NewToplevel(opts ...view.Option) *Toplevel {
	base := []view.Option{
		view.WithPos(layout.At(0), layout.At(0)),
		view.WithSize(layout.MustFill(0), layout.MustFill(0)),
	}
	t := &Toplevel{View: view.New(append(base, opts...)...)}

	t.AddCommand(view.CmdQuit, func() bool {
		t.RequestStop()
		return true
	})
	t.AddCommand(view.CmdNextView, func() bool {
		t.FocusNext()
		return true
	})
	t.AddCommand(view.CmdPrevView, func() bool {
		t.FocusPrev()
		return true
	})
	t.AddCommand(view.CmdSuspend, func() bool {
		if t.app == nil {
			return false
		}
		if err := t.app.Suspend(); err != nil {
			t.app.logger.Warn("suspend failed", "error", err)
		}
		return true
	})
	t.AddCommand(view.CmdRefresh, func() bool {
		if t.app == nil {
			return false
		}
		t.app.Refresh()
		return true
	})

	for cmd, key := range defaultBindings {
		_ = t.AddKeyBinding(key, cmd)
	}
	return t
}

var defaultBindings = map[view.Command]terminal.Key{
	view.CmdQuit:     terminal.KeyCtrlQ,
	view.CmdNextView: terminal.KeyTab,
	view.CmdPrevView: terminal.KeyBacktab,
	view.CmdSuspend:  terminal.KeyCtrlZ,
	view.CmdRefresh:  terminal.KeyCtrlL,
}

// Running reports whether the toplevel's run loop should continue
func (t *Toplevel) Running() bool { return t.running.Load() }

// RequestStop ends the toplevel's run loop after the current iteration;
// safe from any goroutine
func (t *Toplevel) RequestStop() {
	t.running.Store(false)
	if a := t.app; a != nil && a.loop != nil {
		a.loop.Wake()
	}
}

// Application returns the controller running the toplevel, nil before Begin
func (t *Toplevel) Application() *Application { return t.app }

// rebind moves cmd to key, dropping the keys it was bound to before
func (t *Toplevel) rebind(cmd view.Command, key terminal.Key) error {
	for _, old := range t.KeysBoundTo(cmd) {
		t.ClearKeyBinding(old)
	}
	return t.AddKeyBinding(key, cmd)
}

// bars returns the menu and status bars attached to t
func (t *Toplevel) bars() []*view.View {
	var out []*view.View
	for _, b := range []*view.View{t.MenuBar, t.StatusBar} {
		if b != nil && b.Parent() == t.View {
			out = append(out, b)
		}
	}
	return out
}

// attachBars adopts the bars and lays them over the first and last rows
func (t *Toplevel) attachBars() error {
	place := func(bar *view.View, y layout.Pos) error {
		if bar == nil {
			return nil
		}
		if bar.Parent() != t.View {
			if err := t.Add(bar); err != nil {
				return err
			}
		}
		bar.SetX(layout.At(0))
		bar.SetY(y)
		bar.SetWidth(layout.MustFill(0))
		bar.SetHeight(layout.Sized(1))
		t.BringToFront(bar)
		return nil
	}
	if err := place(t.MenuBar, layout.At(0)); err != nil {
		return err
	}
	return place(t.StatusBar, layout.MustAnchorEnd(1))
}

// ContentFrame is the toplevel's bounds less the rows taken by visible bars
func (t *Toplevel) ContentFrame() geom.Rect {
	r := t.Bounds()
	if b := t.MenuBar; b != nil && b.Parent() == t.View && b.Visible() {
		r.Y++
		r.Height--
	}
	if b := t.StatusBar; b != nil && b.Parent() == t.View && b.Visible() {
		r.Height--
	}
	return geom.NewRect(r.X, r.Y, r.Width, r.Height)
}

// ProcessHotKey offers ev to the bars, then to the rest of the toplevel
func (t *Toplevel) ProcessHotKey(ev terminal.KeyEvent) bool {
	if !t.Visible() || !t.Enabled() {
		return false
	}
	bars := t.bars()
	for _, b := range bars {
		if b.ProcessHotKey(ev) {
			return true
		}
	}
	if h, ok := t.Behavior().(view.HotKeyRoutable); ok && h.ProcessHotKey(t.View, ev) {
		return true
	}
	for _, c := range t.Children() {
		if !slices.Contains(bars, c) && c.ProcessHotKey(ev) {
			return true
		}
	}
	return false
}

// RunState pairs a toplevel with its Begin; End consumes it
type RunState struct {
	Toplevel *Toplevel
	ended    bool
}

// Ended reports whether End has been called
func (rs *RunState) Ended() bool { return rs.ended }
