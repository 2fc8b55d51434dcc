// Package app is the application controller: it owns the scheduler and the
// run stack of toplevels, and routes driver input into the view tree.
package app

import (
	"errors"
	"io"
	"log/slog"
	"maps"
	"os"
	"slices"
	"sync/atomic"
	"time"

	"github.com/lixenwraith/termkit/fault"
	"github.com/lixenwraith/termkit/geom"
	"github.com/lixenwraith/termkit/logging"
	"github.com/lixenwraith/termkit/mainloop"
	"github.com/lixenwraith/termkit/service"
	"github.com/lixenwraith/termkit/status"
	"github.com/lixenwraith/termkit/terminal"
	"github.com/lixenwraith/termkit/view"
)

// Bell makes the terminal's audible signal
type Bell interface {
	Ring()
}

// Application drives one terminal
// All methods except RequestStop, Invoke, AddTimeout and AddIdle must be
// called on the loop goroutine
type Application struct {
	driver terminal.Driver
	logger *slog.Logger
	reg    *status.Registry
	clock  mainloop.Clock
	bell   Bell
	keymap map[view.Command]terminal.Key
	mouse  bool

	loop        *mainloop.Loop
	hub         *service.Hub
	initialized bool

	stack []*Toplevel // Bottom to top
	size  geom.Size

	// Single-holder pointer state, cleared through Release
	grab       *view.View
	entered    *view.View
	continuous *view.View

	cursor        geom.Point
	cursorVisible bool

	crashOut io.Writer

	OnShutdown    view.Event[struct{}]
	Resized       view.Event[geom.Size]
	RunStateBegun view.Event[*RunState]
	RunStateEnded view.Event[*RunState]
	Iteration     view.Event[struct{}]

	// Cached metric pointers
	keys    *atomic.Int64
	mice    *atomic.Int64
	redraws *atomic.Int64
	resizes *atomic.Int64
	depth   *atomic.Int64
	drawMs  *status.AtomicFloat
	top     *status.AtomicString
	running *atomic.Bool
}

var _ view.Host = (*Application)(nil)

// New creates a controller for driver; Init must be called before Begin
func New(driver terminal.Driver, opts ...Option) (*Application, error) {
	if driver == nil {
		return nil, fault.Invalid("app.New", "nil driver")
	}
	a := &Application{
		driver:   driver,
		logger:   logging.Discard(),
		mouse:    true,
		crashOut: os.Stderr,
	}
	for _, opt := range opts {
		if err := opt(a); err != nil {
			return nil, err
		}
	}
	if a.reg == nil {
		a.reg = status.NewRegistry()
	}

	a.keys = a.reg.Ints.Get("app.keys")
	a.mice = a.reg.Ints.Get("app.mouse")
	a.redraws = a.reg.Ints.Get("app.redraws")
	a.resizes = a.reg.Ints.Get("app.resizes")
	a.depth = a.reg.Ints.Get("app.depth")
	a.drawMs = a.reg.Floats.Get("app.draw_ms")
	a.top = a.reg.Strings.Get("app.top")
	a.running = a.reg.Bools.Get("app.running")
	return a, nil
}

// Init builds the scheduler and starts the driver and bell services
func (a *Application) Init() error {
	if a.initialized {
		return nil
	}

	opts := []mainloop.Option{mainloop.WithLogger(a.logger), mainloop.WithStatus(a.reg)}
	if a.clock != nil {
		opts = append(opts, mainloop.WithClock(a.clock))
	}
	a.loop = mainloop.New(a.driver, opts...)

	a.hub = service.NewHub()
	if err := a.hub.Register(&driverService{app: a}); err != nil {
		return err
	}
	if svc, ok := a.bell.(service.Service); ok {
		if err := a.hub.Register(svc); err != nil {
			return err
		}
	}
	if err := a.hub.InitAll(a.logger); err != nil {
		return err
	}
	if err := a.hub.StartAll(); err != nil {
		return err
	}

	a.size = a.driver.Size()
	a.cursorVisible = a.driver.CursorVisible()
	a.initialized = true
	a.logger.Info("application initialized", "cols", a.size.Width, "rows", a.size.Height, "services", a.hub.Names())
	return nil
}

// Shutdown stops the services and restores the terminal. OnShutdown fires
// once per Init.
func (a *Application) Shutdown() {
	if !a.initialized {
		return
	}
	a.initialized = false
	a.grab, a.entered, a.continuous = nil, nil, nil

	if err := a.hub.StopAll(); err != nil {
		a.logger.Error("service shutdown failed", "error", err)
	}
	a.logger.Info("application shut down")
	a.OnShutdown.Emit(struct{}{})
}

// Initialized reports whether Init has run without a matching Shutdown
func (a *Application) Initialized() bool { return a.initialized }

// Begin pushes t on the run stack, attaches its bars, lays it out against
// the terminal, focuses its first focusable view and draws it
func (a *Application) Begin(t *Toplevel) (*RunState, error) {
	const op = "app.Begin"
	if t == nil {
		return nil, fault.Lifecycle(op, fault.ErrNilToplevel, "")
	}
	if !a.initialized {
		return nil, fault.Lifecycle(op, fault.ErrNotInitialized, "Init not called")
	}
	if slices.Contains(a.stack, t) {
		return nil, fault.Invalid(op, "%s is already running", t)
	}
	if t.Parent() != nil {
		return nil, fault.Invalid(op, "%s is a subview of %s", t, t.Parent())
	}

	if err := t.attachBars(); err != nil {
		return nil, err
	}
	if err := t.Relayout(a.size); err != nil {
		return nil, err
	}
	for _, cmd := range slices.Sorted(maps.Keys(a.keymap)) {
		if err := t.rebind(cmd, a.keymap[cmd]); err != nil {
			a.logger.Warn("keymap entry ignored", "command", cmd, "error", err)
		}
	}

	t.app = a
	t.running.Store(true)
	t.SetHost(a)
	a.stack = append(a.stack, t)
	a.stackChanged()

	if t.Focused() == nil {
		t.FocusFirst()
	}
	t.MarkAllDamaged()
	a.draw()

	rs := &RunState{Toplevel: t}
	a.logger.Debug("run state begun", "toplevel", t.String(), "depth", len(a.stack))
	t.Ready.Emit(t)
	a.RunStateBegun.Emit(rs)
	return rs, nil
}

// RunIteration runs one scheduler iteration then brings layout and screen up
// to date; with wait set it blocks until there is work
func (a *Application) RunIteration(rs *RunState, wait bool) error {
	if err := a.checkState("app.RunIteration", rs); err != nil {
		return err
	}
	if a.loop.EventsPending(wait) {
		a.loop.Iterate()
	}
	if err := a.layoutPending(); err != nil {
		return err
	}
	a.draw()
	a.Iteration.Emit(struct{}{})
	return nil
}

// RunLoop iterates until the toplevel is stopped
func (a *Application) RunLoop(rs *RunState, wait bool) error {
	if err := a.checkState("app.RunLoop", rs); err != nil {
		return err
	}
	a.running.Store(true)
	defer a.running.Store(false)

	for rs.Toplevel.Running() {
		if err := a.RunIteration(rs, wait); err != nil {
			return err
		}
	}
	return nil
}

// End pops the toplevel of rs, which must be the top of the stack. The last
// End shuts the application down; otherwise the uncovered toplevel regains
// focus and is redrawn.
func (a *Application) End(rs *RunState) error {
	const op = "app.End"
	if rs == nil || rs.Toplevel == nil {
		return fault.Lifecycle(op, fault.ErrNilToplevel, "")
	}
	if rs.ended {
		return fault.Lifecycle(op, fault.ErrAlreadyEnded, "%s", rs.Toplevel)
	}
	t := rs.Toplevel
	if top := a.Top(); top != t {
		return fault.Lifecycle(op, fault.ErrUnbalancedEnd, "%s is not the top of the stack (top is %v)", t, top)
	}

	rs.ended = true
	t.running.Store(false)
	a.Release(t.View)
	a.stack = a.stack[:len(a.stack)-1]
	a.stackChanged()
	t.SetHost(nil)

	a.logger.Debug("run state ended", "toplevel", t.String(), "depth", len(a.stack))
	t.Closed.Emit(t)
	a.RunStateEnded.Emit(rs)

	if len(a.stack) == 0 {
		a.Shutdown()
		return nil
	}

	uncovered := t.ScreenFrame()
	for _, below := range a.stack {
		f := below.Frame()
		if r := uncovered.Intersect(f); !r.Empty() {
			below.MarkDamaged(r.Offset(-f.X, -f.Y))
		}
	}
	if top := a.Top(); top.Focused() == nil {
		top.FocusFirst()
	}
	a.draw()
	return nil
}

// Run is Begin, RunLoop and End, initializing the application if needed.
// A panic on the loop goroutine restores the terminal before propagating.
func (a *Application) Run(t *Toplevel) error {
	defer func() { a.HandleCrash(recover()) }()

	if err := a.Init(); err != nil {
		return err
	}
	rs, err := a.Begin(t)
	if err != nil {
		return err
	}
	runErr := a.RunLoop(rs, true)
	return errors.Join(runErr, a.End(rs))
}

// RequestStop stops the topmost toplevel
func (a *Application) RequestStop() {
	if t := a.Top(); t != nil {
		t.RequestStop()
	}
}

func (a *Application) checkState(op string, rs *RunState) error {
	if rs == nil || rs.Toplevel == nil {
		return fault.Lifecycle(op, fault.ErrNilToplevel, "")
	}
	if rs.ended {
		return fault.Lifecycle(op, fault.ErrAlreadyEnded, "%s", rs.Toplevel)
	}
	if !a.initialized {
		return fault.Lifecycle(op, fault.ErrNotInitialized, "")
	}
	return nil
}

func (a *Application) stackChanged() {
	a.depth.Store(int64(len(a.stack)))
	if t := a.Top(); t != nil {
		a.top.Store(t.String())
	} else {
		a.top.Store("")
	}
}

// Depth returns the run stack depth
func (a *Application) Depth() int { return len(a.stack) }

// Top returns the topmost toplevel, nil when nothing is running
func (a *Application) Top() *Toplevel {
	if len(a.stack) == 0 {
		return nil
	}
	return a.stack[len(a.stack)-1]
}

// Toplevels returns the run stack, bottom first
func (a *Application) Toplevels() []*Toplevel { return slices.Clone(a.stack) }

// Size returns the terminal extent
func (a *Application) Size() geom.Size { return a.size }

func (a *Application) Driver() terminal.Driver { return a.driver }

func (a *Application) Logger() *slog.Logger { return a.logger }

// Status returns the metrics registry
func (a *Application) Status() *status.Registry { return a.reg }

// Loop returns the scheduler, nil before Init
func (a *Application) Loop() *mainloop.Loop { return a.loop }

// AddTimeout schedules cb on the loop; safe from any goroutine after Init
func (a *Application) AddTimeout(period time.Duration, cb func() bool) *mainloop.Timeout {
	return a.loop.AddTimeout(period, cb)
}

// AddIdle queues cb on the loop; safe from any goroutine after Init
func (a *Application) AddIdle(cb func() bool) *mainloop.Idle {
	return a.loop.AddIdle(cb)
}

// Invoke runs fn once on the loop goroutine; safe from any goroutine after Init
func (a *Application) Invoke(fn func()) {
	a.loop.Invoke(fn)
}

// Bell rings the audible bell if one is configured. A bell run as a service
// is reached through the hub, so it stays silent outside Init and Shutdown.
func (a *Application) Bell() {
	svc, managed := a.bell.(service.Service)
	if !managed {
		if a.bell != nil {
			a.bell.Ring()
		}
		return
	}
	if !a.initialized {
		return
	}
	if b, ok := service.Lookup[Bell](a.hub, svc.Name()); ok {
		b.Ring()
	}
}

// Suspend hands the terminal back to the shell, then repaints everything
func (a *Application) Suspend() error {
	if err := a.driver.Suspend(); err != nil {
		return err
	}
	a.Refresh()
	return nil
}

// Refresh repaints the whole stack and the physical screen
func (a *Application) Refresh() {
	a.driver.Refresh()
	for _, t := range a.stack {
		t.MarkAllDamaged()
	}
	a.draw()
}

// Resize relays out every toplevel against the new extent and redraws the
// stack. A zero extent leaves nothing to draw until the next resize.
func (a *Application) Resize(cols, rows int) {
	a.size = geom.Size{Width: max(cols, 0), Height: max(rows, 0)}
	a.resizes.Add(1)
	a.logger.Debug("terminal resized", "cols", a.size.Width, "rows", a.size.Height)
	a.Resized.Emit(a.size)

	if a.size.Width == 0 || a.size.Height == 0 {
		return
	}
	for _, t := range a.stack {
		if err := t.Relayout(a.size); err != nil {
			a.logger.Error("layout failed", "toplevel", t.String(), "error", err)
		}
		t.MarkAllDamaged()
	}
	a.draw()
}

// layoutPending relays out toplevels whose tree changed since the last pass
func (a *Application) layoutPending() error {
	if a.size.Width == 0 || a.size.Height == 0 {
		return nil
	}
	for _, t := range a.stack {
		if t.NeedsLayout() {
			if err := t.Relayout(a.size); err != nil {
				return err
			}
		}
	}
	return nil
}
