// Package tcelldrv is the terminal driver backed by tcell.
//
// A polling goroutine reads tcell events into a buffered channel; the
// scheduler's Wait blocks on that channel and Iterate converts and delivers
// the events on the loop goroutine.
package tcelldrv

import (
	"log/slog"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/termkit/geom"
	"github.com/lixenwraith/termkit/logging"
	"github.com/lixenwraith/termkit/mainloop"
	"github.com/lixenwraith/termkit/terminal"
)

const (
	eventBuffer        = 256
	defaultDoubleClick = 400 * time.Millisecond
)

// Driver implements terminal.Driver on a tcell.Screen
type Driver struct {
	screen tcell.Screen
	logger *slog.Logger
	clock  mainloop.Clock

	events   chan tcell.Event
	quit     chan struct{}
	stopOnce sync.Once
	pending  []tcell.Event

	loop     *mainloop.Loop
	handlers terminal.Handlers
	onResize func(cols, rows int)

	size     geom.Size
	clip     geom.Rect
	col, row int
	fullSync bool

	attrs  terminal.AttributeTable
	styles map[terminal.Attribute]tcell.Style

	cursor        geom.Point
	cursorVisible bool

	mouse *mouseState
}

var _ terminal.Driver = (*Driver)(nil)

// Option configures a Driver
type Option func(*Driver)

// WithLogger sets the logger
func WithLogger(logger *slog.Logger) Option {
	return func(d *Driver) { d.logger = logging.OrDiscard(logger) }
}

// WithClock replaces the clock used for double-click timing
func WithClock(c mainloop.Clock) Option {
	return func(d *Driver) { d.clock = c }
}

// WithDoubleClick sets the longest gap between the clicks of a double click
func WithDoubleClick(gap time.Duration) Option {
	return func(d *Driver) { d.mouse.doubleClick = gap }
}

// New creates a driver on the process terminal; the screen is opened by Init
func New(opts ...Option) *Driver {
	return NewWithScreen(nil, opts...)
}

// NewWithScreen creates a driver on an existing screen, e.g. a
// tcell.SimulationScreen. A nil screen means the process terminal.
func NewWithScreen(s tcell.Screen, opts ...Option) *Driver {
	d := &Driver{
		screen: s,
		logger: logging.Discard(),
		events: make(chan tcell.Event, eventBuffer),
		quit:   make(chan struct{}),
		styles: make(map[terminal.Attribute]tcell.Style),
		mouse:  &mouseState{doubleClick: defaultDoubleClick},
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.clock == nil {
		d.clock = systemClock{}
	}
	return d
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// Screen exposes the underlying tcell screen
func (d *Driver) Screen() tcell.Screen { return d.screen }

// Init opens the screen and starts the polling goroutine
func (d *Driver) Init(onResize func(cols, rows int)) error {
	if d.screen == nil {
		s, err := tcell.NewScreen()
		if err != nil {
			return err
		}
		d.screen = s
	}
	if err := d.screen.Init(); err != nil {
		return err
	}
	d.onResize = onResize

	d.screen.SetStyle(tcell.StyleDefault)
	d.screen.HideCursor()
	d.screen.Clear()

	w, h := d.screen.Size()
	d.setSize(w, h)
	d.logger.Info("tcell driver initialized", "cols", w, "rows", h)

	go d.poll()
	return nil
}

// poll feeds screen events to the loop until Shutdown
func (d *Driver) poll() {
	for {
		ev := d.screen.PollEvent()
		if ev == nil {
			return
		}
		select {
		case d.events <- ev:
		case <-d.quit:
			return
		}
		if d.loop != nil {
			d.loop.Wake()
		}
	}
}

func (d *Driver) setSize(w, h int) {
	d.size = geom.Size{Width: max(w, 0), Height: max(h, 0)}
	d.clip = geom.FromSize(d.size)
}

// --- Pump ---

func (d *Driver) Setup(l *mainloop.Loop) { d.loop = l }

// Wait blocks until an event arrives, the loop is woken, or timeout elapses
func (d *Driver) Wait(timeout time.Duration) bool {
	if len(d.pending) > 0 {
		return true
	}
	if timeout == 0 {
		select {
		case ev := <-d.events:
			d.pending = append(d.pending, ev)
		default:
		}
		return len(d.pending) > 0
	}

	var wake <-chan struct{}
	if d.loop != nil {
		wake = d.loop.WakeChan()
	}
	var expired <-chan time.Time
	if timeout > 0 {
		timer := time.NewTimer(timeout)
		defer timer.Stop()
		expired = timer.C
	}

	select {
	case ev := <-d.events:
		d.pending = append(d.pending, ev)
	case <-wake:
	case <-expired:
	}
	return len(d.pending) > 0
}

// Iterate delivers every buffered event
func (d *Driver) Iterate() {
drain:
	for {
		select {
		case ev := <-d.events:
			d.pending = append(d.pending, ev)
		default:
			break drain
		}
	}

	batch := d.pending
	d.pending = nil
	for _, ev := range batch {
		d.dispatch(ev)
	}
}

// dispatch converts one tcell event and hands it to the bound handler
func (d *Driver) dispatch(ev tcell.Event) {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		k, ok := mapKey(ev)
		if !ok {
			d.logger.Debug("unmapped key", "key", ev.Name())
			return
		}
		if d.handlers.OnKey != nil {
			d.handlers.OnKey(terminal.KeyEvent{Key: k})
		}
	case *tcell.EventMouse:
		me := d.mouse.translate(ev, d.clock.Now())
		if d.handlers.OnMouse != nil {
			d.handlers.OnMouse(me)
		}
	case *tcell.EventResize:
		w, h := ev.Size()
		d.setSize(w, h)
		d.fullSync = true
		if d.onResize != nil {
			d.onResize(d.size.Width, d.size.Height)
		}
	}
}

func (d *Driver) PrepareToRun(loop *mainloop.Loop, h terminal.Handlers) {
	d.loop = loop
	d.handlers = h
}

// --- Canvas ---

func (d *Driver) Size() geom.Size { return d.size }

func (d *Driver) Move(col, row int) { d.col, d.row = col, row }

func (d *Driver) WriteCell(r rune, attr terminal.Attribute) {
	if d.clip.Contains(d.col, d.row) {
		d.screen.SetContent(d.col, d.row, r, nil, d.style(attr))
	}
	d.col++
}

func (d *Driver) Clip() geom.Rect { return d.clip }

func (d *Driver) SetClip(r geom.Rect) { d.clip = r.Intersect(geom.FromSize(d.size)) }

// --- Output ---

// Refresh makes the next UpdateScreen repaint every cell
func (d *Driver) Refresh() { d.fullSync = true }

func (d *Driver) UpdateScreen() {
	if d.fullSync {
		d.fullSync = false
		d.screen.Sync()
		return
	}
	d.screen.Show()
}

// Suspend releases the terminal, stops the process until it is continued,
// then takes the terminal back
func (d *Driver) Suspend() error {
	if err := d.screen.Suspend(); err != nil {
		return err
	}
	if err := suspendProcess(); err != nil {
		d.logger.Warn("suspend signal failed", "error", err)
	}
	if err := d.screen.Resume(); err != nil {
		return err
	}
	d.fullSync = true
	return nil
}

// Shutdown restores the terminal; safe to call more than once
func (d *Driver) Shutdown() {
	d.stopOnce.Do(func() {
		close(d.quit)
		if d.screen != nil {
			d.screen.Fini()
		}
		d.logger.Info("tcell driver shut down")
	})
}

func (d *Driver) CursorVisible() bool { return d.cursorVisible }

func (d *Driver) SetCursorVisible(visible bool) {
	d.cursorVisible = visible
	if visible {
		d.screen.ShowCursor(d.cursor.X, d.cursor.Y)
	} else {
		d.screen.HideCursor()
	}
}

func (d *Driver) SetCursor(col, row int) {
	d.cursor = geom.Point{X: col, Y: row}
	if d.cursorVisible {
		d.screen.ShowCursor(col, row)
	}
}

func (d *Driver) SetMouse(enabled bool) {
	if enabled {
		d.screen.EnableMouse(tcell.MouseMotionEvents)
	} else {
		d.screen.DisableMouse()
	}
}

// MakeAttribute allocates a handle for the pair
func (d *Driver) MakeAttribute(p terminal.ColorPair) terminal.Attribute {
	return d.attrs.MakeAttribute(p)
}

// style resolves an attribute handle, caching the tcell style
func (d *Driver) style(a terminal.Attribute) tcell.Style {
	if st, ok := d.styles[a]; ok {
		return st
	}
	st := toStyle(d.attrs.Pair(a))
	d.styles[a] = st
	return st
}
