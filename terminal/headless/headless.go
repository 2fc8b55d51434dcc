// Package headless is an in-memory terminal driver for tests and batch
// rendering. Input is injected with the Post methods and delivered when
// the loop iterates.
package headless

import (
	"strings"
	"sync"
	"time"

	"github.com/lixenwraith/termkit/geom"
	"github.com/lixenwraith/termkit/mainloop"
	"github.com/lixenwraith/termkit/terminal"
)

// Cell is one screen position
type Cell struct {
	Rune rune
	Attr terminal.Attribute
}

type eventKind uint8

const (
	evKey eventKind = iota
	evKeyDown
	evKeyUp
	evMouse
	evResize
)

type event struct {
	kind  eventKind
	key   terminal.KeyEvent
	mouse terminal.MouseEvent
	size  geom.Size
}

// Driver implements terminal.Driver over a cell grid
type Driver struct {
	mu     sync.Mutex
	queue  []event
	notify chan struct{}

	size     geom.Size
	cells    [][]Cell
	clip     geom.Rect
	col, row int

	attrs         terminal.AttributeTable
	cursor        geom.Point
	cursorVisible bool
	mouse         bool

	loop     *mainloop.Loop
	handlers terminal.Handlers
	onResize func(cols, rows int)

	// Counters for assertions
	Updates   int
	Refreshes int
	Suspends  int
	Shutdowns int
	Inits     int
}

var _ terminal.Driver = (*Driver)(nil)

// New creates a cols x rows screen filled with spaces
func New(cols, rows int) *Driver {
	d := &Driver{notify: make(chan struct{}, 1), cursorVisible: true}
	d.resize(geom.Size{Width: cols, Height: rows})
	return d
}

func (d *Driver) resize(s geom.Size) {
	d.size = geom.Size{Width: max(s.Width, 0), Height: max(s.Height, 0)}
	d.cells = make([][]Cell, d.size.Height)
	for i := range d.cells {
		row := make([]Cell, d.size.Width)
		for j := range row {
			row[j].Rune = ' '
		}
		d.cells[i] = row
	}
	d.clip = geom.FromSize(d.size)
}

// --- Canvas ---

func (d *Driver) Size() geom.Size { return d.size }

func (d *Driver) Move(col, row int) { d.col, d.row = col, row }

func (d *Driver) WriteCell(r rune, attr terminal.Attribute) {
	if d.clip.Contains(d.col, d.row) {
		d.cells[d.row][d.col] = Cell{Rune: r, Attr: attr}
	}
	d.col++
}

func (d *Driver) Clip() geom.Rect { return d.clip }

func (d *Driver) SetClip(r geom.Rect) { d.clip = r.Intersect(geom.FromSize(d.size)) }

// --- Pump ---

func (d *Driver) Setup(l *mainloop.Loop) { d.loop = l }

// Wait blocks until an event is posted, the loop is woken or timeout elapses
func (d *Driver) Wait(timeout time.Duration) bool {
	if d.pending() || timeout == 0 {
		return d.pending()
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
	case <-d.notify:
	case <-wake:
	case <-expired:
	}
	return d.pending()
}

func (d *Driver) pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.queue) > 0
}

// Iterate delivers every queued event in post order
func (d *Driver) Iterate() {
	d.mu.Lock()
	batch := d.queue
	d.queue = nil
	d.mu.Unlock()

	for _, ev := range batch {
		switch ev.kind {
		case evKey:
			if d.handlers.OnKey != nil {
				d.handlers.OnKey(ev.key)
			}
		case evKeyDown:
			if d.handlers.OnKeyDown != nil {
				d.handlers.OnKeyDown(ev.key)
			}
		case evKeyUp:
			if d.handlers.OnKeyUp != nil {
				d.handlers.OnKeyUp(ev.key)
			}
		case evMouse:
			if d.handlers.OnMouse != nil {
				d.handlers.OnMouse(ev.mouse)
			}
		case evResize:
			d.resize(ev.size)
			if d.onResize != nil {
				d.onResize(d.size.Width, d.size.Height)
			}
		}
	}
}

// --- Driver ---

func (d *Driver) Init(onResize func(cols, rows int)) error {
	d.Inits++
	d.onResize = onResize
	return nil
}

func (d *Driver) PrepareToRun(loop *mainloop.Loop, h terminal.Handlers) {
	d.loop = loop
	d.handlers = h
}

func (d *Driver) Refresh()      { d.Refreshes++ }
func (d *Driver) UpdateScreen() { d.Updates++ }

func (d *Driver) Suspend() error {
	d.Suspends++
	return nil
}

func (d *Driver) Shutdown() { d.Shutdowns++ }

func (d *Driver) CursorVisible() bool                  { return d.cursorVisible }
func (d *Driver) SetCursorVisible(vis bool)            { d.cursorVisible = vis }
func (d *Driver) SetCursor(col, row int)               { d.cursor = geom.Point{X: col, Y: row} }
func (d *Driver) SetMouse(enabled bool)                { d.mouse = enabled }
func (d *Driver) Mouse() bool                          { return d.mouse }
func (d *Driver) Cursor() geom.Point                   { return d.cursor }
func (d *Driver) Attributes() *terminal.AttributeTable { return &d.attrs }

func (d *Driver) MakeAttribute(p terminal.ColorPair) terminal.Attribute {
	return d.attrs.MakeAttribute(p)
}

// --- Input injection, safe from any goroutine ---

func (d *Driver) post(ev event) {
	d.mu.Lock()
	d.queue = append(d.queue, ev)
	d.mu.Unlock()

	select {
	case d.notify <- struct{}{}:
	default:
	}
}

// PostKey queues a key press
func (d *Driver) PostKey(k terminal.Key) {
	d.post(event{kind: evKey, key: terminal.KeyEvent{Key: k}})
}

// PostKeyEvent queues a key press with lock state
func (d *Driver) PostKeyEvent(ev terminal.KeyEvent) {
	d.post(event{kind: evKey, key: ev})
}

// PostKeyState queues a key-down (down) or key-up report
func (d *Driver) PostKeyState(k terminal.Key, down bool) {
	kind := evKeyUp
	if down {
		kind = evKeyDown
	}
	d.post(event{kind: kind, key: terminal.KeyEvent{Key: k}})
}

// PostString queues one key press per rune
func (d *Driver) PostString(s string) {
	for _, r := range s {
		d.PostKey(terminal.Key(r))
	}
}

// PostMouse queues a mouse event in screen coordinates
func (d *Driver) PostMouse(x, y int, flags terminal.MouseFlags) {
	d.post(event{kind: evMouse, mouse: terminal.MouseEvent{X: x, Y: y, Flags: flags}})
}

// PostResize queues a terminal resize
func (d *Driver) PostResize(cols, rows int) {
	d.post(event{kind: evResize, size: geom.Size{Width: cols, Height: rows}})
}

// --- Inspection ---

// CellAt returns the cell at col,row; out of range yields the zero Cell
func (d *Driver) CellAt(col, row int) Cell {
	if !geom.FromSize(d.size).Contains(col, row) {
		return Cell{}
	}
	return d.cells[row][col]
}

// Row returns the runes of one screen row
func (d *Driver) Row(row int) string {
	if row < 0 || row >= d.size.Height {
		return ""
	}
	var b strings.Builder
	for _, c := range d.cells[row] {
		b.WriteRune(c.Rune)
	}
	return b.String()
}

// Text returns all rows joined by newlines with trailing spaces removed
func (d *Driver) Text() string {
	lines := make([]string, d.size.Height)
	for i := range lines {
		lines[i] = strings.TrimRight(d.Row(i), " ")
	}
	return strings.Join(lines, "\n")
}
