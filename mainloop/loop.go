// Package mainloop is the engine's cooperative scheduler.
//
// A Loop owns a deadline-ordered set of timeouts and a queue of idle
// callbacks, and pumps a Pump (the terminal driver) for input. Registration
// is safe from any goroutine; callbacks only ever run on the goroutine
// calling Iterate or Run.
package mainloop

import (
	"errors"
	"log/slog"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/lixenwraith/termkit/fault"
	"github.com/lixenwraith/termkit/logging"
	"github.com/lixenwraith/termkit/status"
)

// Pump is the input side of a driver
type Pump interface {
	// Setup is called once when the loop is created
	Setup(l *Loop)

	// Wait blocks until input is available, the timeout elapses, or the loop
	// is woken. A negative timeout waits without limit; zero polls.
	// Returns true if input is buffered.
	Wait(timeout time.Duration) bool

	// Iterate delivers buffered input synchronously
	Iterate()
}

// Timeout is a registered timer
type Timeout struct {
	period   time.Duration
	deadline time.Time
	seq      uint64
	cb       func() bool
	done     bool // Removed or returned false
}

// Period returns the timer interval
func (t *Timeout) Period() time.Duration { return t.period }

// Idle is a registered idle callback
type Idle struct {
	cb   func() bool
	done bool
}

// Loop is the scheduler
type Loop struct {
	pump   Pump
	clock  Clock
	logger *slog.Logger
	reg    *status.Registry

	mu       sync.Mutex
	timeouts []*Timeout // Sorted by deadline, then registration order
	idles    []*Idle
	seq      uint64

	wake     chan struct{}
	stopping atomic.Bool

	// Cached metric pointers
	iterations    *atomic.Int64
	timeoutsFired *atomic.Int64
	idleRuns      *atomic.Int64
	panics        *atomic.Int64
}

// Option configures a Loop
type Option func(*Loop)

// WithClock replaces the wall clock
func WithClock(c Clock) Option {
	return func(l *Loop) {
		if c != nil {
			l.clock = c
		}
	}
}

// WithLogger sets the logger for callback faults
func WithLogger(logger *slog.Logger) Option {
	return func(l *Loop) {
		l.logger = logging.OrDiscard(logger)
	}
}

// WithStatus shares a metrics registry
func WithStatus(reg *status.Registry) Option {
	return func(l *Loop) {
		if reg != nil {
			l.reg = reg
		}
	}
}

// New creates a loop pumping p; p may be nil for a loop without input
func New(p Pump, opts ...Option) *Loop {
	l := &Loop{
		pump:   p,
		clock:  systemClock{},
		logger: logging.Discard(),
		wake:   make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.reg == nil {
		l.reg = status.NewRegistry()
	}

	l.iterations = l.reg.Ints.Get("loop.iterations")
	l.timeoutsFired = l.reg.Ints.Get("loop.timeouts_fired")
	l.idleRuns = l.reg.Ints.Get("loop.idle_runs")
	l.panics = l.reg.Ints.Get("loop.panics")

	if l.pump != nil {
		l.pump.Setup(l)
	}
	return l
}

// Now returns the loop clock's time
func (l *Loop) Now() time.Time {
	return l.clock.Now()
}

// Status returns the metrics registry
func (l *Loop) Status() *status.Registry {
	return l.reg
}

// WakeChan is signalled by Wake; pumps select on it while blocked
func (l *Loop) WakeChan() <-chan struct{} {
	return l.wake
}

// Wake interrupts a blocked Wait
func (l *Loop) Wake() {
	select {
	case l.wake <- struct{}{}:
	default:
	}
}

// AddTimeout schedules cb at now+period; a true return reschedules it at
// (time of firing)+period
func (l *Loop) AddTimeout(period time.Duration, cb func() bool) *Timeout {
	l.mu.Lock()
	l.seq++
	t := &Timeout{
		period:   period,
		deadline: l.clock.Now().Add(period),
		seq:      l.seq,
		cb:       cb,
	}
	l.insertLocked(t)
	l.mu.Unlock()

	l.Wake()
	return t
}

// insertLocked keeps timeouts ordered; equal deadlines fire in registration order
func (l *Loop) insertLocked(t *Timeout) {
	i, _ := slices.BinarySearchFunc(l.timeouts, t, func(a, b *Timeout) int {
		if c := a.deadline.Compare(b.deadline); c != 0 {
			return c
		}
		switch {
		case a.seq < b.seq:
			return -1
		case a.seq > b.seq:
			return 1
		}
		return 0
	})
	l.timeouts = slices.Insert(l.timeouts, i, t)
}

// RemoveTimeout cancels t; returns false if it was no longer registered
func (l *Loop) RemoveTimeout(t *Timeout) bool {
	if t == nil {
		return false
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	if t.done {
		return false
	}
	t.done = true
	if i := slices.Index(l.timeouts, t); i >= 0 {
		l.timeouts = slices.Delete(l.timeouts, i, i+1)
	}
	return true
}

// AddIdle queues cb to run once per iteration until it returns false
func (l *Loop) AddIdle(cb func() bool) *Idle {
	id := &Idle{cb: cb}
	l.mu.Lock()
	l.idles = append(l.idles, id)
	l.mu.Unlock()

	l.Wake()
	return id
}

// RemoveIdle cancels id; returns false if it was no longer registered
func (l *Loop) RemoveIdle(id *Idle) bool {
	if id == nil {
		return false
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	if id.done {
		return false
	}
	id.done = true
	if i := slices.Index(l.idles, id); i >= 0 {
		l.idles = slices.Delete(l.idles, i, i+1)
	}
	return true
}

// Invoke runs fn once on the loop goroutine during the next iteration
func (l *Loop) Invoke(fn func()) {
	l.AddIdle(func() bool {
		fn()
		return false
	})
}

// TimeoutCount returns the number of scheduled timeouts
func (l *Loop) TimeoutCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.timeouts)
}

// IdleCount returns the number of queued idle callbacks
func (l *Loop) IdleCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.idles)
}

// EventsPending waits on the pump (when wait is set and nothing is due) and
// reports whether input, due timeouts or idle callbacks are pending
func (l *Loop) EventsPending(wait bool) bool {
	timeout := l.pumpTimeout(wait)

	input := false
	if l.pump != nil {
		input = l.pump.Wait(timeout)
	} else if timeout != 0 {
		l.sleep(timeout)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	due := len(l.timeouts) > 0 && !l.timeouts[0].deadline.After(l.clock.Now())
	return input || due || len(l.idles) > 0
}

// pumpTimeout is zero when work is ready, the time to the next deadline, or
// negative when only input can wake the loop
func (l *Loop) pumpTimeout(wait bool) time.Duration {
	if !wait || l.stopping.Load() {
		return 0
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.idles) > 0 {
		return 0
	}
	if len(l.timeouts) == 0 {
		return -1
	}
	return max(l.timeouts[0].deadline.Sub(l.clock.Now()), 0)
}

// sleep waits without a pump, still honoring Wake
func (l *Loop) sleep(d time.Duration) {
	if d < 0 {
		<-l.wake
		return
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-l.wake:
	}
}

// Iterate runs one iteration: due timeouts, pump input, then idle callbacks
func (l *Loop) Iterate() {
	l.iterations.Add(1)

	l.runTimeouts()
	if l.pump != nil {
		if err := fault.Catch("mainloop.pump", l.pump.Iterate); err != nil {
			l.report(err)
		}
	}
	l.runIdles()
}

// runTimeouts fires everything due at entry; a callback rescheduling itself
// lands in the future and cannot fire twice in one pass
func (l *Loop) runTimeouts() {
	l.mu.Lock()
	now := l.clock.Now()
	n := 0
	for n < len(l.timeouts) && !l.timeouts[n].deadline.After(now) {
		n++
	}
	due := slices.Clone(l.timeouts[:n])
	l.timeouts = slices.Delete(l.timeouts, 0, n)
	l.mu.Unlock()

	for _, t := range due {
		l.mu.Lock()
		skip := t.done
		l.mu.Unlock()
		if skip {
			continue
		}

		l.timeoutsFired.Add(1)
		keep := l.call("mainloop.timeout", t.cb)

		l.mu.Lock()
		if keep && !t.done {
			t.deadline = l.clock.Now().Add(t.period)
			l.insertLocked(t)
		} else {
			t.done = true
		}
		l.mu.Unlock()
	}
}

// runIdles drains a snapshot; callbacks added during the drain run next iteration
func (l *Loop) runIdles() {
	l.mu.Lock()
	batch := l.idles
	l.idles = nil
	l.mu.Unlock()

	kept := make([]*Idle, 0, len(batch))
	for _, id := range batch {
		l.mu.Lock()
		skip := id.done
		l.mu.Unlock()
		if skip {
			continue
		}

		l.idleRuns.Add(1)
		if l.call("mainloop.idle", id.cb) {
			kept = append(kept, id)
		} else {
			l.mu.Lock()
			id.done = true
			l.mu.Unlock()
		}
	}

	l.mu.Lock()
	kept = slices.DeleteFunc(kept, func(id *Idle) bool { return id.done })
	l.idles = append(kept, l.idles...)
	l.mu.Unlock()
}

// call runs a callback; a panic is logged, counted, and unregisters it
func (l *Loop) call(op string, cb func() bool) bool {
	var keep bool
	if err := fault.Catch(op, func() { keep = cb() }); err != nil {
		l.report(err)
		return false
	}
	return keep
}

func (l *Loop) report(err error) {
	l.panics.Add(1)
	var pe *fault.PanicError
	if errors.As(err, &pe) {
		l.logger.Error("callback panicked", "op", pe.Op, "panic", pe.Value, "stack", pe.Stack)
		return
	}
	l.logger.Error("callback failed", "error", err)
}

// Run iterates until Stop is called
func (l *Loop) Run() {
	defer l.stopping.Store(false)
	for !l.stopping.Load() {
		l.EventsPending(true)
		if l.stopping.Load() {
			return
		}
		l.Iterate()
	}
}

// Stop makes Run return after the current iteration; safe from any goroutine
func (l *Loop) Stop() {
	l.stopping.Store(true)
	l.Wake()
}
