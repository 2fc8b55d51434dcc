package view

import "sync"

// Event is a multi-subscriber notification
// Emit works on a snapshot, so handlers may subscribe or unsubscribe while it runs
type Event[T any] struct {
	mu   sync.Mutex
	subs []*subscription[T]
}

type subscription[T any] struct {
	fn     func(T)
	active bool
}

// Subscribe registers fn and returns a function removing it
func (e *Event[T]) Subscribe(fn func(T)) (unsubscribe func()) {
	s := &subscription[T]{fn: fn, active: true}
	e.mu.Lock()
	e.subs = append(e.subs, s)
	e.mu.Unlock()

	return func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		if !s.active {
			return
		}
		s.active = false
		for i, x := range e.subs {
			if x == s {
				e.subs = append(e.subs[:i:i], e.subs[i+1:]...)
				break
			}
		}
	}
}

// Emit calls every subscriber in subscription order
// A subscriber removed during the emit is not called afterwards
func (e *Event[T]) Emit(arg T) {
	e.mu.Lock()
	if len(e.subs) == 0 {
		e.mu.Unlock()
		return
	}
	snapshot := make([]*subscription[T], len(e.subs))
	copy(snapshot, e.subs)
	e.mu.Unlock()

	for _, s := range snapshot {
		e.mu.Lock()
		active := s.active
		e.mu.Unlock()
		if active {
			s.fn(arg)
		}
	}
}

// Len returns the number of subscribers
func (e *Event[T]) Len() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.subs)
}
