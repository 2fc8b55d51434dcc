// Package fault defines the error vocabulary of the engine.
//
// Two tiers exist. Programmer errors (nil toplevel, unbalanced End, cyclic
// layout, out-of-range layout parameters, foreign SetFocus targets) abort the
// operation and are returned as *Error wrapping one of the sentinels below.
// Runtime conditions (a panicking callback, a view removed while grabbing the
// mouse) never abort the loop; panics are captured as *PanicError, logged and
// dropped by the caller.
package fault

import (
	"errors"
	"fmt"
	"runtime/debug"
)

var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrNilToplevel     = errors.New("nil toplevel")
	ErrUnbalancedEnd   = errors.New("unbalanced end")
	ErrAlreadyEnded    = errors.New("run state already ended")
	ErrCyclicLayout    = errors.New("cyclic layout dependency")
	ErrNotInitialized  = errors.New("application not initialized")
)

// Kind categorizes an error
type Kind int

const (
	KindUnknown Kind = iota
	KindInvalidArgument
	KindLifecycle
	KindLayout
	KindPanic
)

func (k Kind) String() string {
	switch k {
	case KindInvalidArgument:
		return "invalid-argument"
	case KindLifecycle:
		return "lifecycle"
	case KindLayout:
		return "layout"
	case KindPanic:
		return "panic"
	default:
		return "unknown"
	}
}

// Error is a structured engine error
type Error struct {
	// Op is the failing operation, e.g. "view.Add"
	Op   string
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s [%s]: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New wraps err with operation context
func New(op string, kind Kind, err error) *Error {
	return &Error{Op: op, Kind: kind, Err: err}
}

// Invalid returns an invalid-argument error with a formatted detail message
func Invalid(op, format string, args ...any) *Error {
	return &Error{
		Op:   op,
		Kind: KindInvalidArgument,
		Err:  fmt.Errorf("%w: %s", ErrInvalidArgument, fmt.Sprintf(format, args...)),
	}
}

// Lifecycle returns a lifecycle error wrapping a sentinel
func Lifecycle(op string, sentinel error, format string, args ...any) *Error {
	err := sentinel
	if format != "" {
		err = fmt.Errorf("%w: %s", sentinel, fmt.Sprintf(format, args...))
	}
	return &Error{Op: op, Kind: KindLifecycle, Err: err}
}

// PanicError is a recovered panic
type PanicError struct {
	Op    string
	Value any
	Stack string
}

func (e *PanicError) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("panic in %s: %v", e.Op, e.Value)
	}
	return fmt.Sprintf("panic: %v", e.Value)
}

// Unwrap exposes a panicked error value
func (e *PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}

// Catch runs fn and converts a panic into a *PanicError
func Catch(op string, fn func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &PanicError{Op: op, Value: r, Stack: string(debug.Stack())}
		}
	}()
	fn()
	return nil
}

// IsPanic reports whether err carries a recovered panic
func IsPanic(err error) bool {
	var pe *PanicError
	return errors.As(err, &pe)
}
