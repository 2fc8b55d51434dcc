package app

import (
	"fmt"
	"runtime/debug"
)

// HandleCrash restores the terminal and reports r before re-panicking with
// it; a nil r is a no-op so it can take recover() directly
func (a *Application) HandleCrash(r any) {
	if r == nil {
		return
	}

	// Restore terminal to sane state before anything is printed
	a.driver.Shutdown()

	stack := debug.Stack()
	a.logger.Error("crash", "panic", r, "stack", string(stack))
	fmt.Fprintf(a.crashOut, "\r\n\x1b[31mCRASH DETECTED: %v\x1b[0m\r\n", r)
	fmt.Fprintf(a.crashOut, "Stack Trace:\r\n%s\r\n", stack)

	panic(r)
}

// Go runs fn in a new goroutine with panic recovery.
// Use this instead of the 'go' keyword to ensure terminal cleanup on crash.
func (a *Application) Go(fn func()) {
	go func() {
		defer func() { a.HandleCrash(recover()) }()
		fn()
	}()
}
