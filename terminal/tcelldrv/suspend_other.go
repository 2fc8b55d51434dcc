//go:build !unix

package tcelldrv

// suspendProcess is a no-op where there is no job control
func suspendProcess() error { return nil }
