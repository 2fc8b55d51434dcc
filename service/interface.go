// Package service runs long-lived engine subsystems (terminal driver, bell)
// in dependency order.
package service

// Service is the lifecycle contract for a subsystem
//
// Lifecycle:
//  1. Construction
//  2. Init(args...) - configuration; dependencies are already initialized
//  3. Start() - acquire resources, launch goroutines
//  4. [runtime operation]
//  5. Stop() - release resources; must be idempotent
type Service interface {
	// Name returns the unique identifier for this service
	Name() string

	// Dependencies names services that must initialize and start first
	Dependencies() []string

	Init(args ...any) error
	Start() error
	Stop() error
}
