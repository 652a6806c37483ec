// Package service manages the lifecycle of background subsystems around a race session
package service

// Service is a long-lived subsystem: audio device, record store, telemetry writer
//
// Lifecycle:
//  1. Construction with its config
//  2. Init() - acquire resources that may fail; degrade instead of erroring where possible
//  3. Start() - launch background goroutines
//  4. Stop() - halt goroutines and release resources, idempotent
type Service interface {
	Name() string

	// Dependencies names services that must Init before this one
	Dependencies() []string

	Init() error
	Start() error
	Stop() error
}

// Degradable is implemented by services that can run disabled after a failed Init
type Degradable interface {
	Disabled() bool
}
