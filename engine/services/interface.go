// Package services manages the lifecycle of long-lived launcher resources
// (terminal screen, audio device, save database) outside the ECS world.
package services

// Service is a long-lived resource started before the loop and stopped after it
type Service interface {
	// Name returns the unique identifier for this service
	Name() string

	// Dependencies returns names of services that must start before this one
	Dependencies() []string

	// Start acquires the resource
	Start() error

	// Stop releases the resource; must be safe to call after a failed Start
	Stop() error
}
