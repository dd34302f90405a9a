package service

// Service defines the lifecycle interface for infrastructure subsystems
// Services manage long-lived resources: the mixer backend, scene feeds,
// debug frontends
//
// Lifecycle:
//  1. Construction (via factory)
//  2. Init(args...) - implicit configuration
//  3. Start() - launch background goroutines
//  4. [runtime operation]
//  5. Stop() - halt goroutines, release resources
type Service interface {
	// Name returns the unique identifier for this service
	Name() string

	// Init configures the service from optional args
	// Args are service-specific (mixer config, mute state)
	Init(args ...any) error

	// Start begins service operation (launches goroutines if any)
	Start() error

	// Stop halts service operation and releases resources
	// Must be idempotent - safe to call multiple times
	Stop() error
}
