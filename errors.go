package groundlink

import "github.com/gl-labs/groundlink/internal/domain"

// Sentinel errors returned by the facade, re-exported for errors.Is checks.
var (
	// ErrAlreadyRunning is returned by Start when the instance is running.
	ErrAlreadyRunning = domain.ErrAlreadyRunning

	// ErrNotRunning is returned by Stop when the instance is not running.
	ErrNotRunning = domain.ErrNotRunning

	// ErrShutdownTimeout is returned by Stop when workers fail to exit in time.
	ErrShutdownTimeout = domain.ErrShutdownTimeout

	// ErrInvalidConfig is returned by New for bad configuration.
	ErrInvalidConfig = domain.ErrInvalidConfig

	// ErrNoDialect is returned by Start before a schema has been published.
	ErrNoDialect = domain.ErrNoDialect
)
