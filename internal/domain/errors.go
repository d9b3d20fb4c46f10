package domain

import "errors"

// Domain errors represent error conditions in the groundlink domain.
// These errors are returned by the public API and can be checked with errors.Is.
var (
	// ErrAlreadyRunning is returned when Start() is called on a running instance.
	ErrAlreadyRunning = errors.New("groundlink: already running")

	// ErrNotRunning is returned when Stop() is called on a stopped instance.
	ErrNotRunning = errors.New("groundlink: not running")

	// ErrShutdownTimeout is returned when graceful shutdown times out.
	ErrShutdownTimeout = errors.New("groundlink: shutdown timeout")

	// ErrInvalidConfig is returned when configuration validation fails.
	ErrInvalidConfig = errors.New("groundlink: invalid configuration")

	// ErrNoDialect is returned when the pipeline starts without a loaded dialect.
	ErrNoDialect = errors.New("groundlink: no dialect loaded")
)
