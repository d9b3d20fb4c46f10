// Package log provides the logging abstraction used across groundlink.
//
// The Logger interface decouples library packages from any concrete logging
// backend. A zerolog console adapter is provided for the CLI, and a no-op
// logger for tests and embedding:
//
//	logger := log.NewZerologAdapter()
//	quiet := log.NewNoopLogger()
//
// Implement the Logger interface to route groundlink's output through an
// existing logging setup.
//
// # Version
//
// Current version: 1.0.0
// Minimum compatible version: 1.0.0
//
// See version.go for version constants that can be used programmatically.
package log
