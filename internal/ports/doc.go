// Package ports defines the interfaces that connect the application layer
// to infrastructure adapters.
//
// The application layer (internal/app) depends only on these interfaces;
// adapters (internal/adapters) implement them for concrete transports. This
// keeps the ingestion loop testable with in-memory sources and lets the
// byte transport change without touching pipeline logic.
package ports
