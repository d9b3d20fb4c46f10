package dialect

import "sync/atomic"

// Registry owns the published Schema for a pipeline. Reload is atomic: a new
// schema is built completely by Load before being published, so an in-flight
// decode never observes a half-built schema. Construct one per pipeline; the
// registry is not a process-wide singleton.
type Registry struct {
	schema atomic.Pointer[Schema]
}

// NewRegistry returns a Registry with no schema published.
func NewRegistry() *Registry {
	return &Registry{}
}

// Load builds a schema from the supplied documents and publishes it. On
// error the previously published schema, if any, remains active.
func (r *Registry) Load(primary Document, includes ...Document) (*Schema, error) {
	s, err := Load(primary, includes...)
	if err != nil {
		return nil, err
	}
	r.schema.Store(s)
	return s, nil
}

// Schema returns the currently published schema, or nil if none has been
// loaded. Safe for concurrent lock-free use.
func (r *Registry) Schema() *Schema {
	return r.schema.Load()
}
