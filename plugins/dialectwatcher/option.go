package dialectwatcher

import "github.com/gl-labs/groundlink"

// WithDialectWatcher returns a groundlink Option that enables dialect file
// watching. The plugin monitors the configured dialect file and include
// directory and republishes the schema when they change.
//
// Usage:
//
//	gl, err := groundlink.New(cfg,
//	    dialectwatcher.WithDialectWatcher(dialectwatcher.Config{
//	        DebounceDelay: 100 * time.Millisecond,
//	    }),
//	)
func WithDialectWatcher(cfg Config) groundlink.Option {
	plugin := New(cfg)
	return groundlink.WithPlugin(plugin)
}

// WithDefaultDialectWatcher returns a groundlink Option that enables dialect
// watching with default settings (debounce 100ms).
//
// Usage:
//
//	gl, err := groundlink.New(cfg, dialectwatcher.WithDefaultDialectWatcher())
func WithDefaultDialectWatcher() groundlink.Option {
	return WithDialectWatcher(DefaultConfig())
}
