package groundlink

import (
	"context"

	"github.com/gl-labs/groundlink/pkg/dialect"
	glog "github.com/gl-labs/groundlink/pkg/log"
	"github.com/gl-labs/groundlink/pkg/series"
)

// Plugin extends a Groundlink instance with optional behavior that runs
// alongside the pipeline, such as dialect hot-reload.
//
// Plugins are initialized during Start, in registration order, and shut
// down during Stop. Initialize receives a context that is cancelled when
// the instance stops; long-running plugin work should watch it.
type Plugin interface {
	// Name returns a short identifier used in logs.
	Name() string

	// Initialize starts the plugin. An error aborts Start.
	Initialize(ctx context.Context, cfg PluginConfig) error

	// Shutdown releases plugin resources. Called once during Stop.
	Shutdown(ctx context.Context) error
}

// PluginConfig is the instance state handed to plugins at Initialize.
type PluginConfig struct {
	// Registry is the instance's dialect registry. Plugins may publish
	// replacement schemas through it.
	Registry *dialect.Registry

	// Store is the instance's time-series store.
	Store *series.Store

	// Logger is the instance logger.
	Logger glog.Logger

	// DialectPath and IncludeDir mirror the instance Config fields.
	DialectPath string
	IncludeDir  string
}
