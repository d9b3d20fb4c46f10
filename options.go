package groundlink

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/gl-labs/groundlink/internal/app"
	"github.com/gl-labs/groundlink/pkg/dialect"
	glog "github.com/gl-labs/groundlink/pkg/log"
)

// Logger is the structured logging interface from pkg/log, re-exported for
// convenient access.
type Logger = glog.Logger

// LogField is the structured log field type from pkg/log.
type LogField = glog.Field

// Option configures optional behavior of Groundlink.
type Option func(*options)

// options holds the optional configuration for a Groundlink instance.
type options struct {
	logger          glog.Logger
	emitter         app.EventEmitter
	registry        *dialect.Registry
	metricsRegistry *prometheus.Registry
	plugins         []Plugin
}

// defaultOptions returns options with sensible defaults.
func defaultOptions() options {
	return options{
		logger: glog.NewNoopLogger(),
	}
}

// WithLogger sets a custom logger for structured logging.
// If not provided, a no-op logger is used (no output).
func WithLogger(logger Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithRegistry supplies a pre-built dialect registry, typically one that
// already has a schema published. If not provided, an empty registry is
// created and LoadDialect must be called before Start.
func WithRegistry(registry *dialect.Registry) Option {
	return func(o *options) {
		o.registry = registry
	}
}

// WithMetricsRegistry registers pipeline and store metrics with the given
// Prometheus registry. If not provided, no metrics are collected.
func WithMetricsRegistry(registry *prometheus.Registry) Option {
	return func(o *options) {
		o.metricsRegistry = registry
	}
}

// WithEventHandler sets a handler for lifecycle events.
// Events are called synchronously from the transitioning goroutine.
// If not provided, no events are emitted.
func WithEventHandler(handler EventHandler) Option {
	return func(o *options) {
		if handler != nil {
			o.emitter = &eventEmitterWrapper{handler: handler}
		}
	}
}

// WithPlugin registers a plugin to be initialized when Groundlink starts.
// Plugins are initialized in registration order and shut down together
// during Stop.
func WithPlugin(plugin Plugin) Option {
	return func(o *options) {
		o.plugins = append(o.plugins, plugin)
	}
}

// StateChangeEvent describes a lifecycle transition.
type StateChangeEvent struct {
	Previous State
	Current  State
	Reason   string
	Time     time.Time
}

// EventHandler receives instance events.
type EventHandler interface {
	OnStateChange(event StateChangeEvent)
}

// State is the lifecycle state of a Groundlink instance.
type State = app.State

// Lifecycle states, re-exported from internal/app.
const (
	StateStopped  = app.StateStopped
	StateStarting = app.StateStarting
	StateRunning  = app.StateRunning
	StateStopping = app.StateStopping
	StateCrashed  = app.StateCrashed
)

// eventEmitterWrapper adapts EventHandler to the internal emitter interface.
type eventEmitterWrapper struct {
	handler EventHandler
}

func (e *eventEmitterWrapper) OnStateChange(previous, current app.State, reason string) {
	e.handler.OnStateChange(StateChangeEvent{
		Previous: previous,
		Current:  current,
		Reason:   reason,
		Time:     time.Now(),
	})
}
