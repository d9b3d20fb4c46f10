// Package groundlink provides the telemetry ingestion core behind a ground
// station's live plots: a dialect-driven frame codec feeding a bounded,
// queryable time-series store.
//
// Example usage:
//
//	reg := dialect.NewRegistry()
//	if _, err := reg.Load(primaryDoc, includeDocs...); err != nil {
//	    log.Fatal(err)
//	}
//	gl, err := groundlink.New(groundlink.DefaultConfig(), groundlink.WithRegistry(reg))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := gl.Start(ctx, source); err != nil {
//	    log.Fatal(err)
//	}
//	defer gl.Stop()
//
//	pts := gl.Store().Query("HEARTBEAT.custom_mode", window)
package groundlink

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/gl-labs/groundlink/internal/app"
	"github.com/gl-labs/groundlink/internal/domain"
	"github.com/gl-labs/groundlink/pkg/decimate"
	"github.com/gl-labs/groundlink/pkg/dialect"
	"github.com/gl-labs/groundlink/pkg/extract"
	"github.com/gl-labs/groundlink/pkg/frame"
	"github.com/gl-labs/groundlink/pkg/series"
)

// ByteSource supplies raw telemetry bytes to the pipeline. Implementations
// wrap a serial port, a network socket, or a synthetic generator; any
// chunking is fine.
type ByteSource interface {
	Open(ctx context.Context) error
	Read(ctx context.Context, p []byte) (int, error)
	Close() error
}

// Groundlink is a telemetry ingestion instance that can be embedded in
// other applications. Use New() to create an instance, then Start() to
// begin ingesting. Instances are independent; create one per stream.
type Groundlink struct {
	config    Config
	opts      options
	lifecycle *app.Lifecycle
	registry  *dialect.Registry
	store     *series.Store
	pipeline  *app.Pipeline
	pool      *decimate.Pool
	view      *app.View
	plugins   []Plugin

	mu     sync.Mutex
	ctx    context.Context
	cancel context.CancelFunc
}

// New creates a Groundlink instance with the given configuration.
// The instance is created in StateStopped; call Start() to begin ingesting.
// Returns an error if configuration is invalid.
func New(cfg Config, opts ...Option) (*Groundlink, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := validateModuleVersions(); err != nil {
		return nil, err
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	registry := o.registry
	if registry == nil {
		registry = dialect.NewRegistry()
	}

	store := series.NewStore(cfg.FieldCapacity)
	pipeline := app.NewPipeline(app.PipelineConfig{
		SubscriberBuffer: cfg.SubscriberBuffer,
		StalenessWindow:  cfg.StalenessWindow,
	}, registry, store, o.logger)

	if o.metricsRegistry != nil {
		pipeline.SetMetrics(app.NewMetrics(o.metricsRegistry, pipeline.Decoder(), store))
	}

	var pool *decimate.Pool
	if cfg.EnablePointDecimation {
		pool = decimate.NewPool(cfg.DecimationWorkers, cfg.DecimationQueue)
	}
	view := app.NewView(app.ViewConfig{
		Span:             cfg.ViewSpan,
		TargetPoints:     cfg.TargetPoints,
		EnableDecimation: cfg.EnablePointDecimation,
	}, store, pool)

	return &Groundlink{
		config:    cfg,
		opts:      o,
		lifecycle: app.NewLifecycle(o.logger, o.emitter),
		registry:  registry,
		store:     store,
		pipeline:  pipeline,
		pool:      pool,
		view:      view,
		plugins:   o.plugins,
	}, nil
}

// LoadDialect builds and publishes a schema from the supplied documents.
// Safe to call while running; in-flight decodes keep the schema they
// started with.
func (g *Groundlink) LoadDialect(primary dialect.Document, includes ...dialect.Document) error {
	_, err := g.registry.Load(primary, includes...)
	return err
}

// Start begins ingesting from src in the background. Returns immediately
// after the producer goroutine is running. A dialect must be loaded first.
func (g *Groundlink) Start(ctx context.Context, src ByteSource) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.lifecycle.CanStart() {
		return domain.ErrAlreadyRunning
	}
	if g.registry.Schema() == nil {
		return domain.ErrNoDialect
	}

	if err := g.lifecycle.TransitionTo(app.StateStarting, "Start() called"); err != nil {
		return err
	}

	runCtx, cancel := context.WithCancel(ctx)
	g.ctx = runCtx
	g.cancel = cancel
	g.lifecycle.SetCancel(cancel)

	pluginCfg := PluginConfig{
		Registry:    g.registry,
		Store:       g.store,
		Logger:      g.opts.logger,
		DialectPath: g.config.DialectPath,
		IncludeDir:  g.config.IncludeDir,
	}
	for _, p := range g.plugins {
		if err := p.Initialize(runCtx, pluginCfg); err != nil {
			cancel()
			_ = g.lifecycle.TransitionTo(app.StateCrashed, "plugin init failed: "+p.Name())
			return err
		}
	}

	g.lifecycle.AddWorker()
	go func() {
		defer g.lifecycle.WorkerDone()
		err := g.pipeline.Run(runCtx, src)
		switch {
		case err == nil || runCtx.Err() != nil:
			// Source ended or shutdown requested; Stop() owns the transition.
		default:
			_ = g.lifecycle.TransitionTo(app.StateCrashed, err.Error())
		}
	}()

	return g.lifecycle.TransitionTo(app.StateRunning, "pipeline started")
}

// Stop requests shutdown and waits for the producer to exit.
func (g *Groundlink) Stop() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.lifecycle.CanStop() {
		return domain.ErrNotRunning
	}
	if err := g.lifecycle.TransitionTo(app.StateStopping, "Stop() called"); err != nil {
		return err
	}

	g.lifecycle.Cancel()
	waitErr := g.lifecycle.WaitWithTimeout(app.ShutdownTimeout)

	for _, p := range g.plugins {
		_ = p.Shutdown(context.Background())
	}
	if g.pool != nil {
		_ = g.pool.Close()
	}

	if waitErr != nil {
		_ = g.lifecycle.TransitionTo(app.StateCrashed, "shutdown timeout")
		return waitErr
	}
	return g.lifecycle.TransitionTo(app.StateStopped, "shutdown complete")
}

// State returns the current lifecycle state.
func (g *Groundlink) State() app.State {
	return g.lifecycle.State()
}

// Subscribe registers a decoded-value listener; see Pipeline semantics: the
// channel is buffered and slow listeners lose events rather than blocking
// ingestion.
func (g *Groundlink) Subscribe() (uuid.UUID, <-chan extract.Value) {
	return g.pipeline.Subscribe()
}

// Unsubscribe removes a listener and closes its channel.
func (g *Groundlink) Unsubscribe(id uuid.UUID) {
	g.pipeline.Unsubscribe(id)
}

// Store returns the instance's time-series store for pull-based queries.
func (g *Groundlink) Store() *series.Store {
	return g.store
}

// View returns the instance's live-window view.
func (g *Groundlink) View() *app.View {
	return g.view
}

// Registry returns the instance's dialect registry.
func (g *Groundlink) Registry() *dialect.Registry {
	return g.registry
}

// Stats returns the decoder's dropped-frame and throughput counters.
func (g *Groundlink) Stats() frame.Stats {
	return g.pipeline.Stats()
}

// Stale reports whether no valid frame arrived within the staleness window.
func (g *Groundlink) Stale() bool {
	return g.pipeline.Stale(time.Now())
}
