// Package dialectwatcher provides dialect hot-reload for groundlink.
// When enabled, it watches the primary dialect file and the include
// directory for changes and republishes the schema through the registry.
// A reload that fails to parse keeps the previously published schema.
package dialectwatcher

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/gl-labs/groundlink"
	"github.com/gl-labs/groundlink/pkg/dialect"
	"github.com/gl-labs/groundlink/pkg/log"
)

// Config holds configuration options for the dialect watcher plugin.
type Config struct {
	// DebounceDelay is the delay to wait after a file change before
	// reloading. Editors often produce several events per save.
	// Default: 100 milliseconds
	DebounceDelay time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		DebounceDelay: 100 * time.Millisecond,
	}
}

// Plugin implements dialect file monitoring.
type Plugin struct {
	mu sync.Mutex

	debounceDelay time.Duration

	// Runtime state
	dialectPath string
	includeDir  string
	registry    *dialect.Registry
	logger      log.Logger
	cancel      context.CancelFunc
	wg          sync.WaitGroup
	debounce    *time.Timer
}

// New creates a new dialect watcher plugin with the given configuration.
func New(cfg Config) *Plugin {
	if cfg.DebounceDelay <= 0 {
		cfg.DebounceDelay = 100 * time.Millisecond
	}
	return &Plugin{
		debounceDelay: cfg.DebounceDelay,
	}
}

// Name returns the plugin identifier.
func (p *Plugin) Name() string {
	return "dialectwatcher"
}

// Initialize sets up the plugin and starts the watcher loop.
func (p *Plugin) Initialize(ctx context.Context, cfg groundlink.PluginConfig) error {
	p.mu.Lock()
	p.dialectPath = cfg.DialectPath
	p.includeDir = cfg.IncludeDir
	p.registry = cfg.Registry
	p.logger = cfg.Logger
	p.mu.Unlock()

	if p.dialectPath == "" {
		p.logger.Warn("Dialect watcher disabled: no dialect path configured")
		return nil
	}

	watchCtx, cancel := context.WithCancel(ctx)
	p.cancel = cancel

	p.logger.Info("Dialect watcher plugin initialized",
		log.String("path", p.dialectPath))

	p.wg.Add(1)
	go p.watchLoop(watchCtx)

	return nil
}

// Shutdown stops the watcher.
func (p *Plugin) Shutdown(ctx context.Context) error {
	if p.cancel != nil {
		p.cancel()
	}
	p.wg.Wait()

	p.mu.Lock()
	if p.debounce != nil {
		p.debounce.Stop()
	}
	p.mu.Unlock()
	return nil
}

// watchLoop watches for dialect file changes.
func (p *Plugin) watchLoop(ctx context.Context) {
	defer p.wg.Done()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		p.logger.Error("Dialect watcher: failed to create watcher", log.Err(err))
		return
	}
	defer watcher.Close()

	// Watch the containing directory, not the file itself: editors that
	// rename-over-save would otherwise drop the watch.
	if err := watcher.Add(filepath.Dir(p.dialectPath)); err != nil {
		p.logger.Error("Dialect watcher: failed to watch directory", log.Err(err))
		return
	}
	if p.includeDir != "" && p.includeDir != filepath.Dir(p.dialectPath) {
		if err := watcher.Add(p.includeDir); err != nil {
			p.logger.Warn("Dialect watcher: failed to watch include directory",
				log.String("dir", p.includeDir), log.Err(err))
		}
	}

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Ext(event.Name) != ".toml" {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			p.debounceReload()

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			p.logger.Error("Dialect watcher: watcher error", log.Err(err))
		}
	}
}

func (p *Plugin) debounceReload() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.debounce != nil {
		p.debounce.Stop()
	}
	p.debounce = time.AfterFunc(p.debounceDelay, p.reload)
}

// reload re-reads the dialect from disk and publishes the new schema.
// On any failure the registry keeps the schema it already has.
func (p *Plugin) reload() {
	primary, err := dialect.ReadFile(p.dialectPath)
	if err != nil {
		p.logger.Error("Dialect watcher: reload failed, keeping current schema",
			log.String("path", p.dialectPath), log.Err(err))
		return
	}
	includes, err := dialect.ReadDir(p.includeDir)
	if err != nil {
		p.logger.Error("Dialect watcher: include read failed, keeping current schema",
			log.String("dir", p.includeDir), log.Err(err))
		return
	}

	schema, err := p.registry.Load(primary, includes...)
	if err != nil {
		p.logger.Error("Dialect watcher: reload failed, keeping current schema",
			log.String("path", p.dialectPath), log.Err(err))
		return
	}

	p.logger.Info("Dialect watcher: schema reloaded",
		log.String("path", p.dialectPath),
		log.Int("messages", schema.Len()))
}
