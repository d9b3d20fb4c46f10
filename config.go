package groundlink

import (
	"fmt"
	"time"

	"github.com/gl-labs/groundlink/internal/domain"
	"github.com/gl-labs/groundlink/pkg/series"
)

// Config holds the configuration for a Groundlink instance.
// Zero values are filled in by SetDefaults; only a loaded dialect is
// strictly required before Start.
type Config struct {
	// DialectPath is the path of the primary dialect document. Optional;
	// only consulted by plugins that reload dialects from disk. Callers
	// may instead load documents directly via LoadDialect.
	DialectPath string

	// IncludeDir is the directory searched for included dialect documents.
	IncludeDir string

	// FieldCapacity is the ring-buffer capacity per field key.
	FieldCapacity int

	// SubscriberBuffer is the channel depth for each Subscribe listener.
	SubscriberBuffer int

	// StalenessWindow is how long without a valid frame before the link
	// is reported stale.
	StalenessWindow time.Duration

	// ViewSpan is the live window width used by View.
	ViewSpan time.Duration

	// TargetPoints is the downsampling target per field for View refreshes.
	TargetPoints int

	// EnablePointDecimation toggles the background downsampling pool.
	EnablePointDecimation bool

	// DecimationWorkers is the pool size when decimation is enabled.
	DecimationWorkers int

	// DecimationQueue is the pool's pending-request depth.
	DecimationQueue int
}

// DefaultConfig returns a Config with all defaults applied.
func DefaultConfig() Config {
	var cfg Config
	cfg.SetDefaults()
	return cfg
}

// SetDefaults fills in zero-valued fields with sensible defaults.
func (c *Config) SetDefaults() {
	if c.FieldCapacity == 0 {
		c.FieldCapacity = series.DefaultFieldCapacity
	}
	if c.SubscriberBuffer == 0 {
		c.SubscriberBuffer = 256
	}
	if c.StalenessWindow == 0 {
		c.StalenessWindow = 5 * time.Second
	}
	if c.ViewSpan == 0 {
		c.ViewSpan = 30 * time.Second
	}
	if c.TargetPoints == 0 {
		c.TargetPoints = 500
	}
	if c.DecimationWorkers == 0 {
		c.DecimationWorkers = 2
	}
	if c.DecimationQueue == 0 {
		c.DecimationQueue = 16
	}
}

// Validate checks the configuration for invalid values.
func (c Config) Validate() error {
	if c.FieldCapacity < 1 {
		return fmt.Errorf("%w: field capacity must be positive, got %d", domain.ErrInvalidConfig, c.FieldCapacity)
	}
	if c.SubscriberBuffer < 1 {
		return fmt.Errorf("%w: subscriber buffer must be positive, got %d", domain.ErrInvalidConfig, c.SubscriberBuffer)
	}
	if c.TargetPoints < 2 {
		return fmt.Errorf("%w: target points must be at least 2, got %d", domain.ErrInvalidConfig, c.TargetPoints)
	}
	if c.StalenessWindow < 0 {
		return fmt.Errorf("%w: staleness window must not be negative", domain.ErrInvalidConfig)
	}
	if c.ViewSpan <= 0 {
		return fmt.Errorf("%w: view span must be positive", domain.ErrInvalidConfig)
	}
	if c.DecimationWorkers < 1 {
		return fmt.Errorf("%w: decimation workers must be positive, got %d", domain.ErrInvalidConfig, c.DecimationWorkers)
	}
	if c.DecimationQueue < 1 {
		return fmt.Errorf("%w: decimation queue must be positive, got %d", domain.ErrInvalidConfig, c.DecimationQueue)
	}
	return nil
}
