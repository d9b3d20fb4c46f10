// Package replay provides a byte source that feeds a captured telemetry
// stream from a file, in configurable chunk sizes at a configurable pace.
// It doubles as the synthetic source for development and testing.
package replay

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/gl-labs/groundlink/pkg/log"
)

// Source replays a capture file.
type Source struct {
	path     string
	chunk    int
	interval time.Duration
	logger   log.Logger

	file *os.File
}

// NewSource creates a Source replaying path. chunk bytes are delivered per
// Read, with interval between deliveries; interval zero replays as fast as
// the pipeline consumes.
func NewSource(path string, chunk int, interval time.Duration, logger log.Logger) *Source {
	if chunk <= 0 {
		chunk = 1024
	}
	return &Source{path: path, chunk: chunk, interval: interval, logger: logger}
}

// Open opens the capture file.
func (s *Source) Open(ctx context.Context) error {
	f, err := os.Open(s.path)
	if err != nil {
		return fmt.Errorf("open capture: %w", err)
	}
	s.file = f
	s.logger.Info("replaying capture",
		log.String("path", s.path),
		log.Int("chunk", s.chunk),
		log.Duration("interval", s.interval))
	return nil
}

// Read delivers the next chunk. Returns io.EOF once the capture ends.
func (s *Source) Read(ctx context.Context, p []byte) (int, error) {
	if s.interval > 0 {
		select {
		case <-ctx.Done():
			return 0, ctx.Err()
		case <-time.After(s.interval):
		}
	} else if err := ctx.Err(); err != nil {
		return 0, err
	}

	limit := len(p)
	if limit > s.chunk {
		limit = s.chunk
	}
	return s.file.Read(p[:limit])
}

// Close closes the capture file.
func (s *Source) Close() error {
	if s.file == nil {
		return nil
	}
	return s.file.Close()
}
