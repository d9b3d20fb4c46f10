package app

import (
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/gl-labs/groundlink/internal/domain"
	"github.com/gl-labs/groundlink/internal/ports"
	"github.com/gl-labs/groundlink/pkg/dialect"
	"github.com/gl-labs/groundlink/pkg/extract"
	"github.com/gl-labs/groundlink/pkg/frame"
	"github.com/gl-labs/groundlink/pkg/log"
	"github.com/gl-labs/groundlink/pkg/series"
)

// PipelineConfig contains configuration for the ingestion loop.
type PipelineConfig struct {
	// ReadBuffer is the size of the chunk buffer handed to the source.
	ReadBuffer int

	// SubscriberBuffer is the channel depth for each subscriber.
	SubscriberBuffer int

	// StalenessWindow is how long without a valid frame before Stale()
	// reports true. Zero disables the judgment.
	StalenessWindow time.Duration
}

// Pipeline drives the ingestion path: bytes from a source through the frame
// decoder and field extractor into the time-series store, with a fan-out of
// decoded values to subscribers. One Pipeline owns one producer goroutine;
// this path must never block, so slow subscribers lose events rather than
// stalling ingestion.
type Pipeline struct {
	cfg       PipelineConfig
	registry  *dialect.Registry
	decoder   *frame.Decoder
	extractor *extract.Extractor
	store     *series.Store
	logger    log.Logger
	metrics   *Metrics

	mu   sync.RWMutex
	subs map[uuid.UUID]chan extract.Value
}

// NewPipeline creates a Pipeline. metrics may be nil.
func NewPipeline(cfg PipelineConfig, registry *dialect.Registry, store *series.Store, logger log.Logger) *Pipeline {
	if cfg.ReadBuffer <= 0 {
		cfg.ReadBuffer = 4096
	}
	if cfg.SubscriberBuffer <= 0 {
		cfg.SubscriberBuffer = 256
	}
	return &Pipeline{
		cfg:       cfg,
		registry:  registry,
		decoder:   frame.NewDecoder(registry, logger),
		extractor: extract.NewExtractor(logger),
		store:     store,
		logger:    logger,
		subs:      make(map[uuid.UUID]chan extract.Value),
	}
}

// SetMetrics attaches Prometheus instruments. Call before Run.
func (p *Pipeline) SetMetrics(m *Metrics) {
	p.metrics = m
}

// Decoder exposes the pipeline's frame decoder for metrics wiring.
func (p *Pipeline) Decoder() *frame.Decoder {
	return p.decoder
}

// Store returns the time-series store fed by this pipeline.
func (p *Pipeline) Store() *series.Store {
	return p.store
}

// Run reads the source until ctx is done or the source ends. It is the
// single producer: all decoding and store appends happen here.
func (p *Pipeline) Run(ctx context.Context, src ports.ByteSource) error {
	if p.registry.Schema() == nil {
		return domain.ErrNoDialect
	}

	if err := src.Open(ctx); err != nil {
		return err
	}
	defer src.Close()

	buf := make([]byte, p.cfg.ReadBuffer)
	for {
		n, err := src.Read(ctx, buf)
		if n > 0 {
			p.ingest(buf[:n])
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				p.logger.Info("byte source ended")
				return nil
			}
			if errors.Is(err, context.Canceled) || ctx.Err() != nil {
				return ctx.Err()
			}
			return err
		}
	}
}

func (p *Pipeline) ingest(chunk []byte) {
	frames := p.decoder.Feed(chunk)
	if len(frames) == 0 {
		return
	}

	now := time.Now()
	schema := p.registry.Schema()
	for _, f := range frames {
		msg, ok := schema.MessageByID(f.MessageID)
		if !ok {
			// The dialect was swapped between decode and extract.
			continue
		}
		values := p.extractor.Extract(f, msg, now)
		for _, v := range values {
			p.store.Append(v.Key, v.Time, v.Value)
		}
		p.metrics.addIngested(len(values))
		p.publish(values)
	}
}

// publish fans decoded values out to subscribers. Sends never block: a full
// subscriber channel drops the event and bumps the drop counter.
func (p *Pipeline) publish(values []extract.Value) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if len(p.subs) == 0 {
		return
	}

	dropped := 0
	for _, ch := range p.subs {
		for _, v := range values {
			select {
			case ch <- v:
			default:
				dropped++
			}
		}
	}
	p.metrics.addDropped(dropped)
}

// Subscribe registers a decoded-value listener. The returned channel is
// buffered; events are dropped, never blocked on, when it is full. The
// token unregisters via Unsubscribe.
func (p *Pipeline) Subscribe() (uuid.UUID, <-chan extract.Value) {
	id := uuid.New()
	ch := make(chan extract.Value, p.cfg.SubscriberBuffer)

	p.mu.Lock()
	p.subs[id] = ch
	p.mu.Unlock()

	return id, ch
}

// Unsubscribe removes a listener and closes its channel.
func (p *Pipeline) Unsubscribe(id uuid.UUID) {
	p.mu.Lock()
	ch, ok := p.subs[id]
	if ok {
		delete(p.subs, id)
	}
	p.mu.Unlock()

	if ok {
		close(ch)
	}
}

// Stats returns the decoder's counter snapshot.
func (p *Pipeline) Stats() frame.Stats {
	return p.decoder.Stats()
}

// Stale reports whether no valid frame has arrived within the configured
// staleness window. The pipeline only surfaces the judgment; what to show a
// user is the presentation layer's call.
func (p *Pipeline) Stale(now time.Time) bool {
	if p.cfg.StalenessWindow <= 0 {
		return false
	}
	last := p.decoder.Stats().LastFrame
	if last.IsZero() {
		return true
	}
	return now.Sub(last) > p.cfg.StalenessWindow
}
