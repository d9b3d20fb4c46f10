package app

import (
	"context"
	"sync"
	"time"

	"github.com/gl-labs/groundlink/pkg/decimate"
	"github.com/gl-labs/groundlink/pkg/series"
)

// ViewConfig controls live-window queries and decimation.
type ViewConfig struct {
	// Span is the width of the live window.
	Span time.Duration

	// TargetPoints bounds the number of points per refreshed series.
	TargetPoints int

	// EnableDecimation turns LTTB reduction on. When off, Refresh publishes
	// the raw windowed series.
	EnableDecimation bool
}

// View implements the consumer-side windowing policy over a stateless
// store: a sliding window that freezes its boundaries at the pause instant
// while the store is paused, plus asynchronous decimation with stale-result
// discarding. The store itself knows none of this.
type View struct {
	cfg   ViewConfig
	store *series.Store
	pool  *decimate.Pool

	mu      sync.Mutex
	nextSeq uint64
	issued  map[string]uint64 // key -> latest sequence issued
	pending map[uint64]string // sequence -> key
	current map[string][]series.Sample
}

// NewView creates a View over store. pool may be nil when decimation is
// disabled.
func NewView(cfg ViewConfig, store *series.Store, pool *decimate.Pool) *View {
	if cfg.Span <= 0 {
		cfg.Span = 30 * time.Second
	}
	if cfg.TargetPoints < 2 {
		cfg.TargetPoints = 2
	}
	return &View{
		cfg:     cfg,
		store:   store,
		pool:    pool,
		issued:  make(map[string]uint64),
		pending: make(map[uint64]string),
		current: make(map[string][]series.Sample),
	}
}

// Window returns the live window ending at now, or frozen at the pause
// instant while the store is paused. Ingestion continues regardless; only
// the view boundary freezes.
func (v *View) Window(now time.Time) series.Window {
	end := now
	if pausedAt, ok := v.store.PausedAt(); ok {
		end = pausedAt
	}
	return series.Window{Start: end.Add(-v.cfg.Span), Cutoff: end}
}

// Refresh queries the field's live window and schedules decimation. Series
// short enough to need no reduction, and all series when decimation is
// disabled, are published synchronously. Each scheduled request supersedes
// any in flight for the same key.
func (v *View) Refresh(ctx context.Context, key string, now time.Time) error {
	pts := v.store.Query(key, v.Window(now))

	if !v.cfg.EnableDecimation || v.pool == nil || len(pts) <= v.cfg.TargetPoints {
		v.mu.Lock()
		v.current[key] = pts
		v.mu.Unlock()
		return nil
	}

	v.mu.Lock()
	v.nextSeq++
	seq := v.nextSeq
	v.issued[key] = seq
	v.pending[seq] = key
	v.mu.Unlock()

	err := v.pool.Submit(ctx, decimate.Request{Seq: seq, Points: pts, Target: v.cfg.TargetPoints})
	if err != nil {
		v.mu.Lock()
		delete(v.pending, seq)
		v.mu.Unlock()
	}
	return err
}

// Collect drains finished decimation results without blocking. Results
// superseded by a newer Refresh for the same key are discarded.
func (v *View) Collect() {
	if v.pool == nil {
		return
	}
	for {
		select {
		case res := <-v.pool.Results():
			v.accept(res)
		default:
			return
		}
	}
}

func (v *View) accept(res decimate.Result) {
	v.mu.Lock()
	defer v.mu.Unlock()

	key, ok := v.pending[res.Seq]
	if !ok {
		return
	}
	delete(v.pending, res.Seq)

	if v.issued[key] != res.Seq {
		// A newer request for this key is in flight; this result is stale.
		return
	}
	v.current[key] = res.Points
}

// Points returns the most recently published series for the field. The
// slice is shared; callers must not mutate it.
func (v *View) Points(key string) []series.Sample {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.current[key]
}
