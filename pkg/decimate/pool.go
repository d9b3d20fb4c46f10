package decimate

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"

	"github.com/gl-labs/groundlink/pkg/series"
)

// ErrPoolClosed is returned by Submit after Close.
var ErrPoolClosed = errors.New("decimate: pool closed")

// Request is one decimation task. Seq is a caller-assigned, monotonically
// increasing sequence number; consumers use it to discard results superseded
// by a newer request.
type Request struct {
	Seq    uint64
	Points []series.Sample
	Target int
}

// Result carries a finished reduction back to the consumer.
type Result struct {
	Seq    uint64
	Points []series.Sample
}

// Pool runs LTTB reductions off the caller's goroutine. Decimation is
// CPU-bound and must not run on the thread driving redraw; the pool makes
// the scheduling contract explicit: tasks in, results out, nothing implicit.
// The computation itself is pure, so redundant or superseded requests are
// safe to run and cheap to ignore.
type Pool struct {
	jobs    chan Request
	results chan Result
	group   *errgroup.Group
	ctx     context.Context
	cancel  context.CancelFunc
}

// NewPool starts workers goroutines processing requests. queue bounds the
// number of requests waiting; a consumer issuing requests faster than the
// pool drains them blocks in Submit or times out via its context.
func NewPool(workers, queue int) *Pool {
	if workers < 1 {
		workers = 1
	}
	if queue < 1 {
		queue = 1
	}

	ctx, cancel := context.WithCancel(context.Background())
	g, gctx := errgroup.WithContext(ctx)

	p := &Pool{
		jobs:    make(chan Request, queue),
		results: make(chan Result, queue),
		group:   g,
		ctx:     gctx,
		cancel:  cancel,
	}

	for i := 0; i < workers; i++ {
		g.Go(func() error {
			for {
				select {
				case <-gctx.Done():
					return nil
				case req, ok := <-p.jobs:
					if !ok {
						return nil
					}
					res := Result{Seq: req.Seq, Points: LTTB(req.Points, req.Target)}
					select {
					case p.results <- res:
					case <-gctx.Done():
						return nil
					}
				}
			}
		})
	}
	return p
}

// Submit queues a request. It blocks while the queue is full until ctx is
// done or the pool closes.
func (p *Pool) Submit(ctx context.Context, req Request) error {
	select {
	case p.jobs <- req:
		return nil
	case <-p.ctx.Done():
		return ErrPoolClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Results returns the completion channel. Results arrive in completion
// order, not submission order; check Seq.
func (p *Pool) Results() <-chan Result {
	return p.results
}

// Close stops the workers and waits for them to exit. Pending queued
// requests are abandoned.
func (p *Pool) Close() error {
	p.cancel()
	return p.group.Wait()
}
