// Package decimate reduces long sample series to a bounded number of
// visually faithful points.
//
// LTTB (Largest-Triangle-Three-Buckets) partitions the interior of the
// series into equal fractional buckets and keeps, per bucket, the point
// forming the largest triangle with the previous kept point and the next
// bucket's average. The first and last points are always kept.
//
// The Pool runs reductions on worker goroutines so redraw-driven consumers
// never compute on their own thread:
//
//	pool := decimate.NewPool(2, 8)
//	defer pool.Close()
//	pool.Submit(ctx, decimate.Request{Seq: seq, Points: pts, Target: 500})
//	res := <-pool.Results() // ignore if res.Seq is stale
package decimate
