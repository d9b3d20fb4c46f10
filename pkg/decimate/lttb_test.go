package decimate

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/gl-labs/groundlink/pkg/series"
)

var base = time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

func mk(pairs ...float64) []series.Sample {
	if len(pairs)%2 != 0 {
		panic("mk wants (t, v) pairs")
	}
	out := make([]series.Sample, 0, len(pairs)/2)
	for i := 0; i < len(pairs); i += 2 {
		out = append(out, series.Sample{
			Time:  base.Add(time.Duration(pairs[i]) * time.Second),
			Value: pairs[i+1],
		})
	}
	return out
}

func TestLTTBShortInputUnchanged(t *testing.T) {
	in := mk(0, 1, 1, 2, 2, 3)

	for _, target := range []int{3, 5, 100} {
		got := LTTB(in, target)
		if len(got) != len(in) {
			t.Fatalf("target %d: expected input unchanged, got %d points", target, len(got))
		}
		for i := range in {
			if got[i] != in[i] {
				t.Fatalf("target %d: point %d changed", target, i)
			}
		}
	}
}

func TestLTTBExactLength(t *testing.T) {
	var in []series.Sample
	for i := 0; i < 1000; i++ {
		in = append(in, series.Sample{
			Time:  base.Add(time.Duration(i) * time.Millisecond),
			Value: math.Sin(float64(i) / 20),
		})
	}

	for _, target := range []int{2, 3, 10, 117, 500} {
		got := LTTB(in, target)
		if len(got) != target {
			t.Fatalf("target %d: got %d points", target, len(got))
		}
		if got[0] != in[0] || got[len(got)-1] != in[len(in)-1] {
			t.Fatalf("target %d: anchors not preserved", target)
		}
		for i := 1; i < len(got); i++ {
			if got[i].Time.Before(got[i-1].Time) {
				t.Fatalf("target %d: output not ascending at %d", target, i)
			}
		}
	}
}

func TestLTTBKeepsPeaks(t *testing.T) {
	// A zigzag decimated to 3 points must keep one of the peaks, not the
	// valley between them.
	in := mk(0, 0, 1, 10, 2, 0, 3, 10, 4, 0)
	got := LTTB(in, 3)

	if len(got) != 3 {
		t.Fatalf("expected 3 points, got %d", len(got))
	}
	if got[0] != in[0] || got[2] != in[4] {
		t.Fatal("anchors not preserved")
	}
	if got[1].Value != 10 {
		t.Fatalf("interior point is not a peak: %+v", got[1])
	}
}

func TestLTTBCollinearInput(t *testing.T) {
	// All triangle areas are zero; the zero-area candidates must still be
	// selectable and the output still exactly target long.
	var in []series.Sample
	for i := 0; i < 100; i++ {
		in = append(in, series.Sample{
			Time:  base.Add(time.Duration(i) * time.Second),
			Value: float64(i) * 2,
		})
	}
	got := LTTB(in, 10)
	if len(got) != 10 {
		t.Fatalf("expected 10 points, got %d", len(got))
	}
}

func TestLTTBDeterministic(t *testing.T) {
	var in []series.Sample
	for i := 0; i < 500; i++ {
		in = append(in, series.Sample{
			Time:  base.Add(time.Duration(i) * time.Second),
			Value: math.Mod(float64(i*i), 37),
		})
	}
	a := LTTB(in, 50)
	b := LTTB(in, 50)
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("reduction not deterministic at %d", i)
		}
	}
}

func TestPoolDeliversResults(t *testing.T) {
	pool := NewPool(2, 4)
	defer pool.Close()

	in := mk(0, 0, 1, 10, 2, 0, 3, 10, 4, 0)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := pool.Submit(ctx, Request{Seq: 1, Points: in, Target: 3}); err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}

	select {
	case res := <-pool.Results():
		if res.Seq != 1 {
			t.Fatalf("expected seq 1, got %d", res.Seq)
		}
		if len(res.Points) != 3 {
			t.Fatalf("expected 3 points, got %d", len(res.Points))
		}
	case <-ctx.Done():
		t.Fatal("timed out waiting for result")
	}
}

func TestPoolSupersededRequests(t *testing.T) {
	pool := NewPool(1, 8)
	defer pool.Close()

	var in []series.Sample
	for i := 0; i < 200; i++ {
		in = append(in, series.Sample{Time: base.Add(time.Duration(i) * time.Second), Value: float64(i)})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	const last = 5
	for seq := uint64(1); seq <= last; seq++ {
		if err := pool.Submit(ctx, Request{Seq: seq, Points: in, Target: 20}); err != nil {
			t.Fatalf("Submit %d: %v", seq, err)
		}
	}

	// Stale results are ignored by sequence number; the latest must arrive.
	for {
		select {
		case res := <-pool.Results():
			if res.Seq == last {
				return
			}
		case <-ctx.Done():
			t.Fatal("latest result never arrived")
		}
	}
}

func TestPoolSubmitAfterClose(t *testing.T) {
	pool := NewPool(1, 1)
	if err := pool.Close(); err != nil {
		t.Fatalf("Close returned error: %v", err)
	}
	err := pool.Submit(context.Background(), Request{Seq: 1, Points: mk(0, 0, 1, 1, 2, 2), Target: 2})
	if err != ErrPoolClosed {
		t.Fatalf("expected ErrPoolClosed, got %v", err)
	}
}
