package decimate

import (
	"math"

	"github.com/gl-labs/groundlink/pkg/series"
)

// LTTB reduces an ascending (timestamp, value) series to at most target
// points using Largest-Triangle-Three-Buckets, which preserves peaks,
// troughs, and slope changes far better than stride sampling.
//
// The first and last input points are always kept verbatim. Series no longer
// than target are returned unchanged, so the reduction is idempotent on
// small inputs. The result has exactly target points unless a bucket at the
// stream's tail is genuinely empty.
func LTTB(in []series.Sample, target int) []series.Sample {
	n := len(in)
	if target < 2 || n <= target {
		return in
	}

	out := make([]series.Sample, 0, target)
	out = append(out, in[0])

	// Fractional bucket size, floored only at bucket boundaries. Rounding it
	// away would bias every boundary and starve the final buckets.
	bucketSize := float64(n-2) / float64(target-2)

	prev := 0
	for b := 0; b < target-2; b++ {
		lo := int(math.Floor(float64(b)*bucketSize)) + 1
		hi := int(math.Floor(float64(b+1)*bucketSize)) + 1
		if hi > n-1 {
			hi = n - 1
		}
		if lo >= hi {
			// Bucket empty at the stream's tail; nothing to select.
			continue
		}

		anchorT, anchorV := nextBucketAverage(in, b, bucketSize)

		// Pick the candidate forming the largest triangle with the previous
		// selected point and the synthetic right anchor. Areas start from a
		// -1 sentinel: a legitimate area can be zero (collinear points) and
		// must still win when it is the only candidate.
		maxArea := -1.0
		selected := lo
		prevT := float64(in[prev].Time.UnixNano())
		prevV := in[prev].Value
		for j := lo; j < hi; j++ {
			t := float64(in[j].Time.UnixNano())
			v := in[j].Value
			area := math.Abs(prevT*(v-anchorV)+t*(anchorV-prevV)+anchorT*(prevV-v)) / 2
			if area > maxArea {
				maxArea = area
				selected = j
			}
		}

		out = append(out, in[selected])
		prev = selected
	}

	return append(out, in[n-1])
}

// nextBucketAverage returns the mean (timestamp, value) of bucket b+1, the
// synthetic right anchor for bucket b's triangles. An empty next bucket
// falls back to the true last point.
func nextBucketAverage(in []series.Sample, b int, bucketSize float64) (float64, float64) {
	n := len(in)
	lo := int(math.Floor(float64(b+1)*bucketSize)) + 1
	hi := int(math.Floor(float64(b+2)*bucketSize)) + 1
	if lo > n-1 {
		lo = n - 1
	}
	if hi > n-1 {
		hi = n - 1
	}
	if lo >= hi {
		last := in[n-1]
		return float64(last.Time.UnixNano()), last.Value
	}

	var sumT, sumV float64
	for j := lo; j < hi; j++ {
		sumT += float64(in[j].Time.UnixNano())
		sumV += in[j].Value
	}
	count := float64(hi - lo)
	return sumT / count, sumV / count
}
